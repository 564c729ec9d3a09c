package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthProvider supplies the Authorization header value for API calls.
type AuthProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenAuth authenticates with a personal API key. The tracker expects
// the bare key as the Authorization header.
type TokenAuth struct {
	Key string
}

func (a *TokenAuth) Token(ctx context.Context) (string, error) {
	if a.Key == "" {
		return "", fmt.Errorf("api key is empty")
	}
	return a.Key, nil
}

// AppAuth authenticates as an application actor: a short-lived RS256
// JWT assertion signed with the app's private key is exchanged at the
// tracker's token endpoint for an access token. Tokens are cached until
// shortly before expiry.
type AppAuth struct {
	AppID      string
	PrivateKey string
	TokenURL   string

	httpClient *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// accessToken is the token endpoint response.
type accessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a cached access token, exchanging a fresh JWT assertion
// when the cache is empty or about to expire.
func (a *AppAuth) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Until(a.expires) > time.Minute {
		return "Bearer " + a.token, nil
	}

	assertion, err := a.generateJWT()
	if err != nil {
		return "", err
	}
	tok, err := a.exchange(ctx, assertion)
	if err != nil {
		return "", err
	}

	a.token = tok.AccessToken
	a.expires = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return "Bearer " + a.token, nil
}

// generateJWT creates the signed client assertion.
func (a *AppAuth) generateJWT() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(a.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		Issuer:    a.AppID,
		Subject:   a.AppID,
		Audience:  jwt.ClaimStrings{a.TokenURL},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

// exchange trades the assertion for an access token.
func (a *AppAuth) exchange(ctx context.Context, assertion string) (*accessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_assertion_type", "urn:ietf:params:oauth:client-assertion-type:jwt-bearer")
	form.Set("client_assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	client := a.httpClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint error: %d - %s", resp.StatusCode, string(body))
	}

	var tok accessToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned an empty token")
	}
	return &tok, nil
}
