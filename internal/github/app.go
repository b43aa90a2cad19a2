package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v62/github"

	custom_errors "archgen/internal/errors"
)

const (
	jwtBackdate = 60 * time.Second
	jwtLifetime = 600 * time.Second
)

// MintAppJWT signs the short-lived RS256 token GitHub expects from an App.
func MintAppJWT(appID, privateKeyPEM string, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(ToPKCS8(privateKeyPEM)))
	if err != nil {
		return "", &custom_errors.AuthError{Message: "invalid app private key", Cause: err}
	}

	claims := jwt.RegisteredClaims{
		Issuer:    appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-jwtBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", &custom_errors.AuthError{Message: "failed to sign app jwt", Cause: err}
	}
	return signed, nil
}

// AppAuthenticator obtains installation access tokens for a GitHub App.
// Tokens are minted per call and never cached.
type AppAuthenticator struct {
	client     *Client
	appID      string
	privateKey string
	now        func() time.Time
	logger     *slog.Logger
}

// NewAppAuthenticator returns nil when either credential is missing, which
// callers treat as "App not configured".
func NewAppAuthenticator(client *Client, appID, privateKey string, logger *slog.Logger) *AppAuthenticator {
	if appID == "" || privateKey == "" {
		return nil
	}
	if !IsKnownKeyFormat(privateKey) {
		logger.Warn("GitHub App private key has no recognised PEM marker, using it as-is")
	}
	return &AppAuthenticator{
		client:     client,
		appID:      appID,
		privateKey: privateKey,
		now:        time.Now,
		logger:     logger,
	}
}

// ExchangeForInstallationToken trades an App JWT for an installation token.
func (a *AppAuthenticator) ExchangeForInstallationToken(ctx context.Context, appJWT string, installationID int64) (string, error) {
	gh := github.NewClient(a.client.httpClient).WithAuthToken(appJWT)
	gh.BaseURL = a.client.baseURL

	token, _, err := gh.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		authErr := &custom_errors.AuthError{StatusCode: statusOf(err), Message: "installation token exchange failed", Cause: err}
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Message != "" {
			authErr.Message = errResp.Message
		}
		return "", authErr
	}
	if token.GetToken() == "" {
		return "", &custom_errors.AuthError{Message: "installation token response had no token"}
	}
	return token.GetToken(), nil
}

// InstallationToken mints a fresh App JWT and exchanges it.
func (a *AppAuthenticator) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	appJWT, err := MintAppJWT(a.appID, a.privateKey, a.now())
	if err != nil {
		return "", err
	}
	a.logger.Debug("Exchanging app jwt for installation token", "installation_id", installationID)

	token, err := a.ExchangeForInstallationToken(ctx, appJWT, installationID)
	if err != nil {
		return "", fmt.Errorf("installation %d: %w", installationID, err)
	}
	return token, nil
}
