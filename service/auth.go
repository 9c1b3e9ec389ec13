package service

import (
	"strings"
	"time"

	"imghost/errs"
	"imghost/models"
	"imghost/utils"
)

const (
	msgNotAuthenticated   = "Not authenticated"
	msgMisconfigured      = "Server configuration error"
	msgInvalidToken       = "Invalid or expired token"
	msgInvalidCredentials = "Invalid username or password"
)

// Auth guards the single configured account with stateless session tokens.
// There is no revocation: logging out only discards the client's copy.
type Auth struct {
	creds  utils.Credentials
	tokens *utils.Tokens
}

func NewAuth(creds utils.Credentials, tokens *utils.Tokens) *Auth {
	return &Auth{creds: creds, tokens: tokens}
}

func (a *Auth) TokenTTL() time.Duration {
	return a.tokens.TTL()
}

// Login returns a signed token when username and password match the configured account.
// Wrong username and wrong password produce the same error.
func (a *Auth) Login(username, password string) (string, error) {
	if !a.creds.Configured() || !a.tokens.Configured() {
		return "", errs.New(errs.Misconfigured, msgMisconfigured)
	}

	if !a.creds.Match(username, password) {
		return "", errs.New(errs.InvalidCredentials, msgInvalidCredentials)
	}

	token, err := a.tokens.Issue(username)
	if err != nil {
		return "", errs.Wrap(errs.Misconfigured, msgMisconfigured, err)
	}
	return token, nil
}

// Authenticate verifies a bearer token taken from the request.
func (a *Auth) Authenticate(token string) (*models.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.New(errs.Unauthenticated, msgNotAuthenticated)
	}
	if !a.tokens.Configured() {
		return nil, errs.New(errs.Misconfigured, msgMisconfigured)
	}

	claims, ok := a.tokens.Verify(token)
	if !ok {
		return nil, errs.New(errs.Unauthenticated, msgInvalidToken)
	}
	return &models.Identity{Username: claims.Username}, nil
}

// Check never fails; any problem reads as not authenticated.
func (a *Auth) Check(token string) models.CheckAuthResponse {
	id, err := a.Authenticate(token)
	if err != nil {
		return models.CheckAuthResponse{Authenticated: false}
	}
	return models.CheckAuthResponse{Authenticated: true, Username: id.Username}
}
