package utils

import (
	"crypto/subtle"
)

// Credentials is the single configured account allowed to log in.
// When PasswordHash is set it takes precedence over the plaintext Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

func (c Credentials) Configured() bool {
	return c.Username != "" && (c.Password != "" || c.PasswordHash != "")
}

// Match compares both fields without short-circuiting so that a wrong username
// and a wrong password take the same path.
func (c Credentials) Match(username, password string) bool {
	if !c.Configured() {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1

	var passOK bool
	if c.PasswordHash != "" {
		ok, err := ComparePass(password, c.PasswordHash)
		passOK = err == nil && ok
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}

	return userOK && passOK
}
