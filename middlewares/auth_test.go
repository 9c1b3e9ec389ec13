package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imghost/errs"
	"imghost/models"
)

type stubAuth map[string]string

func (s stubAuth) Authenticate(token string) (*models.Identity, error) {
	if token == "" {
		return nil, errs.New(errs.Unauthenticated, "Not authenticated")
	}
	if token == "misconfigured" {
		return nil, errs.New(errs.Misconfigured, "Server configuration error")
	}
	user, ok := s[token]
	if !ok {
		return nil, errs.New(errs.Unauthenticated, "Invalid or expired token")
	}
	return &models.Identity{Username: user}, nil
}

func gateRouter() *gin.Engine {
	r := gin.New()
	r.Use(JWT(stubAuth{"good": "admin", "other": "viewer"}, "auth_token"))
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.Username)
	})
	return r
}

func TestJWTGate(t *testing.T) {
	r := gateRouter()

	cases := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{"no credential", "", "", http.StatusUnauthorized, `{"success":false,"error":"Not authenticated"}`},
		{"cookie", "", "good", http.StatusOK, "admin"},
		{"bearer header", "Bearer good", "", http.StatusOK, "admin"},
		{"header wins over cookie", "bearer other", "good", http.StatusOK, "viewer"},
		{"non bearer header falls back to cookie", "Basic xyz", "good", http.StatusOK, "admin"},
		{"bad token", "", "forged", http.StatusUnauthorized, `{"success":false,"error":"Invalid or expired token"}`},
		{"misconfigured", "", "misconfigured", http.StatusInternalServerError, `{"success":false,"error":"Server configuration error"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.body, w.Body.String())
			} else {
				assert.JSONEq(t, tc.body, w.Body.String())
			}
		})
	}
}
