package middlewares

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"imghost/config"
	"imghost/models"
)

const (
	blockedReasonHeader = "X-Blocked-Reason"
	countryHeader       = "CF-IPCountry"
)

// Perimeter applies the edge rules in-process for deployments without an edge proxy:
// a country allow-list on the API, a Content-Length pre-check on uploads and
// hotlink, bot and method checks on served images.
func Perimeter(cfg config.Perimeter) gin.HandlerFunc {
	countries := make(map[string]struct{}, len(cfg.AllowedCountries))
	for _, c := range cfg.AllowedCountries {
		countries[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}

	agents := make([]string, 0, len(cfg.BlockedAgents))
	for _, a := range cfg.BlockedAgents {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			agents = append(agents, a)
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if len(countries) > 0 && (strings.HasPrefix(path, "/api/upload") || strings.HasPrefix(path, "/api/images")) {
			country := strings.ToUpper(c.GetHeader(countryHeader))
			if _, ok := countries[country]; country != "" && !ok {
				c.Header(blockedReasonHeader, "Geographic-Restriction")
				c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
					Error: "Access denied from your region",
				})
				return
			}
		}

		if path == "/api/upload" && c.Request.Method == http.MethodPost &&
			cfg.MaxRequestSize > 0 && c.Request.ContentLength > cfg.MaxRequestSize {
			c.Header(blockedReasonHeader, "File-Too-Large")
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error: fmt.Sprintf("File size exceeds %s limit", humanize.IBytes(uint64(cfg.MaxRequestSize))),
			})
			return
		}

		if strings.HasPrefix(path, "/i/") {
			if referer := c.GetHeader("Referer"); referer != "" && !refererAllowed(referer, cfg.AllowedReferers) {
				c.Header(blockedReasonHeader, "Invalid-Referer")
				c.String(http.StatusForbidden, "Hotlinking is not allowed")
				c.Abort()
				return
			}

			ua := strings.ToLower(c.GetHeader("User-Agent"))
			for _, agent := range agents {
				if strings.Contains(ua, agent) {
					c.Header(blockedReasonHeader, "Blocked-User-Agent")
					c.String(http.StatusForbidden, "Access denied")
					c.Abort()
					return
				}
			}

			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.Header("Allow", "GET, HEAD")
				c.String(http.StatusMethodNotAllowed, "Method not allowed")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// refererAllowed matches the referer host against the allow-list. An empty list allows all.
func refererAllowed(referer string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	u, err := url.Parse(referer)
	if err != nil || u.Host == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	hostPort := strings.ToLower(u.Host)
	for _, domain := range allowed {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if hostPort == domain || host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
