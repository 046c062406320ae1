package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// perform sends a request through the router and returns the recorder.
func perform(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// corsRouter wires the CORS middleware in front of a trivial GET handler.
func corsRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/invoices", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORS(t *testing.T) {
	router := corsRouter(CORS())

	t.Run("rejects cross-origin request with empty whitelist default", func(t *testing.T) {
		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://malicious.example"})

		// The handler still runs, but no CORS headers means browsers refuse access.
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allows same-origin request with empty whitelist default", func(t *testing.T) {
		w := perform(router, "GET", "/invoices", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("handles OPTIONS preflight with empty whitelist", func(t *testing.T) {
		w := perform(router, "OPTIONS", "/invoices", map[string]string{"Origin": "http://some-origin.example"})

		// Preflights always get 204, just without CORS headers.
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestCORSWithConfig(t *testing.T) {
	t.Run("allows specific origin", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins:     []string{"http://app.renovabill.localhost:3000"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://app.renovabill.localhost:3000"})

		assert.Equal(t, "http://app.renovabill.localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("allows multiple specific origins", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins:     []string{"http://app.renovabill.localhost:3000", "http://portal.renovabill.fr"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://app.renovabill.localhost:3000"})
		assert.Equal(t, "http://app.renovabill.localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

		w = perform(router, "GET", "/invoices", map[string]string{"Origin": "http://portal.renovabill.fr"})
		assert.Equal(t, "http://portal.renovabill.fr", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rejects non-allowed origin", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://allowed.example"},
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://not-allowed.example"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty whitelist rejects all cross-origin requests", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://any-origin.example"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard allows all origins", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Content-Type"},
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://any-origin.example"})
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("credentials not set with wildcard origin even if configured", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}))

		// Browsers reject credentials alongside a "*" origin, so the header
		// must be withheld.
		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://portal.renovabill.fr"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("sets Max-Age header correctly", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://app.renovabill.localhost:3000"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://app.renovabill.localhost:3000"})
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("sets expose headers correctly", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins:  []string{"http://app.renovabill.localhost:3000"},
			AllowMethods:  []string{"GET"},
			AllowHeaders:  []string{"Content-Type"},
			ExposeHeaders: []string{"X-Request-ID", "X-Custom-Header"},
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://app.renovabill.localhost:3000"})
		assert.Equal(t, "X-Request-ID, X-Custom-Header", w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("handles OPTIONS preflight with allowed origin", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://app.renovabill.localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PUT"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
		}))

		w := perform(router, "OPTIONS", "/invoices", map[string]string{"Origin": "http://app.renovabill.localhost:3000"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://app.renovabill.localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("handles OPTIONS preflight with disallowed origin", func(t *testing.T) {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://allowed.example"},
			AllowMethods: []string{"GET", "POST"},
		}))

		w := perform(router, "OPTIONS", "/invoices", map[string]string{"Origin": "http://not-allowed.example"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/invoices", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates request ID", func(t *testing.T) {
		w := perform(router, "GET", "/invoices", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.NotEmpty(t, w.Body.String())
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		w := perform(router, "GET", "/invoices", map[string]string{"X-Request-ID": "req-4421"})

		assert.Equal(t, "req-4421", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-4421", w.Body.String())
	})
}

func TestSecure(t *testing.T) {
	w := perform(corsRouter(Secure()), "GET", "/invoices", nil)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")

	// HSTS stays off until the deployment serves HTTPS.
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	permPolicy := w.Header().Get("Permissions-Policy")
	assert.Contains(t, permPolicy, "camera=()")
	assert.Contains(t, permPolicy, "microphone=()")
}

func TestSecureWithConfig(t *testing.T) {
	t.Run("custom CSP directive", func(t *testing.T) {
		w := perform(corsRouter(SecureWithConfig(SecurityConfig{
			CSPEnabled:   true,
			CSPDirective: "default-src 'none'; script-src 'self'",
		})), "GET", "/invoices", nil)

		assert.Equal(t, "default-src 'none'; script-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Permissions-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS enabled with all options", func(t *testing.T) {
		w := perform(corsRouter(SecureWithConfig(SecurityConfig{
			HSTSEnabled:           true,
			HSTSMaxAge:            63072000,
			HSTSIncludeSubdomains: true,
			HSTSPreload:           true,
		})), "GET", "/invoices", nil)

		assert.Equal(t, "max-age=63072000; includeSubDomains; preload",
			w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS enabled without optional flags", func(t *testing.T) {
		w := perform(corsRouter(SecureWithConfig(SecurityConfig{
			HSTSEnabled: true,
			HSTSMaxAge:  31536000,
		})), "GET", "/invoices", nil)

		assert.Equal(t, "max-age=31536000", w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("custom Permissions-Policy directive", func(t *testing.T) {
		w := perform(corsRouter(SecureWithConfig(SecurityConfig{
			PermissionsPolicyEnabled:   true,
			PermissionsPolicyDirective: "geolocation=(self), microphone=()",
		})), "GET", "/invoices", nil)

		assert.Equal(t, "geolocation=(self), microphone=()", w.Header().Get("Permissions-Policy"))
	})

	t.Run("all optional headers disabled", func(t *testing.T) {
		w := perform(corsRouter(SecureWithConfig(SecurityConfig{})), "GET", "/invoices", nil)

		// The baseline headers are unconditional.
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("Permissions-Policy"))
	})

	t.Run("all headers enabled with full config", func(t *testing.T) {
		w := perform(corsRouter(SecureWithConfig(SecurityConfig{
			HSTSEnabled:                true,
			HSTSMaxAge:                 31536000,
			HSTSIncludeSubdomains:      true,
			CSPEnabled:                 true,
			CSPDirective:               "default-src 'self'",
			PermissionsPolicyEnabled:   true,
			PermissionsPolicyDirective: "camera=(), microphone=()",
		})), "GET", "/invoices", nil)

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
		assert.Equal(t, "camera=(), microphone=()", w.Header().Get("Permissions-Policy"))
	})
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.False(t, cfg.HSTSEnabled)
	assert.Equal(t, 31536000, cfg.HSTSMaxAge)
	assert.True(t, cfg.HSTSIncludeSubdomains)
	assert.False(t, cfg.HSTSPreload)

	assert.True(t, cfg.CSPEnabled)
	assert.Contains(t, cfg.CSPDirective, "default-src 'self'")
	assert.Contains(t, cfg.CSPDirective, "frame-ancestors 'none'")

	assert.True(t, cfg.PermissionsPolicyEnabled)
	assert.Contains(t, cfg.PermissionsPolicyDirective, "camera=()")
	assert.Contains(t, cfg.PermissionsPolicyDirective, "microphone=()")
}

func TestTimeout(t *testing.T) {
	w := perform(corsRouter(Timeout(30*time.Second)), "GET", "/invoices", nil)
	assert.Equal(t, "30s", w.Header().Get("X-Request-Timeout"))
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	id2 := generateRequestID()

	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 32) // 16 bytes hex encoded
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	// Cross-origin access is opt-in, so the default whitelist is empty.
	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowMethods, "GET")
	assert.Contains(t, cfg.AllowMethods, "POST")
	assert.Contains(t, cfg.AllowHeaders, "Content-Type")
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

// Max-Age must be the duration in whole seconds as a decimal string.
func TestMaxAgeHeaderFormat(t *testing.T) {
	for _, tt := range []struct {
		maxAge   time.Duration
		expected string
	}{
		{time.Hour, "3600"},
		{12 * time.Hour, "43200"},
		{30 * time.Second, "30"},
	} {
		router := corsRouter(CORSWithConfig(CORSConfig{
			AllowOrigins: []string{"http://app.renovabill.localhost:3000"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       tt.maxAge,
		}))

		w := perform(router, "GET", "/invoices", map[string]string{"Origin": "http://app.renovabill.localhost:3000"})
		assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Max-Age"))
	}
}
