package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// exercise mounts the group under /api/v1 and performs one request.
func exercise(g *DomainGroup, method, path string) *httptest.ResponseRecorder {
	engine := gin.New()
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func textHandler(status int, body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(status, body)
	}
}

func TestNewRouter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := NewRouter(gin.New())

		assert.NotNil(t, r)
		assert.Equal(t, "v1", r.apiVersion)
		assert.Empty(t, r.registrars)
	})

	t.Run("custom api version", func(t *testing.T) {
		r := NewRouter(gin.New(), WithAPIVersion("v2"))
		assert.Equal(t, "v2", r.apiVersion)
	})
}

func TestRouterRegister(t *testing.T) {
	r := NewRouter(gin.New())

	r.Register(NewDomainGroup("billing", "/billing"))

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("system", "/system")
	group.GET("/ping", textHandler(http.StatusOK, "pong"))

	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/system/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("carries name and prefix", func(t *testing.T) {
		g := NewDomainGroup("billing", "/billing")
		assert.Equal(t, "billing", g.Name())
		assert.Equal(t, "/billing", g.Prefix())
	})

	t.Run("registers each HTTP method", func(t *testing.T) {
		tests := []struct {
			method string
			route  string
			path   string
			status int
		}{
			{"GET", "/activities", "/api/v1/billing/activities", http.StatusOK},
			{"POST", "/activities", "/api/v1/billing/activities", http.StatusCreated},
			{"PUT", "/activities/:id", "/api/v1/billing/activities/42", http.StatusOK},
			{"PATCH", "/activities/:id", "/api/v1/billing/activities/42", http.StatusOK},
			{"DELETE", "/activities/:id", "/api/v1/billing/activities/42", http.StatusNoContent},
		}

		for _, tt := range tests {
			t.Run(tt.method, func(t *testing.T) {
				g := NewDomainGroup("billing", "/billing")
				handler := textHandler(tt.status, "")
				switch tt.method {
				case "GET":
					g.GET(tt.route, handler)
				case "POST":
					g.POST(tt.route, handler)
				case "PUT":
					g.PUT(tt.route, handler)
				case "PATCH":
					g.PATCH(tt.route, handler)
				case "DELETE":
					g.DELETE(tt.route, handler)
				}

				w := exercise(g, tt.method, tt.path)
				assert.Equal(t, tt.status, w.Code)
			})
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		g := NewDomainGroup("billing", "/billing")
		g.Use(func(c *gin.Context) {
			c.Header("X-Billing-Scope", "period")
			c.Next()
		})
		g.GET("/activities", textHandler(http.StatusOK, "ok"))

		w := exercise(g, "GET", "/api/v1/billing/activities")

		assert.Equal(t, "period", w.Header().Get("X-Billing-Scope"))
	})

	t.Run("nests subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("billing", "/billing")

		invoices := g.Group("invoices", "/invoices")
		invoices.GET("", textHandler(http.StatusOK, "invoices list"))

		claims := g.Group("claims", "/claims")
		claims.GET("", textHandler(http.StatusOK, "claims list"))

		g.RegisterRoutes(engine.Group("/api/v1"))

		w1 := httptest.NewRecorder()
		engine.ServeHTTP(w1, httptest.NewRequest("GET", "/api/v1/billing/invoices", nil))
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "invoices list", w1.Body.String())

		w2 := httptest.NewRecorder()
		engine.ServeHTTP(w2, httptest.NewRequest("GET", "/api/v1/billing/claims", nil))
		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "claims list", w2.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.GET("/drafts", textHandler(http.StatusOK, "drafts"))

	collaborators := NewDomainGroup("collaborators", "/collaborators")
	collaborators.GET("/active", textHandler(http.StatusOK, "active"))

	r.Register(invoices).Register(collaborators)
	r.Setup()

	w1 := httptest.NewRecorder()
	engine.ServeHTTP(w1, httptest.NewRequest("GET", "/api/v1/invoices/drafts", nil))
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "drafts", w1.Body.String())

	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, httptest.NewRequest("GET", "/api/v1/collaborators/active", nil))
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "active", w2.Body.String())
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("billing", "/billing")
	g.GET("/periods", textHandler(http.StatusOK, "periods")).
		POST("/periods", textHandler(http.StatusOK, "created")).
		PUT("/periods/current", textHandler(http.StatusOK, "updated"))

	r.Register(g).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/billing/periods"},
		{"POST", "/api/v1/billing/periods"},
		{"PUT", "/api/v1/billing/periods/current"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "route %s %s should be registered", tt.method, tt.path)
	}
}
