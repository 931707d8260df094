package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/eventauth/internal/config"
	httpx "github.com/you/eventauth/internal/http"
	"github.com/you/eventauth/internal/http/handlers"
	"github.com/you/eventauth/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	authH := handlers.NewAuthHandlers(c.AuthSvc, int(cfg.TokenTTL.Seconds()), !cfg.Production())
	sessionH := handlers.NewSessionHandlers(c.SessionSvc, c.AuditSvc)
	adminH := handlers.NewAdminHandlers(c.AuthSvc, c.AuditSvc, c.PolicySvc)

	jwtMW := middleware.NewAuthMW(c.TokenSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)
	rateMW := middleware.NewRateLimiter(5, 10)

	r := httpx.BuildRouter(authH, sessionH, adminH, jwtMW, casbinMW, rateMW)

	seedPolicies(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Sweeper.Start(ctx)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedPolicies installs the default role policies on first boot.
func seedPolicies(c *Container) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	for _, role := range []string{"role_user", "role_vendor", "role_admin"} {
		c.Casbin.E.AddPolicy(role, "/auth/me", "GET")
		c.Casbin.E.AddPolicy(role, "/auth/logout", "POST")
		c.Casbin.E.AddPolicy(role, "/auth/sessions", "GET")
		c.Casbin.E.AddPolicy(role, "/auth/sessions/:id", "DELETE")
		c.Casbin.E.AddPolicy(role, "/auth/sessions/revoke-all", "POST")
	}
	_ = c.Casbin.E.SavePolicy()
	log.Println("casbin: seeded default policies")
}
