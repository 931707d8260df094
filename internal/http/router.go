package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/you/eventauth/internal/http/handlers"
	"github.com/you/eventauth/internal/http/middleware"
)

func BuildRouter(
	ah *handlers.AuthHandlers,
	sh *handlers.SessionHandlers,
	adh *handlers.AdminHandlers,
	jwtmw *middleware.AuthMW,
	cb *middleware.CasbinMW,
	rl *middleware.RateLimiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth").Use(rl.Limit())
	auth.POST("/signup/send-otp", ah.SignupSendOTP)
	auth.POST("/signup/verify-otp", ah.SignupVerifyOTP)
	auth.POST("/signup", ah.Signup)
	auth.POST("/login/send-otp", ah.LoginSendOTP)
	auth.POST("/login/verify-otp", ah.LoginVerifyOTP)
	auth.POST("/login", ah.Login)
	auth.POST("/admin/login", ah.Login)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.GET("/auth/sessions", sh.List)
	v.DELETE("/auth/sessions/:id", sh.Revoke)
	v.POST("/auth/sessions/revoke-all", sh.RevokeAll)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/audit/:accountID", adh.AuditByAccount)
	adm.POST("/accounts/:id/unlock", adh.UnlockAccount)
	adm.GET("/policies", adh.ListPolicies)
	adm.POST("/policies", adh.AddPolicy)
	adm.DELETE("/policies", adh.RemovePolicy)

	return r
}
