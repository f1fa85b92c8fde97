package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "reviewback/internal/api/context"
	"reviewback/internal/api/handlers"
	"reviewback/internal/api/middleware"
	"reviewback/internal/pkg/errors"
	"reviewback/internal/platform/auth"
)

type Dependencies struct {
	AuthHandler     *handlers.AuthHandler
	CompanyHandler  *handlers.CompanyHandler
	CampaignHandler *handlers.CampaignHandler
	OrderHandler    *handlers.OrderHandler
	UserHandler     *handlers.UserHandler
	AdminHandler    *handlers.AdminHandler
	HealthHandler   *handlers.HealthHandler
	MetricsHandler  *handlers.MetricsHandler

	AuthMiddleware   *middleware.AuthMiddleware
	TenantMiddleware *middleware.TenantMiddleware
	RateLimiter      *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	authMid := deps.AuthMiddleware
	tenantMid := deps.TenantMiddleware
	rl := deps.RateLimiter

	// Ops
	router.GET("/health", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	// Authentication
	router.POST("/api/v1/auth/login",
		chain(deps.AuthHandler.Login, tenantMid.Handle))
	router.POST("/api/v1/auth/refresh",
		chain(deps.AuthHandler.Refresh, tenantMid.Handle))
	router.POST("/api/v1/auth/register",
		chain(deps.UserHandler.Register, tenantMid.Handle, rl.Limit("register")))

	// Public tenant site
	router.GET("/api/v1/site",
		chain(deps.CompanyHandler.Current, tenantMid.Handle))
	router.GET("/api/v1/site/questions",
		chain(deps.CompanyHandler.Questions, tenantMid.Handle))
	router.POST("/api/v1/site/feedback",
		chain(deps.CompanyHandler.SendFeedback, tenantMid.Handle))

	// Campaigns
	router.GET("/api/v1/campaigns",
		chain(deps.CampaignHandler.List, tenantMid.Handle))
	router.GET("/api/v1/campaigns/:campaign_id",
		chain(deps.CampaignHandler.Get, tenantMid.Handle))
	router.GET("/api/v1/campaigns/:campaign_id/qr",
		chain(deps.CampaignHandler.GetQRCode, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.GET("/api/v1/campaigns/:campaign_id/order",
		chain(deps.CampaignHandler.GetOrder, tenantMid.Handle, authMid.Handle))

	// Order lifecycle
	router.POST("/api/v1/orders",
		chain(deps.OrderHandler.Verify, tenantMid.Handle, authMid.Handle, rl.Limit("verify")))
	router.GET("/api/v1/orders",
		chain(deps.OrderHandler.List, tenantMid.Handle, authMid.Handle))
	router.GET("/api/v1/tasks",
		chain(deps.OrderHandler.Tasks, tenantMid.Handle, authMid.Handle))
	router.GET("/api/v1/orders/:order_id",
		chain(deps.OrderHandler.Get, tenantMid.Handle, authMid.Handle))
	router.GET("/api/v1/orders/:order_id/eligible",
		chain(deps.OrderHandler.Eligible, tenantMid.Handle, authMid.Handle))
	router.POST("/api/v1/orders/:order_id/feedback",
		chain(deps.OrderHandler.Feedback, tenantMid.Handle, authMid.Handle, rl.Limit("feedback")))
	router.POST("/api/v1/orders/:order_id/review",
		chain(deps.OrderHandler.Review, tenantMid.Handle, authMid.Handle))
	router.POST("/api/v1/orders/:order_id/payout",
		chain(deps.OrderHandler.Payout, tenantMid.Handle, authMid.Handle))
	router.POST("/api/v1/verification/email",
		chain(deps.OrderHandler.SendEmailVerification, tenantMid.Handle, authMid.Handle))

	// Customer self-service
	router.GET("/api/v1/profile",
		chain(deps.UserHandler.Profile, tenantMid.Handle, authMid.Handle))
	router.PATCH("/api/v1/profile",
		chain(deps.UserHandler.UpdateProfile, tenantMid.Handle, authMid.Handle))
	router.POST("/api/v1/profile/amazon",
		chain(deps.UserHandler.LinkAmazon, tenantMid.Handle, authMid.Handle))

	// Company profile management
	router.GET("/api/v1/company",
		chain(deps.CompanyHandler.View, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.PATCH("/api/v1/company",
		chain(deps.CompanyHandler.Update, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.POST("/api/v1/company/upload",
		chain(deps.CompanyHandler.Upload, tenantMid.Handle, authMid.Handle, requireAdmin()))

	// Customer directory
	router.GET("/api/v1/users",
		chain(deps.UserHandler.List, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.POST("/api/v1/users",
		chain(deps.UserHandler.Create, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.GET("/api/v1/users/:user_id",
		chain(deps.UserHandler.Get, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.PATCH("/api/v1/users/:user_id",
		chain(deps.UserHandler.Update, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.DELETE("/api/v1/users/:user_id",
		chain(deps.UserHandler.Delete, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.POST("/api/v1/users/:user_id/ban",
		chain(deps.UserHandler.ToggleBan, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.POST("/api/v1/users/:user_id/approve",
		chain(deps.UserHandler.Approve, tenantMid.Handle, authMid.Handle, requireAdmin()))
	router.POST("/api/v1/users/:user_id/reset-password",
		chain(deps.UserHandler.ResetPassword, tenantMid.Handle, authMid.Handle, requireAdmin()))

	// Platform admin directory
	router.GET("/api/v1/admins",
		chain(deps.AdminHandler.List, authMid.Handle, requireSuperAdmin()))
	router.POST("/api/v1/admins",
		chain(deps.AdminHandler.Create, authMid.Handle, requireSuperAdmin()))
	router.GET("/api/v1/admins/:user_id",
		chain(deps.AdminHandler.Get, authMid.Handle, requireSuperAdmin()))
	router.PATCH("/api/v1/admins/:user_id",
		chain(deps.AdminHandler.Update, authMid.Handle, requireSuperAdmin()))
	router.DELETE("/api/v1/admins/:user_id",
		chain(deps.AdminHandler.Delete, authMid.Handle, requireSuperAdmin()))
	router.POST("/api/v1/admins/:user_id/reset-password",
		chain(deps.AdminHandler.ResetPassword, authMid.Handle, requireSuperAdmin()))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return requireClaims(func(claims *auth.Claims) bool {
		return claims.IsAdmin || claims.IsSuperAdmin
	})
}

func requireSuperAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return requireClaims(func(claims *auth.Claims) bool {
		return claims.IsSuperAdmin
	})
}

func requireClaims(allowed func(*auth.Claims) bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
			if !ok || !allowed(claims) {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
