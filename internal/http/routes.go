package http

import (
	"todo_webapp/internal/http/handlers"
	"todo_webapp/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const loginPath = "/login"

// NewRouter builds the engine with the shared middleware stack and all
// routes.
func NewRouter(h *handlers.Handler, health *handlers.HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.Metrics())
	r.SetHTMLTemplate(handlers.Templates())

	RegisterRoutes(r, h, health)
	return r
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler) {
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerPageRoutes(r, h)

	v1 := r.Group("/api/v1")
	registerAPIRoutes(v1, h)
}

func registerPageRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.GET(loginPath, h.LoginPage)
	r.POST(loginPath, h.Login)
	r.GET("/logout", h.Logout)

	pages := r.Group("/")
	pages.Use(middleware.RequirePageSession(h.Auth, loginPath))
	{
		pages.GET("/", h.Index)
		pages.POST("/add", h.AddTask)
		pages.GET("/delete/:id", h.DeleteTask)
		pages.GET("/complete/:id", h.CompleteTask)
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.APIRegister)
		auth.POST("/login", h.APILogin)
		auth.POST("/logout", h.APILogout)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAPISession(h.Auth))
	{
		authed.GET("/me", h.Me)
		authed.GET("/tasks", h.ListTasks)
		authed.POST("/tasks", h.CreateTask)
		authed.PATCH("/tasks/:id/toggle", h.ToggleTask)
		authed.DELETE("/tasks/:id", h.RemoveTask)
	}
}
