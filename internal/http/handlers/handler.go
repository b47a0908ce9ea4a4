package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth         *service.Authenticator
	Tasks        *service.TaskService
	Accounts     repository.AccountStore
	CookieSecure bool
}

func NewHandler(auth *service.Authenticator, tasks *service.TaskService, accounts repository.AccountStore, cookieSecure bool) *Handler {
	return &Handler{
		Auth:         auth,
		Tasks:        tasks,
		Accounts:     accounts,
		CookieSecure: cookieSecure,
	}
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.CookieSecure, true)
}

// taskID parses the :id path parameter.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func internalError(c *gin.Context, msg string, err error) {
	logger.WithContext(c.Request.Context()).Error(msg, "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
