package handlers

import (
	"errors"
	"net/http"

	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgUsernameTaken   = "Username already exists. Please choose another one."
	msgAccountCreated  = "Account created! Please login."
	msgInvalidCredsUI  = "Invalid credentials"
	msgInvalidCredsAPI = "invalid credentials"
)

// registrationMessage turns a rejected registration into the text shown to
// the user.
func registrationMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		return "Username and password are required."
	case errors.Is(err, service.ErrUsernameTooLong):
		return "Username must be at most 100 characters."
	case errors.Is(err, service.ErrPasswordTooLong):
		return "Password must be at most 72 bytes."
	default:
		return "Invalid registration."
	}
}

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"flash": h.popFlash(c)})
}

// Register handles the registration form. It never logs the user in.
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	_ = c.ShouldBind(&req)

	_, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		middleware.AuthEvents.WithLabelValues("register", "success").Inc()
		h.setFlash(c, msgAccountCreated)
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, service.ErrDuplicateUsername):
		middleware.AuthEvents.WithLabelValues("register", "duplicate").Inc()
		h.setFlash(c, msgUsernameTaken)
		c.Redirect(http.StatusFound, "/register")
	case errors.Is(err, service.ErrInvalidRegistration):
		middleware.AuthEvents.WithLabelValues("register", "invalid").Inc()
		h.setFlash(c, registrationMessage(err))
		c.Redirect(http.StatusFound, "/register")
	default:
		middleware.AuthEvents.WithLabelValues("register", "error").Inc()
		logger.WithContext(c.Request.Context()).Error("register failed", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"flash": h.popFlash(c)})
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	_ = c.ShouldBind(&req)

	token, sess, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.AuthEvents.WithLabelValues("login", "failure").Inc()
			c.HTML(http.StatusOK, "login.html", gin.H{"flash": msgInvalidCredsUI})
			return
		}
		middleware.AuthEvents.WithLabelValues("login", "error").Inc()
		logger.WithContext(c.Request.Context()).Error("login failed", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	middleware.AuthEvents.WithLabelValues("login", "success").Inc()
	h.setSessionCookie(c, token, sess.ExpiresAt)
	c.Redirect(http.StatusFound, "/")
}

// Logout always succeeds from the browser's point of view.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.TokenFromRequest(c)); err != nil {
		middleware.AuthEvents.WithLabelValues("logout", "error").Inc()
		logger.WithContext(c.Request.Context()).Error("logout failed", "error", err)
	} else {
		middleware.AuthEvents.WithLabelValues("logout", "success").Inc()
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) APIRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	account, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		middleware.AuthEvents.WithLabelValues("register", "success").Inc()
		c.JSON(http.StatusCreated, gin.H{"id": account.ID, "username": account.Username})
	case errors.Is(err, service.ErrDuplicateUsername):
		middleware.AuthEvents.WithLabelValues("register", "duplicate").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRegistration):
		middleware.AuthEvents.WithLabelValues("register", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": registrationMessage(err)})
	default:
		middleware.AuthEvents.WithLabelValues("register", "error").Inc()
		internalError(c, "register failed", err)
	}
}

func (h *Handler) APILogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	token, sess, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.AuthEvents.WithLabelValues("login", "failure").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredsAPI})
			return
		}
		middleware.AuthEvents.WithLabelValues("login", "error").Inc()
		internalError(c, "login failed", err)
		return
	}

	middleware.AuthEvents.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": sess.ExpiresAt,
		"user": gin.H{
			"id":       sess.AccountID,
			"username": sess.Username,
		},
	})
}

// APILogout always answers 200. A storage failure while revoking is logged;
// the cookie is cleared either way.
func (h *Handler) APILogout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.TokenFromRequest(c)); err != nil {
		middleware.AuthEvents.WithLabelValues("logout", "error").Inc()
		logger.WithContext(c.Request.Context()).Error("logout failed", "error", err)
	} else {
		middleware.AuthEvents.WithLabelValues("logout", "success").Inc()
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
