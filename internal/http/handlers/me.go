package handlers

import (
	"errors"
	"net/http"

	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/repository"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)

	account, err := h.Accounts.GetAccountByID(c.Request.Context(), sess.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		internalError(c, "load account", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         account.ID,
		"username":   account.Username,
		"created_at": account.CreatedAt,
	})
}
