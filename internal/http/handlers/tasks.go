package handlers

import (
	"context"
	"errors"
	"net/http"

	"todo_webapp/internal/http/middleware"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type taskOp func(ctx context.Context, sess service.Session, id int64) error

// Index renders the current account's task list.
func (h *Handler) Index(c *gin.Context) {
	sess := middleware.GetSession(c)

	sum, err := h.Tasks.List(c.Request.Context(), sess)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("list tasks", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"username":        sess.Username,
		"tasks":           sum.Tasks,
		"total_tasks":     sum.Total,
		"completed_tasks": sum.Completed,
		"remaining_tasks": sum.Remaining,
		"flash":           h.popFlash(c),
	})
}

func (h *Handler) AddTask(c *gin.Context) {
	task, err := h.Tasks.Add(c.Request.Context(), middleware.GetSession(c), c.PostForm("content"))
	if err != nil {
		middleware.TaskOps.WithLabelValues("add", "error").Inc()
		logger.WithContext(c.Request.Context()).Error("add task", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if task == nil {
		middleware.TaskOps.WithLabelValues("add", "ignored").Inc()
	} else {
		middleware.TaskOps.WithLabelValues("add", "created").Inc()
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) DeleteTask(c *gin.Context) {
	h.pageTaskOp(c, "delete", h.Tasks.Delete)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	h.pageTaskOp(c, "toggle", h.Tasks.Toggle)
}

func (h *Handler) pageTaskOp(c *gin.Context, name string, op taskOp) {
	id, ok := taskID(c)
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err := runTaskOp(c, name, id, op); err != nil {
		logger.WithContext(c.Request.Context()).Error(name+" task", "error", err, "task_id", id)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// runTaskOp executes op and absorbs a missing task the same way the service
// absorbs a foreign one, so both look like success to the caller.
func runTaskOp(c *gin.Context, name string, id int64, op taskOp) error {
	err := op(c.Request.Context(), middleware.GetSession(c), id)
	switch {
	case err == nil:
		middleware.TaskOps.WithLabelValues(name, "ok").Inc()
		return nil
	case errors.Is(err, service.ErrTaskNotFound):
		middleware.TaskOps.WithLabelValues(name, "not_found").Inc()
		return nil
	default:
		middleware.TaskOps.WithLabelValues(name, "error").Inc()
		return err
	}
}

func (h *Handler) ListTasks(c *gin.Context) {
	sum, err := h.Tasks.List(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		internalError(c, "list tasks", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	task, err := h.Tasks.Add(c.Request.Context(), middleware.GetSession(c), req.Content)
	if err != nil {
		middleware.TaskOps.WithLabelValues("add", "error").Inc()
		internalError(c, "add task", err)
		return
	}
	if task == nil {
		middleware.TaskOps.WithLabelValues("add", "ignored").Inc()
		c.Status(http.StatusNoContent)
		return
	}
	middleware.TaskOps.WithLabelValues("add", "created").Inc()
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *Handler) ToggleTask(c *gin.Context) {
	h.apiTaskOp(c, "toggle", h.Tasks.Toggle)
}

func (h *Handler) RemoveTask(c *gin.Context) {
	h.apiTaskOp(c, "delete", h.Tasks.Delete)
}

func (h *Handler) apiTaskOp(c *gin.Context, name string, op taskOp) {
	id, ok := taskID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := runTaskOp(c, name, id, op); err != nil {
		internalError(c, name+" task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
