package service

import (
	"context"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"
)

type requestMetaKey struct{}

type requestMeta struct {
	ip        string
	userAgent string
}

// WithRequestMeta attaches the client address and user agent for audit
// entries written while handling the request.
func WithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, requestMeta{ip: ip, userAgent: userAgent})
}

// AuditService handles audit logging
type AuditService struct {
	repo repository.AuditStore
}

func NewAuditService(repo repository.AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log writes an audit entry. Failures are logged and otherwise ignored.
func (s *AuditService) Log(ctx context.Context, accountID *int64, action string, details map[string]any) {
	if s == nil || s.repo == nil {
		return
	}

	entry := &domain.AuditLog{
		AccountID: accountID,
		Action:    action,
		Details:   details,
	}
	if meta, ok := ctx.Value(requestMetaKey{}).(requestMeta); ok {
		entry.IP = meta.ip
		entry.UserAgent = meta.userAgent
	}

	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action)
	}
}
