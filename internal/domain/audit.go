package domain

import "time"

// AuditLog records an authentication event. AccountID is nil when the event
// could not be tied to an account (e.g. a failed login).
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	AccountID *int64         `db:"account_id" json:"account_id,omitempty"`
	Action    string         `db:"action" json:"action"`
	Details   map[string]any `db:"details" json:"details"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit actions
const (
	AuditActionRegister    = "register"
	AuditActionLogin       = "login"
	AuditActionLoginFailed = "login_failed"
	AuditActionLogout      = "logout"
)
