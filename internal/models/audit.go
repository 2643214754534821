package models

import "time"

// Audit actions recorded by the panel.
const (
	AuditActionLogin           = "login"
	AuditActionLogout          = "logout"
	AuditActionCreateCandidate = "create_candidate"
	AuditActionDeleteCandidate = "delete_candidate"
	AuditActionCreateProgramme = "create_programme"
	AuditActionDeleteProgramme = "delete_programme"
	AuditActionSubmitResults   = "submit_results"
	AuditActionApproveResults  = "approve_results"
	AuditActionDenyResults     = "deny_results"
)

// AuditEntry is a locally persisted record of an operator action. It is
// best-effort bookkeeping; the festival backend remains the source of truth
// for the data itself.
type AuditEntry struct {
	ID         string    `db:"id"`
	SessionID  string    `db:"session_id"`
	UserName   string    `db:"user_name"`
	Action     string    `db:"action"`
	Resource   string    `db:"resource"`
	ResourceID *string   `db:"resource_id"`
	Detail     []byte    `db:"detail"`
	IPAddress  string    `db:"ip_address"`
	CreatedAt  time.Time `db:"created_at"`
}
