package models

// User mirrors the users table.
type User struct {
	UserID       string
	Username     string
	PasswordHash string
	Role         string
	BranchID     string
	AuditFields
}
