package domain

// User is an authenticated operator: super admin, branch admin or cashier.
// BranchID is empty for super admins.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // bcrypt hash, never serialized
	Role         Role   `json:"role"`
	BranchID     string `json:"branchID,omitempty"`
	AuditFields
}
