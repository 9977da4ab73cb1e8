package domain

// Role is the access role of an authenticated user.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleBranchAdmin Role = "BRANCH_ADMIN"
	RoleCashier     Role = "CASHIER"
	// RoleSystem attributes mutations that are triggered without an
	// authenticated user (seed jobs, internal tooling). Audit entries are
	// mandatory, so such mutations run under this synthetic actor instead
	// of skipping the audit write.
	RoleSystem Role = "SYSTEM"
)

// Actor identifies who performs a mutation. Every ledger operation takes an
// Actor explicitly; there is no ambient session state.
type Actor struct {
	UserID string `json:"userID"`
	Role   Role   `json:"role"`
}

// SystemActor is the synthetic actor for unauthenticated internal mutations.
var SystemActor = Actor{UserID: "system", Role: RoleSystem}
