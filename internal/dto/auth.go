package dto

import "time"

// LoginRequest is the credential payload for all operator roles.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token and its expiry.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userID"`
	Role      string    `json:"role"`
	BranchID  string    `json:"branchID,omitempty"`
}
