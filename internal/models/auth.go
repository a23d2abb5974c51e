package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates dashboard roles.
type UserRole string

const (
	RolePrincipal UserRole = "PRINCIPAL"
	RoleHOD       UserRole = "HOD"
	RoleTeacher   UserRole = "TEACHER"
	RoleParent    UserRole = "PARENT"
)

// JWTClaims represents the JWT payload for access tokens issued by the
// authentication service upstream of this gateway.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	SchoolID string   `json:"school_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
