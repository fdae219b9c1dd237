package model

import "github.com/golang-jwt/jwt/v5"

// Role is the actor kind carried in a token
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// UserClaims are JWT claims for teachers and students
type UserClaims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller attached to a request context
type Principal struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// IsTeacher reports whether the caller has the teacher role
func (p Principal) IsTeacher() bool {
	return p.Role == RoleTeacher
}
