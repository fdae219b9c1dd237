package service

import (
	"ieltsprep/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnknownRole  = errors.New("role must be teacher or student")
)

// AuthService validates bearer tokens. Accounts live with the identity
// provider; tokens are only issued here for development seeding and tests.
type AuthService struct {
	jwtSecret []byte
	expiry    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		expiry:    expiry,
	}
}

// IssueToken signs a token for a user with the given role
func (s *AuthService) IssueToken(userID string, role model.Role) (string, error) {
	if role != model.RoleTeacher && role != model.RoleStudent {
		return "", ErrUnknownRole
	}
	now := time.Now()
	claims := &model.UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT and returns the caller it identifies
func (s *AuthService) ValidateToken(tokenString string) (model.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return model.Principal{}, ErrInvalidToken
	}
	if claims.Role != model.RoleTeacher && claims.Role != model.RoleStudent {
		return model.Principal{}, ErrInvalidToken
	}

	return model.Principal{UserID: claims.UserID, Role: claims.Role}, nil
}
