package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	UserID int64
	Role   enums.UserRole
	JTI    string
}

// SessionTokenClaims represents the typed token carried in the session cookie.
type SessionTokenClaims struct {
	UserID int64          `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
