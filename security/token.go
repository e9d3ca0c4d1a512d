package security

import (
	"errors"
	"time"

	"cascadia/chapter-api/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenTTL is how long a session token (and its cookie) stays valid
const TokenTTL = 7 * 24 * time.Hour

// Claims is the snapshot of a user baked into a session token at issuance.
// TokenVersion ties the token to the user's credential generation: the auth
// middleware rejects tokens whose version no longer matches the stored one,
// which is how a password change voids every outstanding session without a
// deny-list
type Claims struct {
	UserID             string                   `json:"user_id"`
	Email              string                   `json:"email"`
	Name               string                   `json:"name"`
	Role               model.Role               `json:"role"`
	ChapterID          string                   `json:"chapter_id,omitempty"`
	VerificationStatus model.VerificationStatus `json:"verification_status"`
	TokenVersion       int                      `json:"token_version"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a 7-day session token for u
func (s *TokenService) Issue(u *model.User) (string, error) {
	chapterID := ""
	if u.ChapterID != nil {
		chapterID = *u.ChapterID
	}

	claims := Claims{
		UserID:             u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		ChapterID:          chapterID,
		VerificationStatus: u.VerificationStatus,
		TokenVersion:       u.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse verifies the signature and expiry of a token and returns its claims.
// This is the cheap check only. Whether the embedded token version still
// matches the stored one is decided by the auth middleware against the
// database
func (s *TokenService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
