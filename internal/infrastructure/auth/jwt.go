package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinezone/cinezone/internal/shared/authorization"
)

// Claims is the payload of a CineZone access token.
type Claims struct {
	UserID uint                   `json:"id"`
	Role   authorization.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies access tokens.
type TokenIssuer interface {
	Generate(userID uint, role authorization.UserRole) (string, error)
	Verify(token string) (*Claims, error)
}

type JWTService struct {
	secret  []byte
	expires time.Duration
	now     func() time.Time
}

func NewJWTService(secret string, expiresInHours int) *JWTService {
	if expiresInHours <= 0 {
		expiresInHours = 24
	}
	return &JWTService{
		secret:  []byte(secret),
		expires: time.Duration(expiresInHours) * time.Hour,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *JWTService) Generate(userID uint, role authorization.UserRole) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expires)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 {
		return nil, errors.New("token carries no user id")
	}
	return claims, nil
}
