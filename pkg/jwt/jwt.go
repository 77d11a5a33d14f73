package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoUserID = errors.New("token carries no user id")

type Service interface {
	GenerateToken(userID int64) (string, error)
	ValidateToken(tokenString string) (int64, error)
}

type jwtService struct {
	secret string
	ttl    time.Duration
}

func NewJWTService(secret string, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &jwtService{secret: secret, ttl: ttl}
}

func (s *jwtService) GenerateToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *jwtService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrInvalidKey
	}
	return userID(claims)
}

// Inspect reads the user id from a token without verifying its signature.
// Clients hold no signing secret; the result is only fit for log context.
func Inspect(tokenString string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 0, err
	}
	return userID(claims)
}

func userID(claims jwt.MapClaims) (int64, error) {
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, ErrNoUserID
	}
	return int64(id), nil
}
