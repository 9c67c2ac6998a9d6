package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
)

// Claims is what the BFF reads from a scheduling backend access token.
type Claims struct {
	Subject string
	Role    string
	Email   string
}

// GenerateToken creates a signed HS256 token in the backend's claim layout.
func GenerateToken(secret, subject, role, email string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":   subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseClaims reads the claims of tokenString. With a secret the signature
// is checked; without one the token is only decoded and its expiry checked,
// leaving signature checks to the backend that issued it.
func ParseClaims(tokenString, secret string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if secret != "" {
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			return nil, err
		}
		if !token.Valid {
			return nil, errors.New("invalid token")
		}
	} else {
		if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
			return nil, err
		}
		if err := claims.Valid(); err != nil {
			return nil, err
		}
	}

	sub := claimString(claims["id"])
	if sub == "" {
		sub = claimString(claims["sub"])
	}
	if sub == "" {
		return nil, errors.New("token does not contain a subject")
	}
	return &Claims{
		Subject: sub,
		Role:    claimString(claims["role"]),
		Email:   claimString(claims["email"]),
	}, nil
}

func claimString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	}
	return ""
}
