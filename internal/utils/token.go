package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims wraps jwt.RegisteredClaims with the username for convenience.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// safer subject helper
func (c *Claims) SubjectInt() int64 {
	v, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Signer issues and verifies HS256 tokens for one secret and lifetime.
type Signer struct {
	Secret string
	TTL    time.Duration
}

// Issue returns the signed token and its expiry.
func (s Signer) Issue(userID int64, username string) (string, time.Time, error) {
	if s.Secret == "" {
		return "", time.Time{}, errors.New("secret not configured")
	}

	now := time.Now()
	expTime := now.Add(s.TTL)

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(), // tokens issued in the same second must still differ
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expTime, nil
}

func (s Signer) Verify(tokenStr string) (*Claims, error) {
	if s.Secret == "" {
		return nil, errors.New("secret not configured")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)

	var claims Claims

	_, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.SubjectInt() == 0 {
		return nil, errors.New("token has no subject")
	}

	return &claims, nil
}
