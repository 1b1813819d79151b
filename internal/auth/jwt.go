package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried by an access token.
type Claims struct {
	AccountID int64
	Email     string
}

// TokenIssuer signs and parses HMAC bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Generate(accountID int64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"uid": accountID,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates signature and expiry and extracts the claims. Any
// failure collapses to ErrInvalidToken; callers answer 401 either way.
func (t *TokenIssuer) Parse(tokenString string) (Claims, error) {
	tok, err := jwt.Parse(tokenString, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	email, _ := mc["sub"].(string)
	if email == "" {
		return Claims{}, ErrInvalidToken
	}
	uid, _ := mc["uid"].(float64)
	return Claims{AccountID: int64(uid), Email: email}, nil
}
