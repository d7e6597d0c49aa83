// Package auth handles password hashing and JWT issuance for the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tarea-pm/tarea/internal/config"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against its stored hash.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Claims is the decoded payload of an issued token.
type Claims struct {
	UserID    string
	Email     string
	TokenID   string
	TokenType string
	ExpiresAt time.Time
}

// TokenPair holds one access token and one refresh token.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  time.Duration(cfg.AccessTTLMins) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshTTLHours) * time.Hour,
	}
}

// IssuePair mints a fresh access/refresh token pair for a user.
func (i *Issuer) IssuePair(userID, email string) (*TokenPair, error) {
	access, err := i.sign(userID, email, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(userID, email, TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(userID, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = userID
	claims["email"] = email
	claims["typ"] = tokenType
	claims["jti"] = uuid.New().String()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies a token string and checks it carries the expected type.
func (i *Issuer) Parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims, err := claimsFromMap(mapClaims)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	sub, _ := m["sub"].(string)
	jti, _ := m["jti"].(string)
	typ, _ := m["typ"].(string)
	if sub == "" || jti == "" || typ == "" {
		return nil, ErrInvalidToken
	}
	email, _ := m["email"].(string)
	exp, _ := m["exp"].(float64)
	return &Claims{
		UserID:    sub,
		Email:     email,
		TokenID:   jti,
		TokenType: typ,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
