package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const sessionAudience = "jobjotter-session"

// Claims are the session token claims handed to API clients.
type Claims struct {
	jwt.RegisteredClaims

	UserID   int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

func (c Claims) Actor() Actor {
	return Actor{UserID: c.UserID, Username: c.Username, IsAdmin: c.IsAdmin}
}

// CanAccess reports whether actor may act on a resource owned by ownerID.
func CanAccess(actor Actor, ownerID int64) bool {
	return actor.IsAdmin || (actor.UserID != 0 && actor.UserID == ownerID)
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Create signs a session token for the given user.
func (t *Tokens) Create(actor Actor) (string, error) {
	if actor.Username == "" {
		return "", errors.New("create token: username is required")
	}

	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(actor.UserID, 10),
			Audience: jwt.ClaimStrings{sessionAudience},
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:   actor.UserID,
		Username: actor.Username,
		IsAdmin:  actor.IsAdmin,
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and returns its claims. Tokens signed
// for another audience, such as OAuth state, are rejected.
func (t *Tokens) Parse(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(sessionAudience),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID <= 0 || claims.Username == "" {
		return Claims{}, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}
	return claims, nil
}

func (t *Tokens) keyFunc(*jwt.Token) (any, error) {
	return t.secret, nil
}
