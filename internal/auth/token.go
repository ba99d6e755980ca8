package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role identifies which principal table an identity belongs to.
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RolePharmacist Role = "pharmacist"
	RoleAdmin      Role = "admin"
)

// ValidRole reports whether r names one of the four principal kinds.
func ValidRole(r Role) bool {
	switch r {
	case RolePatient, RoleDoctor, RolePharmacist, RoleAdmin:
		return true
	}
	return false
}

// Principal holds identity extracted from a validated token. The subject is
// always the principal's integer primary key; role travels as its own claim.
type Principal struct {
	ID   int64
	Role Role
}

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingSub   = errors.New("missing sub claim")
)

// Issuer mints and verifies HS256 identity tokens with a fixed lifetime.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs an Issuer from config.
func NewIssuer(cfg Config) *Issuer {
	return &Issuer{secret: []byte(cfg.Secret), ttl: cfg.TokenTTL}
}

// Mint signs a token whose subject is the principal's primary key.
func (i *Issuer) Mint(principalID int64, role Role) (string, error) {
	now := jwt.TimeFunc()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(principalID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ParseAndVerifyToken verifies a bearer token, validates expiry and returns
// the Principal it carries.
func (i *Issuer) ParseAndVerifyToken(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// enforce HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role := Role(roleStr)
	if !ValidRole(role) {
		return nil, ErrInvalidToken
	}

	return &Principal{ID: id, Role: role}, nil
}
