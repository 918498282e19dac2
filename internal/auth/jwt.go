package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Identity is the verified content of a bearer token.
type Identity struct {
	Name  string
	Email string
	Role  string
	JTI   string
	TTL   time.Duration // remaining lifetime, used for revocation expiry
}

// Issuer signs and verifies the HS256 tokens handed to patients and doctors.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(name, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"name": name,
		"role": role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{}
	id.Name, _ = claims["name"].(string)
	id.Email, _ = claims["email"].(string)
	id.Role, _ = claims["role"].(string)
	id.JTI, _ = claims["jti"].(string)
	if id.Role != RolePatient && id.Role != RoleDoctor {
		return Identity{}, ErrInvalidToken
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.TTL = time.Until(exp.Time)
	}

	return id, nil
}
