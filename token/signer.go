package token

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.MapClaims) (string, error)

	// GetVerificationKey returns the key for verifying a parsed token
	GetVerificationKey(token *jwt.Token) (any, error)

	// GetSigningMethod returns the JWT signing method used
	GetSigningMethod() jwt.SigningMethod
}

// HMACSigner implements Signer using a symmetric HMAC secret
type HMACSigner struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewHMACSigner creates a new HMAC signer with the given secret
func NewHMACSigner(secret string, method *jwt.SigningMethodHMAC) *HMACSigner {
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &HMACSigner{
		secret: []byte(secret),
		method: method,
	}
}

func (h *HMACSigner) Sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(h.method, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

func (h *HMACSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACSigner) GetSigningMethod() jwt.SigningMethod {
	return h.method
}

// NewSigner creates a signer from a configured algorithm name. Only the
// symmetric HMAC family is supported; anything else is a configuration error.
func NewSigner(algorithm, secret string) (Signer, error) {
	switch strings.ToUpper(algorithm) {
	case "", "HS256":
		return NewHMACSigner(secret, jwt.SigningMethodHS256), nil
	case "HS384":
		return NewHMACSigner(secret, jwt.SigningMethodHS384), nil
	case "HS512":
		return NewHMACSigner(secret, jwt.SigningMethodHS512), nil
	default:
		return nil, errors.Errorf("unsupported token algorithm %q", algorithm)
	}
}
