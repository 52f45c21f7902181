package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// Kind distinguishes the two credential types a token can carry.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// ErrInvalidToken is the single outcome for every verification failure:
// malformed token, bad signature, expired token, or kind mismatch. Callers
// cannot tell these apart from the error alone.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the structured content embedded in a signed token. A new token is
// always a new Claims instance; expiry is never extended in place.
type Claims struct {
	Subject   string
	Kind      Kind
	ExpiresAt time.Time
}

// Service issues and verifies signed, time-bounded credentials. It is
// stateless apart from the signing secret and a clock, and safe for
// unsynchronized concurrent use.
type Service struct {
	signer     Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFunc    func() time.Time
}

type ServiceOption func(*Service)

// WithTokenExpiry sets the default TTLs used when Issue is called with a
// non-positive ttl.
func WithTokenExpiry(accessTTL, refreshTTL time.Duration) ServiceOption {
	return func(s *Service) {
		s.accessTTL = accessTTL
		s.refreshTTL = refreshTTL
	}
}

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func New(signer Signer, options ...ServiceOption) *Service {
	s := &Service{
		signer:     signer,
		accessTTL:  30 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
		nowFunc:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Issue signs a token carrying the subject, the kind and an absolute expiry
// of now + ttl. A non-positive ttl selects the configured default for the
// kind.
func (s *Service) Issue(subject string, kind Kind, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", pkgerrors.New("token.Service.Issue: subject is required")
	}
	if kind != KindAccess && kind != KindRefresh {
		return "", pkgerrors.Errorf("token.Service.Issue: unknown kind %q", kind)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL(kind)
	}

	now := s.nowFunc()
	claims := jwt.MapClaims{
		"sub":  subject,
		"type": string(kind),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"jti":  uuid.New().String(),
	}

	signed, err := s.signer.Sign(claims)
	if err != nil {
		return "", pkgerrors.Wrap(err, "token.Service.Issue")
	}
	return signed, nil
}

// IssuePair mints an access and a refresh token bound to the same subject,
// each with its configured default TTL.
func (s *Service) IssuePair(subject string) (access string, refresh string, err error) {
	if access, err = s.Issue(subject, KindAccess, 0); err != nil {
		return "", "", err
	}
	if refresh, err = s.Issue(subject, KindRefresh, 0); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify checks the signature, the expiry and the kind of a presented token
// and returns its claims. Every failure mode collapses into ErrInvalidToken.
func (s *Service) Verify(raw string, expected Kind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, jwt.MapClaims{}, s.signer.GetVerificationKey,
		jwt.WithTimeFunc(s.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, _ := mapClaims["sub"].(string)
	kind, _ := mapClaims["type"].(string)
	exp, _ := mapClaims["exp"].(float64)
	if subject == "" || Kind(kind) != expected {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Subject:   subject,
		Kind:      Kind(kind),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

func (s *Service) defaultTTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}
