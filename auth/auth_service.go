package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-gateway/directory"
	"github.com/jrsteele09/go-identity-gateway/internal/metrics"
	"github.com/jrsteele09/go-identity-gateway/token"
	"github.com/jrsteele09/go-identity-gateway/users"
)

// CredentialPair is the result of a successful authentication: a short-lived
// access token and a longer-lived refresh token bound to the same subject.
type CredentialPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// DirectoryAuthenticator is the directory adapter as the orchestrator sees
// it. Implemented by *directory.Authenticator.
type DirectoryAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) directory.Result
}

// Service orchestrates the authentication chain: directory adapter (when
// enabled) with fallthrough to local credential verification, then token
// minting for the resolved subject. It holds no mutable state of its own and
// is reentrant per call.
type Service struct {
	directory DirectoryAuthenticator // nil when directory auth is disabled
	users     users.UserRepo
	tokens    *token.Service
	metrics   *metrics.Metrics
	log       zerolog.Logger
	nowFunc   func() time.Time
}

type ServiceOption func(*Service)

// WithDirectory enables the directory authentication step.
func WithDirectory(d DirectoryAuthenticator) ServiceOption {
	return func(s *Service) {
		s.directory = d
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(userRepo users.UserRepo, tokens *token.Service, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token service is required")
	}

	s := &Service{
		users:   userRepo,
		tokens:  tokens,
		log:     log.With().Str("component", "auth").Logger(),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login authenticates a username/password pair and mints a credential pair
// for the resolved subject. The directory step, when enabled, runs first;
// both a rejection and an unavailable directory fall through to local
// verification, so a directory outage or a username collision across
// identity sources never locks out a local account.
func (s *Service) Login(ctx context.Context, username, password string) (*CredentialPair, error) {
	if s.directory != nil {
		result := s.directory.Authenticate(ctx, username, password)
		s.metrics.DirectoryRequest(result.Status.String())

		switch result.Status {
		case directory.StatusResolved:
			principal, err := s.adoptDirectoryIdentity(result.Identity)
			if err != nil {
				s.metrics.Login("failure")
				return nil, err
			}
			s.metrics.Login("directory")
			return s.mintPair(principal.Email)
		case directory.StatusUnavailable:
			s.log.Warn().Str("username", username).Msg("directory unavailable, trying local verification")
		case directory.StatusRejected:
			s.log.Debug().Str("username", username).Msg("directory rejected credentials, trying local verification")
		}
	}

	user, err := s.users.GetByEmail(username)
	if err != nil {
		s.log.Error().Err(err).Msg("user lookup failed")
	}
	if user == nil || !user.Active || !users.CheckPasswordHash(password, user.PasswordHash) {
		s.metrics.Login("failure")
		return nil, ErrInvalidCredentials
	}

	user.LastLogin = s.nowFunc()
	if err := s.users.Upsert(user); err != nil {
		s.log.Warn().Err(err).Msg("failed to record last login")
	}

	s.metrics.Login("local")
	return s.mintPair(user.Email)
}

// Refresh re-mints a credential pair for an already-authenticated principal.
// Validating the presented refresh token is the caller's responsibility via
// PrincipalFromToken.
func (s *Service) Refresh(principal *users.User) (*CredentialPair, error) {
	if principal == nil || principal.Email == "" {
		return nil, ErrUnauthorized
	}
	return s.mintPair(principal.Email)
}

// CurrentPrincipal resolves the principal behind a bearer access token.
func (s *Service) CurrentPrincipal(rawToken string) (*users.User, error) {
	return s.PrincipalFromToken(rawToken, token.KindAccess)
}

// PrincipalFromToken verifies a token of the expected kind and resolves its
// subject. Subjects without a local record (directory identities whose shadow
// record was removed) still resolve to a minimal active principal.
func (s *Service) PrincipalFromToken(rawToken string, kind token.Kind) (*users.User, error) {
	claims, err := s.tokens.Verify(rawToken, kind)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByEmail(claims.Subject)
	if err != nil {
		s.log.Error().Err(err).Msg("principal lookup failed")
	}
	if user != nil {
		return user, nil
	}
	return &users.User{Email: claims.Subject, Active: true}, nil
}

// adoptDirectoryIdentity mirrors a directory-resolved identity into the local
// store so later bearer-token lookups resolve its display attributes. A
// locally blocked record still wins over the directory.
func (s *Service) adoptDirectoryIdentity(id directory.Identity) (*users.User, error) {
	principal := &users.User{Email: id.Email, FullName: id.FullName, Active: true}
	if existing, err := s.users.GetByEmail(id.Email); err == nil && existing != nil {
		if !existing.Active {
			return nil, ErrInvalidCredentials
		}
		principal = existing
		principal.FullName = id.FullName
	}

	principal.LastLogin = s.nowFunc()
	if err := s.users.Upsert(principal); err != nil {
		s.log.Warn().Err(err).Str("email", id.Email).Msg("failed to upsert directory principal")
	}
	return principal, nil
}

// Users exposes the principal store to the surrounding request pipeline
// (registration, admin CRUD).
func (s *Service) Users() users.UserRepo {
	return s.users
}

func (s *Service) mintPair(subject string) (*CredentialPair, error) {
	access, refresh, err := s.tokens.IssuePair(subject)
	if err != nil {
		return nil, errors.Wrap(err, "auth.Service.mintPair")
	}
	s.metrics.TokenIssued(string(token.KindAccess))
	s.metrics.TokenIssued(string(token.KindRefresh))

	return &CredentialPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
