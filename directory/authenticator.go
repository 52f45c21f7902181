package directory

import (
	"context"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-gateway/internal/config"
)

// Authenticator validates credentials against a remote directory in one of
// two binding strategies, selected once by configuration shape: a configured
// domain suffix selects the UPN bind, a base DN selects search-then-bind.
type Authenticator struct {
	cfg  config.Directory
	dial DialFunc
	log  zerolog.Logger
}

type Option func(*Authenticator)

// WithDialFunc replaces the production dialer (for testing)
func WithDialFunc(dial DialFunc) Option {
	return func(a *Authenticator) {
		a.dial = dial
	}
}

func New(cfg config.Directory, options ...Option) (*Authenticator, error) {
	if cfg.Domain == "" && cfg.BaseDN == "" {
		return nil, errors.New("directory: either a domain suffix or a base DN must be configured")
	}

	a := &Authenticator{
		cfg:  cfg,
		dial: Dial,
		log:  log.With().Str("component", "directory").Logger(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a, nil
}

// Authenticate validates a username/password pair and resolves display
// attributes. It never returns an error: directory trouble is reported as
// StatusUnavailable so the caller can fall through to local verification.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) Result {
	if username == "" || password == "" {
		return Result{Status: StatusRejected}
	}
	if a.cfg.Domain != "" {
		return a.bindUPN(ctx, username, password)
	}
	return a.searchThenBind(ctx, username, password)
}

// bindUPN authenticates by binding directly as username@domain. A successful
// bind is the authentication proof; the optional attribute lookup afterwards
// is best effort and never undoes it.
func (a *Authenticator) bindUPN(ctx context.Context, username, password string) Result {
	conn, err := a.dial(ctx, a.cfg)
	if err != nil {
		a.log.Warn().Err(err).Msg("directory unreachable")
		return Result{Status: StatusUnavailable}
	}
	defer conn.Close()

	upn := username + "@" + a.cfg.Domain
	if err := conn.Bind(upn, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return Result{Status: StatusRejected}
		}
		a.log.Warn().Err(err).Msg("upn bind failed")
		return Result{Status: StatusUnavailable}
	}

	identity := Identity{Username: username, Email: upn, FullName: username}
	if a.cfg.BaseDN != "" {
		entry, err := a.searchUser(conn, username)
		switch {
		case err != nil:
			a.log.Debug().Err(err).Str("username", username).Msg("attribute lookup failed after successful bind")
		case entry != nil:
			identity = a.identityFromEntry(username, upn, entry)
		}
	}
	return Result{Status: StatusResolved, Identity: identity}
}

// searchThenBind authenticates by locating the user's entry with a service
// (or anonymous) bind, then re-binding with the entry's distinguished name
// and the supplied password.
func (a *Authenticator) searchThenBind(ctx context.Context, username, password string) Result {
	conn, err := a.dial(ctx, a.cfg)
	if err != nil {
		a.log.Warn().Err(err).Msg("directory unreachable")
		return Result{Status: StatusUnavailable}
	}
	defer conn.Close()

	if a.cfg.BindDN != "" {
		err = conn.Bind(a.cfg.BindDN, a.cfg.BindPassword)
	} else {
		err = conn.UnauthenticatedBind("")
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("service bind failed")
		return Result{Status: StatusUnavailable}
	}

	entry, err := a.searchUser(conn, username)
	if err != nil {
		a.log.Warn().Err(err).Str("username", username).Msg("directory search failed")
		return Result{Status: StatusUnavailable}
	}
	if entry == nil {
		// No match reads the same as a failed bind to the caller.
		return Result{Status: StatusRejected}
	}

	if err := conn.Bind(entry.DN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return Result{Status: StatusRejected}
		}
		a.log.Warn().Err(err).Msg("user bind failed")
		return Result{Status: StatusUnavailable}
	}

	return Result{
		Status:   StatusResolved,
		Identity: a.identityFromEntry(username, username+"@unknown", entry),
	}
}

func (a *Authenticator) searchUser(conn Conn, username string) (*ldap.Entry, error) {
	filter := strings.ReplaceAll(a.cfg.UserFilter, "{username}", ldap.EscapeFilter(username))
	req := ldap.NewSearchRequest(
		a.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		[]string{a.cfg.AttrEmail, a.cfg.AttrFullName},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return nil, errors.Wrap(err, "directory search")
	}
	if len(res.Entries) == 0 {
		return nil, nil
	}
	return res.Entries[0], nil
}

// identityFromEntry maps the two semantic fields to their configured
// attribute names, falling back to synthesized values when absent.
func (a *Authenticator) identityFromEntry(username, fallbackEmail string, entry *ldap.Entry) Identity {
	email := entry.GetAttributeValue(a.cfg.AttrEmail)
	if email == "" {
		email = fallbackEmail
	}
	fullName := entry.GetAttributeValue(a.cfg.AttrFullName)
	if fullName == "" {
		fullName = username
	}
	return Identity{Username: username, Email: email, FullName: fullName}
}
