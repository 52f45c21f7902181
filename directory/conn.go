package directory

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-identity-gateway/internal/config"
)

// Conn is the subset of *ldap.Conn the authenticator needs. Strategies are
// written against it so they can be tested without a directory server.
type Conn interface {
	Bind(username, password string) error
	UnauthenticatedBind(username string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// DialFunc opens a directory connection. The context and the configured
// timeout bound the dial, so a slow directory delays only the call that
// triggered it.
type DialFunc func(ctx context.Context, cfg config.Directory) (Conn, error)

// Dial is the production DialFunc, connecting over ldap:// or ldaps://
// depending on configuration.
func Dial(ctx context.Context, cfg config.Directory) (Conn, error) {
	timeout := cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, errors.New("directory: dial deadline already expired")
	}

	dialer := &net.Dialer{Timeout: timeout}
	scheme := "ldap"
	opts := []ldap.DialOpt{ldap.DialWithDialer(dialer)}
	if cfg.UseSSL {
		scheme = "ldaps"
		opts = append(opts, ldap.DialWithTLSConfig(&tls.Config{
			ServerName: cfg.Server,
			MinVersion: tls.VersionTLS12,
		}))
	}

	url := fmt.Sprintf("%s://%s:%d", scheme, cfg.Server, cfg.Port)
	conn, err := ldap.DialURL(url, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "directory: dial %s", url)
	}
	conn.SetTimeout(timeout)
	return conn, nil
}
