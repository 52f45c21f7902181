package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Directory holds the connection and strategy settings for the remote
// identity directory. The configuration shape selects the binding strategy:
// a domain suffix selects the UPN bind, a base DN (without a domain) selects
// search-then-bind. Neither being set while enabled is a startup error.
type Directory struct {
	Enabled      bool          `env:"LDAP_ENABLED" envDefault:"false"`
	Server       string        `env:"LDAP_SERVER"`
	Port         int           `env:"LDAP_PORT" envDefault:"389"`
	UseSSL       bool          `env:"LDAP_USE_SSL" envDefault:"false"`
	BindDN       string        `env:"LDAP_BIND_DN"`
	BindPassword string        `env:"LDAP_BIND_PASSWORD"`
	BaseDN       string        `env:"LDAP_BASE_DN"`
	Domain       string        `env:"LDAP_DOMAIN"`
	UserFilter   string        `env:"LDAP_USER_FILTER" envDefault:"(uid={username})"`
	AttrEmail    string        `env:"LDAP_ATTR_EMAIL" envDefault:"mail"`
	AttrFullName string        `env:"LDAP_ATTR_FULLNAME" envDefault:"cn"`
	Timeout      time.Duration `env:"LDAP_TIMEOUT" envDefault:"10s"`
}

func (d Directory) validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Server == "" {
		return errors.New("config: LDAP_ENABLED is set but LDAP_SERVER is not configured")
	}
	if d.Domain == "" && d.BaseDN == "" {
		return errors.New("config: directory auth requires either LDAP_DOMAIN (UPN bind) or LDAP_BASE_DN (search-then-bind)")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return errors.Errorf("config: invalid LDAP_PORT %d", d.Port)
	}
	if !strings.Contains(d.UserFilter, "{username}") {
		return errors.Errorf("config: LDAP_USER_FILTER %q is missing the {username} placeholder", d.UserFilter)
	}
	if d.Timeout <= 0 {
		return errors.Errorf("config: LDAP_TIMEOUT must be positive, got %s", d.Timeout)
	}
	return nil
}
