package directory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-gateway/directory"
	"github.com/jrsteele09/go-identity-gateway/internal/config"
)

type fakeConn struct {
	bindErrs    map[string]error // keyed by bind DN, missing means success
	bindCalls   []string
	searchReq   *ldap.SearchRequest
	searchRes   *ldap.SearchResult
	searchErr   error
	closed      bool
}

func (f *fakeConn) Bind(username, password string) error {
	f.bindCalls = append(f.bindCalls, username)
	return f.bindErrs[username]
}

func (f *fakeConn) UnauthenticatedBind(username string) error {
	f.bindCalls = append(f.bindCalls, "anonymous")
	return f.bindErrs["anonymous"]
}

func (f *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.searchReq = req
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchRes != nil {
		return f.searchRes, nil
	}
	return &ldap.SearchResult{}, nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func dialTo(conn *fakeConn) directory.DialFunc {
	return func(ctx context.Context, cfg config.Directory) (directory.Conn, error) {
		return conn, nil
	}
}

func invalidCredentials() error {
	return ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials"))
}

func entryResult(dn string, attrs map[string]string) *ldap.SearchResult {
	entry := &ldap.Entry{DN: dn}
	for name, value := range attrs {
		entry.Attributes = append(entry.Attributes, &ldap.EntryAttribute{
			Name:   name,
			Values: []string{value},
		})
	}
	return &ldap.SearchResult{Entries: []*ldap.Entry{entry}}
}

func upnConfig() config.Directory {
	return config.Directory{
		Enabled:      true,
		Server:       "ldap.corp.local",
		Port:         389,
		Domain:       "corp.local",
		UserFilter:   "(sAMAccountName={username})",
		AttrEmail:    "mail",
		AttrFullName: "displayName",
		Timeout:      5 * time.Second,
	}
}

func searchBindConfig() config.Directory {
	return config.Directory{
		Enabled:      true,
		Server:       "ldap.corp.local",
		Port:         389,
		BaseDN:       "dc=corp,dc=local",
		BindDN:       "cn=service,dc=corp,dc=local",
		BindPassword: "service-secret",
		UserFilter:   "(uid={username})",
		AttrEmail:    "mail",
		AttrFullName: "cn",
		Timeout:      5 * time.Second,
	}
}

func TestNewRequiresStrategyConfiguration(t *testing.T) {
	cfg := upnConfig()
	cfg.Domain = ""
	cfg.BaseDN = ""

	_, err := directory.New(cfg)
	require.Error(t, err)
}

func TestUPNBindResolvesWithSynthesizedAttributes(t *testing.T) {
	conn := &fakeConn{}
	auth, err := directory.New(upnConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "alice", "secret")

	require.Equal(t, directory.StatusResolved, result.Status)
	require.Equal(t, "alice@corp.local", result.Identity.Email)
	require.Equal(t, "alice", result.Identity.FullName)
	require.Equal(t, []string{"alice@corp.local"}, conn.bindCalls)
	require.True(t, conn.closed)
}

func TestUPNBindInvalidCredentialsIsRejected(t *testing.T) {
	conn := &fakeConn{bindErrs: map[string]error{
		"alice@corp.local": invalidCredentials(),
	}}
	auth, err := directory.New(upnConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "alice", "wrong")
	require.Equal(t, directory.StatusRejected, result.Status)
}

func TestUPNBindDialFailureIsUnavailable(t *testing.T) {
	dial := func(ctx context.Context, cfg config.Directory) (directory.Conn, error) {
		return nil, errors.New("connection refused")
	}
	auth, err := directory.New(upnConfig(), directory.WithDialFunc(dial))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "alice", "secret")
	require.Equal(t, directory.StatusUnavailable, result.Status)
}

func TestUPNAttributeLookupFailureNeverUndoesBind(t *testing.T) {
	cfg := upnConfig()
	cfg.BaseDN = "dc=corp,dc=local"
	conn := &fakeConn{searchErr: errors.New("search failed")}
	auth, err := directory.New(cfg, directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "alice", "secret")

	require.Equal(t, directory.StatusResolved, result.Status)
	require.Equal(t, "alice@corp.local", result.Identity.Email)
	require.Equal(t, "alice", result.Identity.FullName)
}

func TestUPNAttributeLookupUsesMappedAttributes(t *testing.T) {
	cfg := upnConfig()
	cfg.BaseDN = "dc=corp,dc=local"
	conn := &fakeConn{searchRes: entryResult("cn=alice,dc=corp,dc=local", map[string]string{
		"mail":        "alice.smith@corp.example",
		"displayName": "Alice Smith",
	})}
	auth, err := directory.New(cfg, directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "alice", "secret")

	require.Equal(t, directory.StatusResolved, result.Status)
	require.Equal(t, "alice.smith@corp.example", result.Identity.Email)
	require.Equal(t, "Alice Smith", result.Identity.FullName)
}

func TestSearchBindNoEntriesIsRejected(t *testing.T) {
	conn := &fakeConn{}
	auth, err := directory.New(searchBindConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "ghost", "secret")

	require.Equal(t, directory.StatusRejected, result.Status)
	require.Equal(t, []string{"cn=service,dc=corp,dc=local"}, conn.bindCalls)
}

func TestSearchBindResolvesViaEntryDN(t *testing.T) {
	conn := &fakeConn{searchRes: entryResult("uid=bob,dc=corp,dc=local", map[string]string{
		"mail": "bob@corp.example",
		"cn":   "Bob Jones",
	})}
	auth, err := directory.New(searchBindConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "bob", "secret")

	require.Equal(t, directory.StatusResolved, result.Status)
	require.Equal(t, "bob@corp.example", result.Identity.Email)
	require.Equal(t, "Bob Jones", result.Identity.FullName)
	require.Equal(t, []string{"cn=service,dc=corp,dc=local", "uid=bob,dc=corp,dc=local"}, conn.bindCalls)
}

func TestSearchBindUserBindRejection(t *testing.T) {
	conn := &fakeConn{
		searchRes: entryResult("uid=bob,dc=corp,dc=local", nil),
		bindErrs: map[string]error{
			"uid=bob,dc=corp,dc=local": invalidCredentials(),
		},
	}
	auth, err := directory.New(searchBindConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "bob", "wrong")
	require.Equal(t, directory.StatusRejected, result.Status)
}

func TestSearchBindMissingAttributesFallBack(t *testing.T) {
	conn := &fakeConn{searchRes: entryResult("uid=bob,dc=corp,dc=local", nil)}
	auth, err := directory.New(searchBindConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "bob", "secret")

	require.Equal(t, directory.StatusResolved, result.Status)
	require.Equal(t, "bob@unknown", result.Identity.Email)
	require.Equal(t, "bob", result.Identity.FullName)
}

func TestSearchBindServiceBindFailureIsUnavailable(t *testing.T) {
	conn := &fakeConn{bindErrs: map[string]error{
		"cn=service,dc=corp,dc=local": errors.New("server down"),
	}}
	auth, err := directory.New(searchBindConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "bob", "secret")
	require.Equal(t, directory.StatusUnavailable, result.Status)
}

func TestSearchBindAnonymousWhenNoServiceBind(t *testing.T) {
	cfg := searchBindConfig()
	cfg.BindDN = ""
	cfg.BindPassword = ""
	conn := &fakeConn{searchRes: entryResult("uid=bob,dc=corp,dc=local", nil)}
	auth, err := directory.New(cfg, directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	result := auth.Authenticate(context.Background(), "bob", "secret")

	require.Equal(t, directory.StatusResolved, result.Status)
	require.Equal(t, []string{"anonymous", "uid=bob,dc=corp,dc=local"}, conn.bindCalls)
}

func TestSearchFilterEscapesUsername(t *testing.T) {
	conn := &fakeConn{}
	auth, err := directory.New(searchBindConfig(), directory.WithDialFunc(dialTo(conn)))
	require.NoError(t, err)

	auth.Authenticate(context.Background(), "bo*b)(uid=*", "secret")

	require.NotNil(t, conn.searchReq)
	require.Equal(t, "(uid=bo\\2ab\\29\\28uid=\\2a)", conn.searchReq.Filter)
}

func TestEmptyCredentialsAreRejectedWithoutDialing(t *testing.T) {
	dial := func(ctx context.Context, cfg config.Directory) (directory.Conn, error) {
		t.Fatal("dial should not be called")
		return nil, nil
	}
	auth, err := directory.New(upnConfig(), directory.WithDialFunc(dial))
	require.NoError(t, err)

	require.Equal(t, directory.StatusRejected, auth.Authenticate(context.Background(), "alice", "").Status)
	require.Equal(t, directory.StatusRejected, auth.Authenticate(context.Background(), "", "secret").Status)
}
