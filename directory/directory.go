package directory

// Status tags the outcome of a directory authentication attempt. Strategies
// return a tagged Result instead of errors so the orchestrator's fallthrough
// is a plain branch on the status.
type Status int

const (
	// StatusResolved means the directory proved the credentials and an
	// identity was resolved.
	StatusResolved Status = iota

	// StatusRejected covers both "no such user" and "bad credentials". The
	// caller cannot tell them apart, which prevents username enumeration.
	StatusRejected

	// StatusUnavailable means the directory could not be consulted at all:
	// unreachable, misconfigured, or timed out.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusRejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// Identity holds the display attributes resolved for an authenticated user.
type Identity struct {
	Username string
	Email    string
	FullName string
}

// Result is the outcome of one authentication attempt. Identity is only
// populated when Status is StatusResolved.
type Result struct {
	Status   Status
	Identity Identity
}
