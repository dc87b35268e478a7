package session

// User is the authenticated identity, replaced wholesale on login and
// profile update, cleared on logout.
type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Status is the session state machine position. StatusUnknown covers the
// pre-bootstrap interval: view code must not read it as anonymous.
type Status int

const (
	StatusUnknown Status = iota
	StatusAnonymous
	StatusAuthenticating
	StatusAuthenticated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusFailed:
		return "error"
	default:
		return "unknown"
	}
}

// State invariants: IsAuthenticated implies User and Token are set; Loading
// is true only while a login or register is in flight; Error is cleared on
// any successful transition.
type State struct {
	Status          Status
	User            *User
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}
