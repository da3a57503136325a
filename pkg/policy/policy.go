// Package policy decides whether an actor may perform a method against a kind
// of resource. It has no dependencies on HTTP or storage.
package policy

import "net/http"

// Method is the coarse operation class a request falls into.
type Method int

const (
	Read Method = iota
	Write
)

func (m Method) String() string {
	if m == Read {
		return "read"
	}
	return "write"
}

// MethodFromHTTP maps safe HTTP methods to Read and everything else to Write.
func MethodFromHTTP(method string) Method {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return Read
	default:
		return Write
	}
}

// ResourceKind groups routes that share an access rule.
type ResourceKind int

const (
	// Catalog covers authors, books, genres, languages and book instances.
	Catalog ResourceKind = iota
	// BorrowedAdmin is the view of every outstanding loan.
	BorrowedAdmin
	// Dashboard is the read-only aggregate counts resource.
	Dashboard
	// OwnLoans is the caller's own list of borrowed copies.
	OwnLoans
	// LibrarianRegistration creates accounts that carry the Librarian role.
	LibrarianRegistration
	// UserRegistration creates ordinary member accounts.
	UserRegistration
	// Session covers operations on the caller's own tokens, such as logout.
	Session
)

var resourceKindNames = map[ResourceKind]string{
	Catalog:               "catalog",
	BorrowedAdmin:         "borrowed_admin",
	Dashboard:             "dashboard",
	OwnLoans:              "own_loans",
	LibrarianRegistration: "librarian_registration",
	UserRegistration:      "user_registration",
	Session:               "session",
}

func (k ResourceKind) String() string {
	if name, ok := resourceKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Actor is the caller as seen by the policy. The zero value is anonymous.
type Actor struct {
	Authenticated bool
	IsLibrarian   bool
}

// Anonymous is a caller without a usable access token.
var Anonymous = Actor{}

// Authenticated builds an actor from the librarian claim carried by its token.
func Authenticated(isLibrarian bool) Actor {
	return Actor{Authenticated: true, IsLibrarian: isLibrarian}
}

// Outcome is the result of a policy decision.
type Outcome int

const (
	Permit Outcome = iota
	AuthenticationRequired
	Forbidden
	MethodNotAllowed
)

func (o Outcome) String() string {
	switch o {
	case Permit:
		return "permit"
	case AuthenticationRequired:
		return "authentication_required"
	case Forbidden:
		return "forbidden"
	case MethodNotAllowed:
		return "method_not_allowed"
	}
	return "unknown"
}

// Decide returns the outcome of actor performing method on kind.
func Decide(actor Actor, method Method, kind ResourceKind) Outcome {
	switch kind {
	case Catalog, LibrarianRegistration:
		if method == Read {
			return Permit
		}
		return requireLibrarian(actor)
	case BorrowedAdmin:
		return requireLibrarian(actor)
	case Dashboard:
		if method != Read {
			return MethodNotAllowed
		}
		return Permit
	case OwnLoans:
		if method != Read {
			return MethodNotAllowed
		}
		return requireAuthenticated(actor)
	case UserRegistration:
		return Permit
	case Session:
		return requireAuthenticated(actor)
	}
	// Unknown kinds are closed.
	return requireLibrarian(actor)
}

// Allow reports whether actor may perform method on kind.
func Allow(actor Actor, method Method, kind ResourceKind) bool {
	return Decide(actor, method, kind) == Permit
}

func requireAuthenticated(actor Actor) Outcome {
	if !actor.Authenticated {
		return AuthenticationRequired
	}
	return Permit
}

func requireLibrarian(actor Actor) Outcome {
	if !actor.Authenticated {
		return AuthenticationRequired
	}
	if !actor.IsLibrarian {
		return Forbidden
	}
	return Permit
}
