package ports

import "context"

// Storage persists the session token across process restarts. It is the only
// state that outlives the in-memory stores. Implementations return an empty
// string, not an error, when no token is stored under a name.
type Storage interface {
	SaveToken(name, token string) error
	LoadToken(name string) (string, error)
	ClearToken(name string) error
}

type UserAction string

const (
	ActionApprove    UserAction = "approve"
	ActionRegenerate UserAction = "regenerate"
	ActionSkip       UserAction = "skip"
)

// Interaction asks the user to review content before it is published.
type Interaction interface {
	Confirm(ctx context.Context, title, body string) (UserAction, error)
}
