package session

import "fmt"

type State int

const (
	Loading State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{Loading, Authenticated, Anonymous} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", b)
}

// Identity is the authenticated actor owning every record it creates.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type Snapshot struct {
	State    State     `json:"state"`
	Identity *Identity `json:"identity,omitempty"`
}
