package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProfileFields is the server profile as embedded in the session context.
// Every field is optional.
type ProfileFields struct {
	Pot   *float64 `json:"pot,omitempty"`
	Watts *float64 `json:"watts,omitempty"`
	City  *string  `json:"city,omitempty"`
}

// SessionContext is read once at startup and never changes afterwards.
type SessionContext struct {
	Authenticated bool          `json:"isAuthenticated"`
	Profile       ProfileFields `json:"profile"`
}

// Anonymous is the context of a client without a server session.
var Anonymous = SessionContext{}

// ParseSessionContext decodes the session blob. An empty blob is anonymous,
// and the profile of an unauthenticated session is ignored.
func ParseSessionContext(raw []byte) (SessionContext, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Anonymous, nil
	}
	var sc SessionContext
	if err := json.Unmarshal(raw, &sc); err != nil {
		return Anonymous, fmt.Errorf("decode session context: %w", err)
	}
	if !sc.Authenticated {
		sc.Profile = ProfileFields{}
	}
	return sc, nil
}
