package common

import (
	"strconv"
	"strings"
)

const (
	// Context keys
	ContextPrincipalKey = "principal" // access.Principal resolved by the session middleware
	ContextTeamIDKey    = "teamID"    // team id authorized by the team guard
	ContextSessionKey   = "session"   // *token.Claims of the current session
)

// ParseID parses a positive numeric id from a path or query value.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseOptionalID is ParseID for filters: an empty value yields nil.
func ParseOptionalID(raw string) (*uint, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	id, ok := ParseID(raw)
	if !ok {
		return nil, false
	}
	return &id, true
}
