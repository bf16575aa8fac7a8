// internal/models/base.go
package models

import (
	"database/sql/driver"
	"fmt"
)

// Roster slots are numbered 1..20 within a season.
const (
	MinRosterPosition = 1
	MaxRosterPosition = 20

	// SwapHoldingPosition parks a slot during a swap. It is outside the valid
	// range, so readers never treat it as a real assignment.
	SwapHoldingPosition = 999
)

// ValidRosterPosition reports whether p is an assignable slot.
func ValidRosterPosition(p int) bool {
	return p >= MinRosterPosition && p <= MaxRosterPosition
}

type PlayerStatus string

const (
	PlayerActive   PlayerStatus = "active"
	PlayerInactive PlayerStatus = "inactive"
)

func (s PlayerStatus) Valid() bool {
	return s == PlayerActive || s == PlayerInactive
}

func (s PlayerStatus) Value() (driver.Value, error) {
	if s == "" {
		return string(PlayerActive), nil
	}
	if !s.Valid() {
		return nil, fmt.Errorf("PlayerStatus: invalid value %q", string(s))
	}
	return string(s), nil
}

// Scan reads the status column, which drivers hand back as string or []byte.
func (s *PlayerStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = PlayerStatus(v)
	case []byte:
		*s = PlayerStatus(v)
	case nil:
		*s = PlayerActive
	default:
		return fmt.Errorf("PlayerStatus: expected string, got %T", src)
	}
	return nil
}
