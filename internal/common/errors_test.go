package common

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestFromDB(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"nil stays nil", nil, func(err error) bool { return err == nil }},
		{"duplicate key becomes conflict", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), func(err error) bool {
			var ce *ConflictError
			return errors.As(err, &ce) && ce.Message == "taken"
		}},
		{"domain error passes through", NotFound("Player"), func(err error) bool {
			var ne *NotFoundError
			return errors.As(err, &ne) && ne.Resource == "Player"
		}},
		{"other errors become persistence errors", boom, func(err error) bool {
			var pe *PersistenceError
			return errors.As(err, &pe) && errors.Is(err, boom)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDB(tt.err, "save player", "taken")
			if !tt.check(got) {
				t.Errorf("FromDB(%v) = %#v", tt.err, got)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NotFound("Season").Error(); got != "Season not found" {
		t.Errorf("NotFound message = %q", got)
	}
	if got := AccessDenied("").Error(); got != "Access to this team is forbidden" {
		t.Errorf("AccessDenied default message = %q", got)
	}
	if got := Validation("position %d out of range", 21).Error(); got != "position 21 out of range" {
		t.Errorf("Validation message = %q", got)
	}
}
