package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID identifies the API caller that owns a report. It is taken from the
// subject of the caller's bearer token.
type UserID uuid.UUID

// String returns the canonical UUID representation of the ID.
func (id UserID) String() string { return uuid.UUID(id).String() }

// ParseUserID parses a token subject into a UserID.
func ParseUserID(subject string) (UserID, error) {
	u, err := uuid.Parse(subject)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user id %q: %w", subject, err)
	}

	return UserID(u), nil
}
