package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "accountd/pkg/domain-errors"
)

// AccountID identifies a stored account record. It is a storage key only and
// is never part of the account value itself.
type AccountID uuid.UUID

// NewAccountID returns a fresh random AccountID.
func NewAccountID() AccountID {
	return AccountID(uuid.New())
}

// ParseAccountID parses an AccountID from external input.
//
// Errors: returns CodeInvalidInput for empty, malformed or nil UUIDs.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account ID")
	if err != nil {
		return AccountID{}, err
	}
	return AccountID(u), nil
}

func (id AccountID) String() string {
	return uuid.UUID(id).String()
}

func (id AccountID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText lets AccountID serialize as its canonical UUID string.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *AccountID) UnmarshalText(b []byte) error {
	parsed, err := ParseAccountID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
