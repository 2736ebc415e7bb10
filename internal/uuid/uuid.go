package uuid

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// UUID is the identifier type used across the service. It rides on
// google/uuid but scans from and serialises to the BINARY(16) columns
// the schema uses.
type UUID uuid.UUID

// Nil is the zero UUID, never handed out by NewUUID.
var Nil UUID

// NewUUID returns a random (version 4) UUID.
func NewUUID() UUID {
	return UUID(uuid.New())
}

// Parse converts a canonical textual UUID into a UUID. It rejects
// anything google/uuid would reject.
func Parse(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return UUID(id), nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// IsNil reports whether u is the zero UUID.
func (u UUID) IsNil() bool {
	return u == Nil
}

// Scan accepts the raw 16 bytes a BINARY(16) column yields, plus the
// textual form some drivers return when interpolation is on.
func (u *UUID) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return err
		}
		*u = UUID(id)
		return nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*u = UUID(id)
		return nil
	default:
		return fmt.Errorf("UUID.Scan: cannot scan %T", src)
	}
}

func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).MarshalBinary()
}

func (u UUID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(u).String()), nil
}

func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*u = UUID(parsed)
	return nil
}
