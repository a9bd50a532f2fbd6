package listing

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidListingType = errors.New("invalid listing type")

type Type string

const (
	TypeVehicle Type = "vehicle"
	TypeDriver  Type = "driver"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeVehicle, TypeDriver:
		return true
	default:
		return false
	}
}

// Ref identifies the subject of availability. The engine treats it as
// opaque beyond equality.
type Ref struct {
	ID   uuid.UUID
	Type Type
}

func NewRef(id uuid.UUID, t Type) (Ref, error) {
	if !t.IsValid() {
		return Ref{}, ErrInvalidListingType
	}
	return Ref{ID: id, Type: t}, nil
}

func (r Ref) Equal(other Ref) bool {
	return r.ID == other.ID && r.Type == other.Type
}
