package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	FactorID ID
	AlertID  ID
	RunID    ID
)

// String conversions for domain IDs
func (id FactorID) String() string { return ID(id).String() }
func (id AlertID) String() string  { return ID(id).String() }
func (id RunID) String() string    { return ID(id).String() }

// NewAlertID creates a unique alert identifier
func NewAlertID() AlertID {
	return AlertID(NewID())
}

// NewRunID creates a unique daily-run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseFactorID parses a string into FactorID
func ParseFactorID(s string) (FactorID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("factor ID cannot be empty")
	}
	return FactorID(s), nil
}
