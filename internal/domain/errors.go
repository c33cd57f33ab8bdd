package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateID signals that two assets in a corpus share an id.
	ErrDuplicateID = errors.New("duplicate asset id")
	// ErrInvalidAsset signals an asset record that fails validation.
	ErrInvalidAsset = errors.New("invalid asset")
	// ErrUnknownFacet signals a facet field or value the taxonomy cannot compile.
	ErrUnknownFacet = errors.New("unknown facet")
	// ErrInvalidQuery signals a query descriptor that cannot be built at all.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSessionNotFound signals a missing search session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed signals a submit against a torn-down session.
	ErrSessionClosed = errors.New("session closed")
)

// DuplicateIDError wraps ErrDuplicateID with every colliding id.
type DuplicateIDError struct {
	IDs []string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateID.Error(), strings.Join(e.IDs, ", "))
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// NewDuplicateID creates a duplicate id error.
func NewDuplicateID(ids []string) error {
	return &DuplicateIDError{IDs: ids}
}
