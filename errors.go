package assetdex

import (
	"errors"

	"github.com/kailas-cloud/assetdex/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDuplicateID     = domain.ErrDuplicateID
	ErrInvalidAsset    = domain.ErrInvalidAsset
	ErrUnknownFacet    = domain.ErrUnknownFacet
	ErrInvalidQuery    = domain.ErrInvalidQuery
	ErrSessionNotFound = domain.ErrSessionNotFound
	ErrSessionClosed   = domain.ErrSessionClosed
)

// ErrSuperseded is returned by Handle.Wait for a query replaced by a newer submission.
var ErrSuperseded = errors.New("query superseded")
