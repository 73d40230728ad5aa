// Package metadata defines the contract shared by the bibliographic
// lookup providers under this directory.
package metadata

import (
	"context"
	"errors"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
)

// Sentinel errors shared by all providers.
var (
	ErrNotFound      = errors.New("metadata: not found")
	ErrRateLimited   = errors.New("metadata: rate limited by server")
	ErrBadRequest    = errors.New("metadata: bad request")
	ErrServer        = errors.New("metadata: server error")
	ErrNoCredentials = errors.New("metadata: no API credentials configured")
)

// Source is a bibliographic metadata provider. Implementations return
// a partial BookRecord; unknown fields hold domain.Unknown. A miss is
// reported as ErrNotFound, never as an empty record.
type Source interface {
	// Name identifies the provider in merged record source lists.
	Name() string

	// FetchByISBN looks up a book by its ISBN.
	FetchByISBN(ctx context.Context, isbn string) (domain.BookRecord, error)
}
