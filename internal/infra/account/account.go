// Package account provides the account service capability.
//
// The identity store talks to an account backend through the Service
// interface so the mock used here can later be swapped for a real network
// client without touching the store.
package account

import (
	"context"

	"github.com/cockroachdb/errors"

	"beatdeck/internal/domain/playlist"
	"beatdeck/internal/domain/user"
)

// ErrInvalidCredentials indicates a credential mismatch during Authenticate.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service is the account backend capability.
type Service interface {
	// Authenticate validates the credential pair and, on success, returns
	// the account's user and their owned playlists.
	// Returns ErrInvalidCredentials on mismatch.
	Authenticate(ctx context.Context, username, password string) (*user.User, []*playlist.Playlist, error)

	// Register creates a new account from the supplied profile and returns
	// the freshly created user with zeroed stats.
	Register(ctx context.Context, profile user.Profile, password string) (*user.User, error)
}
