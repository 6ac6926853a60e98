package identity

import "github.com/cockroachdb/errors"

// Errors
var (
	// ErrAuthInFlight indicates another Login/Register call has not
	// resolved yet. Authentication is single-flight guarded.
	ErrAuthInFlight = errors.New("authentication already in flight")

	// ErrNotAuthenticated indicates the operation needs a logged-in user.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotAuthorized indicates the acting user does not own the playlist.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrPlaylistNotFound indicates the playlist id is unknown.
	ErrPlaylistNotFound = errors.New("playlist not found")
)
