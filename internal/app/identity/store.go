// Package identity provides the identity store: the single source of truth
// for who is logged in and what they own and like.
//
// Mutations apply optimistically in memory and enqueue a snapshot for the
// persistence adapter; a persistence failure never rolls a mutation back.
package identity

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"beatdeck/internal/app/analytics"
	"beatdeck/internal/domain/playlist"
	"beatdeck/internal/domain/user"
	"beatdeck/internal/infra/account"
	"beatdeck/internal/infra/storage"
)

// Config holds identity store configuration.
type Config struct {
	RecentLimit int // Recently-played capacity; 20 when zero
}

const defaultRecentLimit = 20

// Store is the identity store. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	// Collaborators
	accounts account.Service
	storage  storage.Store
	bus      *analytics.Bus

	recentLimit int

	// Session state
	loggedIn       bool
	currentUser    *user.User
	likedTracks    []string
	likedPlaylists []string
	recentlyPlayed []string
	userPlaylists  []*playlist.Playlist
	showLoginModal bool

	// Single-flight guard for Login/Register
	authInFlight bool

	// Persistence
	persistCh   chan []byte
	persistDone chan struct{}
	pending     sync.WaitGroup
	closed      bool
}

// New creates the identity store, restoring any persisted snapshot.
// bus may be nil. A snapshot that fails to load is logged and discarded;
// the store starts fresh.
func New(cfg Config, accounts account.Service, store storage.Store, bus *analytics.Bus) *Store {
	limit := cfg.RecentLimit
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	s := &Store{
		accounts:       accounts,
		storage:        store,
		bus:            bus,
		recentLimit:    limit,
		likedTracks:    make([]string, 0),
		likedPlaylists: make([]string, 0),
		recentlyPlayed: make([]string, 0),
		userPlaylists:  make([]*playlist.Playlist, 0),
		persistCh:      make(chan []byte, 1),
		persistDone:    make(chan struct{}),
	}
	s.load()
	go s.runPersister()
	return s
}

// load restores the persisted snapshot, if any.
func (s *Store) load() {
	data, ok, err := s.storage.Get(context.Background(), storage.UserStateKey)
	if err != nil {
		zlog.Warn().Err(err).Msg("identity: failed to load snapshot")
		return
	}
	if !ok {
		return
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		zlog.Warn().Err(err).Msg("identity: discarding corrupt snapshot")
		return
	}
	s.restore(snap)
}

// Close flushes the final snapshot and stops the background writer.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	data, err := json.Marshal(s.snapshotLocked())
	s.mu.Unlock()

	close(s.persistCh)
	<-s.persistDone

	if err != nil {
		return errors.Wrap(err, "failed to marshal final snapshot")
	}
	return s.storage.Set(context.Background(), storage.UserStateKey, data)
}

// Login validates the credential pair against the account service.
// Returns false (with nil error) on credential mismatch. A second call
// while one is in flight fails fast with ErrAuthInFlight.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	if err := s.beginAuth(); err != nil {
		return false, err
	}
	defer s.endAuth()

	s.publish(analytics.EventCustom, map[string]any{
		"category": "auth",
		"action":   "login_attempt",
		"username": username,
	})

	u, playlists, err := s.accounts.Authenticate(ctx, username, password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		s.publish(analytics.EventCustom, map[string]any{
			"category": "auth",
			"action":   "login_failed",
			"username": username,
			"reason":   "invalid_credentials",
		})
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.loggedIn = true
	s.currentUser = u
	s.userPlaylists = playlists
	s.showLoginModal = false
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventUserLogin, map[string]any{
		"user_id":    u.ID,
		"username":   u.Username,
		"is_premium": u.IsPremium,
	})
	return true, nil
}

// Register creates a new account and signs it in. Subject to the same
// single-flight guard as Login.
func (s *Store) Register(ctx context.Context, profile user.Profile, password string) (bool, error) {
	if err := s.beginAuth(); err != nil {
		return false, err
	}
	defer s.endAuth()

	s.publish(analytics.EventCustom, map[string]any{
		"category": "auth",
		"action":   "register_attempt",
		"email":    profile.Email,
	})

	u, err := s.accounts.Register(ctx, profile, password)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.loggedIn = true
	s.currentUser = u
	s.userPlaylists = make([]*playlist.Playlist, 0)
	s.showLoginModal = false
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventCustom, map[string]any{
		"category": "auth",
		"action":   "register_success",
		"user_id":  u.ID,
		"username": u.Username,
	})
	return true, nil
}

// Logout clears the session, liked sets, and owned playlists.
// The recently-played history is device-local and survives sign-out.
func (s *Store) Logout() {
	s.mu.Lock()
	var userID string
	if s.currentUser != nil {
		userID = s.currentUser.ID
	}
	s.loggedIn = false
	s.currentUser = nil
	s.likedTracks = make([]string, 0)
	s.likedPlaylists = make([]string, 0)
	s.userPlaylists = make([]*playlist.Playlist, 0)
	s.persistLocked()
	s.mu.Unlock()

	if userID != "" {
		s.publish(analytics.EventUserLogout, map[string]any{"user_id": userID})
	}
}

// IsLoggedIn reports whether a user is signed in.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// CurrentUser returns a copy of the signed-in user.
func (s *Store) CurrentUser() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentUser == nil {
		return user.User{}, false
	}
	return *s.currentUser, true
}

// ShowLoginModal reports the login-prompt signal.
func (s *Store) ShowLoginModal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showLoginModal
}

// SetShowLoginModal sets the login-prompt signal.
func (s *Store) SetShowLoginModal(show bool) {
	s.mu.Lock()
	s.showLoginModal = show
	s.mu.Unlock()

	action := "login_modal_close"
	if show {
		action = "login_modal_open"
	}
	s.publish(analytics.EventCustom, map[string]any{
		"category": "ui_interaction",
		"action":   action,
	})
}

// ProfileUpdate carries partial profile fields; nil fields are untouched.
type ProfileUpdate struct {
	DisplayName   *string
	Email         *string
	Bio           *string
	AvatarURL     *string
	CoverImageURL *string
}

func (u ProfileUpdate) fieldNames() []string {
	names := make([]string, 0, 5)
	if u.DisplayName != nil {
		names = append(names, "displayName")
	}
	if u.Email != nil {
		names = append(names, "email")
	}
	if u.Bio != nil {
		names = append(names, "bio")
	}
	if u.AvatarURL != nil {
		names = append(names, "avatarUrl")
	}
	if u.CoverImageURL != nil {
		names = append(names, "coverImageUrl")
	}
	return names
}

// UpdateProfile applies partial profile updates. No-op when logged out.
func (s *Store) UpdateProfile(updates ProfileUpdate) {
	s.mu.Lock()
	if s.currentUser == nil {
		s.mu.Unlock()
		return
	}
	if updates.DisplayName != nil {
		s.currentUser.DisplayName = *updates.DisplayName
	}
	if updates.Email != nil {
		s.currentUser.Email = *updates.Email
	}
	if updates.Bio != nil {
		s.currentUser.Bio = *updates.Bio
	}
	if updates.AvatarURL != nil {
		s.currentUser.AvatarURL = *updates.AvatarURL
	}
	if updates.CoverImageURL != nil {
		s.currentUser.CoverImageURL = *updates.CoverImageURL
	}
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventUserProfileUpdate, map[string]any{
		"user_id":        userID,
		"updated_fields": updates.fieldNames(),
	})
}

// FollowUser adds userID to the current user's following set.
// Idempotent; self-follow is rejected.
func (s *Store) FollowUser(userID string) {
	s.mu.Lock()
	if s.currentUser == nil || !s.currentUser.Follow(userID) {
		s.mu.Unlock()
		return
	}
	actorID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventUserFollow, map[string]any{
		"user_id":          actorID,
		"followed_user_id": userID,
	})
}

// UnfollowUser removes userID from the following set. Idempotent.
func (s *Store) UnfollowUser(userID string) {
	s.mu.Lock()
	if s.currentUser == nil || !s.currentUser.Unfollow(userID) {
		s.mu.Unlock()
		return
	}
	actorID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventUserUnfollow, map[string]any{
		"user_id":            actorID,
		"unfollowed_user_id": userID,
	})
}

// IsFollowing reports whether the current user follows userID.
func (s *Store) IsFollowing(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser != nil && s.currentUser.IsFollowing(userID)
}

// LikeTrack adds the track to the liked set. When logged out the mutation
// is dropped and the login prompt is signalled instead.
func (s *Store) LikeTrack(trackID string) {
	s.mu.Lock()
	if !s.loggedIn {
		s.showLoginModal = true
		s.mu.Unlock()
		return
	}
	if contains(s.likedTracks, trackID) {
		s.mu.Unlock()
		return
	}
	s.likedTracks = append(s.likedTracks, trackID)
	userID := s.currentUserIDLocked()
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventTrackLike, map[string]any{
		"user_id":  userID,
		"track_id": trackID,
	})
}

// UnlikeTrack removes the track from the liked set. Idempotent.
func (s *Store) UnlikeTrack(trackID string) {
	s.mu.Lock()
	removed := remove(&s.likedTracks, trackID)
	userID := s.currentUserIDLocked()
	if removed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if removed {
		s.publish(analytics.EventTrackUnlike, map[string]any{
			"user_id":  userID,
			"track_id": trackID,
		})
	}
}

// IsTrackLiked reports whether the track is in the liked set.
func (s *Store) IsTrackLiked(trackID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.likedTracks, trackID)
}

// LikePlaylist adds the playlist to the liked set, gated like LikeTrack.
func (s *Store) LikePlaylist(playlistID string) {
	s.mu.Lock()
	if !s.loggedIn {
		s.showLoginModal = true
		s.mu.Unlock()
		return
	}
	if contains(s.likedPlaylists, playlistID) {
		s.mu.Unlock()
		return
	}
	s.likedPlaylists = append(s.likedPlaylists, playlistID)
	userID := s.currentUserIDLocked()
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventPlaylistLike, map[string]any{
		"user_id":     userID,
		"playlist_id": playlistID,
	})
}

// UnlikePlaylist removes the playlist from the liked set. Idempotent.
func (s *Store) UnlikePlaylist(playlistID string) {
	s.mu.Lock()
	removed := remove(&s.likedPlaylists, playlistID)
	userID := s.currentUserIDLocked()
	if removed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if removed {
		s.publish(analytics.EventPlaylistUnlike, map[string]any{
			"user_id":     userID,
			"playlist_id": playlistID,
		})
	}
}

// IsPlaylistLiked reports whether the playlist is in the liked set.
func (s *Store) IsPlaylistLiked(playlistID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.likedPlaylists, playlistID)
}

// AddToRecentlyPlayed inserts the track at the front of the
// recently-played list. Re-adding an existing id moves it to the front;
// the oldest entry is evicted over capacity.
func (s *Store) AddToRecentlyPlayed(trackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remove(&s.recentlyPlayed, trackID)
	s.recentlyPlayed = append([]string{trackID}, s.recentlyPlayed...)
	if len(s.recentlyPlayed) > s.recentLimit {
		s.recentlyPlayed = s.recentlyPlayed[:s.recentLimit]
	}
	s.persistLocked()
}

// RecentlyPlayed returns a copy of the recently-played track ids,
// most recent first.
func (s *Store) RecentlyPlayed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.recentlyPlayed...)
}

// LikedTracks returns a copy of the liked track ids.
func (s *Store) LikedTracks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.likedTracks...)
}

// LikedPlaylists returns a copy of the liked playlist ids.
func (s *Store) LikedPlaylists() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.likedPlaylists...)
}

func (s *Store) currentUserIDLocked() string {
	if s.currentUser == nil {
		return ""
	}
	return s.currentUser.ID
}

// beginAuth acquires the single-flight authentication guard.
func (s *Store) beginAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authInFlight {
		return ErrAuthInFlight
	}
	s.authInFlight = true
	return nil
}

func (s *Store) endAuth() {
	s.mu.Lock()
	s.authInFlight = false
	s.mu.Unlock()
}

// persistLocked marshals a snapshot and hands it to the background
// writer. Latest snapshot wins: a pending unwritten snapshot is replaced
// rather than queued. Must be called with lock held.
func (s *Store) persistLocked() {
	if s.closed {
		return
	}
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		zlog.Warn().Err(err).Msg("identity: failed to marshal snapshot")
		return
	}
	s.pending.Add(1)
	for {
		select {
		case s.persistCh <- data:
			return
		default:
			// Drop the stale pending snapshot and retry
			select {
			case <-s.persistCh:
				s.pending.Done()
			default:
			}
		}
	}
}

// runPersister writes snapshots until the channel closes. Write errors
// are logged and never surfaced; in-memory state stays authoritative.
func (s *Store) runPersister() {
	defer close(s.persistDone)
	for data := range s.persistCh {
		s.write(data)
	}
}

func (s *Store) write(data []byte) {
	defer s.pending.Done()
	if err := s.storage.Set(context.Background(), storage.UserStateKey, data); err != nil {
		zlog.Warn().Err(err).Msg("identity: failed to persist snapshot")
	}
}

// publish emits an analytics event. Fire-and-forget; nil bus is fine.
func (s *Store) publish(name string, fields map[string]any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(name, fields)
}

// Flush blocks until the pending snapshot, if any, has been written.
// Intended for tests and shutdown paths.
func (s *Store) Flush() {
	s.pending.Wait()
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// remove deletes id from the slice, reporting whether it was present.
func remove(ids *[]string, id string) bool {
	for i, v := range *ids {
		if v == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}
