package identity

import (
	"beatdeck/internal/app/analytics"
	"beatdeck/internal/domain/playlist"
)

// CreatePlaylist creates a playlist owned by the current user and returns
// its id. When logged out the login prompt is signalled and
// ErrNotAuthenticated returned.
func (s *Store) CreatePlaylist(name, description string, isPrivate bool, coverArt string) (string, error) {
	s.mu.Lock()
	if s.currentUser == nil {
		s.showLoginModal = true
		s.mu.Unlock()
		return "", ErrNotAuthenticated
	}
	pl := playlist.New(s.currentUser.ID, name, description, coverArt, isPrivate)
	s.userPlaylists = append(s.userPlaylists, pl)
	s.currentUser.Stats.TotalPlaylists++
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventPlaylistCreate, map[string]any{
		"user_id":     userID,
		"playlist_id": pl.ID,
		"name":        pl.Name,
		"is_private":  pl.IsPrivate,
	})
	return pl.ID, nil
}

// PlaylistUpdate carries partial playlist fields; nil fields are untouched.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	CoverArt    *string
	IsPrivate   *bool
}

// UpdatePlaylist applies partial updates to an owned playlist.
func (s *Store) UpdatePlaylist(playlistID string, updates PlaylistUpdate) error {
	s.mu.Lock()
	pl, err := s.ownedPlaylistLocked(playlistID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if updates.Name != nil {
		pl.Name = *updates.Name
	}
	if updates.Description != nil {
		pl.Description = *updates.Description
	}
	if updates.CoverArt != nil {
		pl.CoverArt = *updates.CoverArt
	}
	if updates.IsPrivate != nil {
		pl.IsPrivate = *updates.IsPrivate
	}
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventPlaylistUpdate, map[string]any{
		"user_id":     userID,
		"playlist_id": playlistID,
	})
	return nil
}

// DeletePlaylist removes an owned playlist and its entry in the liked set.
func (s *Store) DeletePlaylist(playlistID string) error {
	s.mu.Lock()
	if _, err := s.ownedPlaylistLocked(playlistID); err != nil {
		s.mu.Unlock()
		return err
	}
	for i, pl := range s.userPlaylists {
		if pl.ID == playlistID {
			s.userPlaylists = append(s.userPlaylists[:i], s.userPlaylists[i+1:]...)
			break
		}
	}
	remove(&s.likedPlaylists, playlistID)
	if s.currentUser.Stats.TotalPlaylists > 0 {
		s.currentUser.Stats.TotalPlaylists--
	}
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventPlaylistDelete, map[string]any{
		"user_id":     userID,
		"playlist_id": playlistID,
	})
	return nil
}

// AddTrackToPlaylist appends the track to an owned playlist.
// Adding a track already present is a no-op success.
func (s *Store) AddTrackToPlaylist(playlistID, trackID string) error {
	s.mu.Lock()
	pl, err := s.ownedPlaylistLocked(playlistID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !pl.AddTrack(trackID) {
		s.mu.Unlock()
		return nil
	}
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventTrackAddToPlaylist, map[string]any{
		"user_id":     userID,
		"playlist_id": playlistID,
		"track_id":    trackID,
	})
	return nil
}

// RemoveTrackFromPlaylist removes the track from an owned playlist.
// Removing an absent track is a no-op success.
func (s *Store) RemoveTrackFromPlaylist(playlistID, trackID string) error {
	s.mu.Lock()
	pl, err := s.ownedPlaylistLocked(playlistID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !pl.RemoveTrack(trackID) {
		s.mu.Unlock()
		return nil
	}
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventTrackRemoveFromPlaylist, map[string]any{
		"user_id":     userID,
		"playlist_id": playlistID,
		"track_id":    trackID,
	})
	return nil
}

// Playlists returns copies of the current user's playlists.
func (s *Store) Playlists() []playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]playlist.Playlist, 0, len(s.userPlaylists))
	for _, pl := range s.userPlaylists {
		cp := *pl
		cp.TrackIDs = append([]string{}, pl.TrackIDs...)
		out = append(out, cp)
	}
	return out
}

// Playlist returns a copy of one owned playlist by id.
func (s *Store) Playlist(playlistID string) (playlist.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pl := range s.userPlaylists {
		if pl.ID == playlistID {
			cp := *pl
			cp.TrackIDs = append([]string{}, pl.TrackIDs...)
			return cp, true
		}
	}
	return playlist.Playlist{}, false
}

// ownedPlaylistLocked resolves an owned playlist, checking authentication,
// existence, and ownership in that order. Must be called with lock held.
func (s *Store) ownedPlaylistLocked(playlistID string) (*playlist.Playlist, error) {
	if s.currentUser == nil {
		return nil, ErrNotAuthenticated
	}
	for _, pl := range s.userPlaylists {
		if pl.ID == playlistID {
			if !pl.IsOwnedBy(s.currentUser.ID) {
				return nil, ErrNotAuthorized
			}
			return pl, nil
		}
	}
	return nil, ErrPlaylistNotFound
}
