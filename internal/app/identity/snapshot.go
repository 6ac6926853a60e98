package identity

import (
	"beatdeck/internal/domain/playlist"
	"beatdeck/internal/domain/user"
)

// snapshot is the JSON document the store persists to the storage adapter.
// It covers exactly the fields that survive a restart.
type snapshot struct {
	IsLoggedIn     bool                 `json:"isLoggedIn"`
	CurrentUser    *user.User           `json:"currentUser"`
	LikedTracks    []string             `json:"likedTracks"`
	LikedPlaylists []string             `json:"likedPlaylists"`
	RecentlyPlayed []string             `json:"recentlyPlayed"`
	UserPlaylists  []*playlist.Playlist `json:"userPlaylists"`
}

// snapshotLocked captures the persisted fields. Must be called with lock
// held. Slices are copied; the user and playlists are deep-copied so the
// background writer never races a later mutation.
func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{
		IsLoggedIn:     s.loggedIn,
		LikedTracks:    append([]string{}, s.likedTracks...),
		LikedPlaylists: append([]string{}, s.likedPlaylists...),
		RecentlyPlayed: append([]string{}, s.recentlyPlayed...),
	}
	if s.currentUser != nil {
		u := *s.currentUser
		u.Followers = append([]string{}, s.currentUser.Followers...)
		u.Following = append([]string{}, s.currentUser.Following...)
		snap.CurrentUser = &u
	}
	snap.UserPlaylists = make([]*playlist.Playlist, len(s.userPlaylists))
	for i, p := range s.userPlaylists {
		cp := *p
		cp.TrackIDs = append([]string{}, p.TrackIDs...)
		snap.UserPlaylists[i] = &cp
	}
	return snap
}

// restore applies a loaded snapshot. Called once before the store is
// shared, so no locking.
func (s *Store) restore(snap snapshot) {
	s.loggedIn = snap.IsLoggedIn
	s.currentUser = snap.CurrentUser
	if snap.LikedTracks != nil {
		s.likedTracks = snap.LikedTracks
	}
	if snap.LikedPlaylists != nil {
		s.likedPlaylists = snap.LikedPlaylists
	}
	if snap.RecentlyPlayed != nil {
		s.recentlyPlayed = snap.RecentlyPlayed
	}
	if snap.UserPlaylists != nil {
		s.userPlaylists = snap.UserPlaylists
	}
}
