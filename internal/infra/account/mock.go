package account

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"

	"beatdeck/internal/domain/playlist"
	"beatdeck/internal/domain/user"
)

// Demo credential pair accepted by the mock backend.
const (
	DemoUsername = "demo"
	demoPassword = "password"
)

// Mock is an in-process account backend with a single demo account.
//
// Register always succeeds: the mock keeps no user directory, so there is
// no duplicate-username detection. A real backend would reject duplicates.
type Mock struct {
	delay        time.Duration
	demoHash     []byte
	demoUser     *user.User
	demoPlaylist []*playlist.Playlist
}

// NewMock creates the mock backend. delay simulates network latency on
// every call; pass 0 for tests.
func NewMock(delay time.Duration) *Mock {
	// Hashing at construction keeps the credential check honest without
	// baking a hash literal into the source.
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		panic(err) // bcrypt only fails on invalid cost
	}
	return &Mock{
		delay:        delay,
		demoHash:     hash,
		demoUser:     demoUser(),
		demoPlaylist: demoPlaylists(),
	}
}

// Authenticate validates against the demo credential pair.
func (m *Mock) Authenticate(ctx context.Context, username, password string) (*user.User, []*playlist.Playlist, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, nil, err
	}

	if username != DemoUsername {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.demoHash, []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	// Return copies so store mutations never leak back into the fixtures
	u := *m.demoUser
	playlists := make([]*playlist.Playlist, len(m.demoPlaylist))
	for i, p := range m.demoPlaylist {
		cp := *p
		cp.TrackIDs = append([]string{}, p.TrackIDs...)
		playlists[i] = &cp
	}
	return &u, playlists, nil
}

// Register synthesizes a new user. Always succeeds after the simulated delay.
func (m *Mock) Register(ctx context.Context, profile user.Profile, _ string) (*user.User, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}
	return user.New(profile), nil
}

func (m *Mock) sleep(ctx context.Context) error {
	if m.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(m.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "account call cancelled")
	}
}

func demoUser() *user.User {
	return &user.User{
		ID:          "user-1",
		Username:    DemoUsername,
		DisplayName: "Music Lover",
		Email:       "user@example.com",
		Bio:         "Just a music enthusiast exploring new sounds and rhythms.",
		AvatarURL:   "https://images.example.com/avatars/user-1.jpg",
		Followers:   []string{"user-2", "user-3"},
		Following:   []string{"user-4", "user-5"},
		CreatedAt:   time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC),
		IsVerified:  true,
		Stats: user.Stats{
			TotalPlays:     12500,
			TotalLikes:     450,
			TotalFollowers: 120,
			TotalFollowing: 85,
			TotalTracks:    15,
			TotalPlaylists: 8,
		},
	}
}

func demoPlaylists() []*playlist.Playlist {
	return []*playlist.Playlist{
		{
			ID:          "playlist-1",
			Name:        "My Favorites",
			Description: "A collection of my all-time favorite tracks",
			CoverArt:    "https://images.example.com/covers/playlist-1.jpg",
			TrackIDs:    []string{"track-1", "track-3", "track-5"},
			OwnerID:     "user-1",
			CreatedAt:   time.Date(2023, 2, 10, 15, 30, 0, 0, time.UTC),
			Likes:       45,
			Plays:       1200,
		},
		{
			ID:          "playlist-2",
			Name:        "Chill Vibes",
			Description: "Perfect for relaxing and unwinding",
			CoverArt:    "https://images.example.com/covers/playlist-2.jpg",
			TrackIDs:    []string{"track-2", "track-4", "track-6"},
			OwnerID:     "user-1",
			CreatedAt:   time.Date(2023, 3, 5, 9, 15, 0, 0, time.UTC),
			Likes:       32,
			Plays:       980,
		},
	}
}
