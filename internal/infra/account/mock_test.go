package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatdeck/internal/domain/user"
)

func TestMock_Authenticate(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "demo credentials accepted",
			username: "demo",
			password: "password",
		},
		{
			name:     "wrong password",
			username: "demo",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown username",
			username: "someone",
			password: "password",
			wantErr:  ErrInvalidCredentials,
		},
	}

	m := NewMock(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, playlists, err := m.Authenticate(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", u.ID)
			assert.Len(t, playlists, 2, "demo account seeds two playlists")
		})
	}
}

func TestMock_AuthenticateReturnsCopies(t *testing.T) {
	m := NewMock(0)

	u1, p1, err := m.Authenticate(context.Background(), "demo", "password")
	require.NoError(t, err)

	u1.DisplayName = "Mutated"
	p1[0].TrackIDs = append(p1[0].TrackIDs, "track-99")

	u2, p2, err := m.Authenticate(context.Background(), "demo", "password")
	require.NoError(t, err)
	assert.Equal(t, "Music Lover", u2.DisplayName)
	assert.NotContains(t, p2[0].TrackIDs, "track-99")
}

func TestMock_Register(t *testing.T) {
	m := NewMock(0)

	u, err := m.Register(context.Background(), user.Profile{Username: "fresh", Email: "fresh@example.com"}, "secret")
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "fresh", u.Username)
	assert.Equal(t, user.Stats{}, u.Stats)
}

func TestMock_CancelledContext(t *testing.T) {
	m := NewMock(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := m.Authenticate(ctx, "demo", "password")
	assert.Error(t, err)

	_, err = m.Register(ctx, user.Profile{}, "pw")
	assert.Error(t, err)
}
