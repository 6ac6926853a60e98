package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		profile         Profile
		wantUsername    string
		wantDisplayName string
	}{
		{
			name:            "full profile",
			profile:         Profile{Username: "musiclover", DisplayName: "Music Lover", Email: "user@example.com"},
			wantUsername:    "musiclover",
			wantDisplayName: "Music Lover",
		},
		{
			name:            "display name falls back to username",
			profile:         Profile{Username: "musiclover"},
			wantUsername:    "musiclover",
			wantDisplayName: "musiclover",
		},
		{
			name:            "empty profile gets placeholder username",
			profile:         Profile{},
			wantUsername:    "user",
			wantDisplayName: "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(tt.profile)

			assert.NotEmpty(t, u.ID)
			assert.Equal(t, tt.wantUsername, u.Username)
			assert.Equal(t, tt.wantDisplayName, u.DisplayName)
			assert.False(t, u.IsPremium)
			assert.Equal(t, Stats{}, u.Stats)
			assert.Empty(t, u.Followers)
			assert.Empty(t, u.Following)
		})
	}
}

func TestUser_Follow(t *testing.T) {
	tests := []struct {
		name          string
		following     []string
		target        string
		wantOK        bool
		wantFollowing []string
		wantStat      int
	}{
		{
			name:          "follow new user",
			following:     []string{},
			target:        "user-2",
			wantOK:        true,
			wantFollowing: []string{"user-2"},
			wantStat:      1,
		},
		{
			name:          "already following is a no-op",
			following:     []string{"user-2"},
			target:        "user-2",
			wantOK:        false,
			wantFollowing: []string{"user-2"},
			wantStat:      1,
		},
		{
			name:          "self-follow is rejected",
			following:     []string{},
			target:        "user-1",
			wantOK:        false,
			wantFollowing: []string{},
			wantStat:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{ID: "user-1", Following: append([]string{}, tt.following...)}
			u.Stats.TotalFollowing = len(tt.following)

			ok := u.Follow(tt.target)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFollowing, u.Following)
			assert.Equal(t, tt.wantStat, u.Stats.TotalFollowing)
		})
	}
}

func TestUser_Unfollow(t *testing.T) {
	u := &User{ID: "user-1", Following: []string{"user-2", "user-3"}}
	u.Stats.TotalFollowing = 2

	assert.True(t, u.Unfollow("user-2"))
	assert.Equal(t, []string{"user-3"}, u.Following)
	assert.Equal(t, 1, u.Stats.TotalFollowing)

	// Not following: no-op, stat unchanged
	assert.False(t, u.Unfollow("user-2"))
	assert.Equal(t, 1, u.Stats.TotalFollowing)
}

func TestUser_IsSubscribed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		isPremium    bool
		subscription *Subscription
		want         bool
	}{
		{
			name: "no premium, no subscription",
			want: false,
		},
		{
			name:      "premium flag set",
			isPremium: true,
			want:      true,
		},
		{
			name:         "active subscription",
			subscription: &Subscription{Plan: "monthly", EndDate: now.Add(24 * time.Hour)},
			want:         true,
		},
		{
			name:         "expired subscription",
			subscription: &Subscription{Plan: "monthly", EndDate: now.Add(-24 * time.Hour)},
			want:         false,
		},
		{
			name:         "premium flag wins over expired subscription",
			isPremium:    true,
			subscription: &Subscription{Plan: "yearly", EndDate: now.Add(-time.Hour)},
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{ID: "user-1", IsPremium: tt.isPremium, Subscription: tt.subscription}

			assert.Equal(t, tt.want, u.IsSubscribed(now))
		})
	}
}
