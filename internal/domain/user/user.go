// Package user provides the User domain entity.
package user

import (
	"time"

	"github.com/google/uuid"
)

// Stats holds aggregate counters shown on a profile.
type Stats struct {
	TotalPlays     int `json:"totalPlays"`
	TotalLikes     int `json:"totalLikes"`
	TotalFollowers int `json:"totalFollowers"`
	TotalFollowing int `json:"totalFollowing"`
	TotalTracks    int `json:"totalTracks"`
	TotalPlaylists int `json:"totalPlaylists"`
}

// Subscription represents an attached premium subscription.
type Subscription struct {
	Plan      string    `json:"plan"`      // Plan id (e.g. "monthly", "yearly")
	StartDate time.Time `json:"startDate"` // Subscription start
	EndDate   time.Time `json:"endDate"`   // Subscription end
	AutoRenew bool      `json:"autoRenew"` // Auto-renew flag
}

// User represents an account. Accounts are never hard-deleted in this scope;
// logout only clears the session.
type User struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	DisplayName   string        `json:"displayName"`
	Email         string        `json:"email"`
	Bio           string        `json:"bio,omitempty"`
	AvatarURL     string        `json:"avatarUrl,omitempty"`
	CoverImageURL string        `json:"coverImageUrl,omitempty"`
	Followers     []string      `json:"followers"` // User ids following this user
	Following     []string      `json:"following"` // User ids this user follows
	CreatedAt     time.Time     `json:"createdAt"`
	IsVerified    bool          `json:"isVerified"`
	IsPremium     bool          `json:"isPremium"`
	Subscription  *Subscription `json:"subscription,omitempty"`
	Stats         Stats         `json:"stats"`
}

// Profile carries the caller-supplied fields for registration.
type Profile struct {
	Username      string
	DisplayName   string
	Email         string
	Bio           string
	AvatarURL     string
	CoverImageURL string
}

// New creates a freshly registered user with zeroed stats.
func New(p Profile) *User {
	username := p.Username
	if username == "" {
		username = "user"
	}
	displayName := p.DisplayName
	if displayName == "" {
		displayName = username
	}
	return &User{
		ID:            uuid.New().String(),
		Username:      username,
		DisplayName:   displayName,
		Email:         p.Email,
		Bio:           p.Bio,
		AvatarURL:     p.AvatarURL,
		CoverImageURL: p.CoverImageURL,
		Followers:     make([]string, 0),
		Following:     make([]string, 0),
		CreatedAt:     time.Now(),
	}
}

// IsFollowing reports whether this user follows userID.
func (u *User) IsFollowing(userID string) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}

// Follow adds userID to the following set and bumps the stat.
// Returns false (no-op) for self-follow or when already following.
func (u *User) Follow(userID string) bool {
	if userID == u.ID {
		return false
	}
	if u.IsFollowing(userID) {
		return false
	}
	u.Following = append(u.Following, userID)
	u.Stats.TotalFollowing++
	return true
}

// Unfollow removes userID from the following set and decrements the stat.
// Returns false (no-op) when not following.
func (u *User) Unfollow(userID string) bool {
	for i, id := range u.Following {
		if id == userID {
			u.Following = append(u.Following[:i], u.Following[i+1:]...)
			if u.Stats.TotalFollowing > 0 {
				u.Stats.TotalFollowing--
			}
			return true
		}
	}
	return false
}

// IsSubscribed reports whether the user has an active premium entitlement:
// either the premium flag is set or an attached subscription has not expired.
func (u *User) IsSubscribed(now time.Time) bool {
	if u.IsPremium {
		return true
	}
	if u.Subscription != nil {
		return u.Subscription.EndDate.After(now)
	}
	return false
}
