package identity

import (
	"time"

	"beatdeck/internal/app/analytics"
	"beatdeck/internal/domain/user"
)

// UpgradeToPremium flips the premium flag for the current user.
// No-op when logged out.
func (s *Store) UpgradeToPremium() {
	s.mu.Lock()
	if s.currentUser == nil || s.currentUser.IsPremium {
		s.mu.Unlock()
		return
	}
	s.currentUser.IsPremium = true
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventCustom, map[string]any{
		"category": "subscription",
		"action":   "upgrade_to_premium",
		"user_id":  userID,
	})
}

// CancelPremium clears the premium flag and any active subscription.
func (s *Store) CancelPremium() {
	s.mu.Lock()
	if s.currentUser == nil || !s.currentUser.IsPremium {
		s.mu.Unlock()
		return
	}
	s.currentUser.IsPremium = false
	s.currentUser.Subscription = nil
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventCustom, map[string]any{
		"category": "subscription",
		"action":   "cancel_premium",
		"user_id":  userID,
	})
}

// SubscribeToPlan activates a one-year auto-renewing subscription on the
// given plan and marks the user premium.
func (s *Store) SubscribeToPlan(planID string) error {
	now := time.Now()

	s.mu.Lock()
	if s.currentUser == nil {
		s.showLoginModal = true
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.currentUser.IsPremium = true
	s.currentUser.Subscription = &user.Subscription{
		Plan:      planID,
		StartDate: now,
		EndDate:   now.AddDate(1, 0, 0),
		AutoRenew: true,
	}
	userID := s.currentUser.ID
	s.persistLocked()
	s.mu.Unlock()

	s.publish(analytics.EventCustom, map[string]any{
		"category": "subscription",
		"action":   "subscribe_to_plan",
		"user_id":  userID,
		"plan":     planID,
	})
	return nil
}

// IsSubscribed reports whether the current user holds an unexpired
// subscription.
func (s *Store) IsSubscribed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser != nil && s.currentUser.IsSubscribed(time.Now())
}
