package domain

import "time"

// UserPlan enumerates billing plans. Free accounts are subject to the
// lifetime card cap; the mobile app waitlist is the upgrade path.
type UserPlan string

const (
	UserPlanFree UserPlan = "free"
	UserPlanPro  UserPlan = "pro"
)

// User represents an authenticated Timeflow account.
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	Plan          UserPlan
	Properties    map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsFree reports whether the user is on the free plan.
func (u User) IsFree() bool {
	return u.Plan == UserPlanFree
}

// OnboardingComplete reads the once-written onboarding flag from the user's
// properties blob.
func (u User) OnboardingComplete() bool {
	v, ok := u.Properties["onboarding_complete"].(bool)
	return ok && v
}
