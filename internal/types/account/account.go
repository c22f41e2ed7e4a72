package account

import (
	"time"
)

// Account mirrors one document in the users collection. Premium fields are
// the only ones this service ever writes; the rest belong to registration.
type Account struct {
	ID                 string     `json:"id" firestore:"-"`
	Email              string     `json:"email" firestore:"email"`
	DisplayName        string     `json:"displayName" firestore:"displayName"`
	IsPremium          bool       `json:"isPremium" firestore:"isPremium"`
	PremiumUntil       *time.Time `json:"premiumUntil,omitempty" firestore:"premiumUntil"`
	PremiumActivatedAt *time.Time `json:"premiumActivatedAt,omitempty" firestore:"premiumActivatedAt"`
	CreatedAt          time.Time  `json:"createdAt" firestore:"createdAt"`
}
