package adwatch

import (
	"time"
)

// Watch is one rewarded-ad view, stored in the ad_watches subcollection of
// the watching user. One document per view; the daily count is a range query.
type Watch struct {
	ID     string    `json:"id" firestore:"-"`
	UserID string    `json:"userId" firestore:"-"`
	Date   time.Time `json:"date" firestore:"date"`
}

// RewardResult reports the outcome of a rewarded-ad attempt.
type RewardResult struct {
	Granted      bool `json:"granted"`
	WatchedToday int  `json:"watchedToday"`
	DailyLimit   int  `json:"dailyLimit"`
}
