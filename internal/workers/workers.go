package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"agroAppAPI/services"
)

// CleanupWorker periodically purges expired ad-watch records. The store has
// no list-all-users primitive, so handlers report the users they see and the
// worker sweeps that set each tick.
type CleanupWorker struct {
	adCredits     *services.AdCreditService
	retentionDays int
	interval      time.Duration

	mu   sync.Mutex
	seen map[string]struct{}
	stop chan struct{}
	done chan struct{}
}

func NewCleanupWorker(adCredits *services.AdCreditService, retentionDays int, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupWorker{
		adCredits:     adCredits,
		retentionDays: retentionDays,
		interval:      interval,
		seen:          make(map[string]struct{}),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Track marks a user for the next sweep.
func (w *CleanupWorker) Track(userID string) {
	w.mu.Lock()
	w.seen[userID] = struct{}{}
	w.mu.Unlock()
}

// Start runs the sweep loop in its own goroutine.
func (w *CleanupWorker) Start() {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(w.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.sweep()
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (w *CleanupWorker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *CleanupWorker) sweep() {
	w.mu.Lock()
	users := make([]string, 0, len(w.seen))
	for id := range w.seen {
		users = append(users, id)
	}
	w.seen = make(map[string]struct{})
	w.mu.Unlock()

	if len(users) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	total := 0
	for _, userID := range users {
		removed, err := w.adCredits.PurgeExpired(ctx, userID, w.retentionDays)
		total += removed
		if err != nil {
			log.Printf("Cleanup: purging ad watches for %s failed: %v", userID, err)
		}
	}
	log.Printf("Cleanup: removed %d expired ad watches across %d users", total, len(users))
}
