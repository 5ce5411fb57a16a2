package session

import (
	"time"

	"go.uber.org/zap"
)

// StartSweeper drops idle-expired sessions on a fixed interval. The returned
// function stops the sweeper.
func StartSweeper(store *Store, interval time.Duration, log *zap.Logger) func() {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := store.Sweep(); removed > 0 {
					log.Debug("swept idle sessions",
						zap.Int("removed", removed),
						zap.Int("remaining", store.Len()),
					)
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
