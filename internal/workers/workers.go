package workers

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartCompletionWorker sweeps for published challenges whose window has
// closed and marks them completed. Participant completion for target
// challenges happens inline on each accepted entry; the challenge-level
// transition is time-driven, so it runs here. Cancelling ctx stops the
// worker.
func StartCompletionWorker(ctx context.Context, pool *pgxpool.Pool) {
	go run(ctx, pool, 1*time.Hour)
}

func run(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			closeExpiredChallenges(ctx, pool)
		}
	}
}

func closeExpiredChallenges(ctx context.Context, pool *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	tag, err := pool.Exec(ctx, `
		UPDATE challenges c
		SET status = 'completed'
		WHERE c.status = 'published'
		  AND (
			EXISTS (
				SELECT 1 FROM habit_challenges h
				WHERE h.challenge_id = c.id
				  AND c.created_at + (h.duration_weeks * 7) * INTERVAL '1 day' < NOW()
			)
			OR EXISTS (
				SELECT 1 FROM target_challenges t
				WHERE t.challenge_id = c.id
				  AND c.created_at + t.duration_days * INTERVAL '1 day' < NOW()
			)
		  )`)
	if err != nil {
		log.Printf("Error closing expired challenges: %v", err)
		return
	}

	if tag.RowsAffected() > 0 {
		log.Printf("Completion sweep closed %d challenges", tag.RowsAffected())
	}
}
