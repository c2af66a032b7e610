// Package reservation implements optional short-lived slot holds in Redis.
// A hold is taken just before the commit-time re-check so two bookings for
// the same slot cannot both pass the re-check and insert. The hold is
// advisory only: with holds disabled the flow degrades to plain
// re-check-then-write.
package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the hold only when the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Holds acquires and releases per-slot reservation keys.
type Holds struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHolds(client *redis.Client, ttl time.Duration) *Holds {
	return &Holds{client: client, ttl: ttl}
}

// Key derives the reservation key for a slot. The start instant is reduced
// to unix seconds so two requests for the same slot always collide.
func Key(calendarID string, start time.Time) string {
	return fmt.Sprintf("slot-hold:%s:%d", calendarID, start.Unix())
}

// Acquire claims the slot for the caller. ok is false when another booking
// currently holds it. The returned token is required for Release.
func (h *Holds) Acquire(ctx context.Context, calendarID string, start time.Time) (string, bool, error) {
	token := uuid.NewString()
	ok, err := h.client.SetNX(ctx, Key(calendarID, start), token, h.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire slot hold: %w", err)
	}
	return token, ok, nil
}

// Release frees the hold if the token still owns it. Expired or foreign
// holds are left alone.
func (h *Holds) Release(ctx context.Context, calendarID string, start time.Time, token string) error {
	if err := releaseScript.Run(ctx, h.client, []string{Key(calendarID, start)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release slot hold: %w", err)
	}
	return nil
}
