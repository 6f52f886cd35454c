package cooldown

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const DefaultWindow = 5 * time.Minute

// Tracker enforces one accepted submission per user per window. State is in memory
// only and resets when the process restarts.
type Tracker struct {
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
}

func New(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{window: window, now: time.Now, limiters: map[uuid.UUID]*rate.Limiter{}}
}

// Window is the configured cooldown length.
func (t *Tracker) Window() time.Duration { return t.window }

// Check reports whether userID may submit now, and if not, how long to wait.
// It does not consume the user's allowance.
func (t *Tracker) Check(userID uuid.UUID) (ok bool, retryAfter time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	lim, found := t.limiters[userID]
	if !found {
		return true, 0
	}
	tokens := lim.TokensAt(t.now())
	if tokens >= 1 {
		return true, 0
	}
	return false, time.Duration((1 - tokens) * float64(t.window))
}

// Mark starts userID's cooldown. Call it only after a submission succeeds.
func (t *Tracker) Mark(userID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	lim, found := t.limiters[userID]
	if !found {
		lim = rate.NewLimiter(rate.Every(t.window), 1)
		t.limiters[userID] = lim
	}
	lim.AllowN(now, 1)
	t.sweep(now)
}

// sweep drops limiters whose window has fully elapsed; they behave like new users.
func (t *Tracker) sweep(now time.Time) {
	for id, lim := range t.limiters {
		if lim.TokensAt(now) >= 1 {
			delete(t.limiters, id)
		}
	}
}

// Len is the number of users currently tracked.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}
