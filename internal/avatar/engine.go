// Package avatar implements the vitals engine: the rules that turn a
// sanitized journal entry into deltas on the user's HP and SP gauges, and
// the clamped state update that applies them.
package avatar

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"vitalog/internal/models"
)

const (
	hpMin = 0.0
	hpMax = 100.0
)

// Stamina cost per productive hour, priced by focus level.
const (
	costPerHourFlow     = 8.0
	costPerHourNeutral  = 15.0
	costPerHourStruggle = 25.0
)

// Focus levels as the client reports them.
const (
	focusStruggle = 1
	focusFlow     = 3
)

// Engine applies entry deltas to the persisted avatar state. It is the
// sole writer of that state; read-modify-write cycles are serialized per
// user so back-to-back entries cannot lose an update.
type Engine struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[int]*sync.Mutex

	subsMu sync.Mutex
	subs   map[int]map[chan models.AvatarState]struct{}
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
		locks:  make(map[int]*sync.Mutex),
		subs:   make(map[int]map[chan models.AvatarState]struct{}),
	}
}

// computeDeltas dispatches on the entry's category and returns the HP and
// SP deltas. The entry must already be sanitized, so only the matching
// category's fields can be non-nil. Unknown categories yield zero deltas.
func computeDeltas(e models.JournalEntry) (hpDelta, spDelta float64) {
	switch e.Category {
	case models.CategoryMeal:
		quality := 5
		if e.MealQuality != nil {
			quality = *e.MealQuality
		}
		switch {
		case quality > 8:
			hpDelta = 4
		case quality >= 6:
			hpDelta = 1
		case quality >= 4:
			hpDelta = -5
		default:
			hpDelta = -12
		}

	case models.CategorySport:
		spDelta = -20 // effort cost, regardless of intensity
		if e.SportIntensity != nil && *e.SportIntensity >= 6 {
			hpDelta = 2
		}

	case models.CategorySleep:
		quality := 5
		if e.SleepQuality != nil {
			quality = *e.SleepQuality
		}
		switch {
		case quality >= 8:
			spDelta = 80
		case quality >= 6:
			spDelta = 60
		default:
			spDelta = 25
		}

	case models.CategoryProductive:
		minutes := 0
		if e.ProductiveDurationMinutes != nil {
			minutes = *e.ProductiveDurationMinutes
		}
		costPerHour := costPerHourNeutral
		if e.ProductiveFocus != nil {
			switch *e.ProductiveFocus {
			case focusFlow:
				costPerHour = costPerHourFlow
			case focusStruggle:
				costPerHour = costPerHourStruggle
			}
		}
		spDelta = -costPerHour * float64(minutes) / 60

	case models.CategorySteps:
		steps := 0
		if e.StepsCount != nil {
			steps = *e.StepsCount
		}
		switch {
		case steps > 12000:
			hpDelta = 3
		case steps > 10000:
			hpDelta = 1
		case steps < 4000:
			hpDelta = -15
		case steps < 7000:
			hpDelta = -5
		}
	}
	return hpDelta, spDelta
}

// apply produces the next state from cur and the entry deltas. HP is
// clamped to [0,100] first; the SP ceiling is the new, post-delta HP
// ("the Golden Rule": stamina capacity is gated by health).
func apply(cur models.AvatarState, hpDelta, spDelta float64, now time.Time) models.AvatarState {
	newHp := clamp(cur.CurrentHp+hpDelta, hpMin, hpMax)
	newSp := clamp(cur.CurrentSp+spDelta, 0, newHp)
	return models.AvatarState{
		UserID:     cur.UserID,
		CurrentHp:  newHp,
		CurrentSp:  newSp,
		LastUpdate: now,
	}
}

// ProcessEntry runs one read-modify-write cycle for the entry's user and
// returns the persisted state. A user with no state row yet starts from
// full vitals, not from zero.
func (e *Engine) ProcessEntry(ctx context.Context, entry models.JournalEntry) (models.AvatarState, error) {
	lock := e.userLock(entry.UserID)
	lock.Lock()
	defer lock.Unlock()

	now := e.now()
	cur, err := e.store.GetState(ctx, entry.UserID)
	if err != nil {
		return models.AvatarState{}, err
	}
	if cur == nil {
		st := models.NewAvatarState(entry.UserID, now)
		cur = &st
	}

	hpDelta, spDelta := computeDeltas(entry)
	next := apply(*cur, hpDelta, spDelta, now)
	if err := e.store.UpsertState(ctx, next); err != nil {
		return models.AvatarState{}, err
	}

	e.logger.Info("avatar state updated",
		zap.Int("user_id", entry.UserID),
		zap.String("category", entry.Category),
		zap.Float64("hp_delta", hpDelta),
		zap.Float64("sp_delta", spDelta),
		zap.Float64("hp", next.CurrentHp),
		zap.Float64("sp", next.CurrentSp),
	)
	e.publish(next)
	return next, nil
}

// Reset overwrites the user's state with full vitals, bypassing delta
// computation.
func (e *Engine) Reset(ctx context.Context, userID int) (models.AvatarState, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	next := models.NewAvatarState(userID, e.now())
	if err := e.store.UpsertState(ctx, next); err != nil {
		return models.AvatarState{}, err
	}
	e.logger.Info("avatar state reset", zap.Int("user_id", userID))
	e.publish(next)
	return next, nil
}

// CurrentState reads the user's state, falling back to full vitals when
// no row exists yet.
func (e *Engine) CurrentState(ctx context.Context, userID int) (models.AvatarState, error) {
	cur, err := e.store.GetState(ctx, userID)
	if err != nil {
		return models.AvatarState{}, err
	}
	if cur == nil {
		return models.NewAvatarState(userID, e.now()), nil
	}
	return *cur, nil
}

// Watch subscribes to the user's state changes. The current state is
// delivered immediately so late subscribers always have a value to
// render. The returned cancel func must be called when done.
func (e *Engine) Watch(ctx context.Context, userID int) (<-chan models.AvatarState, func(), error) {
	cur, err := e.CurrentState(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan models.AvatarState, 8)
	ch <- cur

	e.subsMu.Lock()
	if e.subs[userID] == nil {
		e.subs[userID] = make(map[chan models.AvatarState]struct{})
	}
	e.subs[userID][ch] = struct{}{}
	e.subsMu.Unlock()

	cancel := func() {
		e.subsMu.Lock()
		if set, ok := e.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(e.subs, userID)
			}
		}
		e.subsMu.Unlock()
	}
	return ch, cancel, nil
}

func (e *Engine) publish(state models.AvatarState) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for ch := range e.subs[state.UserID] {
		select {
		case ch <- state:
		default: // slow subscriber, skip
		}
	}
}

func (e *Engine) userLock(userID int) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
