package avatar

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"vitalog/internal/models"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu     sync.Mutex
	states map[int]models.AvatarState
}

func newMemStore() *memStore {
	return &memStore{states: make(map[int]models.AvatarState)}
}

func (s *memStore) GetState(_ context.Context, userID int) (*models.AvatarState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *memStore) UpsertState(_ context.Context, state models.AvatarState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.UserID] = state
	return nil
}

func newTestEngine() (*Engine, *memStore) {
	store := newMemStore()
	return NewEngine(store, zap.NewNop()), store
}

func seedState(t *testing.T, store *memStore, userID int, hp, sp float64) {
	t.Helper()
	err := store.UpsertState(context.Background(), models.AvatarState{
		UserID: userID, CurrentHp: hp, CurrentSp: sp, LastUpdate: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed state: %v", err)
	}
}

func intP(v int) *int { return &v }

func TestComputeDeltas(t *testing.T) {
	tests := []struct {
		name   string
		entry  models.JournalEntry
		wantHp float64
		wantSp float64
	}{
		{"meal excellent", models.JournalEntry{Category: models.CategoryMeal, MealQuality: intP(9)}, 4, 0},
		{"meal good low edge", models.JournalEntry{Category: models.CategoryMeal, MealQuality: intP(6)}, 1, 0},
		{"meal good high edge", models.JournalEntry{Category: models.CategoryMeal, MealQuality: intP(8)}, 1, 0},
		{"meal mediocre", models.JournalEntry{Category: models.CategoryMeal, MealQuality: intP(4)}, -5, 0},
		{"meal bad", models.JournalEntry{Category: models.CategoryMeal, MealQuality: intP(3)}, -12, 0},
		{"meal quality defaults to 5", models.JournalEntry{Category: models.CategoryMeal}, -5, 0},
		{"sport light", models.JournalEntry{Category: models.CategorySport, SportIntensity: intP(4)}, 0, -20},
		{"sport intense", models.JournalEntry{Category: models.CategorySport, SportIntensity: intP(6)}, 2, -20},
		{"sport no intensity", models.JournalEntry{Category: models.CategorySport}, 0, -20},
		{"sleep deep", models.JournalEntry{Category: models.CategorySleep, SleepQuality: intP(8)}, 0, 80},
		{"sleep fair", models.JournalEntry{Category: models.CategorySleep, SleepQuality: intP(6)}, 0, 60},
		{"sleep poor", models.JournalEntry{Category: models.CategorySleep, SleepQuality: intP(2)}, 0, 25},
		{"sleep quality defaults to 5", models.JournalEntry{Category: models.CategorySleep}, 0, 25},
		{"productive flow hour", models.JournalEntry{Category: models.CategoryProductive, ProductiveDurationMinutes: intP(60), ProductiveFocus: intP(3)}, 0, -8},
		{"productive struggle hour", models.JournalEntry{Category: models.CategoryProductive, ProductiveDurationMinutes: intP(60), ProductiveFocus: intP(1)}, 0, -25},
		{"productive neutral half hour", models.JournalEntry{Category: models.CategoryProductive, ProductiveDurationMinutes: intP(30), ProductiveFocus: intP(2)}, 0, -7.5},
		{"productive no duration", models.JournalEntry{Category: models.CategoryProductive, ProductiveFocus: intP(1)}, 0, 0},
		{"steps great", models.JournalEntry{Category: models.CategorySteps, StepsCount: intP(12500)}, 3, 0},
		{"steps good", models.JournalEntry{Category: models.CategorySteps, StepsCount: intP(10500)}, 1, 0},
		{"steps sedentary", models.JournalEntry{Category: models.CategorySteps, StepsCount: intP(3000)}, -15, 0},
		{"steps low", models.JournalEntry{Category: models.CategorySteps, StepsCount: intP(5000)}, -5, 0},
		{"steps middling", models.JournalEntry{Category: models.CategorySteps, StepsCount: intP(8000)}, 0, 0},
		{"mood is neutral", models.JournalEntry{Category: models.CategoryMood, MoodScore: intP(2)}, 0, 0},
		{"expense is neutral", models.JournalEntry{Category: models.CategoryExpense}, 0, 0},
		{"unknown category", models.JournalEntry{Category: "Lecture"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hp, sp := computeDeltas(tt.entry)
			if hp != tt.wantHp || sp != tt.wantSp {
				t.Fatalf("deltas = (%v, %v), want (%v, %v)", hp, sp, tt.wantHp, tt.wantSp)
			}
		})
	}
}

func TestProcessEntryFreshUserStartsFull(t *testing.T) {
	engine, _ := newTestEngine()

	st, err := engine.ProcessEntry(context.Background(), models.JournalEntry{
		UserID: 1, Category: models.CategorySport, SportIntensity: intP(4),
	})
	if err != nil {
		t.Fatalf("process entry: %v", err)
	}
	// Baseline is (100,100), not (0,0).
	if st.CurrentHp != 100 {
		t.Fatalf("hp = %v, want 100", st.CurrentHp)
	}
	if st.CurrentSp != 80 {
		t.Fatalf("sp = %v, want 80", st.CurrentSp)
	}
}

func TestProcessEntryMealLeavesSpAlone(t *testing.T) {
	engine, store := newTestEngine()
	seedState(t, store, 1, 80, 50)

	st, err := engine.ProcessEntry(context.Background(), models.JournalEntry{
		UserID: 1, Category: models.CategoryMeal, MealQuality: intP(9),
	})
	if err != nil {
		t.Fatalf("process entry: %v", err)
	}
	if st.CurrentHp != 84 {
		t.Fatalf("hp = %v, want 84", st.CurrentHp)
	}
	if st.CurrentSp != 50 {
		t.Fatalf("sp = %v, want 50", st.CurrentSp)
	}
}

func TestProcessEntrySpCappedByNewHp(t *testing.T) {
	engine, store := newTestEngine()
	seedState(t, store, 1, 10, 50)

	st, err := engine.ProcessEntry(context.Background(), models.JournalEntry{
		UserID: 1, Category: models.CategorySport, SportIntensity: intP(8),
	})
	if err != nil {
		t.Fatalf("process entry: %v", err)
	}
	// hp 10+2=12; raw sp 50-20=30, capped to the new hp.
	if st.CurrentHp != 12 {
		t.Fatalf("hp = %v, want 12", st.CurrentHp)
	}
	if st.CurrentSp != 12 {
		t.Fatalf("sp = %v, want 12", st.CurrentSp)
	}
}

func TestProcessEntryHpFloorDragsSpToZero(t *testing.T) {
	engine, store := newTestEngine()
	seedState(t, store, 1, 5, 5)

	st, err := engine.ProcessEntry(context.Background(), models.JournalEntry{
		UserID: 1, Category: models.CategorySteps, StepsCount: intP(3000),
	})
	if err != nil {
		t.Fatalf("process entry: %v", err)
	}
	if st.CurrentHp != 0 {
		t.Fatalf("hp = %v, want 0", st.CurrentHp)
	}
	if st.CurrentSp != 0 {
		t.Fatalf("sp = %v, want 0", st.CurrentSp)
	}
}

func TestProcessEntryUnknownCategoryOnlyTouchesTimestamp(t *testing.T) {
	engine, store := newTestEngine()
	seedState(t, store, 1, 61, 37)

	st, err := engine.ProcessEntry(context.Background(), models.JournalEntry{
		UserID: 1, Category: "Méditation",
	})
	if err != nil {
		t.Fatalf("process entry: %v", err)
	}
	if st.CurrentHp != 61 || st.CurrentSp != 37 {
		t.Fatalf("state = (%v, %v), want (61, 37)", st.CurrentHp, st.CurrentSp)
	}
}

func TestInvariantsHoldAcrossSequences(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	entries := []models.JournalEntry{
		{UserID: 1, Category: models.CategorySteps, StepsCount: intP(1000)},
		{UserID: 1, Category: models.CategoryMeal, MealQuality: intP(1)},
		{UserID: 1, Category: models.CategorySport, SportIntensity: intP(9)},
		{UserID: 1, Category: models.CategoryMeal, MealQuality: intP(2)},
		{UserID: 1, Category: models.CategorySteps, StepsCount: intP(500)},
		{UserID: 1, Category: models.CategorySleep, SleepQuality: intP(10)},
		{UserID: 1, Category: models.CategoryProductive, ProductiveDurationMinutes: intP(600), ProductiveFocus: intP(1)},
		{UserID: 1, Category: models.CategorySleep, SleepQuality: intP(9)},
		{UserID: 1, Category: models.CategoryMeal, MealQuality: intP(10)},
		{UserID: 1, Category: models.CategorySteps, StepsCount: intP(13000)},
	}

	for i, entry := range entries {
		st, err := engine.ProcessEntry(ctx, entry)
		if err != nil {
			t.Fatalf("entry %d: %v", i, err)
		}
		if st.CurrentHp < 0 || st.CurrentHp > 100 {
			t.Fatalf("entry %d: hp %v out of [0,100]", i, st.CurrentHp)
		}
		if st.CurrentSp < 0 || st.CurrentSp > st.CurrentHp {
			t.Fatalf("entry %d: sp %v out of [0, hp=%v]", i, st.CurrentSp, st.CurrentHp)
		}
	}
}

func TestResetRestoresFullVitals(t *testing.T) {
	engine, store := newTestEngine()
	seedState(t, store, 1, 3, 0)

	st, err := engine.Reset(context.Background(), 1)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if st.CurrentHp != 100 || st.CurrentSp != 100 {
		t.Fatalf("state = (%v, %v), want (100, 100)", st.CurrentHp, st.CurrentSp)
	}
}

func TestCurrentStateDefaultsWhenAbsent(t *testing.T) {
	engine, _ := newTestEngine()

	st, err := engine.CurrentState(context.Background(), 7)
	if err != nil {
		t.Fatalf("current state: %v", err)
	}
	if st.CurrentHp != 100 || st.CurrentSp != 100 {
		t.Fatalf("state = (%v, %v), want defaults (100, 100)", st.CurrentHp, st.CurrentSp)
	}
}

func TestWatchDeliversCurrentThenUpdates(t *testing.T) {
	engine, store := newTestEngine()
	seedState(t, store, 1, 70, 40)
	ctx := context.Background()

	ch, cancel, err := engine.Watch(ctx, 1)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()

	first := <-ch
	if first.CurrentHp != 70 || first.CurrentSp != 40 {
		t.Fatalf("first = (%v, %v), want (70, 40)", first.CurrentHp, first.CurrentSp)
	}

	if _, err := engine.ProcessEntry(ctx, models.JournalEntry{
		UserID: 1, Category: models.CategorySleep, SleepQuality: intP(9),
	}); err != nil {
		t.Fatalf("process entry: %v", err)
	}

	select {
	case next := <-ch:
		if next.CurrentSp != 70 { // 40+80 capped at hp 70
			t.Fatalf("next sp = %v, want 70", next.CurrentSp)
		}
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}

func TestWatchCancelStopsDelivery(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	ch, cancel, err := engine.Watch(ctx, 1)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	<-ch
	cancel()

	if _, err := engine.ProcessEntry(ctx, models.JournalEntry{
		UserID: 1, Category: models.CategorySport,
	}); err != nil {
		t.Fatalf("process entry: %v", err)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("received update after cancel")
		}
	default:
	}
}

func TestProcessEntrySerializesPerUser(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = engine.ProcessEntry(ctx, models.JournalEntry{
				UserID: 1, Category: models.CategorySport,
			})
		}()
	}
	wg.Wait()

	st, err := engine.CurrentState(ctx, 1)
	if err != nil {
		t.Fatalf("current state: %v", err)
	}
	// 20 concurrent sport entries, -20 SP each from 100: no lost update
	// may leave SP above zero.
	if st.CurrentSp != 0 {
		t.Fatalf("sp = %v, want 0", st.CurrentSp)
	}
	if st.CurrentHp != 100 {
		t.Fatalf("hp = %v, want 100", st.CurrentHp)
	}
}
