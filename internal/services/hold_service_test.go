package services

import (
	"context"
	"testing"
	"time"

	"mahindaexpress/internal/domain"

	"github.com/redis/go-redis/v9"
)

// fakeHoldStore backs the hold calls with a plain map. A non-nil err makes
// every call fail, standing in for an unreachable server.
type fakeHoldStore struct {
	data map[string]string
	err  error
}

func newFakeHoldStore() *fakeHoldStore {
	return &fakeHoldStore{data: map[string]string{}}
}

func (f *fakeHoldStore) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeHoldStore) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeHoldStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeHoldStore) MGet(_ context.Context, keys ...string) *redis.SliceCmd {
	if f.err != nil {
		return redis.NewSliceResult(nil, f.err)
	}
	out := make([]any, len(keys))
	for i, k := range keys {
		if v, ok := f.data[k]; ok {
			out[i] = v
		}
	}
	return redis.NewSliceResult(out, nil)
}

func TestPlaceHoldAllSeats(t *testing.T) {
	store := newFakeHoldStore()
	svc := HoldService{Redis: store, TTL: time.Minute}

	hold, err := svc.Place(context.Background(), 7, "2026-09-15", []int{5, 6})
	if err != nil {
		t.Fatalf("place error: %v", err)
	}
	if hold.Token == "" {
		t.Fatal("hold must carry a token")
	}

	held, err := svc.HeldSeats(context.Background(), 7, "2026-09-15")
	if err != nil {
		t.Fatalf("held seats error: %v", err)
	}
	if len(held) != 2 || held[5] != hold.Token || held[6] != hold.Token {
		t.Fatalf("held seats = %v, want 5 and 6 under token %s", held, hold.Token)
	}
}

func TestPlaceHoldRollsBackOnConflict(t *testing.T) {
	store := newFakeHoldStore()
	store.data[holdKey(7, "2026-09-15", 6)] = "someone-else"
	svc := HoldService{Redis: store, TTL: time.Minute}

	_, err := svc.Place(context.Background(), 7, "2026-09-15", []int{5, 6})
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError for held seat, got %v", err)
	}
	if _, ok := store.data[holdKey(7, "2026-09-15", 5)]; ok {
		t.Fatal("seat 5 hold must be rolled back when seat 6 conflicts")
	}
	if store.data[holdKey(7, "2026-09-15", 6)] != "someone-else" {
		t.Fatal("the foreign hold must survive the failed placement")
	}
}

func TestPlaceHoldRejectsInvalidSeats(t *testing.T) {
	svc := HoldService{Redis: newFakeHoldStore()}

	if _, err := svc.Place(context.Background(), 7, "2026-09-15", nil); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for empty selection, got %v", err)
	}
	if _, err := svc.Place(context.Background(), 7, "2026-09-15", []int{99}); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for seat outside layout, got %v", err)
	}
}

func TestReleaseOnlyOwnHolds(t *testing.T) {
	store := newFakeHoldStore()
	store.data[holdKey(7, "2026-09-15", 5)] = "mine"
	store.data[holdKey(7, "2026-09-15", 6)] = "theirs"
	svc := HoldService{Redis: store}

	svc.Release(context.Background(), 7, "2026-09-15", []int{5, 6}, "mine")

	if _, ok := store.data[holdKey(7, "2026-09-15", 5)]; ok {
		t.Fatal("own hold must be released")
	}
	if store.data[holdKey(7, "2026-09-15", 6)] != "theirs" {
		t.Fatal("a foreign hold must not be released")
	}
}

func TestReleaseByTokenSweepsJourney(t *testing.T) {
	store := newFakeHoldStore()
	store.data[holdKey(7, "2026-09-15", 5)] = "mine"
	store.data[holdKey(7, "2026-09-15", 41)] = "mine"
	store.data[holdKey(8, "2026-09-15", 5)] = "mine"
	svc := HoldService{Redis: store}

	svc.ReleaseByToken(context.Background(), 7, "2026-09-15", "mine")

	if len(store.data) != 1 {
		t.Fatalf("only the other journey's hold should remain, got %v", store.data)
	}
	if store.data[holdKey(8, "2026-09-15", 5)] != "mine" {
		t.Fatal("holds on another journey must not be touched")
	}
}
