package services

import (
	"context"
	"fmt"
	"time"

	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HoldStore is the slice of the redis API the hold service needs. It exists
// so tests can drop in a fake without a running server.
type HoldStore interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// HoldService places short-lived seat holds in Redis so a passenger keeps
// their selection between the seat map and payment. The DB unique key on
// booking_seats remains the authority; a hold only narrows the race window.
type HoldService struct {
	Redis HoldStore
	TTL   time.Duration
}

// Hold is what the client carries into checkout.
type Hold struct {
	Token     string    `json:"holdToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s HoldService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 10 * time.Minute
}

// Enabled reports whether holds are available at all.
func (s HoldService) Enabled() bool {
	return s.Redis != nil
}

func holdKey(routeID int64, journeyDate string, seat int) string {
	return fmt.Sprintf("hold:%d:%s:%d", routeID, journeyDate, seat)
}

// Place takes all requested seats or none. On the first seat already held,
// every key placed so far is rolled back and a conflict is returned.
func (s HoldService) Place(ctx context.Context, routeID int64, journeyDate string, seats []int) (Hold, error) {
	if !s.Enabled() {
		return Hold{}, domain.InternalError{Msg: "seat holds unavailable"}
	}
	if len(seats) == 0 {
		return Hold{}, domain.ValidationError{Field: "seats", Msg: "at least one seat required"}
	}
	if bad, dup := models.ValidateSeats(seats); bad != 0 || dup != 0 {
		return Hold{}, domain.ValidationError{Field: "seats", Msg: "invalid seat selection"}
	}

	token := uuid.NewString()
	ttl := s.ttl()
	placed := []string{}
	for _, n := range seats {
		key := holdKey(routeID, journeyDate, n)
		ok, err := s.Redis.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			s.rollback(ctx, placed)
			return Hold{}, domain.InternalError{Err: err}
		}
		if !ok {
			s.rollback(ctx, placed)
			metrics.IncSeatHold("conflict")
			return Hold{}, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %d is held by another passenger", n)}
		}
		placed = append(placed, key)
	}

	metrics.IncSeatHold("placed")
	return Hold{Token: token, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (s HoldService) rollback(ctx context.Context, keys []string) {
	if len(keys) > 0 {
		_ = s.Redis.Del(ctx, keys...).Err()
	}
}

// Release drops holds owned by the given token.
func (s HoldService) Release(ctx context.Context, routeID int64, journeyDate string, seats []int, token string) {
	if !s.Enabled() || token == "" {
		return
	}
	for _, n := range seats {
		key := holdKey(routeID, journeyDate, n)
		owner, err := s.Redis.Get(ctx, key).Result()
		if err != nil || owner != token {
			continue
		}
		_ = s.Redis.Del(ctx, key).Err()
	}
}

// ReleaseByToken drops every hold the token owns on a journey. The key space
// is bounded by the seat layout, so this walks all layout seats.
func (s HoldService) ReleaseByToken(ctx context.Context, routeID int64, journeyDate string, token string) {
	if !s.Enabled() || token == "" {
		return
	}
	for n := 1; n <= models.TotalSeats; n++ {
		key := holdKey(routeID, journeyDate, n)
		owner, err := s.Redis.Get(ctx, key).Result()
		if err != nil || owner != token {
			continue
		}
		_ = s.Redis.Del(ctx, key).Err()
	}
	metrics.IncSeatHold("released")
}

// HeldSeats lists seats currently held for a journey, with the holder token
// so checkout can tell own holds from foreign ones.
func (s HoldService) HeldSeats(ctx context.Context, routeID int64, journeyDate string) (map[int]string, error) {
	if !s.Enabled() {
		return map[int]string{}, nil
	}
	keys := make([]string, 0, models.TotalSeats)
	for n := 1; n <= models.TotalSeats; n++ {
		keys = append(keys, holdKey(routeID, journeyDate, n))
	}
	vals, err := s.Redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	out := map[int]string{}
	for i, v := range vals {
		if v == nil {
			continue
		}
		if tok, ok := v.(string); ok && tok != "" {
			out[i+1] = tok
		}
	}
	return out, nil
}
