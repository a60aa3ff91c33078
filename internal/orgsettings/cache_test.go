package orgsettings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/logger"
)

type stubReader struct {
	weights matching.Weights
	calls   int
}

func (s *stubReader) Weights(_ context.Context, _ uuid.UUID, _ matching.Strategy) (matching.Weights, error) {
	s.calls++
	return s.weights, nil
}

func newTestCache(t *testing.T, source WeightsReader) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(source, client, time.Minute, logger.New("test")), mr
}

func TestCache_ReadThrough(t *testing.T) {
	source := &stubReader{weights: matching.Weights{matching.FactorBudget: 0.4}}
	cache, _ := newTestCache(t, source)
	orgID := uuid.New()

	first, err := cache.Weights(context.Background(), orgID, matching.StrategySoft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first[matching.FactorBudget] != 0.4 {
		t.Fatalf("unexpected weights: %v", first)
	}
	if source.calls != 1 {
		t.Fatalf("expected 1 source read, got %d", source.calls)
	}

	second, err := cache.Weights(context.Background(), orgID, matching.StrategySoft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second[matching.FactorBudget] != 0.4 {
		t.Fatalf("unexpected cached weights: %v", second)
	}
	if source.calls != 1 {
		t.Fatalf("second read should hit the cache, source reads: %d", source.calls)
	}
}

func TestCache_ExpiryRefetches(t *testing.T) {
	source := &stubReader{weights: matching.Weights{}}
	cache, mr := newTestCache(t, source)
	orgID := uuid.New()

	if _, err := cache.Weights(context.Background(), orgID, matching.StrategyStrict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := cache.Weights(context.Background(), orgID, matching.StrategyStrict); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expired entry should hit the source again, reads: %d", source.calls)
	}
}

func TestCache_Invalidate(t *testing.T) {
	source := &stubReader{weights: matching.Weights{}}
	cache, _ := newTestCache(t, source)
	orgID := uuid.New()

	if _, err := cache.Weights(context.Background(), orgID, matching.StrategySoft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache.Invalidate(context.Background(), orgID, matching.StrategySoft)

	if _, err := cache.Weights(context.Background(), orgID, matching.StrategySoft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("invalidated entry should hit the source again, reads: %d", source.calls)
	}
}

func TestCache_NoRedisFallsThrough(t *testing.T) {
	source := &stubReader{weights: matching.Weights{matching.FactorPrice: 0.9}}
	cache := NewCache(source, nil, time.Minute, logger.New("test"))

	weights, err := cache.Weights(context.Background(), uuid.New(), matching.StrategyStrict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if weights[matching.FactorPrice] != 0.9 {
		t.Fatalf("unexpected weights: %v", weights)
	}
}

func TestCache_CorruptEntryRecovers(t *testing.T) {
	source := &stubReader{weights: matching.Weights{matching.FactorRooms: 0.2}}
	cache, mr := newTestCache(t, source)
	orgID := uuid.New()

	mr.Set(cacheKey(orgID, matching.StrategyStrict), "{not json")

	weights, err := cache.Weights(context.Background(), orgID, matching.StrategyStrict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if weights[matching.FactorRooms] != 0.2 {
		t.Fatalf("unexpected weights: %v", weights)
	}
	if source.calls != 1 {
		t.Fatalf("corrupt entry should fall through to the source, reads: %d", source.calls)
	}
}
