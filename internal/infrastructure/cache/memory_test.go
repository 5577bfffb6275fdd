package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/softwarescout/backend/internal/domain"
)

// fakeClock is a settable time source
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestMemoryCache(t *testing.T) (*MemoryCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := newMemoryCache(time.Hour, clock.Now)
	t.Cleanup(func() { cache.Close() })
	return cache, clock
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache, clock := newTestMemoryCache(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		value   []byte
		ttl     time.Duration
		advance time.Duration
		wantHit bool
	}{
		{"fresh entry", "k1", []byte(`{"slug":"crm-for-landscaping"}`), time.Minute, 0, true},
		{"empty value", "k2", []byte{}, time.Minute, 0, true},
		{"expired entry", "k3", []byte("old"), time.Minute, 2 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			clock.Advance(tt.advance)

			got, err := cache.Get(ctx, tt.key)
			if !tt.wantHit {
				if err != domain.ErrCacheMiss {
					t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_StoresCopies(t *testing.T) {
	cache, _ := newTestMemoryCache(t)
	ctx := context.Background()

	value := []byte("abc")
	_ = cache.Set(ctx, "k", value, time.Minute)
	value[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get() = %q after caller mutation, want abc", got)
	}
	got[1] = 'Y'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("Get() = %q after result mutation, want abc", again)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache, _ := newTestMemoryCache(t)

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache, _ := newTestMemoryCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "delete-test", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "delete-test"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, "delete-test"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache, clock := newTestMemoryCache(t)
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "exists-test")
	if err != nil || exists {
		t.Errorf("Exists() = %v, %v; want false, nil", exists, err)
	}

	_ = cache.Set(ctx, "exists-test", []byte("v"), time.Minute)
	if exists, _ = cache.Exists(ctx, "exists-test"); !exists {
		t.Errorf("Exists() = false, want true after Set")
	}

	clock.Advance(time.Minute + time.Second)
	if exists, _ = cache.Exists(ctx, "exists-test"); exists {
		t.Errorf("Exists() = true, want false after expiry")
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	cache, clock := newTestMemoryCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("v"), time.Second)
	_ = cache.Set(ctx, "long", []byte("v"), time.Hour)
	clock.Advance(time.Minute)

	cache.sweep()

	if size := cache.Size(); size != 1 {
		t.Errorf("Size() = %d after sweep, want 1", size)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache()
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache, _ := newTestMemoryCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			_ = cache.Set(ctx, key, []byte{byte(i)}, time.Minute)
			_, _ = cache.Get(ctx, key)
			_, _ = cache.Exists(ctx, key)
		}(i)
	}
	wg.Wait()

	if size := cache.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}
}
