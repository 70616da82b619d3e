package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k1", "v1", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got string
	if err := mc.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v1" {
		t.Fatalf("got %q, want v1", got)
	}

	if err := mc.Get(ctx, "missing", &got); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "ttl", "v", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "ttl", &got); err != ErrCacheMiss {
		t.Fatalf("expected expired key to miss, got %v", err)
	}
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first lock: ok=%v err=%v", ok, err)
	}
	ok, err = mc.TryLock(ctx, "lock", time.Minute)
	if err != nil || ok {
		t.Fatalf("second lock should fail: ok=%v err=%v", ok, err)
	}
	if err := mc.Unlock(ctx, "lock"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	ok, _ = mc.TryLock(ctx, "lock", time.Minute)
	if !ok {
		t.Fatal("lock after unlock should succeed")
	}
}

func TestMGetTyped(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type entry struct {
		Symbol string  `json:"symbol"`
		Close  float64 `json:"close"`
	}

	if err := mc.MSet(ctx, map[string]interface{}{
		"b1": `{"symbol":"BTC-USDT","close":50000}`,
		"b2": `{"symbol":"ETH-USDT","close":3000}`,
		"b3": `not json`,
	}, time.Minute); err != nil {
		t.Fatalf("mset: %v", err)
	}

	got, err := MGetTyped[entry](ctx, mc, "b1", "b2", "b3", "b4")
	if err != nil {
		t.Fatalf("mget typed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got["b1"].Symbol != "BTC-USDT" || got["b2"].Close != 3000 {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestKeyHelpers(t *testing.T) {
	if k := GenerateKey("bars", "BTC-USDT"); k != "bars:BTC-USDT" {
		t.Fatalf("GenerateKey = %q", k)
	}
	if k := GenerateKeyWithParams("analysis", "BTC-USDT", "ETH-USDT", 365); k != "analysis:BTC-USDT:ETH-USDT:365" {
		t.Fatalf("GenerateKeyWithParams = %q", k)
	}
	if p := BuildPattern("analysis"); p != "analysis*" {
		t.Fatalf("BuildPattern = %q", p)
	}
	if h := HashKey("abc"); len(h) != 32 {
		t.Fatalf("HashKey length = %d", len(h))
	}
}
