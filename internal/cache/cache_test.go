package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

func makeTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// spin up in-memory Redis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	// point the real client at it
	rdb := redis.NewClient(&redis.Options{
		Addr:     mr.Addr(),
		Password: "",
		DB:       0,
	})
	return &Cache{client: rdb}, mr
}

func TestGetSetDeleteSessionStatus(t *testing.T) {
	c, mr := makeTestCache(t)
	ctx := context.Background()
	id := uuid.NewUUID()

	// 1) Cache miss returns nil, nil
	got, err := c.GetSessionStatus(ctx, id)
	if err != nil {
		t.Fatalf("GetSessionStatus miss: %v", err)
	}
	if got != nil {
		t.Errorf("GetSessionStatus miss: got %q; want nil", got)
	}

	// 2) Set + Get
	payload := []byte(`{"session":{"status":"processing"}}`)
	c.SetSessionStatus(ctx, id, payload, 2*time.Second)
	if ttl := mr.TTL(statusKey(id.String())); ttl <= 0 || ttl > 2*time.Second {
		t.Errorf("redis TTL = %v; want ~2s", ttl)
	}
	got, err = c.GetSessionStatus(ctx, id)
	if err != nil {
		t.Fatalf("GetSessionStatus hit: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("roundtrip mismatch: got %q; want %q", got, payload)
	}

	// 3) TTL expiry means a miss again
	mr.FastForward(3 * time.Second)
	if got, _ := c.GetSessionStatus(ctx, id); got != nil {
		t.Errorf("after expiry, GetSessionStatus = %q; want nil", got)
	}

	// 4) Delete + miss
	c.SetSessionStatus(ctx, id, payload, time.Minute)
	if err := c.DeleteSessionStatus(ctx, id); err != nil {
		t.Fatalf("DeleteSessionStatus: %v", err)
	}
	if got, _ := c.GetSessionStatus(ctx, id); got != nil {
		t.Errorf("after delete, GetSessionStatus = %q; want nil", got)
	}
}

func TestGetSessionStatus_RedisError(t *testing.T) {
	c, mr := makeTestCache(t)
	ctx := context.Background()
	id := uuid.NewUUID()

	// Simulate Redis unreachable
	mr.Close()

	got, err := c.GetSessionStatus(ctx, id)
	if got != nil {
		t.Errorf("expected nil on Redis error, got %q", got)
	}
	if err == nil {
		t.Error("expected an error when Redis is unreachable")
	}
}

func TestDeleteSessionStatus_RedisError(t *testing.T) {
	c, mr := makeTestCache(t)
	ctx := context.Background()

	mr.Close()

	if err := c.DeleteSessionStatus(ctx, uuid.NewUUID()); err == nil {
		t.Error("expected an error when Redis is unreachable")
	}
}

func TestStatusKey(t *testing.T) {
	id := uuid.NewUUID().String()
	if got := statusKey(id); got != "session_status:"+id {
		t.Errorf("statusKey = %q; want %q", got, "session_status:"+id)
	}
}
