package imagegen

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"workshop/internal/domain"
)

func TestRedisStatusCacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "workshop:image_status:job-1")).
		Return(mock.Result(mock.RedisNil()))

	got, err := NewRedisStatusCacheWithClient(c).Get(context.Background(), "job-1")
	if err != nil || got != nil {
		t.Fatalf("Get = %+v, %v; want miss", got, err)
	}
}

func TestRedisStatusCacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "workshop:image_status:job-1")).
		Return(mock.Result(mock.RedisString(`{"job_id":"job-1","state":"done","done":true,"image":{"url":"https://cdn.test/a.webp","inline":false}}`)))

	got, err := NewRedisStatusCacheWithClient(c).Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.State != domain.ImageJobDone || got.Image == nil || got.Image.URL != "https://cdn.test/a.webp" {
		t.Fatalf("Get = %+v", got)
	}
}

func TestRedisStatusCacheSetUsesTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return len(cmd) == 5 && cmd[0] == "SET" && cmd[1] == "workshop:image_status:job-2" && cmd[3] == "EX" && cmd[4] == "60"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	err := NewRedisStatusCacheWithClient(c).Set(context.Background(), domain.ImageStatus{JobID: "job-2", State: domain.ImageJobFailed}, time.Minute)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
}

func TestMemoryStatusCacheExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryStatusCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, domain.ImageStatus{JobID: "j", State: domain.ImageJobDone}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := cache.Get(ctx, "j"); got == nil || got.State != domain.ImageJobDone {
		t.Fatalf("Get before expiry = %+v", got)
	}
	now = now.Add(2 * time.Minute)
	if got, _ := cache.Get(ctx, "j"); got != nil {
		t.Fatalf("Get after expiry = %+v, want nil", got)
	}
}

func TestMemoryStatusCacheSweepsOnSet(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryStatusCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		if err := cache.Set(ctx, domain.ImageStatus{JobID: fmt.Sprintf("job-%d", i), State: domain.ImageJobDone}, time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if len(cache.entries) != 1000 {
		t.Fatalf("entries = %d, want 1000", len(cache.entries))
	}

	now = now.Add(24 * time.Hour)
	if err := cache.Set(ctx, domain.ImageStatus{JobID: "fresh", State: domain.ImageJobFailed}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("entries after sweep = %d, want 1", len(cache.entries))
	}
	if got, _ := cache.Get(ctx, "fresh"); got == nil || got.State != domain.ImageJobFailed {
		t.Fatalf("Get(fresh) = %+v", got)
	}
}
