package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromCmdable(rdb, zap.NewNop()), mr
}

type snapshot struct {
	Branch string `json:"branch"`
	Year   int    `json:"year"`
}

// ── 快照缓存 ──

func TestGetJSON_Miss(t *testing.T) {
	c, _ := newTestClient(t)

	var dst snapshot
	err := c.GetJSON(context.Background(), PreferenceKey("nobody"), &dst)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("期望 ErrCacheMiss，实际: %v", err)
	}
}

func TestSetJSON_RoundTrip(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	key := PreferenceKey("u1")

	if key != "pref:u1" {
		t.Errorf("键格式不正确: %s", key)
	}
	if err := c.SetJSON(ctx, key, snapshot{Branch: "CSE", Year: 2}, time.Hour); err != nil {
		t.Fatalf("SetJSON 失败: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("期望 TTL 1h，实际 %v", ttl)
	}

	var got snapshot
	if err := c.GetJSON(ctx, key, &got); err != nil {
		t.Fatalf("GetJSON 失败: %v", err)
	}
	if got.Branch != "CSE" || got.Year != 2 {
		t.Errorf("快照内容不符: %+v", got)
	}

	mr.FastForward(2 * time.Hour)
	if err := c.GetJSON(ctx, key, &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("过期后期望 ErrCacheMiss，实际: %v", err)
	}
}

func TestGetJSON_CorruptValue(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Set(PreferenceKey("u1"), "not-json")

	var dst snapshot
	err := c.GetJSON(context.Background(), PreferenceKey("u1"), &dst)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Errorf("损坏的快照应返回解码错误，实际: %v", err)
	}
}

func TestGetJSON_ServerDown(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()

	var dst snapshot
	err := c.GetJSON(context.Background(), PreferenceKey("u1"), &dst)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Errorf("连接失败不应视为未命中，实际: %v", err)
	}
}

// ── 滑动窗口限流 ──

func TestCheckRateLimit_Window(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	window := 200 * time.Millisecond

	for i := 1; i <= 2; i++ {
		ok, err := c.CheckRateLimit(ctx, "rate_limit:uid:u1", 2, window)
		if err != nil {
			t.Fatalf("第 %d 次 CheckRateLimit 失败: %v", i, err)
		}
		if !ok {
			t.Errorf("第 %d 次请求应放行", i)
		}
	}

	ok, err := c.CheckRateLimit(ctx, "rate_limit:uid:u1", 2, window)
	if err != nil {
		t.Fatalf("CheckRateLimit 失败: %v", err)
	}
	if ok {
		t.Error("超出限额的请求应被拒绝")
	}

	ok, _ = c.CheckRateLimit(ctx, "rate_limit:uid:u2", 2, window)
	if !ok {
		t.Error("不同键应独立计数")
	}

	// 窗口滑过之后旧记录被清理
	time.Sleep(window + 100*time.Millisecond)
	ok, err = c.CheckRateLimit(ctx, "rate_limit:uid:u1", 2, window)
	if err != nil {
		t.Fatalf("CheckRateLimit 失败: %v", err)
	}
	if !ok {
		t.Error("窗口过后应重新放行")
	}
}

func TestCheckRateLimit_ServerDown(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()

	if _, err := c.CheckRateLimit(context.Background(), "rate_limit:ip:1.2.3.4", 1, time.Minute); err == nil {
		t.Error("Redis 不可用时应返回错误")
	}
}
