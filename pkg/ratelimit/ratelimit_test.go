package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SixthRequestRejected(t *testing.T) {
	m := NewMemory(5, time.Minute, 0)
	defer m.Close()

	for i := 1; i <= 5; i++ {
		res, err := m.Allow(context.Background(), "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 5-i, res.Remaining)
	}

	res, err := m.Allow(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	other, err := m.Allow(context.Background(), "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are counted independently")
}

func TestMemory_WindowResets(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(1, time.Minute, 0)
	m.now = func() time.Time { return now }

	res, _ := m.Allow(context.Background(), "k")
	assert.True(t, res.Allowed)
	res, _ = m.Allow(context.Background(), "k")
	assert.False(t, res.Allowed)
	assert.Equal(t, 60, res.RetryAfter(now))

	now = now.Add(time.Minute)
	res, _ = m.Allow(context.Background(), "k")
	assert.True(t, res.Allowed)
}

func TestMemory_ConcurrentIncrementsDoNotRace(t *testing.T) {
	m := NewMemory(50, time.Minute, 0)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.Allow(context.Background(), "shared")
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), allowed.Load())
}

func TestMemory_CleanupDropsExpiredEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(1, time.Minute, 0)
	m.now = func() time.Time { return now }

	_, _ = m.Allow(context.Background(), "k")
	now = now.Add(2 * time.Minute)
	m.cleanup()

	_, ok := m.store.Load("k")
	assert.False(t, ok)

	res, _ := m.Allow(context.Background(), "k")
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Count)
}

// fakeScripter answers EVALSHA with a scripted counter.
type fakeScripter struct {
	goredis.Scripter
	count int64
	err   error
	keys  []string
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, _ ...any) *goredis.Cmd {
	f.keys = append(f.keys, keys...)
	cmd := goredis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.count++
	cmd.SetVal([]any{f.count, int64(42)})
	return cmd
}

func TestRedis_Allow(t *testing.T) {
	s := &fakeScripter{}
	r := NewRedis(s, "rl:contact:", 2, time.Minute)

	res, err := r.Allow(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, []string{"rl:contact:203.0.113.7"}, s.keys)

	_, _ = r.Allow(context.Background(), "203.0.113.7")
	res, err = r.Allow(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.WithinDuration(t, time.Now().Add(42*time.Second), res.ResetAt, 2*time.Second)
}

func TestRedis_Error(t *testing.T) {
	r := NewRedis(&fakeScripter{err: errors.New("connection refused")}, "rl:", 5, time.Minute)
	_, err := r.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestParseScriptResult(t *testing.T) {
	count, ttl, err := parseScriptResult([]any{int64(3), int64(-1)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, int64(0), ttl)

	_, _, err = parseScriptResult("nope")
	assert.Error(t, err)
}

type stubLimiter struct {
	res   Result
	err   error
	calls int
}

func (s *stubLimiter) Allow(context.Context, string) (Result, error) {
	s.calls++
	return s.res, s.err
}

func TestFallback(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("primary answers", func(t *testing.T) {
		primary := &stubLimiter{res: Result{Allowed: false}}
		secondary := &stubLimiter{res: Result{Allowed: true}}
		res, err := NewFallback(primary, secondary, "redis", log).Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, secondary.calls)
	})

	t.Run("primary fails over to secondary", func(t *testing.T) {
		primary := &stubLimiter{err: errors.New("down")}
		secondary := &stubLimiter{res: Result{Allowed: true}}
		res, err := NewFallback(primary, secondary, "redis", log).Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1, secondary.calls)
	})
}
