package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
)

func TestDoublingDelay(t *testing.T) {
	backoff := Doubling{Base: 100 * time.Millisecond, Max: time.Second}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{40, time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDoublingWithoutBase(t *testing.T) {
	assert.Zero(t, Doubling{Max: time.Second}.Delay(3))
}

func TestNavigationBackoffJitter(t *testing.T) {
	backoff := NavigationBackoff(200*time.Millisecond, time.Second)

	delays := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		delay := backoff.Delay(1)
		assert.InDelta(t, float64(200*time.Millisecond), float64(delay), float64(20*time.Millisecond))
		delays[delay] = true
	}
	assert.GreaterOrEqual(t, len(delays), 2, "jitter should vary delays")
}

func quickConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     Doubling{Base: 5 * time.Millisecond, Max: 5 * time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		Logger:      logger.NewTestLogger(),
	}
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, quickConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithMaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	persistent := errors.New("persistent error")
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return persistent
	}, quickConfig(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, persistent)
	assert.Equal(t, 3, attempts)
}

func TestSingleAttemptReturnsErrorUnchanged(t *testing.T) {
	attempts := 0
	navErr := errs.Navigation("https://www.pixiv.net/en/artworks/1", context.DeadlineExceeded)
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return navErr
	}, quickConfig(1))

	assert.Same(t, navErr, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithNonRetryableError(t *testing.T) {
	attempts := 0
	parseErr := errs.Parsing("no image file name in url", "https://i.pximg.net/x", nil)

	cfg := quickConfig(5)
	cfg.RetryIf = DefaultRetryIf

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return parseErr
	}, cfg)

	assert.Same(t, parseErr, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	cfg := quickConfig(5)
	cfg.Backoff = Doubling{Base: 100 * time.Millisecond}

	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("error")
	}, cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestOnRetryCallback(t *testing.T) {
	var seen []int
	cfg := quickConfig(3)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		seen = append(seen, attempt)
		assert.Equal(t, 5*time.Millisecond, delay)
	}

	_ = Do(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	}, cfg)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"navigation timeout", errs.Navigation("u", context.DeadlineExceeded), true},
		{"browser", errs.Browser("crashed", nil), true},
		{"validation", errs.Validation("bad", "u"), false},
		{"write", errs.Write("files/a.jpg", errors.New("disk full")), false},
		{"cancelled", errs.Navigation("u", context.Canceled), false},
		{"bare deadline", context.DeadlineExceeded, false},
		{"unknown", errors.New("something"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultRetryIf(tt.err))
		})
	}
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
