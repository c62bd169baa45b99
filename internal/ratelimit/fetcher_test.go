package ratelimit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingDoer(calls *atomic.Int64) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}")), Request: req}, nil
	})
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://provider.test/items", nil)
	require.NoError(t, err)
	return req
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestFetcherBlocksPastLimitUntilReset(t *testing.T) {
	var calls atomic.Int64
	fetcher := New(2, countingDoer(&calls))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp, err := fetcher.Do(ctx, newRequest(t))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	assert.True(t, isClosed(fetcher.Paused()), "pause should fire when the limit is reached")

	done := make(chan error, 1)
	go func() {
		resp, err := fetcher.Do(ctx, newRequest(t))
		if err == nil {
			_ = resp.Body.Close()
		}
		done <- err
	}()

	require.Eventually(t, func() bool { return fetcher.Pending() == 1 }, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("call past the limit resolved before reset")
	case <-time.After(20 * time.Millisecond):
	}
	assert.EqualValues(t, 2, calls.Load())

	resetSignal := fetcher.ResetC()
	fetcher.Reset()
	assert.True(t, isClosed(resetSignal), "reset signal should fire")

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pending call was not released by reset")
	}
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, 1, fetcher.Count(), "released call counts against the new cycle")
	assert.False(t, isClosed(fetcher.Paused()), "new cycle starts unpaused")
}

func TestFetcherResetZeroesCounter(t *testing.T) {
	var calls atomic.Int64
	fetcher := New(5, countingDoer(&calls))

	for i := 0; i < 3; i++ {
		resp, err := fetcher.Do(context.Background(), newRequest(t))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	require.Equal(t, 3, fetcher.Count())

	fetcher.Reset()
	assert.Equal(t, 0, fetcher.Count())
	assert.Equal(t, 0, fetcher.Pending())
}

func TestFetcherBlockedCallHonoursContext(t *testing.T) {
	var calls atomic.Int64
	fetcher := New(1, countingDoer(&calls))

	resp, err := fetcher.Do(context.Background(), newRequest(t))
	require.NoError(t, err)
	_ = resp.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := fetcher.Do(ctx, newRequest(t))
		done <- err
	}()
	require.Eventually(t, func() bool { return fetcher.Pending() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(time.Second):
		t.Fatal("blocked call ignored cancellation")
	}
	assert.Equal(t, 0, fetcher.Pending())
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetcherReleasesEveryPendingCall(t *testing.T) {
	var calls atomic.Int64
	fetcher := New(1, countingDoer(&calls))
	ctx := context.Background()

	resp, err := fetcher.Do(ctx, newRequest(t))
	require.NoError(t, err)
	_ = resp.Body.Close()

	// A budget of one admits one released caller per cycle, so the second
	// waiter needs another reset.
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			resp, err := fetcher.Do(ctx, newRequest(t))
			if err == nil {
				_ = resp.Body.Close()
			}
			done <- struct{}{}
		}()
	}
	require.Eventually(t, func() bool { return fetcher.Pending() == 2 }, time.Second, time.Millisecond)

	fetcher.Reset()
	<-done
	require.Eventually(t, func() bool { return fetcher.Pending() == 1 }, time.Second, time.Millisecond)
	fetcher.Reset()
	<-done
	assert.EqualValues(t, 3, calls.Load())
}
