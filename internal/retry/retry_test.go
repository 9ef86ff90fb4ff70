package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hunter-mcp/hunter-mcp-go/internal/hunter"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rateLimitErr() error {
	return &hunter.Error{StatusCode: 429, Details: "Too many requests"}
}

func TestDelaySchedule(t *testing.T) {
	p := Policy{
		MaxAttempts:   5,
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}

	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second, // capped
		10 * time.Second,
	}
	for i, w := range want {
		if got := p.Delay(i + 1); got != w {
			t.Errorf("Delay(%d) = %s, want %s", i+1, got, w)
		}
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), testLogger(), DefaultPolicy(), "verify-email", func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesOnRateLimitThenSucceeds(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 2}

	calls := 0
	err := Do(context.Background(), testLogger(), p, "verify-email", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return rateLimitErr()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 2}

	calls := 0
	underlying := rateLimitErr()
	err := Do(context.Background(), testLogger(), p, "domain-search", func(ctx context.Context) error {
		calls++
		return underlying
	})
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	// The underlying failure propagates unchanged.
	if !errors.Is(err, underlying) {
		t.Fatalf("err = %v, want the underlying rate-limit error", err)
	}
}

func TestDoDoesNotRetryOtherFailures(t *testing.T) {
	p := Policy{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 2}

	calls := 0
	underlying := &hunter.Error{StatusCode: 500, Details: "Internal server error"}
	err := Do(context.Background(), testLogger(), p, "get-account-info", func(ctx context.Context) error {
		calls++
		return underlying
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on non-rate-limit failures)", calls)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("err = %v, want the underlying error", err)
	}
}

func TestDoSingleAttemptPolicy(t *testing.T) {
	p := Policy{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}

	calls := 0
	err := Do(context.Background(), testLogger(), p, "find-email", func(ctx context.Context) error {
		calls++
		return rateLimitErr()
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if err == nil {
		t.Fatal("expected failure after exhausting the single attempt")
	}
}

func TestDoSleepsPerBackoffSchedule(t *testing.T) {
	var slept []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { sleep = orig })

	p := Policy{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}
	calls := 0
	err := Do(context.Background(), testLogger(), p, "verify-email", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return rateLimitErr()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	want := []time.Duration{time.Second, 2 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("sleeps = %v, want %v", slept, want)
	}
	for i, w := range want {
		if slept[i] != w {
			t.Errorf("sleep %d = %s, want %s", i+1, slept[i], w)
		}
	}
}

func TestDoCancelledDuringBackoff(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Minute, MaxDelay: time.Minute, BackoffFactor: 1}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, testLogger(), p, "verify-email", func(ctx context.Context) error {
			return rateLimitErr()
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation during backoff")
	}
}

func TestPolicyValidate(t *testing.T) {
	cases := []struct {
		name    string
		p       Policy
		wantErr bool
	}{
		{"defaults", DefaultPolicy(), false},
		{"zero attempts", Policy{MaxAttempts: 0, InitialDelay: 1, MaxDelay: 1, BackoffFactor: 1}, true},
		{"negative initial delay", Policy{MaxAttempts: 1, InitialDelay: -1, MaxDelay: 1, BackoffFactor: 1}, true},
		{"max below initial", Policy{MaxAttempts: 1, InitialDelay: 10, MaxDelay: 1, BackoffFactor: 1}, true},
		{"factor below one", Policy{MaxAttempts: 1, InitialDelay: 1, MaxDelay: 1, BackoffFactor: 0.5}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
