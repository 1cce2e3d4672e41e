package retry

import (
	"context"
	"errors"
	"testing"
)

func TestExecuteFirstAttemptSucceeds(t *testing.T) {
	calls := 0
	v, ok, err := Execute(context.Background(), Config[string]{
		Op: func(ctx context.Context) (string, bool, error) {
			calls++
			return "hit", true, nil
		},
		MaxAttempts: 3,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ok || v != "hit" {
		t.Errorf("Execute() = (%q, %v), want (\"hit\", true)", v, ok)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecuteExhaustionReturnsAbsent(t *testing.T) {
	calls := 0
	v, ok, err := Execute(context.Background(), Config[string]{
		Op: func(ctx context.Context) (string, bool, error) {
			calls++
			return "", false, nil
		},
		MaxAttempts: 3,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil on exhaustion", err)
	}
	if ok {
		t.Errorf("Execute() ok = true, want false")
	}
	if v != "" {
		t.Errorf("Execute() = %q, want zero value", v)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want exactly 3", calls)
	}
}

func TestExecuteIntermediateErrorsSwallowed(t *testing.T) {
	calls := 0
	v, ok, err := Execute(context.Background(), Config[int]{
		Op: func(ctx context.Context) (int, bool, error) {
			calls++
			if calls < 3 {
				return 0, false, errors.New("transient")
			}
			return 42, true, nil
		},
		MaxAttempts: 3,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, intermediate errors should be swallowed", err)
	}
	if !ok || v != 42 {
		t.Errorf("Execute() = (%d, %v), want (42, true)", v, ok)
	}
}

func TestExecuteFinalAttemptErrorSurfaces(t *testing.T) {
	final := errors.New("final failure")
	_, ok, err := Execute(context.Background(), Config[int]{
		Op: func(ctx context.Context) (int, bool, error) {
			return 0, false, final
		},
		MaxAttempts: 2,
	})
	if !errors.Is(err, final) {
		t.Errorf("Execute() error = %v, want %v", err, final)
	}
	if ok {
		t.Error("Execute() ok = true, want false")
	}
}

func TestExecuteRetryOpUsedAfterFirstAttempt(t *testing.T) {
	var sequence []string
	v, ok, err := Execute(context.Background(), Config[string]{
		Op: func(ctx context.Context) (string, bool, error) {
			sequence = append(sequence, "op")
			return "", false, nil
		},
		RetryOp: func(ctx context.Context) (string, bool, error) {
			sequence = append(sequence, "retry")
			return "second", true, nil
		},
		MaxAttempts: 3,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ok || v != "second" {
		t.Errorf("Execute() = (%q, %v), want (\"second\", true)", v, ok)
	}
	if len(sequence) != 2 || sequence[0] != "op" || sequence[1] != "retry" {
		t.Errorf("sequence = %v, want [op retry]", sequence)
	}
}

func TestExecuteShouldRetryRejectsValue(t *testing.T) {
	calls := 0
	v, ok, err := Execute(context.Background(), Config[int]{
		Op: func(ctx context.Context) (int, bool, error) {
			calls++
			return calls, true, nil
		},
		ShouldRetry: func(v int) bool { return v < 3 },
		MaxAttempts: 5,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ok || v != 3 {
		t.Errorf("Execute() = (%d, %v), want (3, true)", v, ok)
	}
}

func TestExecuteOnRetryCalledBeforeEachRetry(t *testing.T) {
	var notified []int
	_, _, _ = Execute(context.Background(), Config[int]{
		Op: func(ctx context.Context) (int, bool, error) {
			return 0, false, nil
		},
		OnRetry:     func(attempt int) { notified = append(notified, attempt) },
		MaxAttempts: 3,
	})
	if len(notified) != 2 || notified[0] != 2 || notified[1] != 3 {
		t.Errorf("OnRetry attempts = %v, want [2 3]", notified)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := Execute(ctx, Config[int]{
		Op: func(ctx context.Context) (int, bool, error) {
			t.Fatal("operation should not run with cancelled context")
			return 0, false, nil
		},
		MaxAttempts: 3,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if ok {
		t.Error("Execute() ok = true, want false")
	}
}
