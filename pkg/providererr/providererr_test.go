// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package providererr_test

import (
	"context"
	"errors"
	"testing"

	"finrag/pkg/providererr"
)

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := providererr.Retry(context.Background(), "embed", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return providererr.Transient("embed", errors.New("timeout"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("got %d calls, want 3", calls)
	}
}

func TestRetry_ExhaustsAfterFourAttempts(t *testing.T) {
	calls := 0
	err := providererr.Retry(context.Background(), "embed", func(ctx context.Context) error {
		calls++
		return providererr.Transient("embed", errors.New("still failing"))
	})
	if err == nil {
		t.Fatal("expected error on exhaustion")
	}
	if calls != 4 {
		t.Fatalf("got %d calls, want 4 (1 + 3 retries)", calls)
	}
}

func TestRetry_PermanentFailsImmediately(t *testing.T) {
	calls := 0
	err := providererr.Retry(context.Background(), "summarize", func(ctx context.Context) error {
		calls++
		return providererr.Permanent("summarize", errors.New("bad input"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("got %d calls, want 1", calls)
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := providererr.Retry(ctx, "embed", func(ctx context.Context) error {
		calls++
		return providererr.Transient("embed", errors.New("timeout"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("got %d calls, want 1 before cancellation observed", calls)
	}
}
