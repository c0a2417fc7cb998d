// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package providererr classifies external provider failures (embedder,
// summarizer, QA) as transient (worth retrying) or permanent, and
// implements the fixed retry-with-backoff policy shared by every
// provider call site (§4.3.2: 3 retries, 100ms -> 400ms -> 1.6s).
package providererr

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TransientError wraps a failure that is expected to succeed on retry
// (timeouts, rate limits, connection resets).
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError wraps a failure that will not succeed on retry
// (malformed input, auth failure, context canceled by the caller).
type PermanentError struct {
	Op  string
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("%s: permanent: %v", e.Op, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError.
func Transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

// Permanent wraps err as a PermanentError.
func Permanent(op string, err error) error {
	return &PermanentError{Op: op, Err: err}
}

// IsTransient reports whether err (or any error it wraps) is a
// TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// Backoff is the fixed retry schedule from §4.3.2: 3 retries at
// 100ms, 400ms, 1.6s.
var Backoff = []time.Duration{
	100 * time.Millisecond,
	400 * time.Millisecond,
	1600 * time.Millisecond,
}

// Retry calls fn up to 1+len(Backoff) times, sleeping the configured
// backoff between attempts, stopping early on a permanent error or a
// canceled context. It returns the last error on exhaustion.
func Retry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt >= len(Backoff) {
			return fmt.Errorf("%s: exhausted retries: %w", op, lastErr)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: canceled during retry: %w", op, ctx.Err())
		case <-time.After(Backoff[attempt]):
		}
	}
}
