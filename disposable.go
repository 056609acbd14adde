// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rxbackpressure

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/JIAWea/rxbackpressure/internal/xerrors"
)

// Teardown is a cleanup callback run exactly once, when a Disposable is disposed.
type Teardown func()

// Disposable is an idempotent cancellation handle. Disposing it more than
// once is a no-op; disposing it the first time runs every registered
// Teardown exactly once, in registration order.
type Disposable interface {
	// Dispose cancels the underlying work. Safe to call more than once and
	// safe for concurrent use.
	Dispose()
	// IsDisposed reports whether Dispose has already run (or started running).
	IsDisposed() bool
}

var _ Disposable = (*baseDisposable)(nil)

type baseDisposable struct {
	mu         sync.Mutex
	done       bool
	finalizers []Teardown
}

// NewDisposable creates a Disposable that runs teardown (if non-nil) on
// first Dispose. If teardown is nil, Dispose only flips the is_disposed flag.
func NewDisposable(teardown Teardown) Disposable {
	d := &baseDisposable{}
	if teardown != nil {
		d.finalizers = append(d.finalizers, teardown)
	}
	return d
}

// Add registers an additional teardown to run on Dispose. If the Disposable
// is already disposed, teardown runs immediately instead.
func (d *baseDisposable) Add(teardown Teardown) {
	if teardown == nil {
		return
	}

	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		_ = runTeardown(teardown)
		return
	}

	d.finalizers = append(d.finalizers, teardown)
	d.mu.Unlock()
}

func (d *baseDisposable) Dispose() {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return
	}

	d.done = true
	finalizers := d.finalizers
	d.finalizers = nil
	d.mu.Unlock()

	var errs []error
	for _, f := range finalizers {
		if err := runTeardown(f); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		OnUnhandledError(context.Background(), xerrors.Join(errs...))
	}
}

func (d *baseDisposable) IsDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

func runTeardown(teardown Teardown) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			teardown()
			return nil
		},
		func(e any) {
			err = newUnsubscriptionError(recoverValueToError(e))
		},
	)

	return err
}

// CompositeDisposable aggregates children so that disposing the parent
// disposes every child exactly once. New children added after disposal are
// disposed immediately (mirrors Disposable.Add's own immediate-run rule).
type CompositeDisposable struct {
	inner *baseDisposable
}

// NewCompositeDisposable creates an empty CompositeDisposable.
func NewCompositeDisposable() *CompositeDisposable {
	return &CompositeDisposable{inner: &baseDisposable{}}
}

// Add registers a child Disposable to be disposed alongside the parent.
func (c *CompositeDisposable) Add(child Disposable) {
	if child == nil {
		return
	}
	c.inner.Add(child.Dispose)
}

// AddTeardown registers a raw teardown function alongside the composite's children.
func (c *CompositeDisposable) AddTeardown(teardown Teardown) {
	c.inner.Add(teardown)
}

// Dispose disposes every registered child exactly once.
func (c *CompositeDisposable) Dispose() { c.inner.Dispose() }

// IsDisposed reports whether Dispose has run.
func (c *CompositeDisposable) IsDisposed() bool { return c.inner.IsDisposed() }

// SingleAssignmentDisposable holds at most one inner Disposable, assigned
// exactly once via Set. If the SingleAssignmentDisposable is already
// disposed when Set is called, the inner Disposable is disposed immediately
// instead of being stored — this is the pattern operators use to tie a
// disposal that must happen "later" (once the inner subscription exists) to
// a disposal that might already have happened "now" (the caller disposed the
// placeholder before the inner subscription was ready).
type SingleAssignmentDisposable struct {
	mu       sync.Mutex
	disposed bool
	inner    Disposable
}

// NewSingleAssignmentDisposable creates an empty, unresolved placeholder.
func NewSingleAssignmentDisposable() *SingleAssignmentDisposable {
	return &SingleAssignmentDisposable{}
}

// Set assigns the inner Disposable. Panics if called twice.
func (s *SingleAssignmentDisposable) Set(inner Disposable) {
	s.mu.Lock()
	if s.inner != nil {
		s.mu.Unlock()
		panic(newProtocolViolationError(ErrConnectableAlreadyConnected))
	}

	if s.disposed {
		s.mu.Unlock()
		inner.Dispose()
		return
	}

	s.inner = inner
	s.mu.Unlock()
}

// Dispose disposes the inner Disposable if already assigned, and marks the
// placeholder disposed so a later Set disposes its argument immediately.
func (s *SingleAssignmentDisposable) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}

	s.disposed = true
	inner := s.inner
	s.mu.Unlock()

	if inner != nil {
		inner.Dispose()
	}
}

// IsDisposed reports whether Dispose has run.
func (s *SingleAssignmentDisposable) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
