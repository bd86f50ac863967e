// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app provides wrappers for running a [prerender.App] as a process.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/z5labs/prerender"
	"github.com/z5labs/prerender/internal/try"
)

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Recover will wrap the given [prerender.App] with panic recovery.
// A recovered panic is returned as a [try.PanicError].
func Recover(app prerender.App) prerender.App {
	return runFunc(func(ctx context.Context) (err error) {
		defer try.Recover(&err)

		return app.Run(ctx)
	})
}

// InterruptError is returned by an App wrapped with
// [WithSignalNotifications] when it stopped because of a signal.
type InterruptError struct {
	Signal os.Signal
}

// Error implements the error interface.
func (e InterruptError) Error() string {
	return fmt.Sprintf("interrupted by signal: %s", e.Signal)
}

// WithSignalNotifications wraps a given [prerender.App] so the
// [context.Context] passed to app.Run is cancelled once one of the given
// signals is received. If that happens, Run returns an [InterruptError],
// joined with any error app.Run returned while stopping.
func WithSignalNotifications(app prerender.App, signals ...os.Signal) prerender.App {
	return runFunc(func(ctx context.Context) error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, signals...)
		defer signal.Stop(sigCh)

		sigCtx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)

		go func() {
			select {
			case <-sigCtx.Done():
			case sig := <-sigCh:
				cancel(InterruptError{Signal: sig})
			}
		}()

		err := app.Run(sigCtx)

		var ierr InterruptError
		if cause := context.Cause(sigCtx); errors.As(cause, &ierr) {
			return errors.Join(err, ierr)
		}
		return err
	})
}

// LifecycleHook represents functionality that needs to be performed
// at a specific "time" relative to the execution of [prerender.App.Run].
type LifecycleHook interface {
	Run(context.Context) error
}

// LifecycleHookFunc is a func variant of [LifecycleHook].
type LifecycleHookFunc func(context.Context) error

// Run implements the [LifecycleHook] interface.
func (f LifecycleHookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Lifecycle
type Lifecycle struct {
	// PostRun is always executed regardless if the underlying [prerender.App]
	// returns an error or panics.
	PostRun LifecycleHook
}

// WithLifecycleHooks wraps a given [prerender.App] in an implementation
// that runs [LifecycleHook]s around the execution of app.Run.
func WithLifecycleHooks(app prerender.App, lifecycle Lifecycle) prerender.App {
	return runFunc(func(ctx context.Context) (err error) {
		defer runPostRunHook(ctx, lifecycle.PostRun, &err)

		return app.Run(ctx)
	})
}

func runPostRunHook(ctx context.Context, hook LifecycleHook, err *error) {
	if hook == nil {
		return
	}

	// The app's context may already be cancelled, e.g. by a signal,
	// but hooks still need to be able to flush.
	hookErr := hook.Run(context.WithoutCancel(ctx))
	*err = errors.Join(*err, hookErr)
}
