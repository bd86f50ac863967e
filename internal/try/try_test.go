// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package try

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	t.Run("will set the error", func(t *testing.T) {
		t.Run("if a non-error value is recovered", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				panic("hello world")
			}

			err := f()

			var perr PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, "hello world", perr.Value) {
				return
			}
			if !assert.Nil(t, perr.Unwrap()) {
				return
			}
		})

		t.Run("if an error is recovered and the function already returned one", func(t *testing.T) {
			funcErr := errors.New("error value")
			panicErr := errors.New("panic error")
			f := func() (err error) {
				defer Recover(&err)
				err = funcErr
				panic(panicErr)
			}

			err := f()
			if !assert.ErrorIs(t, err, funcErr) {
				return
			}
			if !assert.ErrorIs(t, err, panicErr) {
				return
			}
		})
	})

	t.Run("will leave the error untouched", func(t *testing.T) {
		t.Run("if nothing panics", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				return nil
			}

			assert.Nil(t, f())
		})
	})
}

type closeFunc func() error

func (f closeFunc) Close() error {
	return f()
}

func TestClose(t *testing.T) {
	t.Run("will wrap the close failure", func(t *testing.T) {
		closeErr := errors.New("close failed")

		var err error
		Close(&err, closeFunc(func() error { return closeErr }))

		var cerr CloseError
		if !assert.ErrorAs(t, err, &cerr) {
			return
		}
		if !assert.ErrorIs(t, err, closeErr) {
			return
		}
	})

	t.Run("will join with an existing error", func(t *testing.T) {
		closeErr := errors.New("close failed")
		readErr := errors.New("read failed")

		err := readErr
		Close(&err, closeFunc(func() error { return closeErr }))

		assert.ErrorIs(t, err, readErr)
		assert.ErrorIs(t, err, closeErr)
	})

	t.Run("will ignore values which are not closers", func(t *testing.T) {
		var err error
		Close(&err, "not a closer")

		assert.Nil(t, err)
	})
}
