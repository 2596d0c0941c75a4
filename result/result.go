/*
Package result provides an Elm-style value for computations that may fail.

A Result either holds a value (Ok) or an error (Err). The container packages
of this module expose it as an alternative facade to their (value, error)
returning operations.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Martin Haupt

*/
package result

// Result is the outcome of a computation of a T that may fail.
type Result[T any] interface {
	Match() Matcher[T]
	Unwrap() (T, error)
}

type result[T any] struct {
	value T
	err   error
}

// Ok wraps the value of a successful computation.
func Ok[T any](x T) Result[T] {
	return result[T]{value: x}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return result[T]{err: err}
}

func (r result[T]) Match() Matcher[T] {
	return &matcher[T]{r: r}
}

// Unwrap returns the outcome in Go's native (value, error) form.
func (r result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// --- Matching --------------------------------------------------------------

// Matcher lets clients pattern-match on a Result:
//
//	var v int
//	var e error
//	switch m := x.Match(); m {
//	case m.Ok(&v):  // …
//	case m.Err(&e): // …
//	}
type Matcher[T any] interface {
	Ok(*T) Matcher[T]
	Err(*error) Matcher[T]
}

// matcher is handed out by pointer: the switch idiom compares Matcher
// interface values, and pointer identity stays comparable even when T is not
// (a T containing slices would make a value comparison panic at runtime).
type matcher[T any] struct {
	r result[T]
}

func (rm *matcher[T]) Ok(v *T) Matcher[T] {
	if rm.r.err == nil {
		*v = rm.r.value
		return rm
	}
	return nil
}

func (rm *matcher[T]) Err(err *error) Matcher[T] {
	if rm.r.err != nil {
		*err = rm.r.err
		return rm
	}
	return nil
}
