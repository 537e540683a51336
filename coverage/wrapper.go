// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package coverage

// NoData is the payload of a Wrapper that carries nothing.
type NoData struct{}

// Wrapper pairs the coverage of a unitig with a caller-defined payload.
type Wrapper[T any] struct {
	Cov  Compressed
	data T
}

// NewWrapper creates a Wrapper whose coverage is New(size, full) and whose
// payload is the zero T.
func NewWrapper[T any](size int, full bool) Wrapper[T] {
	return Wrapper[T]{Cov: New(size, full)}
}

// Data returns a copy of the payload.
func (w *Wrapper[T]) Data() T { return w.data }

// SetData replaces the payload with a copy of data.
func (w *Wrapper[T]) SetData(data T) { w.data = data }

// Clone returns a Wrapper with a deep copy of the coverage and a copy of the
// payload.
func (w *Wrapper[T]) Clone() Wrapper[T] {
	return Wrapper[T]{Cov: w.Cov.Clone(), data: w.data}
}

// Move transfers the coverage and payload to the returned value, leaving w
// with empty coverage and the zero payload.
func (w *Wrapper[T]) Move() Wrapper[T] {
	d := Wrapper[T]{Cov: w.Cov.Move(), data: w.data}
	var zero T
	w.data = zero
	return d
}

// Bare is a Wrapper without payload.  Data always returns NoData{}.
type Bare = Wrapper[NoData]

// NewBare creates a Bare whose coverage is New(size, full).
func NewBare(size int, full bool) Bare {
	return NewWrapper[NoData](size, full)
}
