// Package lazy provides deferred, computed-once values.
//
// A Value either carries an explicitly supplied result or a zero-argument
// function evaluated on first read and cached. Callers can ask whether the
// value was supplied explicitly, which lets consumers treat overridden
// fields differently from defaulted ones.
package lazy

import "sync"

// Value holds a result of type T that is either supplied up front or
// computed on first access. The zero Value yields the zero T.
type Value[T any] struct {
	once     sync.Once
	compute  func() T
	result   T
	explicit bool
}

// Of returns a Value holding an explicitly supplied result.
func Of[T any](v T) *Value[T] {
	return &Value[T]{result: v, explicit: true}
}

// Deferred returns a Value computed by fn on first Get. fn runs at most
// once; it may read sibling fields of an enclosing struct as long as they
// are initialized before the first Get.
func Deferred[T any](fn func() T) *Value[T] {
	return &Value[T]{compute: fn}
}

// Get returns the value, computing and caching it on first access. Safe for
// concurrent use.
func (v *Value[T]) Get() T {
	v.once.Do(func() {
		if !v.explicit && v.compute != nil {
			v.result = v.compute()
			v.compute = nil
		}
	})
	return v.result
}

// Explicit reports whether the value was supplied up front rather than
// deferred to a compute function.
func (v *Value[T]) Explicit() bool {
	return v.explicit
}
