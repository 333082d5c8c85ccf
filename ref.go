package glpipe

import "weak"

// ref is a non-owning reference to a binding target. It never keeps the
// target alive; get fails once the target was collected or destroyed.
type ref[T any] struct {
	p   weak.Pointer[T]
	set bool
}

func refTo[T any](v *T) ref[T] {
	if v == nil {
		return ref[T]{}
	}
	return ref[T]{p: weak.Make(v), set: true}
}

func (r ref[T]) isSet() bool {
	return r.set
}

func (r ref[T]) is(v *T) bool {
	return r.set && v != nil && r.p == weak.Make(v)
}

// peek returns the target or nil, without reporting why.
func (r ref[T]) peek() *T {
	if !r.set {
		return nil
	}
	return r.p.Value()
}

type destroyable interface {
	isDestroyed() bool
}

func (r ref[T]) get() (*T, error) {
	if !r.set {
		return nil, nil
	}
	v := r.p.Value()
	if v == nil {
		return nil, ErrExpiredReference
	}
	if d, ok := any(v).(destroyable); ok && d.isDestroyed() {
		return nil, ErrExpiredReference
	}
	return v, nil
}
