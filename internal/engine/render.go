package engine

import "math/rand/v2"

// Render adapts a Runner so that its entity is converted with fn after every
// successful run. Failed runs return the zero value of U.
func Render[T, U any](r Runner[T], fn func(T) U) Runner[U] {
	return rendered[T, U]{inner: r, fn: fn}
}

type rendered[T, U any] struct {
	inner Runner[T]
	fn    func(T) U
}

func (r rendered[T, U]) Run(rng *rand.Rand) (U, error) {
	out, _, err := r.RunWithStats(rng)
	return out, err
}

func (r rendered[T, U]) RunWithStats(rng *rand.Rand) (U, Stats, error) {
	entity, stats, err := r.inner.RunWithStats(rng)
	if err != nil {
		var zero U
		return zero, stats, err
	}
	return r.fn(entity), stats, nil
}

func (r rendered[T, U]) Kind() Kind {
	return r.inner.Kind()
}
