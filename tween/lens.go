package tween

// Lens writes an interpolated value into a target. Ratio is the eased
// progress, normally in [0, 1] but allowed to overshoot for elastic and back
// curves.
type Lens[T any] interface {
	Lerp(target *T, ratio float64)
}

// LensFunc adapts a plain function to a Lens.
type LensFunc[T any] func(target *T, ratio float64)

func (f LensFunc[T]) Lerp(target *T, ratio float64) {
	f(target, ratio)
}

// Number is the set of scalar types the built-in lenses interpolate.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Lerp linearly interpolates between start and end.
func Lerp[N Number](start, end N, ratio float64) N {
	return N(float64(start) + (float64(end)-float64(start))*ratio)
}

// ValueLens interpolates a scalar component directly.
type ValueLens[N Number] struct {
	Start N
	End   N
}

func (l ValueLens[N]) Lerp(target *N, ratio float64) {
	*target = Lerp(l.Start, l.End, ratio)
}
