package domain

// Coalesce returns the first non-zero value, or the zero value.
func Coalesce[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

// Deref returns *p, or fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// PositiveOr returns v when it is positive, otherwise fallback. Durations
// stored as 0 mean "use the default estimate".
func PositiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
