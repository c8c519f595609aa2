package postgres

import "strconv"

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// nullable maps a zero value to SQL NULL.
func nullable[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
