package pool

import "errors"

var (
	// ErrNotFound is returned when a removal names a position outside
	// the current pool bounds. The pool is left untouched.
	ErrNotFound = errors.New("proxy position does not exist")

	// ErrNoProxyAvailable is returned when the filter combination
	// matches no proxy. The caller may retry with different filters or
	// fetch more proxies.
	ErrNoProxyAvailable = errors.New("no proxy found with the given parameters")

	// ErrInsufficientPool is returned when the pool is below its
	// configured minimum size before filtering is even attempted. The
	// caller should fetch more proxies.
	ErrInsufficientPool = errors.New("not enough proxies available")
)
