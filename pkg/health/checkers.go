package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineLimit fails when more than limit goroutines are running, which
// usually means a leak.
func GoroutineLimit(limit int) Check {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("goroutine count %d exceeds limit %d", n, limit)
		}
		return nil
	}
}

// Pinger is a dependency with a cheap connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping adapts a Pinger to a Check.
func Ping(p Pinger) Check {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}

// NotEmpty fails while size reports zero, e.g. before a catalog is loaded.
func NotEmpty(what string, size func() int) Check {
	return func(context.Context) error {
		if size() == 0 {
			return errors.Errorf("%s is empty", what)
		}
		return nil
	}
}
