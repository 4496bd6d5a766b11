package provider

import "context"

// Iterator provides pull-based sequential access to a stream of values.
// The consumer calls Next() to retrieve values one at a time.
// Close must be called when done to release resources.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// IteratorFunc adapts a next function to the Iterator interface.
// Close is a no-op unless closeFn is given.
func IteratorFunc[T any](next func(ctx context.Context) (T, bool, error), closeFn func() error) Iterator[T] {
	return &funcIterator[T]{next: next, close: closeFn}
}

type funcIterator[T any] struct {
	next   func(ctx context.Context) (T, bool, error)
	close  func() error
	closed bool
}

func (f *funcIterator[T]) Next(ctx context.Context) (T, bool, error) {
	if f.closed {
		var zero T
		return zero, false, nil
	}
	return f.next(ctx)
}

func (f *funcIterator[T]) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.close != nil {
		return f.close()
	}
	return nil
}

// SliceIterator returns an Iterator over a fixed set of values.
func SliceIterator[T any](values ...T) Iterator[T] {
	i := 0
	return IteratorFunc(func(context.Context) (T, bool, error) {
		if i >= len(values) {
			var zero T
			return zero, false, nil
		}
		v := values[i]
		i++
		return v, true, nil
	}, nil)
}

// Collect drains it into a slice and closes it. Values received before an
// error are returned alongside the error.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer func() { _ = it.Close() }()

	var out []T
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
