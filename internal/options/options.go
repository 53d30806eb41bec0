// Package options implements the functional options used by the writer and
// reader constructors.
//
// A package exposes its options as aliases of Option over its own config
// type and builds them with New or NoError:
//
//	type WriterOption = options.Option[*WriterConfig]
//
//	func WithBufferSize(n int) WriterOption {
//	    return options.New(func(c *WriterConfig) error { ... })
//	}
package options

// Option configures a target of type T. The apply method is unexported so
// only this package can build options.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a function to Option.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New returns an option that may reject its argument.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError returns an option that always succeeds.
func NoError[T any](fn func(T)) *Func[T] {
	return New(func(target T) error {
		fn(target)
		return nil
	})
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
