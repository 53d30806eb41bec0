package document

import (
	"fmt"
	"iter"

	"github.com/arloliu/ujo/errs"
)

// Parse walks the whole document and hands every element to fn, or to the
// callback set by SetOnElement when fn is nil. Each element is released
// after its callback returns. Parse stops at the end of the document, at
// the first decode error, or at the first error fn returns.
func (r *Reader) Parse(fn OnElementFunc) error {
	if fn == nil {
		fn = r.onElement
	}

	if fn == nil {
		return fmt.Errorf("%w: no element callback", errs.ErrInvalidObject)
	}

	e, eod, err := r.First()
	for {
		if err != nil {
			return err
		}

		if eod {
			return nil
		}

		cbErr := fn(e)
		_ = e.Release()
		if cbErr != nil {
			return cbErr
		}

		e, eod, err = r.Next()
	}
}

// All returns an iterator over the remaining elements, starting with the
// header when First has not been called. Each element is released when
// the loop body finishes with it. A decode error is yielded once with a
// nil element and ends the iteration.
//
//	for e, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
func (r *Reader) All() iter.Seq2[*Element, error] {
	return func(yield func(*Element, error) bool) {
		next := r.Next
		if !r.started {
			next = r.First
		}

		for {
			e, eod, err := next()
			if err != nil {
				yield(nil, err)
				return
			}

			if eod {
				return
			}

			cont := yield(e, nil)
			_ = e.Release()
			if !cont {
				return
			}

			next = r.Next
		}
	}
}
