package wire

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/arloliu/ujo/errs"
)

// Float16Bits converts f to IEEE-754 binary16 with round-to-nearest-even.
// Values that become infinite or NaN are rejected, including finite
// float32 values beyond the half range.
func Float16Bits(f float32) (uint16, error) {
	h := float16.Fromfloat32(f)
	if h.IsNaN() || h.IsInf(0) {
		return 0, fmt.Errorf("%w: %v is not representable as a finite half", errs.ErrInvalidData, f)
	}

	return h.Bits(), nil
}

// Float16Value widens half-precision bits to float32. Every half,
// including infinities and NaN, has an exact float32 form.
func Float16Value(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}
