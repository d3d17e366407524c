//go:build debug_barrier

package debugutil

import "github.com/pkg/errors"

// ErrNotPowerOfTwo is returned by CheckPow2 when the checked value is
// not a power of two.
var ErrNotPowerOfTwo error = errors.New("value must be a power of two")

// CheckPow2 returns an error if number is not a power of two.
func CheckPow2[T Number](number T, name string) error {
	if number != 0 && number&(number-1) != 0 {
		return errors.Wrapf(ErrNotPowerOfTwo, "%s is %d", name, number)
	}
	return nil
}

// DebugValidate calls Validate on v and panics if it returns an error.
// It no-ops unless the debug_barrier build tag is present.
func DebugValidate(v Validatable) {
	if err := v.Validate(); err != nil {
		panic(err)
	}
}

// DebugCheckPow2 panics if number is not a power of two. It no-ops
// unless the debug_barrier build tag is present.
func DebugCheckPow2[T Number](number T, name string) {
	if err := CheckPow2(number, name); err != nil {
		panic(err)
	}
}
