//go:build !debug_barrier

package debugutil

// DebugValidate no-ops unless the debug_barrier build tag is present.
func DebugValidate(v Validatable) {
}

// DebugCheckPow2 no-ops unless the debug_barrier build tag is present.
func DebugCheckPow2[T Number](number T, name string) {
}
