// Package debugutil carries the validation helpers shared by the range
// tracker and the subresource set. It is the barrier module's analogue
// of the teacher's memutils package: a Validatable contract plus a
// build-tag-gated debug assertion layer that disappears entirely in
// release builds.
package debugutil

// Validatable is implemented by any structure that can check its own
// internal consistency. DebugValidate calls it only when the
// debug_barrier build tag is present.
type Validatable interface {
	Validate() error
}

// Number is the constraint accepted by CheckPow2 and DebugCheckPow2.
// It lives outside the build-tag-gated files so both the debug and
// production variants of DebugCheckPow2 can share one signature.
type Number interface {
	~int | ~uint | ~uint32 | ~uint64
}
