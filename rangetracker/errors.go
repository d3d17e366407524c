package rangetracker

import "github.com/pkg/errors"

// ErrNodeCapacityExceeded is returned from InsertRange when allocating
// a new tree node would exceed the 21-bit node index space (2^21 - 1
// simultaneously live nodes). This is a programming error in the
// caller, not a transient condition: it means far more pending ranges
// are live than any real command list should ever accumulate, and the
// caller should flush and reset the tracker rather than retry.
var ErrNodeCapacityExceeded error = errors.New("range tracker node pool exhausted its 21-bit index space")
