// Package access provides the access-class vocabulary shared by the
// range tracker and the subresource set: whether a recorded command
// read or wrote a region of memory, and the bitset used to accumulate
// those classes across overlapping slices.
package access

// Access identifies whether a recorded command read or wrote a region
// of memory. The tracker never distinguishes pipeline stages, only
// these two classes.
type Access uint8

const (
	// Read marks a region as having been read by a recorded command.
	Read Access = iota
	// Write marks a region as having been written by a recorded command.
	Write
)

var accessNames = map[Access]string{
	Read:  "Read",
	Write: "Write",
}

func (a Access) String() string {
	if name, ok := accessNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Flags is a bitset of Access values. Two flags are conflicting if at
// least one of them has Write set.
type Flags uint8

const (
	// FlagRead is the bitset form of Read.
	FlagRead Flags = 1 << Read
	// FlagWrite is the bitset form of Write.
	FlagWrite Flags = 1 << Write
)

// FlagsOf builds a Flags value containing a single access class.
func FlagsOf(a Access) Flags {
	return Flags(1 << a)
}

// Set returns a copy of f with a added.
func (f Flags) Set(a Access) Flags {
	return f | FlagsOf(a)
}

// Test returns true if a is present in f.
func (f Flags) Test(a Access) bool {
	return f&FlagsOf(a) != 0
}

// Union returns the bitwise union of f and other.
func (f Flags) Union(other Flags) Flags {
	return f | other
}

// Empty returns true if no access classes are set.
func (f Flags) Empty() bool {
	return f == 0
}

func (f Flags) String() string {
	if f == 0 {
		return "None"
	}
	s := ""
	if f.Test(Read) {
		s += "Read"
	}
	if f.Test(Write) {
		if s != "" {
			s += "|"
		}
		s += "Write"
	}
	return s
}
