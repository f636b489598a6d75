package classifier

// Class is a tagged value from the closed enumeration of complexity classes,
// ordered by growth rate.
type Class int

const (
	// Indeterminate marks a pair the classifier could not resolve (e.g. a
	// non-finite or non-positive baseline measurement).
	Indeterminate Class = iota - 1

	// O1 is O(1), constant time/space.
	O1
	// OLogN is O(log n).
	OLogN
	// ON is O(n).
	ON
	// ONLogN is O(n·log n).
	ONLogN
	// ON2 is O(n²).
	ON2
	// ON3 is O(n³).
	ON3
	// O2N is O(2ⁿ).
	O2N
	// WorseThanExponential ranks above O2N in the class ordering. Classify
	// never selects it: a ratio beyond every acceptance band falls back to
	// the nearest enumerated class, at most O2N.
	WorseThanExponential
)

// orderedClasses lists every resolvable class in ascending growth order;
// Indeterminate is deliberately excluded, as it does not participate in the
// total order: class ordering is consistent with expected-ratio monotonicity.
var orderedClasses = []Class{O1, OLogN, ON, ONLogN, ON2, ON3, O2N, WorseThanExponential}

// String returns the conventional Big-O notation for c.
func (c Class) String() string {
	switch c {
	case Indeterminate:
		return "Indeterminate"
	case O1:
		return "O(1)"
	case OLogN:
		return "O(log n)"
	case ON:
		return "O(n)"
	case ONLogN:
		return "O(n·log n)"
	case ON2:
		return "O(n²)"
	case ON3:
		return "O(n³)"
	case O2N:
		return "O(2ⁿ)"
	case WorseThanExponential:
		return "WorseThanExponential"
	default:
		return "Unknown"
	}
}

// LessOrEqual reports whether c grows no faster than other. Indeterminate is
// never ≤ or ≥ any class except itself — callers must special-case it (see
// passrunner.resultFor).
func (c Class) LessOrEqual(other Class) bool {
	if c == Indeterminate || other == Indeterminate {
		return c == other
	}
	return c <= other
}

// StepsBelow returns how many classes better than other c is (positive when
// c grows slower), used for the WayBelow hint: observed more than one class
// below declared. Returns 0 if either side is Indeterminate.
func (c Class) StepsBelow(other Class) int {
	if c == Indeterminate || other == Indeterminate {
		return 0
	}
	return int(other) - int(c)
}
