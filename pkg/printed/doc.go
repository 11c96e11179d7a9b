// Package printed generates the custom parts of the frame: the carriages,
// idler blocks and stepper plates. Every generator takes the shared
// stackup.Stackup so the parts agree on rod spacing, belt lines and walls.
package printed

import "fmt"

// Side selects the left or right hand variant of a part.
type Side string

// Level selects the upper or lower variant of a part.
type Level string

const (
	Left  Side = "left"
	Right Side = "right"

	Upper Level = "upper"
	Lower Level = "lower"
)

// Sides lists both sides, right first, in build order.
var Sides = []Side{Right, Left}

// Levels lists both levels, upper first.
var Levels = []Level{Upper, Lower}

// Valid reports whether s is Left or Right.
func (s Side) Valid() bool { return s == Left || s == Right }

// Valid reports whether l is Upper or Lower.
func (l Level) Valid() bool { return l == Upper || l == Lower }

// Short is the one-letter form used in part labels.
func (l Level) Short() string { return string(l[:1]) }

func checkSide(s Side) error {
	if !s.Valid() {
		return fmt.Errorf("printed: unknown side %q", s)
	}
	return nil
}

func checkLevel(l Level) error {
	if !l.Valid() {
		return fmt.Errorf("printed: unknown level %q", l)
	}
	return nil
}
