package assembly

import (
	"fmt"
	"sort"

	"github.com/ezrec/3dp-wilbur/pkg/geom"
)

// Assembly is a root part plus every part the builder created for it.
type Assembly struct {
	Root  *Part
	parts []*Part
}

// New creates an assembly rooted at root. The root is anchored at its
// current location.
func New(root *Part) *Assembly {
	if !root.Anchored() {
		root.Anchor(root.Location())
	}
	return &Assembly{Root: root, parts: []*Part{root}}
}

// Add registers parts created for the assembly. Registration is what lets
// Validate report parts that were never connected.
func (a *Assembly) Add(parts ...*Part) {
	a.parts = append(a.parts, parts...)
}

// Registered returns every registered part in registration order.
func (a *Assembly) Registered() []*Part {
	out := make([]*Part, len(a.parts))
	copy(out, a.parts)
	return out
}

// Parts returns the parts reachable from the root in breadth-first order.
func (a *Assembly) Parts() []*Part {
	return Parts(a.Root)
}

// Part returns the reachable part with the given label.
func (a *Assembly) Part(label string) (*Part, bool) {
	for _, p := range a.Parts() {
		if p.label == label {
			return p, true
		}
	}
	return nil, false
}

// Severity indicates whether a validation finding is fatal.
type Severity int

const (
	SeverityError   Severity = iota // assembly is inconsistent
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Part     string // label of the offending part, empty if assembly-level
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] part %s: %s", e.Severity, e.Part, e.Message)
}

// Validate checks that part labels are unique, that every registered part is
// reachable from the root, and that closing edges agree within
// geom.Tolerance. An empty slice means the assembly is consistent.
func (a *Assembly) Validate() []ValidationError {
	var errs []ValidationError

	reachable := map[*Part]bool{}
	seen := map[string]int{}
	for _, p := range a.Parts() {
		reachable[p] = true
		seen[p.label]++
	}

	var dups []string
	for label, n := range seen {
		if n > 1 {
			dups = append(dups, label)
		}
	}
	sort.Strings(dups)
	for _, label := range dups {
		errs = append(errs, ValidationError{
			Part:     label,
			Message:  fmt.Sprintf("label used by %d parts", seen[label]),
			Severity: SeverityError,
		})
	}

	for _, p := range a.parts {
		if !reachable[p] {
			errs = append(errs, ValidationError{
				Part:     p.label,
				Message:  "not reachable from root " + a.Root.label,
				Severity: SeverityError,
			})
		}
	}

	for _, c := range CheckClosure(a.Root, geom.Tolerance) {
		errs = append(errs, ValidationError{
			Part:     c.Edge.Child.part.label,
			Message:  c.Error(),
			Severity: SeverityError,
		})
	}

	return errs
}

// ClosureError reports a connected joint pair whose frames disagree.
type ClosureError struct {
	Edge     Edge
	Distance float64
}

func (e ClosureError) Error() string {
	return fmt.Sprintf("joint %s does not meet %s (off by %.6g)", e.Edge.Parent, e.Edge.Child, e.Distance)
}

// CheckClosure recomputes every connected pair reachable from root and
// reports those where parent and child frames, after articulation, differ by
// more than tol. Only closing edges can fail on a graph built by Connect.
func CheckClosure(root *Part, tol float64) []ClosureError {
	var out []ClosureError
	for _, e := range Edges(root) {
		linkMu.RLock()
		want := e.Parent.part.location.Mul(e.Parent.local).Mul(e.Parent.articulation)
		got := e.Child.part.location.Mul(e.Child.local)
		linkMu.RUnlock()

		if d := want.Distance(got); d > tol {
			out = append(out, ClosureError{Edge: e, Distance: d})
		}
	}
	return out
}
