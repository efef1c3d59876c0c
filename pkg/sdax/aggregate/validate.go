package aggregate

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// Validation thresholds on the resolved component count. Below the fatal
// floor the extraction almost certainly read the wrong files and the output
// would be misleading.
const (
	fatalComponentFloor = 10
	lowComponentFloor   = 100
)

// Report is the outcome of validating the aggregate graph. Warnings never
// block export; Err is non-nil only for aggregate-level invariant
// violations that must abort before anything is written.
type Report struct {
	Components  int
	Nets        int
	Connections int
	Warnings    []string
	Err         error
}

// OK reports whether export may proceed.
func (r *Report) OK() bool { return r.Err == nil }

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateInput carries the cross-package state the checks need beyond the
// component table itself.
type ValidateInput struct {
	Nets        []*design.Net
	Connections int
	// UnresolvedGeometry counts primitives whose absolute page stayed at
	// the unresolved sentinel.
	UnresolvedGeometry int
	// FallbackPages maps page numbers produced by the file-local page
	// fallback to the blocks that landed on them; a page with two or more
	// blocks is a silent collision the source tooling never surfaced.
	FallbackPages map[int][]design.BlockName
}

// Validate runs the aggregate-level consistency checks.
func (a *Aggregator) Validate(in ValidateInput) *Report {
	r := &Report{
		Components:  a.Len(),
		Nets:        len(in.Nets),
		Connections: in.Connections,
	}

	if r.Components < fatalComponentFloor {
		r.Err = &design.FatalValidationError{
			Message: fmt.Sprintf("only %d components found; the input is not a usable design", r.Components),
		}
	} else if r.Components < lowComponentFloor {
		r.warnf("low component count: %d; design may be incomplete", r.Components)
	}

	withoutPins := 0
	for _, c := range a.components {
		if len(c.Pins) == 0 {
			withoutPins++
		}
	}
	if withoutPins > 0 {
		r.warnf("%d components have no pin connectivity data", withoutPins)
	}

	orphans := 0
	dangling := 0
	for _, net := range in.Nets {
		if len(net.Connections) == 0 {
			orphans++
			continue
		}
		for _, ep := range net.Connections {
			if !ep.Resolved {
				continue
			}
			if _, ok := a.components[ep.RefDes]; !ok {
				dangling++
			}
		}
	}
	if orphans > 0 {
		r.warnf("%d nets have no connections", orphans)
	}
	if dangling > 0 {
		r.warnf("%d net endpoints reference a refdes absent from the component table", dangling)
	}

	if in.UnresolvedGeometry > 0 {
		r.warnf("%d primitives have no resolved page", in.UnresolvedGeometry)
	}

	collisions := make([]int, 0, len(in.FallbackPages))
	for page, blocks := range in.FallbackPages {
		if len(blocks) > 1 {
			collisions = append(collisions, page)
		}
	}
	sort.Ints(collisions)
	for _, page := range collisions {
		r.warnf("fallback page %d is shared by blocks %v; page numbers may collide",
			page, in.FallbackPages[page])
	}

	return r
}
