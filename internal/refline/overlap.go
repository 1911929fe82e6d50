package refline

import "fmt"

// OverlapType identifies a category of map object overlapping the path.
type OverlapType string

const (
	// OverlapSignal is a traffic light overlap
	OverlapSignal OverlapType = "signal"
	// OverlapStopSign is a stop sign overlap
	OverlapStopSign OverlapType = "stop_sign"
	// OverlapPNCJunction is a planning-and-control junction overlap
	OverlapPNCJunction OverlapType = "pnc_junction"
	// OverlapYieldSign is a yield sign overlap
	OverlapYieldSign OverlapType = "yield_sign"
)

// OverlapTypes lists every supported overlap category.
var OverlapTypes = []OverlapType{OverlapSignal, OverlapStopSign, OverlapPNCJunction, OverlapYieldSign}

// ParseOverlapType validates an overlap type name.
func ParseOverlapType(name string) (OverlapType, error) {
	for _, t := range OverlapTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown overlap type %q", name)
}

// PathOverlap is the span of the path covered by one map object.
type PathOverlap struct {
	ObjectID string  `json:"object_id"`
	StartS   float64 `json:"start_s"`
	EndS     float64 `json:"end_s"`
}

// PathOverlaps holds the path's overlaps keyed by category. Order within a
// category is preserved.
type PathOverlaps struct {
	byType map[OverlapType][]PathOverlap
}

// NewPathOverlaps returns an empty overlap set.
func NewPathOverlaps() *PathOverlaps {
	return &PathOverlaps{byType: make(map[OverlapType][]PathOverlap, len(OverlapTypes))}
}

// Add appends overlaps to a category. The zero PathOverlaps is ready to use.
func (o *PathOverlaps) Add(t OverlapType, overlaps ...PathOverlap) {
	if o.byType == nil {
		o.byType = make(map[OverlapType][]PathOverlap, len(OverlapTypes))
	}
	o.byType[t] = append(o.byType[t], overlaps...)
}

// List returns a copy of the overlaps in one category.
func (o *PathOverlaps) List(t OverlapType) []PathOverlap {
	src := o.byType[t]
	cp := make([]PathOverlap, len(src))
	copy(cp, src)
	return cp
}

// Index returns the position of the first overlap in category t whose
// object id matches, or -1 when there is none.
func (o *PathOverlaps) Index(t OverlapType, objectID string) int {
	for i, ov := range o.byType[t] {
		if ov.ObjectID == objectID {
			return i
		}
	}
	return -1
}

// Find returns a copy of the first overlap in category t with the given
// object id. The boolean is false when no overlap matches.
func (o *PathOverlaps) Find(t OverlapType, objectID string) (PathOverlap, bool) {
	i := o.Index(t, objectID)
	if i < 0 {
		return PathOverlap{}, false
	}
	return o.byType[t][i], true
}
