package console

import "github.com/tesselate/tesselate/internal/engine"

// SelectionState is the adapter's half-built edge.
type SelectionState int

const (
	NoSelection SelectionState = iota
	OnePointSelected
)

// ClickKind says what a click did.
type ClickKind int

const (
	// ClickIgnored means the click arrived while no turn was in progress.
	ClickIgnored ClickKind = iota
	ClickSelected
	ClickDeselected
	// ClickSubmit means the click completed an edge that should be submitted.
	ClickSubmit
)

func (k ClickKind) String() string {
	switch k {
	case ClickSelected:
		return "selected"
	case ClickDeselected:
		return "deselected"
	case ClickSubmit:
		return "submit"
	default:
		return "ignored"
	}
}

// ClickResult is the outcome of Selection.Click. U and V are set for ClickSubmit.
type ClickResult struct {
	Kind ClickKind
	U, V int
}

// Selection tracks the point picked by the first of two clicks. The engine
// only ever sees complete pairs.
type Selection struct {
	state SelectionState
	index int
}

// State returns the current selection state.
func (s *Selection) State() SelectionState {
	return s.state
}

// Selected returns the selected point, if any.
func (s *Selection) Selected() (int, bool) {
	return s.index, s.state == OnePointSelected
}

// Clear drops any selection.
func (s *Selection) Clear() {
	s.state = NoSelection
	s.index = 0
}

// Click advances the selection with point i. Clicks are ignored while the
// game awaits a roll. Clicking the selected point again deselects it.
func (s *Selection) Click(i int, phase engine.Phase) ClickResult {
	if phase == engine.AwaitingRoll {
		return ClickResult{Kind: ClickIgnored}
	}

	switch {
	case s.state == NoSelection:
		s.state, s.index = OnePointSelected, i
		return ClickResult{Kind: ClickSelected, U: i}
	case s.index == i:
		s.Clear()
		return ClickResult{Kind: ClickDeselected, U: i}
	default:
		u := s.index
		s.Clear()
		return ClickResult{Kind: ClickSubmit, U: u, V: i}
	}
}

// AfterMove updates the selection once a submitted u-v has been answered.
// An accepted move that leaves budget keeps v selected as the next start.
func (s *Selection) AfterMove(res engine.MoveResult, v int) {
	if res.Accepted && !res.TurnEnded {
		s.state, s.index = OnePointSelected, v
		return
	}
	s.Clear()
}
