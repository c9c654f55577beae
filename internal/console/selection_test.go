package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tesselate/tesselate/internal/board"
	"github.com/tesselate/tesselate/internal/engine"
)

func TestSelection_Click(t *testing.T) {
	var s Selection
	assert.Equal(t, NoSelection, s.State())

	assert.Equal(t, ClickResult{Kind: ClickIgnored}, s.Click(3, engine.AwaitingRoll))
	assert.Equal(t, NoSelection, s.State(), "ignored clicks do not select")

	assert.Equal(t, ClickResult{Kind: ClickSelected, U: 3}, s.Click(3, engine.TurnInProgress))
	i, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	assert.Equal(t, ClickResult{Kind: ClickDeselected, U: 3}, s.Click(3, engine.TurnInProgress))
	_, ok = s.Selected()
	assert.False(t, ok)

	s.Click(3, engine.TurnInProgress)
	assert.Equal(t, ClickResult{Kind: ClickSubmit, U: 3, V: 8}, s.Click(8, engine.TurnInProgress))
	assert.Equal(t, NoSelection, s.State(), "submitting hands the pair off")
}

func TestSelection_AfterMove(t *testing.T) {
	tests := []struct {
		name    string
		res     engine.MoveResult
		wantSel bool
	}{
		{name: "accepted mid-turn keeps second point", res: engine.MoveResult{Accepted: true}, wantSel: true},
		{name: "accepted ending turn clears", res: engine.MoveResult{Accepted: true, TurnEnded: true}, wantSel: false},
		{name: "rejected clears", res: engine.MoveResult{Reason: board.ErrTooLong}, wantSel: false},
		{name: "not rolled clears", res: engine.MoveResult{Reason: engine.ErrNotRolled}, wantSel: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selection
			s.AfterMove(tt.res, 5)
			i, ok := s.Selected()
			assert.Equal(t, tt.wantSel, ok)
			if tt.wantSel {
				assert.Equal(t, 5, i)
				assert.Equal(t, OnePointSelected, s.State())
			}
		})
	}
}

func TestClickKind_String(t *testing.T) {
	assert.Equal(t, "ignored", ClickIgnored.String())
	assert.Equal(t, "selected", ClickSelected.String())
	assert.Equal(t, "deselected", ClickDeselected.String())
	assert.Equal(t, "submit", ClickSubmit.String())
}
