package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tesselate/tesselate/internal/board"
	"github.com/tesselate/tesselate/internal/engine"
)

func TestFormatHUD(t *testing.T) {
	tests := []struct {
		name string
		ts   engine.TurnSnapshot
		want string
	}{
		{
			name: "awaiting roll",
			ts:   engine.TurnSnapshot{CurrentPlayer: engine.PlayerA, Phase: engine.AwaitingRoll, Turn: 1},
			want: "player A | roll to start | score A 0 : 0 B | turn 1",
		},
		{
			name: "mid turn",
			ts: engine.TurnSnapshot{
				CurrentPlayer: engine.PlayerB, Phase: engine.TurnInProgress, EdgesRemaining: 2,
				ScoreA: 4, ScoreB: 1, Turn: 3,
			},
			want: "player B | remaining 2 | score A 4 : 1 B | turn 3",
		},
		{
			name: "finished",
			ts:   engine.TurnSnapshot{CurrentPlayer: engine.PlayerB, Turn: 9, ScoreA: 6, ScoreB: 3, Finished: true},
			want: "player B | roll to start | score A 6 : 3 B | turn 9 | game over",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHUD(tt.ts))
		})
	}
}

func TestFormatEdgesAndTriangles(t *testing.T) {
	assert.Equal(t, "edges (0): none", FormatEdges(engine.BoardSnapshot{}))
	assert.Equal(t, "triangles (0): none", FormatTriangles(engine.BoardSnapshot{}))

	bs := engine.BoardSnapshot{
		Edges: []engine.EdgeView{
			{Edge: board.NewEdge(0, 1), Owner: engine.PlayerA},
			{Edge: board.NewEdge(2, 1), Owner: engine.PlayerB},
		},
		ClaimedTriangles: []engine.TriangleView{
			{Triangle: board.NewTriangle(2, 0, 1), Owner: engine.PlayerB},
		},
	}
	assert.Equal(t, "edges (2): 0-1[A] 1-2[B]", FormatEdges(bs))
	assert.Equal(t, "triangles (1): 0-1-2[B]", FormatTriangles(bs))
}

func TestFormatPoints_MarksSelection(t *testing.T) {
	bs := engine.BoardSnapshot{
		Pattern: "custom",
		Points:  []engine.PointView{{Index: 0, X: 10, Y: 20}, {Index: 1, X: 30.5, Y: 40}},
	}
	var sel Selection
	sel.Click(1, engine.TurnInProgress)

	lines := strings.Split(FormatPoints(bs, &sel), "\n")
	assert.Equal(t, []string{
		"custom, 2 points",
		"  0  (10.0, 20.0)",
		"  1  (30.5, 40.0) *",
	}, lines)
}

func TestFormatMove(t *testing.T) {
	tests := []struct {
		name      string
		res       engine.MoveResult
		u, v      int
		remaining int
		want      string
	}{
		{
			name: "rejected",
			res:  engine.MoveResult{Reason: board.ErrPassesThroughDot, Player: engine.PlayerA},
			u:    4, v: 2,
			want: "rejected 4-2: passes_through_dot",
		},
		{
			name: "plain edge",
			res:  engine.MoveResult{Accepted: true, Player: engine.PlayerB},
			u:    4, v: 2, remaining: 3,
			want: "B drew 2-4, 3 left",
		},
		{
			name: "triangle ends turn",
			res: engine.MoveResult{
				Accepted: true, Player: engine.PlayerA, TurnEnded: true, Points: 4,
				NewTriangles: []board.Triangle{board.NewTriangle(0, 1, 2), board.NewTriangle(0, 1, 3)},
			},
			u: 1, v: 0,
			want: "A drew 0-1 (+4: 0-1-2 0-1-3); turn passes to B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMove(tt.res, tt.u, tt.v, tt.remaining))
		})
	}
}
