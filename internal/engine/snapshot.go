package engine

import "github.com/tesselate/tesselate/internal/board"

// PointView is one board point for rendering.
type PointView struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// EdgeView is a drawn edge and who drew it.
type EdgeView struct {
	board.Edge
	Owner Player `json:"owner"`
}

// TriangleView is a claimed triangle and who claimed it.
type TriangleView struct {
	board.Triangle
	Owner Player `json:"owner"`
}

// BoardSnapshot is a read-only copy of the board state.
type BoardSnapshot struct {
	Pattern          string         `json:"pattern"`
	Width            float64        `json:"width"`
	Height           float64        `json:"height"`
	DotRadius        float64        `json:"dotRadius"`
	Points           []PointView    `json:"points"`
	Edges            []EdgeView     `json:"edges"`
	ClaimedTriangles []TriangleView `json:"claimedTriangles"`
}

// TurnSnapshot is a read-only copy of the turn state.
type TurnSnapshot struct {
	CurrentPlayer  Player `json:"currentPlayer"`
	EdgesRemaining int    `json:"edgesRemaining"`
	ScoreA         int    `json:"scoreA"`
	ScoreB         int    `json:"scoreB"`
	Phase          Phase  `json:"phase"`
	Turn           int    `json:"turn"`
	LastRoll       int    `json:"lastRoll"`
	Finished       bool   `json:"finished"`
}

// BoardSnapshot copies the current board. Edges are in placement order and
// triangles in claim order.
func (g *Game) BoardSnapshot() BoardSnapshot {
	pts := g.board.Points()
	snap := BoardSnapshot{
		Pattern:          g.patternName,
		Width:            g.cfg.Width,
		Height:           g.cfg.Height,
		DotRadius:        g.board.Rules().DotRadius,
		Points:           make([]PointView, len(pts)),
		Edges:            make([]EdgeView, 0, len(g.edgeOwner)),
		ClaimedTriangles: make([]TriangleView, 0, len(g.triOwner)),
	}
	for i, p := range pts {
		snap.Points[i] = PointView{Index: i, X: p.X, Y: p.Y}
	}
	for _, e := range g.board.Edges() {
		snap.Edges = append(snap.Edges, EdgeView{Edge: e, Owner: g.edgeOwner[e]})
	}
	for _, t := range g.board.Claimed() {
		snap.ClaimedTriangles = append(snap.ClaimedTriangles, TriangleView{Triangle: t, Owner: g.triOwner[t]})
	}
	return snap
}

// TurnSnapshot copies the current turn state.
func (g *Game) TurnSnapshot() TurnSnapshot {
	return TurnSnapshot{
		CurrentPlayer:  g.current,
		EdgesRemaining: g.remaining,
		ScoreA:         g.scores[PlayerA],
		ScoreB:         g.scores[PlayerB],
		Phase:          g.Phase(),
		Turn:           g.turn,
		LastRoll:       g.lastRoll,
		Finished:       g.Finished(),
	}
}
