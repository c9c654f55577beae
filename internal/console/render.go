package console

import (
	"fmt"
	"strings"

	"github.com/tesselate/tesselate/internal/board"
	"github.com/tesselate/tesselate/internal/engine"
	"github.com/tesselate/tesselate/internal/util"
)

// FormatHUD renders the one-line status bar.
func FormatHUD(ts engine.TurnSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "player %s | ", ts.CurrentPlayer)
	if ts.Phase == engine.AwaitingRoll {
		b.WriteString("roll to start")
	} else {
		fmt.Fprintf(&b, "remaining %d", ts.EdgesRemaining)
	}
	fmt.Fprintf(&b, " | score %s | turn %d", util.FormatScore(ts.ScoreA, ts.ScoreB), ts.Turn)
	if ts.Finished {
		b.WriteString(" | game over")
	}
	return b.String()
}

// FormatEdges lists drawn edges with their owners in placement order.
func FormatEdges(bs engine.BoardSnapshot) string {
	items := make([]string, len(bs.Edges))
	for i, e := range bs.Edges {
		items[i] = fmt.Sprintf("%s[%s]", e.Edge, e.Owner)
	}
	return list("edges", items)
}

// FormatTriangles lists claimed triangles with their owners in claim order.
func FormatTriangles(bs engine.BoardSnapshot) string {
	items := make([]string, len(bs.ClaimedTriangles))
	for i, t := range bs.ClaimedTriangles {
		items[i] = fmt.Sprintf("%s[%s]", t.Triangle, t.Owner)
	}
	return list("triangles", items)
}

func list(label string, items []string) string {
	if len(items) == 0 {
		return fmt.Sprintf("%s (0): none", label)
	}
	return fmt.Sprintf("%s (%d): %s", label, len(items), strings.Join(items, " "))
}

// FormatPoints lists every point with its coordinates, marking the selection.
func FormatPoints(bs engine.BoardSnapshot, sel *Selection) string {
	selected, ok := sel.Selected()
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %d points", bs.Pattern, len(bs.Points))
	for _, p := range bs.Points {
		mark := ""
		if ok && p.Index == selected {
			mark = " *"
		}
		fmt.Fprintf(&b, "\n%3d  (%.1f, %.1f)%s", p.Index, p.X, p.Y, mark)
	}
	return b.String()
}

// FormatMove describes the outcome of submitting u-v. remaining is the budget
// left after the move.
func FormatMove(res engine.MoveResult, u, v, remaining int) string {
	if !res.Accepted {
		return fmt.Sprintf("rejected %d-%d: %s", u, v, engine.ReasonName(res.Reason))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s drew %s", res.Player, board.NewEdge(u, v))
	if len(res.NewTriangles) > 0 {
		names := make([]string, len(res.NewTriangles))
		for i, t := range res.NewTriangles {
			names[i] = t.String()
		}
		fmt.Fprintf(&b, " (+%d: %s)", res.Points, strings.Join(names, " "))
	}
	if res.TurnEnded {
		fmt.Fprintf(&b, "; turn passes to %s", res.Player.Other())
	} else {
		fmt.Fprintf(&b, ", %d left", remaining)
	}
	return b.String()
}
