package console

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesselate/tesselate/internal/dispatcher"
	"github.com/tesselate/tesselate/internal/engine"
	"github.com/tesselate/tesselate/internal/geo"
	"github.com/tesselate/tesselate/internal/util"
	"github.com/tesselate/tesselate/pkg/streaming"
)

type fixedRand struct{ v int }

func (r fixedRand) Intn(n int) int { return r.v % n }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var tri = []geo.Point{geo.Pt(0, 0), geo.Pt(100, 0), geo.Pt(0, 100)}

// newTestConsole builds a console over a fixed board where every roll is 3.
func newTestConsole(t *testing.T, pts []geo.Point, opts ...Option) (*Console, *dispatcher.Dispatcher, *bytes.Buffer) {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	g, err := engine.New(engine.Config{},
		engine.WithPoints(pts), engine.WithRand(fixedRand{v: 2}), engine.WithLogger(quiet))
	require.NoError(t, err)

	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)

	var out bytes.Buffer
	c := New(g, &out, append([]Option{WithLogger(quiet)}, opts...)...)
	c.Register(d)
	return c, d, &out
}

// run executes each line and returns the text written by all of them.
func run(t *testing.T, c *Console, d *dispatcher.Dispatcher, out *bytes.Buffer, lines ...string) string {
	t.Helper()
	out.Reset()
	for _, l := range lines {
		_ = c.Execute(d, l)
	}
	return out.String()
}

func TestConsole_ClickFlow(t *testing.T) {
	c, d, out := newTestConsole(t, tri)

	assert.Equal(t, "roll first\n", run(t, c, d, out, "click 0"))
	assert.Equal(t, "A rolled 3\n", run(t, c, d, out, "roll"))
	assert.Equal(t, "selected 0\n", run(t, c, d, out, "click 0"))
	assert.Equal(t, "A drew 0-1, 2 left\n", run(t, c, d, out, "click 1"))

	i, ok := c.Selection().Selected()
	require.True(t, ok, "second point stays selected mid-turn")
	assert.Equal(t, 1, i)

	assert.Equal(t, "A drew 1-2, 1 left\n", run(t, c, d, out, "click 2"))
	assert.Equal(t,
		"A drew 0-2 (+2: 0-1-2); turn passes to B\nno legal edges left: A wins (A 2 : 0 B)\n",
		run(t, c, d, out, "click 0"))

	_, ok = c.Selection().Selected()
	assert.False(t, ok, "selection clears when the turn ends")
}

func TestConsole_ClickSamePointDeselects(t *testing.T) {
	c, d, out := newTestConsole(t, tri)
	run(t, c, d, out, "roll")

	assert.Equal(t, "selected 2\ndeselected 2\n", run(t, c, d, out, "click 2", "click 2"))
	assert.Equal(t, NoSelection, c.Selection().State())
}

func TestConsole_RejectedClickClearsSelection(t *testing.T) {
	c, d, out := newTestConsole(t, tri)
	run(t, c, d, out, "roll", "click 0", "click 1")

	assert.Equal(t, "rejected 1-0: duplicate_edge\n", run(t, c, d, out, "click 0"))
	assert.Equal(t, NoSelection, c.Selection().State())
}

func TestConsole_MoveAndRoll(t *testing.T) {
	c, d, out := newTestConsole(t, tri)

	assert.Equal(t, "rejected 0-1: not_rolled\n", run(t, c, d, out, "move 0 1"))
	run(t, c, d, out, "roll")
	assert.Equal(t, "turn in progress: A has 3 edges left\n", run(t, c, d, out, "roll"))
	assert.Equal(t, "A drew 0-1, 2 left\n", run(t, c, d, out, "move 1 0"))
}

func TestConsole_BadInput(t *testing.T) {
	c, d, out := newTestConsole(t, tri)
	run(t, c, d, out, "roll")

	tests := []struct {
		line    string
		wantErr error
	}{
		{"move 0 0", util.ErrSamePoint},
		{"move 0 9", util.ErrOutOfRange},
		{"click x", util.ErrNotIndex},
		{"move 0", dispatcher.ErrArgCount},
		{"state now", dispatcher.ErrArgCount},
		{"fly", dispatcher.ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()
			err := c.Execute(d, tt.line)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, strings.HasPrefix(out.String(), "error: "), out.String())
		})
	}

	assert.Len(t, c.game.BoardSnapshot().Edges, 0, "bad input never reaches the board")
	assert.NoError(t, c.Execute(d, "   "))
}

func TestConsole_StateAndPoints(t *testing.T) {
	c, d, out := newTestConsole(t, tri)
	run(t, c, d, out, "roll", "click 0", "click 1")

	got := run(t, c, d, out, "state")
	assert.Equal(t, strings.Join([]string{
		"player A | remaining 2 | score A 0 : 0 B | turn 1",
		"edges (1): 0-1[A]",
		"triangles (0): none",
		"selected: 1",
		"",
	}, "\n"), got)

	got = run(t, c, d, out, "points")
	assert.Contains(t, got, "custom, 3 points")
	assert.Contains(t, got, "  1  (100.0, 0.0) *")
}

func TestConsole_ResetClearsSelection(t *testing.T) {
	c, d, out := newTestConsole(t, tri)
	run(t, c, d, out, "roll", "click 0")

	assert.Equal(t, "new board: custom, 3 points\n", run(t, c, d, out, "reset"))
	assert.Equal(t, NoSelection, c.Selection().State())
	assert.Equal(t, engine.AwaitingRoll, c.game.Phase())
}

func TestConsole_WKT(t *testing.T) {
	c, d, out := newTestConsole(t, tri)
	run(t, c, d, out, "roll", "move 0 1")

	lines := strings.Split(strings.TrimSpace(run(t, c, d, out, "wkt")), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "MULTILINESTRING"))
	assert.True(t, strings.HasPrefix(lines[1], "GEOMETRYCOLLECTION"))
}

func TestConsole_Help(t *testing.T) {
	c, d, out := newTestConsole(t, tri)

	got := run(t, c, d, out, "help")
	for _, name := range []string{"click", "help", "move", "points", "quit", "reset", "roll", "state", "wkt"} {
		assert.Contains(t, got, name)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(got), "\n"), 9)
}

func TestConsole_RunStopsAtQuit(t *testing.T) {
	c, d, out := newTestConsole(t, tri, WithPrompt("> "))

	err := c.Run(context.Background(), strings.NewReader("roll\nquit\nroll\n"), d)
	require.NoError(t, err)
	assert.True(t, c.Done())
	assert.Equal(t, "> A rolled 3\n> bye\n", out.String())
}

func TestConsole_RunEndOfInput(t *testing.T) {
	c, d, _ := newTestConsole(t, tri)

	require.NoError(t, c.Run(context.Background(), strings.NewReader("roll\n"), d))
	assert.False(t, c.Done())
	assert.Equal(t, 3, c.game.Remaining())
}

func TestConsole_RunCancelled(t *testing.T) {
	c, d, _ := newTestConsole(t, tri)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx, strings.NewReader("roll\n"), d)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, c.game.Remaining())
}

func TestConsole_RunCancelWhileWaitingForInput(t *testing.T) {
	c, d, _ := newTestConsole(t, tri)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, pr, d) }()

	_, err := pw.Write([]byte("roll\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after cancel")
	}
}

func decodeStream(t *testing.T, raw string) []streaming.Envelope {
	t.Helper()
	var envs []streaming.Envelope
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		var e streaming.Envelope
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), sc.Text())
		envs = append(envs, e)
	}
	return envs
}

func types(envs []streaming.Envelope) []string {
	out := make([]string, len(envs))
	for i, e := range envs {
		out[i] = e.Type
	}
	return out
}

func TestConsole_JSONMode(t *testing.T) {
	c, d, out := newTestConsole(t, tri, WithJSON(), WithPrompt("> "))

	envs := decodeStream(t, run(t, c, d, out, "roll", "move 0 1", "move 0 1", "move 9 1", "state"))
	assert.Equal(t, []string{
		"dice_rolled", streaming.TypeReply,
		"edge_placed", streaming.TypeReply,
		"move_rejected", streaming.TypeReply,
		streaming.TypeError,
		streaming.TypeState,
	}, types(envs))

	var rolled engine.DiceRolledPayload
	require.NoError(t, streaming.DecodePayload(envs[0], &rolled))
	assert.Equal(t, 3, rolled.Roll)

	var rejected engine.MoveRejectedPayload
	require.NoError(t, streaming.DecodePayload(envs[4], &rejected))
	assert.Equal(t, "duplicate_edge", rejected.Reason)

	var perr streaming.ErrorPayload
	require.NoError(t, streaming.DecodePayload(envs[6], &perr))
	assert.Equal(t, "move", perr.Command)

	var state struct {
		Turn struct {
			EdgesRemaining int    `json:"edgesRemaining"`
			CurrentPlayer  string `json:"currentPlayer"`
		} `json:"turn"`
		Board struct {
			Edges []struct {
				U     int    `json:"u"`
				V     int    `json:"v"`
				Owner string `json:"owner"`
			} `json:"edges"`
		} `json:"board"`
	}
	require.NoError(t, streaming.DecodePayload(envs[7], &state))
	assert.Equal(t, 2, state.Turn.EdgesRemaining)
	assert.Equal(t, "A", state.Turn.CurrentPlayer)
	require.Len(t, state.Board.Edges, 1)
	assert.Equal(t, "A", state.Board.Edges[0].Owner)

	assert.NotContains(t, out.String(), "> ", "no prompt in JSON mode")
}

func TestConsole_JSONModeGameOver(t *testing.T) {
	c, d, out := newTestConsole(t, tri, WithJSON())

	envs := decodeStream(t, run(t, c, d, out, "roll", "move 0 1", "move 0 2", "move 1 2"))
	got := types(envs)
	assert.Equal(t, []string{
		"edge_placed", "triangle_claimed", "turn_ended", "game_over", streaming.TypeReply,
	}, got[len(got)-5:])

	var over engine.GameOverPayload
	require.NoError(t, streaming.DecodePayload(envs[len(envs)-2], &over))
	assert.Equal(t, engine.GameOverPayload{ScoreA: 2, ScoreB: 0, Winner: "A"}, over)
}
