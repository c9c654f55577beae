// Package engine runs the turn and score state machine on top of a board.
//
// A Game is not safe for concurrent use. Every command runs to completion
// before the next one is accepted; callers serialize input.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tesselate/tesselate/internal/board"
	"github.com/tesselate/tesselate/internal/geo"
	"github.com/tesselate/tesselate/internal/layout"
	"github.com/tesselate/tesselate/internal/queue"
)

// ErrNotRolled is returned by SubmitMove when no edges remain in the turn budget.
var ErrNotRolled = errors.New("dice not rolled")

// ErrInvalidConfig is returned by New for unusable settings.
var ErrInvalidConfig = errors.New("invalid game config")

// ReasonName returns the stable name of a move rejection, or "" for nil.
func ReasonName(err error) string {
	if errors.Is(err, ErrNotRolled) {
		return "not_rolled"
	}
	return board.Reason(err)
}

// DiceSides is the largest possible turn budget.
const DiceSides = 6

// Rand is the randomness source for dice and layout selection.
type Rand interface {
	Intn(n int) int
}

// Config holds the plane and rule settings of a game. Zero values fall back to
// the layout and board defaults.
type Config struct {
	Width         float64
	Height        float64
	Scale         float64
	DotRadius     float64
	MaxEdgeLength float64
}

func (c Config) normalized() (Config, error) {
	if c.Width < 0 || c.Height < 0 || c.Scale < 0 || c.DotRadius < 0 || c.MaxEdgeLength < 0 {
		return c, fmt.Errorf("%w: negative dimension in %+v", ErrInvalidConfig, c)
	}
	c.Width, c.Height = layout.PlaneSize(c.Width, c.Height)
	if c.Scale == 0 {
		c.Scale = 1
	}
	def := board.DefaultRules()
	if c.DotRadius == 0 {
		c.DotRadius = def.DotRadius
	}
	if c.MaxEdgeLength == 0 {
		c.MaxEdgeLength = def.MaxEdgeLength
	}
	return c, nil
}

// Rules returns the board thresholds at the configured scale.
func (c Config) Rules() board.Rules {
	return board.Rules{DotRadius: c.DotRadius, MaxEdgeLength: c.MaxEdgeLength}.Scaled(c.Scale)
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the randomness source. The default is seeded from the clock.
func WithRand(r Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithMeter sets the meter used for game counters. The default is the global provider.
func WithMeter(m metric.Meter) Option {
	return func(g *Game) {
		g.meter = m
	}
}

// WithPattern forces every reset to use p instead of a random pattern.
func WithPattern(p layout.Pattern) Option {
	return func(g *Game) {
		g.pattern = &p
	}
}

// WithPoints plays on a fixed point set instead of a generated layout.
// The points are used as given; Scale only affects the rule thresholds.
// Fewer than two points makes New fail.
func WithPoints(pts []geo.Point) Option {
	return func(g *Game) {
		g.fixed = append([]geo.Point(nil), pts...)
		g.fixedSet = true
	}
}

// MoveResult reports the outcome of SubmitMove.
type MoveResult struct {
	Accepted bool `json:"accepted"`
	// NewTriangles lists triangles claimed by this move, ordered by third vertex.
	NewTriangles []board.Triangle `json:"newTriangles,omitempty"`
	// Reason is one of the board rejection errors or ErrNotRolled when Accepted is false.
	Reason error `json:"-"`
	// Points is the score gained by this move.
	Points int `json:"points"`
	// TurnEnded is true when this move used up the budget and play passed on.
	TurnEnded bool `json:"turnEnded"`
	// Player is who submitted the move.
	Player Player `json:"player"`
}

// Game is one two-player match.
type Game struct {
	cfg     Config
	rng     Rand
	logger  *slog.Logger
	meter   metric.Meter
	metrics *metrics
	pattern *layout.Pattern
	fixed   []geo.Point
	// fixedSet records WithPoints even when it was given no points
	fixedSet bool

	patternName string
	board       *board.Board
	current     Player
	remaining   int
	lastRoll    int
	turn        int
	scores      [2]int
	edgeOwner   map[board.Edge]Player
	triOwner    map[board.Triangle]Player
	over        bool

	events    *queue.Queue[Event]
	observers []func(Event)
}

// New builds a game and deals the first board.
func New(cfg Config, opts ...Option) (*Game, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:    cfg,
		events: queue.New[Event](),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.meter == nil {
		g.meter = defaultMeter()
	}
	if g.fixedSet && len(g.fixed) < 2 {
		return nil, fmt.Errorf("%w: fixed board needs at least 2 points, got %d", ErrInvalidConfig, len(g.fixed))
	}
	if g.pattern != nil && !g.pattern.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, layout.ErrUnknownPattern)
	}

	g.metrics, err = newMetrics(g.meter)
	if err != nil {
		return nil, err
	}

	g.Reset()
	return g, nil
}

// Subscribe registers fn to receive every event. Events raised by a command are
// delivered in order once that command has finished mutating state.
func (g *Game) Subscribe(fn func(Event)) {
	g.observers = append(g.observers, fn)
}

// Reset deals a new board and starts over with Player A awaiting a roll.
func (g *Game) Reset() {
	// events still queued by the command that triggered the reset belong to
	// the old board
	if n := g.events.Len(); n > 0 {
		g.logger.Debug("discarding stale events", "count", n)
		g.events.Clear()
	}

	var pts []geo.Point
	switch {
	case g.fixedSet:
		pts = g.fixed
		g.patternName = "custom"
	case g.pattern != nil:
		pts = layout.Generate(*g.pattern, g.cfg.Width, g.cfg.Height, g.cfg.Scale)
		g.patternName = g.pattern.String()
	default:
		p := layout.Random(g.rng)
		pts = layout.Generate(p, g.cfg.Width, g.cfg.Height, g.cfg.Scale)
		g.patternName = p.String()
	}

	g.board = board.New(pts, g.cfg.Rules())
	g.current = PlayerA
	g.remaining = 0
	g.lastRoll = 0
	g.turn = 1
	g.scores = [2]int{}
	g.edgeOwner = make(map[board.Edge]Player)
	g.triOwner = make(map[board.Triangle]Player)
	g.over = !g.board.HasLegalMove()

	g.metrics.gameStarted(g.patternName)
	g.logger.Info("board dealt", "pattern", g.patternName, "points", g.board.Len())
	g.emit(EventReset, ResetPayload{Pattern: g.patternName, Points: g.board.Len()})
	g.flush()
}

// RollDice sets the turn budget to a value in [1, DiceSides]. It returns false
// and changes nothing while a turn is still in progress.
func (g *Game) RollDice() (int, bool) {
	if g.remaining > 0 {
		g.logger.Debug("roll ignored, turn in progress", "player", g.current, "remaining", g.remaining)
		return 0, false
	}

	roll := g.rng.Intn(DiceSides) + 1
	g.remaining = roll
	g.lastRoll = roll

	g.metrics.rolled(g.current)
	g.logger.Debug("dice rolled", "player", g.current, "roll", roll)
	g.emit(EventDiceRolled, DiceRolledPayload{Player: g.current, Roll: roll})
	g.flush()
	return roll, true
}

// SubmitMove tries to draw u-v for the current player. Rejections leave all
// state unchanged. Out-of-range indices and u == v panic.
func (g *Game) SubmitMove(u, v int) MoveResult {
	defer g.flush()

	player := g.current
	if g.remaining == 0 {
		return g.reject(player, u, v, ErrNotRolled)
	}
	if err := g.board.CanPlaceEdge(u, v); err != nil {
		return g.reject(player, u, v, err)
	}

	e := g.board.PlaceEdge(u, v)
	g.edgeOwner[e] = player
	g.metrics.moveAccepted(player)
	g.logger.Debug("edge placed", "player", player, "edge", e.String())

	g.emit(EventEdgePlaced, EdgePlacedPayload{Player: player, Edge: e, Remaining: g.remaining - 1})

	res := MoveResult{Accepted: true, Player: player}
	for _, t := range g.board.FindNewTriangles(u, v) {
		if !g.board.Claim(t) {
			continue
		}
		pts := player.Value()
		g.triOwner[t] = player
		g.scores[player] += pts
		res.NewTriangles = append(res.NewTriangles, t)
		res.Points += pts

		g.metrics.triangleClaimed(player)
		g.logger.Debug("triangle claimed", "player", player, "triangle", t.String(), "points", pts)
		g.emit(EventTriangleClaimed, TriangleClaimedPayload{Player: player, Triangle: t, Points: pts})
	}

	g.remaining--

	if g.remaining == 0 {
		res.TurnEnded = true
		g.current = player.Other()
		g.turn++
		g.logger.Info("turn ended", "player", player, "next", g.current, "turn", g.turn)
		g.emit(EventTurnEnded, TurnEndedPayload{Player: player, Next: g.current, Turn: g.turn})
	}

	if !g.over && !g.board.HasLegalMove() {
		g.over = true
		w, ok := g.Winner()
		payload := GameOverPayload{ScoreA: g.scores[PlayerA], ScoreB: g.scores[PlayerB]}
		if ok {
			payload.Winner = w.String()
		}
		g.logger.Info("no legal edges left", "scoreA", payload.ScoreA, "scoreB", payload.ScoreB, "winner", payload.Winner)
		g.emit(EventGameOver, payload)
	}

	return res
}

func (g *Game) reject(player Player, u, v int, err error) MoveResult {
	reason := ReasonName(err)
	g.metrics.moveRejected(reason)
	g.logger.Info("move rejected", "player", player, "u", u, "v", v, "reason", reason)
	g.emit(EventMoveRejected, MoveRejectedPayload{Player: player, U: u, V: v, Reason: reason})
	return MoveResult{Reason: err, Player: player}
}

// Phase reports whether the game is waiting for a roll.
func (g *Game) Phase() Phase {
	if g.remaining > 0 {
		return TurnInProgress
	}
	return AwaitingRoll
}

// CurrentPlayer returns whose turn it is.
func (g *Game) CurrentPlayer() Player {
	return g.current
}

// Remaining returns the edges left in the current budget.
func (g *Game) Remaining() int {
	return g.remaining
}

// Score returns p's points.
func (g *Game) Score(p Player) int {
	return g.scores[p]
}

// Pattern returns the name of the current layout, or "custom" for a fixed board.
func (g *Game) Pattern() string {
	return g.patternName
}

// NumPoints returns the size of the current board.
func (g *Game) NumPoints() int {
	return g.board.Len()
}

// CanPlaceEdge reports whether u-v could be drawn now, ignoring the turn budget.
func (g *Game) CanPlaceEdge(u, v int) error {
	return g.board.CanPlaceEdge(u, v)
}

// HasLegalMove reports whether any edge can still be drawn.
func (g *Game) HasLegalMove() bool {
	return !g.over
}

// Finished reports whether the board is saturated. It is recomputed whenever
// the board changes.
func (g *Game) Finished() bool {
	return g.over
}

// Winner returns the leader once the game is finished. ok is false while play
// continues or on a tie.
func (g *Game) Winner() (p Player, ok bool) {
	if !g.Finished() {
		return PlayerA, false
	}
	a, b := g.scores[PlayerA], g.scores[PlayerB]
	switch {
	case a > b:
		return PlayerA, true
	case b > a:
		return PlayerB, true
	default:
		return PlayerA, false
	}
}

// LogAttrs describes the live game for log context.
func (g *Game) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("pattern", g.patternName),
		slog.String("player", g.current.String()),
		slog.Int("turn", g.turn),
	}
}

// WKT renders drawn edges and claimed triangles as well-known text, one
// MULTILINESTRING line and one GEOMETRYCOLLECTION line.
func (g *Game) WKT() (string, error) {
	edges := g.board.Edges()
	segs := make([]geo.Segment, len(edges))
	for i, e := range edges {
		segs[i] = g.board.Segment(e)
	}
	claimed := g.board.Claimed()
	tris := make([]geo.Tri, len(claimed))
	for i, t := range claimed {
		tris[i] = g.board.Tri(t)
	}
	out, err := geo.BoardWKT(segs, tris)
	if err != nil {
		return "", fmt.Errorf("board geometry: %w", err)
	}
	return out, nil
}

func (g *Game) emit(kind EventKind, payload any) {
	g.events.Push(Event{Kind: kind, Payload: payload})
}

func (g *Game) flush() {
	g.events.Each(func(e Event) {
		for _, fn := range g.observers {
			fn(e)
		}
	})
}
