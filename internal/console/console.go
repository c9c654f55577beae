// Package console is the terminal presentation adapter. It owns the click
// selection, turns command lines into engine calls, and renders the results as
// text or as JSON envelopes.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tesselate/tesselate/internal/dispatcher"
	"github.com/tesselate/tesselate/internal/engine"
	"github.com/tesselate/tesselate/internal/util"
	"github.com/tesselate/tesselate/pkg/streaming"
)

// Option configures a Console.
type Option func(*Console)

// WithJSON switches output to line-delimited streaming envelopes.
func WithJSON() Option {
	return func(c *Console) {
		c.json = true
	}
}

// WithLogger sets the logger used for output failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.logger = l
	}
}

// WithPrompt prints p before reading each line in text mode.
func WithPrompt(p string) Option {
	return func(c *Console) {
		c.prompt = p
	}
}

// Console drives one game from line-oriented input.
type Console struct {
	game   *engine.Game
	sel    Selection
	out    io.Writer
	json   bool
	stream *streaming.Writer
	logger *slog.Logger
	prompt string
	done   bool

	// notes are text-mode event lines printed after the command reply
	notes []string
}

type stateView struct {
	Turn     engine.TurnSnapshot  `json:"turn"`
	Board    engine.BoardSnapshot `json:"board"`
	Selected *int                 `json:"selected,omitempty"`
}

// New builds a console for g writing to out and subscribes it to g's events.
func New(g *engine.Game, out io.Writer, opts ...Option) *Console {
	c := &Console{
		game:   g,
		out:    out,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.json {
		c.stream = streaming.NewWriter(out)
	}
	g.Subscribe(c.onEvent)
	return c
}

// Selection exposes the current click selection.
func (c *Console) Selection() *Selection {
	return &c.sel
}

// Done reports whether quit has been requested.
func (c *Console) Done() bool {
	return c.done
}

// Register installs the console commands on d.
func (c *Console) Register(d *dispatcher.Dispatcher) {
	d.Register("roll", c.roll, dispatcher.Args(0, 0), dispatcher.Logged(),
		dispatcher.Usage("roll            roll the dice for the current player"))
	d.Register("click", c.click, dispatcher.Args(1, 1), dispatcher.Logged(),
		dispatcher.Usage("click <i>       select point i; a second point submits the edge"))
	d.Register("move", c.move, dispatcher.Args(2, 2), dispatcher.Logged(),
		dispatcher.Usage("move <u> <v>    draw the edge u-v"))
	d.Register("reset", c.reset, dispatcher.Args(0, 0), dispatcher.Logged(),
		dispatcher.Usage("reset           deal a new board"))
	d.Register("state", c.state, dispatcher.Args(0, 0),
		dispatcher.Usage("state           show scores, edges and triangles"))
	d.Register("points", c.points, dispatcher.Args(0, 0),
		dispatcher.Usage("points          list point coordinates"))
	d.Register("wkt", c.wkt, dispatcher.Args(0, 0),
		dispatcher.Usage("wkt             print drawn geometry as WKT"))
	d.Register("help", func(dispatcher.Command) (any, error) {
		lines := make([]string, 0, len(d.Commands()))
		for _, name := range d.Commands() {
			lines = append(lines, d.Usage(name))
		}
		return strings.Join(lines, "\n"), nil
	}, dispatcher.Usage("help            list commands"))
	d.Register("quit", c.quit, dispatcher.Args(0, 0),
		dispatcher.Usage("quit            leave the game"))
}

// Run reads commands from in until quit, end of input, or ctx is cancelled.
// Cancellation is honoured while waiting for input; a reader blocked in Read
// is left to its owner to close.
func (c *Console) Run(ctx context.Context, in io.Reader, d *dispatcher.Dispatcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for !c.done {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.prompt != "" && !c.json {
			fmt.Fprint(c.out, c.prompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			// failures are already reported to the output
			_ = c.Execute(d, line)
		}
	}
	return nil
}

// Execute runs one command line and writes its reply. Blank lines are ignored.
func (c *Console) Execute(d *dispatcher.Dispatcher, line string) error {
	cmd, ok := dispatcher.Parse(line)
	if !ok {
		return nil
	}

	result, err := d.Dispatch(cmd)
	if err != nil {
		c.fail(cmd.Name, err)
		c.flushNotes()
		return err
	}
	c.reply(cmd.Name, result)
	c.flushNotes()
	return nil
}

func (c *Console) roll(dispatcher.Command) (any, error) {
	player := c.game.CurrentPlayer()
	n, ok := c.game.RollDice()
	if !ok {
		return fmt.Sprintf("turn in progress: %s has %d edges left", player, c.game.Remaining()), nil
	}
	return fmt.Sprintf("%s rolled %d", player, n), nil
}

func (c *Console) click(cmd dispatcher.Command) (any, error) {
	i, err := util.ParseIndex(cmd.Args[0], c.game.NumPoints())
	if err != nil {
		return nil, err
	}

	res := c.sel.Click(i, c.game.Phase())
	switch res.Kind {
	case ClickIgnored:
		return "roll first", nil
	case ClickSelected:
		return fmt.Sprintf("selected %d", i), nil
	case ClickDeselected:
		return fmt.Sprintf("deselected %d", i), nil
	default:
		return c.submit(res.U, res.V), nil
	}
}

func (c *Console) move(cmd dispatcher.Command) (any, error) {
	u, v, err := util.ParseEdge(cmd.Args[0], cmd.Args[1], c.game.NumPoints())
	if err != nil {
		return nil, err
	}
	c.sel.Clear()
	return c.submit(u, v), nil
}

func (c *Console) submit(u, v int) string {
	res := c.game.SubmitMove(u, v)
	c.sel.AfterMove(res, v)
	return FormatMove(res, u, v, c.game.Remaining())
}

func (c *Console) reset(dispatcher.Command) (any, error) {
	c.game.Reset()
	c.sel.Clear()
	return fmt.Sprintf("new board: %s, %d points", c.game.Pattern(), c.game.NumPoints()), nil
}

func (c *Console) state(dispatcher.Command) (any, error) {
	v := stateView{Turn: c.game.TurnSnapshot(), Board: c.game.BoardSnapshot()}
	if i, ok := c.sel.Selected(); ok {
		v.Selected = &i
	}
	return v, nil
}

func (c *Console) points(dispatcher.Command) (any, error) {
	return FormatPoints(c.game.BoardSnapshot(), &c.sel), nil
}

func (c *Console) wkt(dispatcher.Command) (any, error) {
	out, err := c.game.WKT()
	if err != nil {
		return nil, err
	}
	edges, tris, _ := strings.Cut(out, "\n")
	return streaming.WKTPayload{Edges: edges, Triangles: tris}, nil
}

func (c *Console) quit(dispatcher.Command) (any, error) {
	c.done = true
	return "bye", nil
}

func (c *Console) onEvent(e engine.Event) {
	if c.json {
		c.write(string(e.Kind), e.Payload)
		return
	}
	if p, ok := e.Payload.(engine.GameOverPayload); ok {
		outcome := "draw"
		if p.Winner != "" {
			outcome = p.Winner + " wins"
		}
		c.notes = append(c.notes, fmt.Sprintf("no legal edges left: %s (%s)", outcome, util.FormatScore(p.ScoreA, p.ScoreB)))
	}
}

func (c *Console) reply(command string, result any) {
	if c.json {
		switch r := result.(type) {
		case stateView:
			c.write(streaming.TypeState, r)
		case streaming.WKTPayload:
			c.write(streaming.TypeWKT, r)
		default:
			c.write(streaming.TypeReply, streaming.ReplyPayload{Command: command, Message: fmt.Sprint(r)})
		}
		return
	}

	switch r := result.(type) {
	case stateView:
		fmt.Fprintln(c.out, FormatHUD(r.Turn))
		fmt.Fprintln(c.out, FormatEdges(r.Board))
		fmt.Fprintln(c.out, FormatTriangles(r.Board))
		if r.Selected != nil {
			fmt.Fprintf(c.out, "selected: %d\n", *r.Selected)
		}
	case streaming.WKTPayload:
		fmt.Fprintln(c.out, r.Edges)
		fmt.Fprintln(c.out, r.Triangles)
	default:
		fmt.Fprintln(c.out, r)
	}
}

func (c *Console) fail(command string, err error) {
	if c.json {
		c.write(streaming.TypeError, streaming.ErrorPayload{Command: command, Error: err.Error()})
		return
	}
	fmt.Fprintf(c.out, "error: %v\n", err)
}

func (c *Console) flushNotes() {
	for _, n := range c.notes {
		fmt.Fprintln(c.out, n)
	}
	c.notes = c.notes[:0]
}

func (c *Console) write(typ string, payload any) {
	if err := c.stream.Write(typ, payload); err != nil {
		c.logger.Error("writing stream message", "type", typ, "error", err)
	}
}
