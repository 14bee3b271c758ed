// internal/game/engine.go
//
// Game state for a single play-through.
// Responsibilities:
//   - Hold the read-only dataset and pick a target from it.
//   - Track the active attributes (always canonical order, mandatory ones
//     always present) and the hint flag.
//   - Validate and apply guesses, evaluate them through the match package,
//     and detect the win.
//
// A Game is not safe for concurrent use; callers serialise access (the
// store package wraps each live game in its own mutex).

package game

import (
	"fmt"
	"strconv"

	"github.com/robalobadob/hsr-guess/internal/dataset"
	"github.com/robalobadob/hsr-guess/internal/match"
	"github.com/robalobadob/hsr-guess/internal/schema"
)

// Game is one session plus the configuration it was built from.
type Game struct {
	schema *schema.Schema
	picker Picker
	data   *dataset.Dataset

	started bool
	target  *dataset.Character
	active  []schema.Attribute
	guesses []*dataset.Character
	hints   bool
	won     bool
}

// Option configures a Game.
type Option func(*Game)

// WithPicker overrides the target picker (defaults to CryptoPicker).
func WithPicker(p Picker) Option {
	return func(g *Game) { g.picker = p }
}

// WithDataset attaches an already validated dataset.
func WithDataset(d *dataset.Dataset) Option {
	return func(g *Game) { g.data = d }
}

// New builds a Game over sch. No session is running until StartSession.
func New(sch *schema.Schema, opts ...Option) *Game {
	g := &Game{schema: sch, picker: CryptoPicker{}}
	for _, o := range opts {
		o(g)
	}
	g.active = sch.All()
	return g
}

// LoadDataset installs the character collection. It does not pick a target;
// a running session is ended, since its target belongs to the old data, and
// StartSession must be called again.
func (g *Game) LoadDataset(d *dataset.Dataset) error {
	if d == nil {
		return fmt.Errorf("%w: no dataset", dataset.ErrDataLoad)
	}
	if d.Len() == 0 {
		return dataset.ErrEmptyDataset
	}
	g.data = d
	g.started = false
	g.target = nil
	g.guesses = nil
	g.won = false
	return nil
}

// StartSession picks a fresh target, restores every attribute, and clears
// the guess history and the win flag.
func (g *Game) StartSession() error {
	if g.data == nil {
		return fmt.Errorf("%w: dataset not loaded", dataset.ErrDataLoad)
	}
	n := g.data.Len()
	if n == 0 {
		return dataset.ErrEmptyDataset
	}
	i := g.picker.Pick(n)
	if i < 0 || i >= n {
		i = 0
	}
	g.target = g.data.At(i)
	g.active = g.schema.All()
	g.guesses = nil
	g.won = false
	g.started = true
	return nil
}

// Reset discards the session and starts a new one.
func (g *Game) Reset() error { return g.StartSession() }

// Started reports whether a session is running.
func (g *Game) Started() bool { return g.started }

// Schema returns the canonical schema this game was built with.
func (g *Game) Schema() *schema.Schema { return g.schema }

// Dataset returns the loaded dataset (nil before LoadDataset).
func (g *Game) Dataset() *dataset.Dataset { return g.data }

// ToggleAttribute activates or deactivates key. Mandatory attributes can
// never be removed and unknown keys are ignored. Reports whether anything
// changed.
func (g *Game) ToggleAttribute(key string, active bool) bool {
	a, ok := g.schema.Lookup(key)
	if !ok {
		return false
	}
	at := g.activeIndex(key)
	switch {
	case active && at < 0:
		g.active = append(g.active, a)
		g.schema.Sort(g.active)
		return true
	case !active && at >= 0 && !a.Mandatory:
		g.active = append(g.active[:at:at], g.active[at+1:]...)
		return true
	}
	return false
}

// SetActiveKeys replaces the active set with keys (plus every mandatory
// attribute). Unknown keys are dropped.
func (g *Game) SetActiveKeys(keys []string) {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	active := make([]schema.Attribute, 0, g.schema.Len())
	for _, a := range g.schema.All() {
		if a.Mandatory || want[a.Key] {
			active = append(active, a)
		}
	}
	g.active = active
}

// ActiveAttributes returns the active attributes in canonical order.
func (g *Game) ActiveAttributes() []schema.Attribute {
	return append([]schema.Attribute{}, g.active...)
}

// ActiveKeys returns the keys of the active attributes in canonical order.
func (g *Game) ActiveKeys() []string {
	out := make([]string, len(g.active))
	for i, a := range g.active {
		out[i] = a.Key
	}
	return out
}

func (g *Game) activeIndex(key string) int {
	for i, a := range g.active {
		if a.Key == key {
			return i
		}
	}
	return -1
}

// SetHintsEnabled turns directional hints on or off. Rows are not recomputed
// here; Board reflects the new flag on its next call.
func (g *Game) SetHintsEnabled(on bool) { g.hints = on }

// HintsEnabled reports the hint flag.
func (g *Game) HintsEnabled() bool { return g.hints }

// SubmitGuess appends c to the history and evaluates it against the target.
// Returns the win flag and the evaluated row. Guesses after the win are
// still recorded; won never goes back to false.
//
// Validation rules:
//   - A session must be running (ErrNoSession).
//   - c must be a member of the dataset (ErrInvalidGuess).
func (g *Game) SubmitGuess(c *dataset.Character) (bool, Row, error) {
	if !g.started {
		return false, Row{}, ErrNoSession
	}
	if c == nil {
		return g.won, Row{}, ErrInvalidGuess
	}
	known, ok := g.data.ByID(c.ID)
	if !ok {
		return g.won, Row{}, fmt.Errorf("%w: unknown character %q", ErrInvalidGuess, c.ID)
	}

	g.guesses = append(g.guesses, known)
	if known.ID == g.target.ID {
		g.won = true
	}
	return g.won, g.evaluate(known), nil
}

// SubmitGuessID resolves id in the dataset and submits it.
func (g *Game) SubmitGuessID(id string) (bool, Row, error) {
	if !g.started {
		return false, Row{}, ErrNoSession
	}
	c, ok := g.data.ByID(id)
	if !ok {
		return g.won, Row{}, fmt.Errorf("%w: unknown character %q", ErrInvalidGuess, id)
	}
	return g.SubmitGuess(c)
}

// Won reports whether the target has been guessed in this session.
func (g *Game) Won() bool { return g.won }

// State reports the coarse session state.
func (g *Game) State() State {
	if g.won {
		return StateWon
	}
	return StateInProgress
}

// Guesses returns the guess history, oldest first.
func (g *Game) Guesses() []*dataset.Character {
	return append([]*dataset.Character{}, g.guesses...)
}

// Target returns the target once it has been found. Before the win it
// stays hidden.
func (g *Game) Target() (*dataset.Character, bool) {
	if !g.won {
		return nil, false
	}
	return g.target, true
}

// Board re-evaluates every guess against the current active attributes and
// hint flag, oldest first.
func (g *Game) Board() []Row {
	rows := make([]Row, 0, len(g.guesses))
	for _, c := range g.guesses {
		rows = append(rows, g.evaluate(c))
	}
	return rows
}

// evaluate builds the row for c against the target.
func (g *Game) evaluate(c *dataset.Character) Row {
	row := Row{Character: c, ID: c.ID, Name: c.Name, Cells: make([]Cell, 0, len(g.active))}
	for _, a := range g.active {
		res := match.Compare(a, c.Value(a.Key), g.target.Value(a.Key), g.hints)
		row.Cells = append(row.Cells, buildCell(a, c, res))
	}
	return row
}

func buildCell(a schema.Attribute, c *dataset.Character, res match.Result) Cell {
	v := c.Value(a.Key)
	cell := Cell{Key: a.Key, Verdict: res.Verdict, Hint: res.Hint}
	switch a.Type {
	case schema.TypeImage:
		cell.Value = v.String()
		cell.Image = c.Image(a)
	case schema.TypeList:
		cell.Items = v.Items()
		if v.IsList() && len(cell.Items) > 0 {
			cell.Value = cell.Items[0]
		} else if !v.IsList() {
			cell.Value = v.String()
		}
		cell.Info = c.Info(a)
	case schema.TypeYear:
		if y := match.ExtractYear(v.String()); y != 0 {
			cell.Value = strconv.Itoa(y)
		}
	default:
		cell.Value = v.String()
	}
	if cell.Value == "" {
		cell.Value = "-"
	}
	return cell
}
