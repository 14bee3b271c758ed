// internal/game/types.go
//
// Core type definitions for the guessing game.
// Defines:
//   - State: coarse session state (in progress / won).
//   - Cell: one rendered attribute of a guess row.
//   - Row: one guess with a cell per active attribute.

package game

import (
	"errors"

	"github.com/robalobadob/hsr-guess/internal/dataset"
	"github.com/robalobadob/hsr-guess/internal/match"
)

// State of a session. InProgress -> Won happens once; only a reset leaves Won.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
)

var (
	// ErrInvalidGuess is returned when the guessed character is not part of
	// the loaded dataset. Game state is left untouched.
	ErrInvalidGuess = errors.New("invalid guess")
	// ErrNoSession is returned by operations that need a started session.
	ErrNoSession = errors.New("no session")
)

// Cell is the evaluated value of one attribute for one guess.
type Cell struct {
	Key     string        `json:"key"`
	Verdict match.Verdict `json:"verdict"`
	Hint    match.Hint    `json:"hint,omitempty"`
	Value   string        `json:"value"`           // display text
	Image   string        `json:"image,omitempty"` // image attributes only
	Items   []string      `json:"items,omitempty"` // list attributes only
	Info    []string      `json:"info,omitempty"`  // detail list for list attributes
}

// Row is one guess evaluated against every active attribute.
type Row struct {
	Character *dataset.Character `json:"-"`
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Cells     []Cell             `json:"cells"`
}
