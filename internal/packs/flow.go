package packs

import (
	"errors"
	"fmt"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

// State is a step of the pack-opening flow.
type State int

const (
	StateIdle State = iota
	StatePoolSelected
	StateFixedReveal
	StateRandomReveal
	StateResolved
	StateCancelled
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StatePoolSelected: "pool-selected",
	StateFixedReveal:  "fixed-reveal",
	StateRandomReveal: "random-reveal",
	StateResolved:     "resolved",
	StateCancelled:    "cancelled",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrFlowFinished is returned for any step after the flow resolved or was cancelled.
	ErrFlowFinished = errors.New("pack flow already finished")

	// ErrRevealIncomplete is returned when a randomized pack is resolved
	// before every card was revealed.
	ErrRevealIncomplete = errors.New("pack not fully revealed")

	errNotRevealing = errors.New("pack flow is not revealing")
)

// Collector receives the pulled cards when a flow resolves.
type Collector interface {
	IncrementOwned(card *collection.Card)
}

// Flow walks one pack from selection to resolution. Quantities change only
// in Resolve; cancelling at any earlier point leaves the collection untouched.
type Flow struct {
	pack     *Pack
	state    State
	revealed int
}

// NewFlow starts a flow for pack in the pool-selected state. A nil pack
// yields an idle flow that can only be cancelled.
func NewFlow(pack *Pack) *Flow {
	if pack == nil {
		return &Flow{state: StateIdle}
	}
	return &Flow{pack: pack, state: StatePoolSelected}
}

// Pack returns the pack being opened.
func (f *Flow) Pack() *Pack { return f.pack }

// State returns the current step.
func (f *Flow) State() State { return f.state }

// Done reports whether the flow resolved or was cancelled.
func (f *Flow) Done() bool {
	return f.state == StateResolved || f.state == StateCancelled
}

// Revealed returns the cards shown so far.
func (f *Flow) Revealed() []*collection.Card {
	if f.pack == nil {
		return nil
	}
	return f.pack.Cards[:f.revealed]
}

// Begin moves into the reveal step for the pack's kind. Fixed products
// reveal everything at once.
func (f *Flow) Begin() error {
	if f.Done() {
		return ErrFlowFinished
	}
	if f.state != StatePoolSelected {
		return fmt.Errorf("cannot begin reveal from %s", f.state)
	}
	if f.pack.Kind == KindFixed {
		f.state = StateFixedReveal
		f.revealed = len(f.pack.Cards)
	} else {
		f.state = StateRandomReveal
	}
	return nil
}

// Next reveals the next card of a randomized pack. The boolean is false once
// every card has been shown.
func (f *Flow) Next() (*collection.Card, bool, error) {
	if f.Done() {
		return nil, false, ErrFlowFinished
	}
	if f.state != StateRandomReveal {
		return nil, false, errNotRevealing
	}
	if f.revealed >= len(f.pack.Cards) {
		return nil, false, nil
	}
	c := f.pack.Cards[f.revealed]
	f.revealed++
	return c, true, nil
}

// Remaining returns how many cards are still hidden.
func (f *Flow) Remaining() int {
	if f.pack == nil {
		return 0
	}
	return len(f.pack.Cards) - f.revealed
}

// Resolve adds every pulled card to c, once per pull.
func (f *Flow) Resolve(c Collector) error {
	switch f.state {
	case StateResolved, StateCancelled:
		return ErrFlowFinished
	case StateFixedReveal:
	case StateRandomReveal:
		if f.Remaining() > 0 {
			return ErrRevealIncomplete
		}
	default:
		return errNotRevealing
	}

	for _, card := range f.pack.Cards {
		c.IncrementOwned(card)
	}
	f.state = StateResolved
	return nil
}

// Cancel abandons the flow without touching the collection.
func (f *Flow) Cancel() error {
	if f.Done() {
		return ErrFlowFinished
	}
	f.state = StateCancelled
	return nil
}
