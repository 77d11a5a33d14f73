package swipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jobmatch/internal/models"
	"github.com/rs/zerolog"
)

var (
	ErrExhausted        = errors.New("all candidates reviewed")
	ErrBusy             = errors.New("previous decision still in progress")
	ErrUnknownDirection = errors.New("unknown swipe direction")
)

type Direction int

const (
	Right Direction = iota + 1
	Left
	Up
)

func (d Direction) String() string {
	switch d {
	case Right:
		return "contact"
	case Left:
		return "discard"
	case Up:
		return "favorite"
	}
	return "unknown"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "right", "contact":
		return Right, nil
	case "l", "left", "discard":
		return Left, nil
	case "u", "up", "favorite":
		return Up, nil
	}
	return 0, ErrUnknownDirection
}

type Action int

const (
	ActionMatch Action = iota + 1
	ActionReject
)

// Binding is what a gesture does on the backend and how it is reported.
// Await=false dispatches the call and advances without waiting for it.
type Binding struct {
	Action  Action
	Await   bool
	Success string
	Failure string
}

// DefaultBindings maps the three gestures. Favorite and contact both create
// a match and differ only in their messages.
var DefaultBindings = map[Direction]Binding{
	Right: {
		Action:  ActionMatch,
		Await:   true,
		Success: "Candidate contacted",
		Failure: "Match could not be created, but the candidate is marked as contacted",
	},
	Left: {
		Action:  ActionReject,
		Success: "Candidate discarded",
		Failure: "Candidate could not be discarded",
	},
	Up: {
		Action:  ActionMatch,
		Await:   true,
		Success: "Candidate saved as favorite",
		Failure: "Match could not be created, but the candidate is marked as favorite",
	},
}

// Notifier shows non-blocking messages such as toasts.
type Notifier interface {
	Notify(message string)
}

type Outcome struct {
	Candidate models.Candidate
	Direction Direction
	// Err is the backend failure of an awaited call. The gesture counts as
	// committed either way.
	Err  error
	Next int
}

// Deck is a fixed stack of candidates reviewed one gesture at a time. The
// cursor only moves forward, by one per resolved gesture, and the list never
// changes; a fresh Deck is needed to see candidates added later.
type Deck struct {
	api      API
	notifier Notifier
	logger   *zerolog.Logger
	bindings map[Direction]Binding

	mu         sync.Mutex
	candidates []models.Candidate
	cursor     int
	busy       bool

	pending sync.WaitGroup
}

func NewDeck(api API, candidates []models.Candidate, notifier Notifier, logger *zerolog.Logger) *Deck {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Deck{
		api:        api,
		notifier:   notifier,
		logger:     logger,
		bindings:   DefaultBindings,
		candidates: candidates,
	}
}

// Open loads the offer's candidates and builds a deck over them.
func Open(ctx context.Context, api API, ofertaID int64, notifier Notifier, logger *zerolog.Logger) (*Deck, error) {
	candidates, err := LoadCandidates(ctx, api, ofertaID, logger)
	if err != nil {
		return nil, err
	}
	return NewDeck(api, candidates, notifier, logger), nil
}

// WithBindings replaces the gesture table.
func (d *Deck) WithBindings(bindings map[Direction]Binding) *Deck {
	d.bindings = bindings
	return d
}

func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.candidates)
}

func (d *Deck) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

func (d *Deck) Exhausted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor >= len(d.candidates)
}

// Current is the candidate on top of the stack.
func (d *Deck) Current() (models.Candidate, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor >= len(d.candidates) {
		return models.Candidate{}, false
	}
	return d.candidates[d.cursor], true
}

// Swipe resolves one gesture on the current candidate. A returned error
// means the gesture was not resolved and the cursor did not move.
func (d *Deck) Swipe(ctx context.Context, dir Direction) (Outcome, error) {
	binding, ok := d.bindings[dir]
	if !ok {
		return Outcome{}, ErrUnknownDirection
	}

	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	if d.cursor >= len(d.candidates) {
		d.mu.Unlock()
		return Outcome{}, ErrExhausted
	}
	candidate := d.candidates[d.cursor]
	d.busy = true
	d.mu.Unlock()

	out := Outcome{Candidate: candidate, Direction: dir}
	if binding.Await {
		out.Err = d.mutate(ctx, binding.Action, candidate.LikeID)
		d.report(dir, binding, candidate, out.Err)
	} else {
		d.pending.Add(1)
		go func() {
			defer d.pending.Done()
			err := d.mutate(context.WithoutCancel(ctx), binding.Action, candidate.LikeID)
			d.report(dir, binding, candidate, err)
		}()
	}

	d.mu.Lock()
	d.cursor++
	d.busy = false
	out.Next = d.cursor
	d.mu.Unlock()
	return out, nil
}

// Wait blocks until every dispatched, unawaited call has settled.
func (d *Deck) Wait() {
	d.pending.Wait()
}

func (d *Deck) mutate(ctx context.Context, action Action, likeID int64) error {
	switch action {
	case ActionMatch:
		_, err := d.api.CreateMatch(ctx, likeID)
		return err
	case ActionReject:
		return d.api.RejectUserProfile(ctx, likeID)
	}
	return fmt.Errorf("unknown action %d", action)
}

func (d *Deck) report(dir Direction, binding Binding, candidate models.Candidate, err error) {
	if err != nil {
		d.logger.Warn().Err(err).
			Str("gesture", dir.String()).
			Int64("like_id", candidate.LikeID).
			Msg("Decision call failed")
		if d.notifier != nil {
			d.notifier.Notify(binding.Failure + ": " + err.Error())
		}
		return
	}
	d.logger.Debug().
		Str("gesture", dir.String()).
		Int64("like_id", candidate.LikeID).
		Msg("Decision recorded")
	if d.notifier != nil {
		d.notifier.Notify(binding.Success)
	}
}
