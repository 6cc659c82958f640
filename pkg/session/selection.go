// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
)

// State is the state of a point-and-click turn loop.
type State uint8

const (
	Idle State = iota
	Selected
	AwaitingRecommender
	Finished
)

func (state State) String() string {
	switch state {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case AwaitingRecommender:
		return "awaiting recommender"
	default:
		return "finished"
	}
}

// Reasons reported by Outcome for a game ended by the turn loop.
const (
	ReasonInterrupted   = "Interrupted"
	ReasonEngineFailure = "Engine Failure"
)

// Selection is the turn loop of a point-and-click interface. The human
// selects one of their pieces and then one of its destinations, while
// the recommender's moves are requested in the background so that the
// interface can keep drawing and handling events.
//
// A Selection, like its Session, must only be used from one goroutine.
type Selection struct {
	session *Session

	selected games.Square
	moves    []games.Move // legal moves from the selected square

	pending *Pending
	err     error
}

// NewSelection returns an Idle selection over the given session.
func NewSelection(session *Session) *Selection {
	return &Selection{
		session:  session,
		selected: games.NoSquare,
	}
}

// Session returns the session the selection plays in.
func (selection *Selection) Session() *Session {
	return selection.session
}

// State returns the selection's current state.
func (selection *Selection) State() State {
	switch {
	case selection.session.Over():
		return Finished
	case selection.session.Turn() == RecommenderToMove:
		return AwaitingRecommender
	case selection.selected != games.NoSquare:
		return Selected
	default:
		return Idle
	}
}

// Selected returns the selected square, if any.
func (selection *Selection) Selected() (games.Square, bool) {
	return selection.selected, selection.selected != games.NoSquare
}

// Destinations returns the squares the selected piece can move to.
func (selection *Selection) Destinations() []games.Square {
	squares := make([]games.Square, 0, len(selection.moves))
	for _, mov := range selection.moves {
		if !containsSquare(squares, mov.To) {
			squares = append(squares, mov.To)
		}
	}

	return squares
}

// IsDestination reports whether the selected piece can move to square.
func (selection *Selection) IsDestination(square games.Square) bool {
	_, found := selection.destination(square)
	return found
}

// Err returns the error which ended the game, if any.
func (selection *Selection) Err() error {
	return selection.err
}

// Click handles a click on the given square; onBoard is false for clicks
// which fell outside the board, and those are ignored. It reports whether
// the click played the human's move.
func (selection *Selection) Click(square games.Square, onBoard bool) bool {
	if !onBoard || !square.Valid() {
		return false
	}

	switch selection.State() {
	case Selected:
		mov, found := selection.destination(square)
		selection.clear()

		if found {
			if err := selection.session.Apply(mov); err != nil {
				logrus.WithError(err).Warn("Could not apply the selected move")
				return false
			}

			return true
		}

		// anything else is treated as a fresh click
		selection.selectAt(square)
	case Idle:
		selection.selectAt(square)
	}

	return false
}

// Deselect clears the current selection.
func (selection *Selection) Deselect() {
	selection.clear()
}

// Start begins a background recommendation if it is the recommender's
// turn and none is running yet. The started request is returned, or nil.
func (selection *Selection) Start(ctx context.Context) *Pending {
	if selection.State() != AwaitingRecommender || selection.pending != nil {
		return nil
	}

	selection.pending = selection.session.RequestAsync(ctx)
	return selection.pending
}

// Pending returns the running background recommendation, or nil.
func (selection *Selection) Pending() *Pending {
	return selection.pending
}

// Poll applies the running recommendation's reply if it has arrived,
// without blocking. It reports whether a reply was handled.
func (selection *Selection) Poll() (games.Move, bool, error) {
	if selection.pending == nil {
		return games.Move{}, false, nil
	}

	select {
	case reply := <-selection.pending.Done():
		mov, err := selection.Resolve(reply)
		return mov, true, err
	default:
		return games.Move{}, false, nil
	}
}

// Resolve applies a reply of the running recommendation. A failed
// request aborts the game.
func (selection *Selection) Resolve(reply Reply) (games.Move, error) {
	selection.pending = nil

	mov, err := selection.session.Resolve(reply)
	if err != nil {
		selection.err = err

		reason := ReasonEngineFailure
		if errors.Is(err, context.Canceled) {
			reason = ReasonInterrupted
		}

		selection.session.Abort(reason)
		return games.Move{}, err
	}

	return mov, nil
}

// Cancel stops a running recommendation and waits for it to return.
func (selection *Selection) Cancel() {
	if selection.pending == nil {
		return
	}

	pending := selection.pending
	pending.Cancel()

	select {
	case reply := <-pending.Done():
		_, _ = selection.Resolve(reply)
	default:
		// the reply was taken by another receiver
		selection.pending = nil
		selection.session.Abort(ReasonInterrupted)
	}
}

func (selection *Selection) selectAt(square games.Square) {
	piece := selection.session.oracle.PieceAt(square)
	if piece.IsEmpty() || piece.Color != selection.session.human {
		return
	}

	selection.selected = square
	for _, mov := range selection.session.oracle.LegalMoves() {
		if mov.From == square {
			selection.moves = append(selection.moves, mov)
		}
	}
}

func (selection *Selection) clear() {
	selection.selected = games.NoSquare
	selection.moves = nil
}

// destination returns the selected piece's move to square. Promotions
// are always to a queen.
func (selection *Selection) destination(square games.Square) (games.Move, bool) {
	var (
		mov   games.Move
		found bool
	)

	for _, legal := range selection.moves {
		if legal.To != square {
			continue
		}

		if !found || legal.Promotion == games.Queen {
			mov, found = legal, true
		}
	}

	return mov, found
}

func containsSquare(squares []games.Square, square games.Square) bool {
	for _, sq := range squares {
		if sq == square {
			return true
		}
	}

	return false
}
