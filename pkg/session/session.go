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

// Package session implements a game between a human and a move
// recommending engine, and the turn loops which drive it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/match"
)

var (
	ErrGameOver    = errors.New("session: game is over")
	ErrNotYourTurn = errors.New("session: not the human's turn")
	ErrStaleReply  = errors.New("session: reply is for an earlier position")
)

// Turn is the session's two-valued turn flag.
type Turn uint8

const (
	HumanToMove Turn = iota
	RecommenderToMove
)

func (turn Turn) String() string {
	if turn == HumanToMove {
		return "human"
	}

	return "recommender"
}

// Options configures a new Session.
type Options struct {
	// Human is the color played by the human.
	Human games.Color

	// StartFEN is the position the game starts from. It defaults
	// to the standard initial position.
	StartFEN string

	// Limit is the recommender's search limit for every move.
	Limit match.Limit
}

// Session is a single game between a human and a Recommender. It owns the
// current position, through its Oracle, and the Recommender's process; the
// process is released by Close, which callers should defer.
//
// A Session is not safe for concurrent use: the position is only ever
// mutated by the goroutine running the turn loop.
type Session struct {
	oracle      games.Oracle
	recommender match.Recommender

	human games.Color
	limit match.Limit

	startFEN string
	moves    []games.Move

	// aborted is set when the game ended without a result from the oracle.
	aborted string

	once     sync.Once
	closeErr error
}

// New creates a session with the given collaborators, initializing the
// oracle to the starting position.
func New(oracle games.Oracle, recommender match.Recommender, options Options) (*Session, error) {
	if options.StartFEN == "" {
		options.StartFEN = games.StartFEN
	}

	switch options.Human {
	case games.White, games.Black:
	default:
		return nil, fmt.Errorf("session: human must play white or black, not %s", options.Human)
	}

	if err := oracle.Initialize(options.StartFEN); err != nil {
		return nil, err
	}

	return &Session{
		oracle:      oracle,
		recommender: recommender,

		human: options.Human,
		limit: options.Limit.Normalize(),

		startFEN: options.StartFEN,
	}, nil
}

// Oracle returns the session's rules oracle.
func (session *Session) Oracle() games.Oracle {
	return session.oracle
}

// Human returns the color played by the human.
func (session *Session) Human() games.Color {
	return session.human
}

// Turn returns whose turn it is to move.
func (session *Session) Turn() Turn {
	if session.oracle.SideToMove() == session.human {
		return HumanToMove
	}

	return RecommenderToMove
}

// Moves returns the moves played so far.
func (session *Session) Moves() []games.Move {
	moves := make([]games.Move, len(session.moves))
	copy(moves, session.moves)
	return moves
}

// Position returns a snapshot of the game which can be handed to the
// recommender from another goroutine.
func (session *Session) Position() match.Position {
	return match.Position{
		StartFEN: session.startFEN,
		Moves:    session.Moves(),
		FEN:      session.oracle.FEN(),
	}
}

// Outcome returns the result of the game and the reason for it.
func (session *Session) Outcome() (games.Result, string) {
	if session.aborted != "" {
		return games.Aborted, session.aborted
	}

	return session.oracle.GameResult()
}

// Over reports whether the game has ended.
func (session *Session) Over() bool {
	result, _ := session.Outcome()
	return result.Over()
}

// Abort ends the game without a result.
func (session *Session) Abort(reason string) {
	if session.Over() {
		return
	}

	logrus.WithField("reason", reason).Debug("Game aborted")
	session.aborted = reason
}

// Find returns the legal move whose canonical notation matches the
// given text, ignoring case and surrounding whitespace.
func (session *Session) Find(notation string) (games.Move, bool) {
	notation = strings.ToLower(strings.TrimSpace(notation))
	for _, mov := range session.oracle.LegalMoves() {
		if mov.String() == notation {
			return mov, true
		}
	}

	return games.Move{}, false
}

// Play applies the human's move given in UCI notation. The position is
// left unchanged if the notation does not match any legal move.
func (session *Session) Play(notation string) (games.Move, error) {
	if session.Turn() != HumanToMove {
		return games.Move{}, ErrNotYourTurn
	}

	mov, found := session.Find(notation)
	if !found {
		return games.Move{}, fmt.Errorf("%w %q", games.ErrIllegalMove, notation)
	}

	return mov, session.Apply(mov)
}

// Apply plays the given move for the side to move.
func (session *Session) Apply(mov games.Move) error {
	if session.Over() {
		return ErrGameOver
	}

	if err := session.oracle.MakeMove(mov); err != nil {
		return err
	}

	session.moves = append(session.moves, mov)
	logrus.WithFields(logrus.Fields{
		"move": mov.String(),
		"ply":  len(session.moves),
	}).Debug("Move applied")
	return nil
}

// Respond asks the recommender for a move and plays it. A failing or
// illegal recommendation is returned as an error and nothing is played.
func (session *Session) Respond(ctx context.Context) (games.Move, error) {
	if session.Over() {
		return games.Move{}, ErrGameOver
	}

	mov, err := session.recommender.Recommend(ctx, session.Position(), session.limit)
	if err != nil {
		return games.Move{}, err
	}

	return mov, session.Apply(mov)
}

// Record returns the game's PGN, with the given tags preceding the
// result tag.
func (session *Session) Record(tags []games.Tag) (string, error) {
	result, _ := session.Outcome()
	return games.Record(session.startFEN, session.moves, result, tags)
}

// Close releases the recommender's process. It is safe to call more
// than once, and from every exit path.
func (session *Session) Close() error {
	session.once.Do(func() {
		if session.recommender != nil {
			session.closeErr = session.recommender.Close()
		}
	})

	return session.closeErr
}
