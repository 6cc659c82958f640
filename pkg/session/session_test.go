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
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/match"
)

// scripted is an in-memory recommender. It plays its script in order and
// then the first legal move of every position.
type scripted struct {
	mu sync.Mutex

	script []string
	err    error
	block  bool // wait for cancellation instead of replying

	calls  int
	closed int
}

func (recommender *scripted) Recommend(ctx context.Context, position match.Position, limit match.Limit) (games.Move, error) {
	recommender.mu.Lock()
	recommender.calls++
	block, err := recommender.block, recommender.err

	var next string
	if len(recommender.script) > 0 {
		next, recommender.script = recommender.script[0], recommender.script[1:]
	}
	recommender.mu.Unlock()

	switch {
	case block:
		<-ctx.Done()
		return games.Move{}, ctx.Err()
	case err != nil:
		return games.Move{}, err
	case next != "":
		return games.ParseMove(next)
	}

	oracle, _ := games.GetOracle("mess")
	if err := oracle.Initialize(position.FEN); err != nil {
		return games.Move{}, err
	}

	moves := oracle.LegalMoves()
	if len(moves) == 0 {
		return games.Move{}, match.ErrNoMove
	}

	return moves[0], nil
}

func (recommender *scripted) Close() error {
	recommender.mu.Lock()
	defer recommender.mu.Unlock()

	recommender.closed++
	return nil
}

func (recommender *scripted) Calls() int {
	recommender.mu.Lock()
	defer recommender.mu.Unlock()
	return recommender.calls
}

// forEachOracle runs the test against every rules backend.
func forEachOracle(t *testing.T, test func(t *testing.T, oracle string)) {
	for _, name := range games.Oracles {
		t.Run(name, func(t *testing.T) { test(t, name) })
	}
}

func newSession(t *testing.T, oracleName string, recommender match.Recommender, options Options) *Session {
	t.Helper()

	oracle, err := games.GetOracle(oracleName)
	if err != nil {
		t.Fatal(err)
	}

	session, err := New(oracle, recommender, options)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = session.Close() })
	return session
}

func mustMove(t *testing.T, s string) games.Move {
	t.Helper()

	mov, err := games.ParseMove(s)
	if err != nil {
		t.Fatal(err)
	}

	return mov
}

func TestPlayRejectsIllegalInput(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		session := newSession(t, oracle, &scripted{}, Options{Human: games.White})
		before := session.Oracle().FEN()

		for _, input := range []string{"", "e2e5", "hello", "e7e5", "e2e4q", "e1g1", "0000", "e2"} {
			if _, err := session.Play(input); !errors.Is(err, games.ErrIllegalMove) {
				t.Errorf("Play(%q) error = %v, want ErrIllegalMove", input, err)
			}
		}

		if after := session.Oracle().FEN(); after != before {
			t.Errorf("position changed by illegal input: %s", after)
		}

		if len(session.Moves()) != 0 || session.Turn() != HumanToMove {
			t.Errorf("moves = %v, turn = %v", session.Moves(), session.Turn())
		}
	})
}

func TestPlayNormalizesInput(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		session := newSession(t, oracle, &scripted{}, Options{Human: games.White})

		mov, err := session.Play("  E2E4 \n")
		if err != nil {
			t.Fatal(err)
		}

		if mov != mustMove(t, "e2e4") {
			t.Errorf("Play = %s, want e2e4", mov)
		}

		if session.Turn() != RecommenderToMove {
			t.Errorf("turn = %v after the human's move", session.Turn())
		}

		if _, err := session.Play("e7e5"); !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("Play on the recommender's turn: %v", err)
		}
	})
}

func TestOpeningExchange(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		recommender := &scripted{}
		session := newSession(t, oracle, recommender, Options{Human: games.White})

		start, _, err := games.ParsePlacement(games.StartFEN)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := session.Play("e2e4"); err != nil {
			t.Fatal(err)
		}

		reply, err := session.Respond(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		if reply.From.Rank() < 4 {
			t.Errorf("reply %s does not move a black piece", reply)
		}

		displaced := 0
		for sq := games.Square(0); sq < games.SquareN; sq++ {
			if piece := start[sq]; !piece.IsEmpty() && session.Oracle().PieceAt(sq) != piece {
				displaced++
			}
		}

		if displaced != 2 {
			t.Errorf("%d pieces displaced from their start squares, want 2", displaced)
		}

		if session.Turn() != HumanToMove {
			t.Errorf("turn = %v after the reply", session.Turn())
		}

		want := []games.Move{mustMove(t, "e2e4"), reply}
		if diff := cmp.Diff(want, session.Moves()); diff != "" {
			t.Errorf("Moves mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRespondRejectsIllegalRecommendation(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		session := newSession(t, oracle, &scripted{script: []string{"e2e5"}}, Options{Human: games.Black})
		before := session.Oracle().FEN()

		if _, err := session.Respond(context.Background()); !errors.Is(err, games.ErrIllegalMove) {
			t.Errorf("Respond error = %v, want ErrIllegalMove", err)
		}

		if session.Oracle().FEN() != before {
			t.Error("illegal recommendation changed the position")
		}
	})
}

func TestOutcomeAndAbort(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		session := newSession(t, oracle, &scripted{}, Options{Human: games.White})

		if session.Over() {
			t.Fatal("new game is over")
		}

		session.Abort("Resigned")
		if result, reason := session.Outcome(); result != games.Aborted || reason != "Resigned" {
			t.Errorf("Outcome = %v, %q", result, reason)
		}

		if _, err := session.Play("e2e4"); !errors.Is(err, ErrGameOver) {
			t.Errorf("Play after abort: %v", err)
		}

		if _, err := session.Respond(context.Background()); !errors.Is(err, ErrGameOver) {
			t.Errorf("Respond after abort: %v", err)
		}
	})
}

func TestNewValidation(t *testing.T) {
	oracle, _ := games.GetOracle("mess")

	if _, err := New(oracle, &scripted{}, Options{Human: games.NoColor}); err == nil {
		t.Error("New accepted a human without a color")
	}

	if _, err := New(oracle, &scripted{}, Options{Human: games.White, StartFEN: "not a fen"}); err == nil {
		t.Error("New accepted an invalid start position")
	}
}

func TestPositionSnapshot(t *testing.T) {
	session := newSession(t, "mess", &scripted{}, Options{Human: games.White})
	if _, err := session.Play("d2d4"); err != nil {
		t.Fatal(err)
	}

	position := session.Position()
	position.Moves[0] = mustMove(t, "a2a3")

	if got := session.Moves()[0]; got != mustMove(t, "d2d4") {
		t.Errorf("snapshot shares the session's moves: %s", got)
	}

	if position.StartFEN != games.StartFEN || position.FEN != session.Oracle().FEN() {
		t.Errorf("Position = %+v", position)
	}
}

func TestRecord(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		recommender := &scripted{script: []string{"e7e5", "d8h4"}}
		session := newSession(t, oracle, recommender, Options{Human: games.White})

		for _, human := range []string{"f2f3", "g2g4"} {
			if _, err := session.Play(human); err != nil {
				t.Fatal(err)
			}

			if _, err := session.Respond(context.Background()); err != nil {
				t.Fatal(err)
			}
		}

		pgn, err := session.Record([]games.Tag{{Key: "Event", Value: "Casual Game"}})
		if err != nil {
			t.Fatal(err)
		}

		want := "[Event \"Casual Game\"]\n[Result \"0-1\"]\n\n1. f3 e5 2. g4 Qh4# 0-1\n"
		if diff := cmp.Diff(want, pgn); diff != "" {
			t.Errorf("Record mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestClose(t *testing.T) {
	recommender := &scripted{}
	oracle, _ := games.GetOracle("mess")

	session, err := New(oracle, recommender, Options{Human: games.White})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := session.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}

	if recommender.closed != 1 {
		t.Errorf("recommender closed %d times, want 1", recommender.closed)
	}
}
