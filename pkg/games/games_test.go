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

package games

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newOracle(t *testing.T, name, fenstr string) Oracle {
	t.Helper()

	oracle, err := GetOracle(name)
	if err != nil {
		t.Fatalf("GetOracle(%q): %v", name, err)
	}

	if err := oracle.Initialize(fenstr); err != nil {
		t.Fatalf("Initialize(%q): %v", fenstr, err)
	}

	return oracle
}

func play(t *testing.T, oracle Oracle, moves ...string) {
	t.Helper()

	for _, str := range moves {
		mov, err := ParseMove(str)
		if err != nil {
			t.Fatal(err)
		}

		if err := oracle.MakeMove(mov); err != nil {
			t.Fatalf("MakeMove(%s): %v", str, err)
		}
	}
}

func TestGetOracleUnknown(t *testing.T) {
	if _, err := GetOracle("ataxx"); !errors.Is(err, ErrUnknownOracle) {
		t.Errorf("GetOracle(ataxx) error = %v, want ErrUnknownOracle", err)
	}
}

func TestOracleStartPosition(t *testing.T) {
	for _, name := range Oracles {
		t.Run(name, func(t *testing.T) {
			oracle := newOracle(t, name, StartFEN)

			if got := len(oracle.LegalMoves()); got != 20 {
				t.Errorf("len(LegalMoves()) = %d, want 20", got)
			}

			if got := oracle.SideToMove(); got != White {
				t.Errorf("SideToMove() = %v, want white", got)
			}

			e1, _ := ParseSquare("e1")
			if diff := cmp.Diff(Piece{Color: White, Type: King}, oracle.PieceAt(e1)); diff != "" {
				t.Errorf("PieceAt(e1) mismatch (-want +got):\n%s", diff)
			}

			d8, _ := ParseSquare("d8")
			if diff := cmp.Diff(Piece{Color: Black, Type: Queen}, oracle.PieceAt(d8)); diff != "" {
				t.Errorf("PieceAt(d8) mismatch (-want +got):\n%s", diff)
			}

			e4, _ := ParseSquare("e4")
			if got := oracle.PieceAt(e4); !got.IsEmpty() {
				t.Errorf("PieceAt(e4) = %+v, want empty", got)
			}

			if got := oracle.PieceAt(NoSquare); !got.IsEmpty() {
				t.Errorf("PieceAt(NoSquare) = %+v, want empty", got)
			}

			if result, reason := oracle.GameResult(); result != Ongoing {
				t.Errorf("GameResult() = %v %q, want ongoing", result, reason)
			}
		})
	}
}

func TestOracleRejectsIllegalMove(t *testing.T) {
	for _, name := range Oracles {
		t.Run(name, func(t *testing.T) {
			oracle := newOracle(t, name, StartFEN)
			before := oracle.FEN()

			for _, str := range []string{"e2e5", "e7e5", "a1a2", "g1g3"} {
				mov, _ := ParseMove(str)
				if err := oracle.MakeMove(mov); !errors.Is(err, ErrIllegalMove) {
					t.Errorf("MakeMove(%s) error = %v, want ErrIllegalMove", str, err)
				}
			}

			if after := oracle.FEN(); after != before {
				t.Errorf("FEN changed after illegal moves: %q -> %q", before, after)
			}
		})
	}
}

func TestOracleAppliesEveryLegalMove(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"8/P7/8/8/8/8/8/k6K w - - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}

	for _, name := range Oracles {
		t.Run(name, func(t *testing.T) {
			for _, fenstr := range positions {
				for _, mov := range newOracle(t, name, fenstr).LegalMoves() {
					oracle := newOracle(t, name, fenstr)
					if err := oracle.MakeMove(mov); err != nil {
						t.Errorf("%s: MakeMove(%s): %v", fenstr, mov, err)
						continue
					}

					if oracle.SideToMove() == newOracle(t, name, fenstr).SideToMove() {
						t.Errorf("%s: side to move unchanged after %s", fenstr, mov)
					}

					oracle.LegalMoves()
					oracle.GameResult()
				}
			}
		})
	}
}

func TestOraclePromotions(t *testing.T) {
	for _, name := range Oracles {
		t.Run(name, func(t *testing.T) {
			oracle := newOracle(t, name, "8/P7/8/8/8/8/8/k6K w - - 0 1")

			promotions := map[string]bool{}
			for _, mov := range oracle.LegalMoves() {
				if mov.Promotion != NoPieceType {
					promotions[mov.String()] = true
				}
			}

			want := map[string]bool{"a7a8q": true, "a7a8r": true, "a7a8b": true, "a7a8n": true}
			if diff := cmp.Diff(want, promotions); diff != "" {
				t.Errorf("promotions mismatch (-want +got):\n%s", diff)
			}

			play(t, oracle, "a7a8q")
			a8, _ := ParseSquare("a8")
			if got := oracle.PieceAt(a8); got != (Piece{Color: White, Type: Queen}) {
				t.Errorf("PieceAt(a8) = %+v, want white queen", got)
			}
		})
	}
}

func TestOracleGameResult(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		moves  []string
		result Result
		reason string
	}{
		{
			name:   "fools mate",
			fen:    StartFEN,
			moves:  []string{"f2f3", "e7e5", "g2g4", "d8h4"},
			result: BlackWins,
			reason: ReasonCheckmate,
		},
		{
			name:   "back rank mate",
			fen:    "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
			moves:  []string{"a1a8"},
			result: WhiteWins,
			reason: ReasonCheckmate,
		},
		{
			name:   "mate on the hundredth half-move",
			fen:    "k7/8/1K6/8/8/8/8/7R w - - 99 80",
			moves:  []string{"h1h8"},
			result: WhiteWins,
			reason: ReasonCheckmate,
		},
		{
			name:   "stalemate",
			fen:    "7k/8/5Q2/6K1/8/8/8/8 w - - 0 1",
			moves:  []string{"f6f7"},
			result: Draw,
			reason: ReasonStalemate,
		},
		{
			name:   "insufficient material",
			fen:    "k7/8/8/8/8/8/6n1/7K w - - 0 1",
			moves:  []string{"h1g2"},
			result: Draw,
			reason: ReasonInsufficientMaterial,
		},
		{
			name:   "ongoing",
			fen:    StartFEN,
			moves:  []string{"e2e4", "e7e5"},
			result: Ongoing,
		},
	}

	for _, name := range Oracles {
		for _, test := range tests {
			t.Run(name+"/"+test.name, func(t *testing.T) {
				oracle := newOracle(t, name, test.fen)
				play(t, oracle, test.moves...)

				result, reason := oracle.GameResult()
				if result != test.result || reason != test.reason {
					t.Errorf("GameResult() = %v %q, want %v %q", result, reason, test.result, test.reason)
				}
			})
		}
	}
}

func TestOracleInvalidFEN(t *testing.T) {
	for _, name := range Oracles {
		t.Run(name, func(t *testing.T) {
			oracle, _ := GetOracle(name)
			if err := oracle.Initialize("not a fen"); err == nil {
				t.Error("Initialize(not a fen) succeeded")
			}
		})
	}
}

func TestNotnilReplay(t *testing.T) {
	var moves []Move
	for _, str := range []string{"e2e4", "e7e5", "g1f3"} {
		mov, err := ParseMove(str)
		if err != nil {
			t.Fatal(err)
		}

		moves = append(moves, mov)
	}

	start, replayed, err := NotnilReplay(StartFEN, moves)
	if err != nil {
		t.Fatal(err)
	}

	if start.String() != StartFEN {
		t.Errorf("start position = %s, want %s", start, StartFEN)
	}

	var got []string
	for _, mov := range replayed {
		got = append(got, mov.String())
	}

	if diff := cmp.Diff([]string{"e2e4", "e7e5", "g1f3"}, got); diff != "" {
		t.Errorf("replayed moves mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := NotnilReplay(StartFEN, moves[1:]); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("NotnilReplay(e7e5 first) error = %v, want ErrIllegalMove", err)
	}
}
