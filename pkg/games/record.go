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
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// Tag is a PGN tag pair.
type Tag struct {
	Key, Value string
}

// pgnLineWidth is the column after which move text is wrapped.
const pgnLineWidth = 79

// Record returns the PGN of a game which started at the given position and
// consisted of the given moves. The Result tag and the game termination
// marker are derived from result; the SetUp and FEN tags are added when the
// game did not start from the standard initial position.
func Record(startFEN string, moves []Move, result Result, tags []Tag) (string, error) {
	option, err := chess.FEN(startFEN)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	game := chess.NewGame(option)

	var pgn strings.Builder
	for _, tag := range tags {
		fmt.Fprintf(&pgn, "[%s %q]\n", tag.Key, tag.Value)
	}

	fmt.Fprintf(&pgn, "[Result %q]\n", result.String())
	if startFEN != StartFEN {
		fmt.Fprintf(&pgn, "[SetUp \"1\"]\n[FEN %q]\n", startFEN)
	}

	pgn.WriteString("\n")

	number := 1
	if fields := strings.Fields(startFEN); len(fields) == 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			number = n
		}
	}

	var tokens []string
	for i, mov := range moves {
		position := game.Position()

		notnil, found := validMove(position, mov)
		if !found {
			return "", fmt.Errorf("%w %s", ErrIllegalMove, mov)
		}

		san := chess.AlgebraicNotation{}.Encode(position, notnil)
		switch {
		case position.Turn() == chess.White:
			tokens = append(tokens, fmt.Sprintf("%d.", number), san)
		case i == 0:
			tokens = append(tokens, fmt.Sprintf("%d...", number), san)
			number++
		default:
			tokens = append(tokens, san)
			number++
		}

		if err := game.Move(notnil); err != nil {
			return "", fmt.Errorf("%w %s: %v", ErrIllegalMove, mov, err)
		}
	}

	tokens = append(tokens, result.String())

	column := 0
	for _, token := range tokens {
		switch {
		case column == 0:
		case column+1+len(token) > pgnLineWidth:
			pgn.WriteString("\n")
			column = 0
		default:
			pgn.WriteString(" ")
			column++
		}

		pgn.WriteString(token)
		column += len(token)
	}

	pgn.WriteString("\n")
	return pgn.String(), nil
}

// validMove finds the given move among the position's valid moves, which
// unlike decoded moves carry the check tags SAN needs for + and #.
func validMove(position *chess.Position, mov Move) (*chess.Move, bool) {
	for _, valid := range position.ValidMoves() {
		if Square(valid.S1()) == mov.From && Square(valid.S2()) == mov.To &&
			fromNotnilType(valid.Promo()) == mov.Promotion {
			return valid, true
		}
	}

	return nil, false
}
