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
	"fmt"
	"strings"
)

var ErrInvalidFEN = errors.New("invalid fen")

// Placement is the piece placement of a position, indexed by Square.
type Placement [SquareN]Piece

// ParsePlacement decodes the piece placement and side to move fields
// of a FEN string. The remaining fields are left to the rules library.
func ParsePlacement(fenstr string) (Placement, Color, error) {
	var placement Placement
	for i := range placement {
		placement[i] = NoPiece
	}

	fields := strings.Fields(fenstr)
	if len(fields) < 2 {
		return placement, NoColor, fmt.Errorf("%w: %q", ErrInvalidFEN, fenstr)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return placement, NoColor, fmt.Errorf("%w: %d ranks", ErrInvalidFEN, len(ranks))
	}

	for i, rank := range ranks {
		file := 0
		for j := 0; j < len(rank); j++ {
			c := rank[j]
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			case pieceTypeFromLetter(c) != NoPieceType:
				if file > 7 {
					return placement, NoColor, fmt.Errorf("%w: rank %q too long", ErrInvalidFEN, rank)
				}

				color := Black
				if c >= 'A' && c <= 'Z' {
					color = White
				}

				// FEN ranks run from the 8th rank down to the 1st.
				placement[NewSquare(file, 7-i)] = Piece{Color: color, Type: pieceTypeFromLetter(c)}
				file++
			default:
				return placement, NoColor, fmt.Errorf("%w: bad character %q", ErrInvalidFEN, c)
			}
		}

		if file != 8 {
			return placement, NoColor, fmt.Errorf("%w: rank %q has %d files", ErrInvalidFEN, rank, file)
		}
	}

	switch fields[1] {
	case "w":
		return placement, White, nil
	case "b":
		return placement, Black, nil
	default:
		return placement, NoColor, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
}
