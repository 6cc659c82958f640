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

// Package text renders boards as plain text.
package text

import (
	"io"
	"strings"

	"laptudirm.com/x/versus/pkg/games"
)

// Board is anything which can tell the piece standing on a square.
type Board interface {
	PieceAt(games.Square) games.Piece
}

// Format returns the board as eight lines of space separated piece
// letters, rank 8 first. Flipped boards are seen from black's side.
func Format(board Board, flipped bool) string {
	var str strings.Builder

	for row := 0; row < 8; row++ {
		rank := 7 - row
		if flipped {
			rank = row
		}

		for column := 0; column < 8; column++ {
			file := column
			if flipped {
				file = 7 - column
			}

			if column > 0 {
				str.WriteByte(' ')
			}

			str.WriteByte(board.PieceAt(games.NewSquare(file, rank)).Letter())
		}

		str.WriteByte('\n')
	}

	return str.String()
}

// Write writes the formatted board to w.
func Write(w io.Writer, board Board, flipped bool) error {
	_, err := io.WriteString(w, Format(board, flipped))
	return err
}
