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
	"strings"
)

// Color is the explicit color tag carried by every piece.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// ColorN is the number of playing colors.
const ColorN = 2

// Other returns the opposing color. NoColor is its own opposite.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// ParseColor parses the names "white" and "black", ignoring case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return NoColor, fmt.Errorf("invalid color %q", s)
	}
}

// PieceType is a kind of chess piece, independent of its color.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// pieceLetters are indexed by PieceType.
const pieceLetters = " pnbrqk"

// Letter returns the lowercase letter of the piece type, or 0 for NoPieceType.
func (t PieceType) Letter() byte {
	if t == NoPieceType || int(t) >= len(pieceLetters) {
		return 0
	}

	return pieceLetters[t]
}

func pieceTypeFromLetter(c byte) PieceType {
	switch c {
	case 'p', 'P':
		return Pawn
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	case 'k', 'K':
		return King
	default:
		return NoPieceType
	}
}

// Piece is a chess piece with an explicit color.
type Piece struct {
	Color Color
	Type  PieceType
}

// NoPiece represents an empty square.
var NoPiece = Piece{Color: NoColor, Type: NoPieceType}

// IsEmpty reports whether p represents an empty square.
func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Letter returns the FEN letter of the piece: upper-case for white and
// lower-case for black. An empty square is '.'.
func (p Piece) Letter() byte {
	letter := p.Type.Letter()
	switch {
	case letter == 0:
		return '.'
	case p.Color == White:
		return letter - 'a' + 'A'
	default:
		return letter
	}
}

// Square is a square on the board, numbered from a1 (0) to h8 (63).
type Square int8

// NoSquare represents the absence of a square.
const NoSquare Square = -1

// SquareN is the number of squares on the board.
const SquareN = 64

// NewSquare returns the square at the given file and rank, both 0-7.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

// Valid reports whether sq is on the board.
func (sq Square) Valid() bool {
	return sq >= 0 && sq < SquareN
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}

	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses a square name like "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 ||
		s[0] < 'a' || s[0] > 'h' ||
		s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}

	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// Move is a move from one square to another, with an optional promotion.
type Move struct {
	From, To  Square
	Promotion PieceType
}

// String returns the move in UCI long algebraic notation, like e7e8q.
func (mov Move) String() string {
	str := mov.From.String() + mov.To.String()
	if letter := mov.Promotion.Letter(); letter != 0 {
		str += string(letter)
	}

	return str
}

// ParseMove parses a move in UCI long algebraic notation.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}

	mov := Move{From: from, To: to}
	if len(s) == 5 {
		switch promotion := pieceTypeFromLetter(s[4]); promotion {
		case Knight, Bishop, Rook, Queen:
			mov.Promotion = promotion
		default:
			return Move{}, fmt.Errorf("invalid move %q: bad promotion", s)
		}
	}

	return mov, nil
}
