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

	"github.com/notnil/chess"
)

// NotnilOracle is an Oracle backed by the notnil/chess library.
type NotnilOracle struct {
	game  *chess.Game
	moves []*chess.Move
	legal []Move
}

func (oracle *NotnilOracle) Initialize(fenstr string) error {
	option, err := chess.FEN(fenstr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	oracle.game = chess.NewGame(option)
	oracle.update()
	return nil
}

func (oracle *NotnilOracle) FEN() string {
	return oracle.game.FEN()
}

func (oracle *NotnilOracle) SideToMove() Color {
	return fromNotnilColor(oracle.game.Position().Turn())
}

func (oracle *NotnilOracle) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}

	piece := oracle.game.Position().Board().Piece(chess.Square(sq))
	if piece == chess.NoPiece {
		return NoPiece
	}

	return Piece{
		Color: fromNotnilColor(piece.Color()),
		Type:  fromNotnilType(piece.Type()),
	}
}

func (oracle *NotnilOracle) LegalMoves() []Move {
	moves := make([]Move, len(oracle.legal))
	copy(moves, oracle.legal)
	return moves
}

func (oracle *NotnilOracle) MakeMove(mov Move) error {
	index, found := findMove(oracle.legal, mov)
	if !found {
		return fmt.Errorf("%w %s", ErrIllegalMove, mov)
	}

	if err := oracle.game.Move(oracle.moves[index]); err != nil {
		return fmt.Errorf("%w %s: %v", ErrIllegalMove, mov, err)
	}

	// notnil/chess only ends the game automatically on the fivefold and
	// 75-move rules; claim the threefold and 50-move draws like mess does,
	// unless the move already ended the game.
	for _, method := range oracle.game.EligibleDraws() {
		if oracle.game.Outcome() != chess.NoOutcome {
			break
		}

		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			_ = oracle.game.Draw(method)
			break
		}
	}

	oracle.update()
	return nil
}

func (oracle *NotnilOracle) GameResult() (Result, string) {
	var result Result
	switch oracle.game.Outcome() {
	case chess.WhiteWon:
		result = WhiteWins
	case chess.BlackWon:
		result = BlackWins
	case chess.Draw:
		result = Draw
	default:
		return Ongoing, ""
	}

	switch oracle.game.Method() {
	case chess.Checkmate:
		return result, ReasonCheckmate
	case chess.Stalemate:
		return result, ReasonStalemate
	case chess.ThreefoldRepetition:
		return result, ReasonThreefoldRepetition
	case chess.FivefoldRepetition:
		return result, ReasonFivefoldRepetition
	case chess.FiftyMoveRule:
		return result, ReasonFiftyMoveRule
	case chess.SeventyFiveMoveRule:
		return result, ReasonSeventyFiveMoveRule
	case chess.InsufficientMaterial:
		return result, ReasonInsufficientMaterial
	default:
		return result, ""
	}
}

func (oracle *NotnilOracle) update() {
	oracle.moves = oracle.game.ValidMoves()
	oracle.legal = make([]Move, len(oracle.moves))
	for i, mov := range oracle.moves {
		oracle.legal[i] = Move{
			From:      Square(mov.S1()),
			To:        Square(mov.S2()),
			Promotion: fromNotnilType(mov.Promo()),
		}
	}
}

func fromNotnilColor(color chess.Color) Color {
	switch color {
	case chess.White:
		return White
	case chess.Black:
		return Black
	default:
		return NoColor
	}
}

func fromNotnilType(typ chess.PieceType) PieceType {
	switch typ {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	default:
		return NoPieceType
	}
}

// NotnilReplay plays moves from the given start position with notnil/chess,
// returning the start position and the library's moves. Moves which are
// not legal in turn fail with ErrIllegalMove.
func NotnilReplay(startFEN string, moves []Move) (*chess.Position, []*chess.Move, error) {
	option, err := chess.FEN(startFEN)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	game := chess.NewGame(option)
	start := game.Position()

	replayed := make([]*chess.Move, 0, len(moves))
	for _, mov := range moves {
		valid, found := validMove(game.Position(), mov)
		if !found {
			return nil, nil, fmt.Errorf("%w %s", ErrIllegalMove, mov)
		}

		if err := game.Move(valid); err != nil {
			return nil, nil, fmt.Errorf("%w %s: %v", ErrIllegalMove, mov, err)
		}

		replayed = append(replayed, valid)
	}

	return start, replayed, nil
}
