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

	"laptudirm.com/x/mess/pkg/board"
	"laptudirm.com/x/mess/pkg/board/move"
	"laptudirm.com/x/mess/pkg/formats/fen"
)

// MessOracle is an Oracle backed by the mess chess library.
type MessOracle struct {
	board *board.Board

	// moves and legal are parallel: legal[i] is the library move moves[i]
	// translated into this package's representation.
	moves []move.Move
	legal []Move

	placement Placement
	stm       Color
}

func (oracle *MessOracle) Initialize(fenstr string) error {
	// mess does not validate its input, so catch broken strings here.
	if _, _, err := ParsePlacement(fenstr); err != nil {
		return err
	}

	oracle.board = board.New(board.FEN(fen.FromString(fenstr)))
	return oracle.update()
}

func (oracle *MessOracle) FEN() string {
	fen := [6]string(oracle.board.FEN())
	return strings.Join(fen[:], " ")
}

func (oracle *MessOracle) SideToMove() Color {
	return oracle.stm
}

func (oracle *MessOracle) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}

	return oracle.placement[sq]
}

func (oracle *MessOracle) LegalMoves() []Move {
	moves := make([]Move, len(oracle.legal))
	copy(moves, oracle.legal)
	return moves
}

func (oracle *MessOracle) MakeMove(mov Move) error {
	index, found := findMove(oracle.legal, mov)
	if !found {
		return fmt.Errorf("%w %s", ErrIllegalMove, mov)
	}

	oracle.board.MakeMove(oracle.moves[index])
	return oracle.update()
}

func (oracle *MessOracle) GameResult() (Result, string) {
	switch {
	case len(oracle.moves) == 0:
		if oracle.board.IsInCheck(oracle.board.SideToMove) {
			return GameWonBy[oracle.stm.Other()], ReasonCheckmate
		}

		return Draw, ReasonStalemate

	case oracle.board.DrawClock >= 100:
		return Draw, ReasonFiftyMoveRule
	case oracle.board.IsThreefoldRepetition():
		return Draw, ReasonThreefoldRepetition
	case oracle.board.IsInsufficientMaterial():
		return Draw, ReasonInsufficientMaterial
	}

	return Ongoing, ""
}

// update regenerates the cached move list and piece placement after the
// library's board has changed.
func (oracle *MessOracle) update() error {
	var err error
	if oracle.placement, oracle.stm, err = ParsePlacement(oracle.FEN()); err != nil {
		return err
	}

	oracle.moves = oracle.board.GenerateMoves(false)
	oracle.legal = make([]Move, len(oracle.moves))
	for i, mov := range oracle.moves {
		if oracle.legal[i], err = ParseMove(strings.ToLower(mov.String())); err != nil {
			return err
		}
	}

	return nil
}
