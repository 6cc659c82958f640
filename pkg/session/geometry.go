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

import "laptudirm.com/x/versus/pkg/games"

// Geometry maps the squares of a board drawn on a grid, of pixels or of
// terminal cells, to and from grid coordinates. Rank 8 is drawn at the
// top unless the board is Flipped.
type Geometry struct {
	OriginX, OriginY int
	CellW, CellH     int

	Flipped bool
}

// SquareAt returns the square under the given point. Points outside the
// board report false.
func (geometry Geometry) SquareAt(x, y int) (games.Square, bool) {
	x -= geometry.OriginX
	y -= geometry.OriginY
	if x < 0 || y < 0 {
		return games.NoSquare, false
	}

	column, row := x/geometry.CellW, y/geometry.CellH
	if column > 7 || row > 7 {
		return games.NoSquare, false
	}

	if geometry.Flipped {
		return games.NewSquare(7-column, row), true
	}

	return games.NewSquare(column, 7-row), true
}

// Origin returns the top-left corner of the given square.
func (geometry Geometry) Origin(square games.Square) (int, int) {
	column, row := square.File(), 7-square.Rank()
	if geometry.Flipped {
		column, row = 7-square.File(), square.Rank()
	}

	return geometry.OriginX + column*geometry.CellW, geometry.OriginY + row*geometry.CellH
}

// Width returns the width of the whole board.
func (geometry Geometry) Width() int {
	return 8 * geometry.CellW
}

// Height returns the height of the whole board.
func (geometry Geometry) Height() int {
	return 8 * geometry.CellH
}
