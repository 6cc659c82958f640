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

// Package gui implements a windowed board on top of ebiten.
package gui

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/session"
)

const (
	squareSize = 75
	boardSize  = 8 * squareSize

	destinationRadius = 15
)

var (
	lightSquare = color.RGBA{R: 238, G: 238, B: 210, A: 255}
	darkSquare  = color.RGBA{R: 118, G: 150, B: 86, A: 255}

	selectedSquare = color.RGBA{R: 246, G: 246, B: 105, A: 160}
	destination    = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// Window is an ebiten.Game which plays a Selection.
type Window struct {
	ctx       context.Context
	selection *session.Selection
	geometry  session.Geometry

	pieces map[games.Piece]*ebiten.Image
}

var _ ebiten.Game = (*Window)(nil)

// NewWindow creates a window for the given selection, loading the piece
// images from the assets directory. Missing images are logged and the
// affected pieces are drawn as letters.
func NewWindow(ctx context.Context, selection *session.Selection, assets string) *Window {
	return &Window{
		ctx:       ctx,
		selection: selection,
		geometry: session.Geometry{
			CellW: squareSize, CellH: squareSize,
			Flipped: selection.Session().Human() == games.Black,
		},

		pieces: loadPieces(assets),
	}
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, selection *session.Selection, assets string) error {
	ebiten.SetWindowSize(boardSize, boardSize)
	ebiten.SetWindowTitle("versus")
	ebiten.SetWindowClosingHandled(true)

	window := NewWindow(ctx, selection, assets)
	err := ebiten.RunGame(window)

	selection.Cancel()
	selection.Session().Abort(session.ReasonInterrupted)
	return err
}

// ImagePath returns the path of the given piece's image, like
// assets/wN.png for a white knight.
func ImagePath(assets string, piece games.Piece) string {
	prefix := "w"
	if piece.Color == games.Black {
		prefix = "b"
	}

	return filepath.Join(assets, prefix+string(games.Piece{Color: games.White, Type: piece.Type}.Letter())+".png")
}

func loadPieces(assets string) map[games.Piece]*ebiten.Image {
	pieces := make(map[games.Piece]*ebiten.Image)

	for _, c := range []games.Color{games.White, games.Black} {
		for t := games.Pawn; t <= games.King; t++ {
			piece := games.Piece{Color: c, Type: t}
			path := ImagePath(assets, piece)

			img, _, err := ebitenutil.NewImageFromFile(path)
			if err != nil {
				logrus.WithField("path", path).WithError(err).Warn("Could not load piece image")
				continue
			}

			pieces[piece] = img
		}
	}

	return pieces
}

// Update handles the window's input and the recommender's replies.
func (window *Window) Update() error {
	if ebiten.IsWindowBeingClosed() || window.ctx.Err() != nil {
		window.selection.Cancel()
		return ebiten.Termination
	}

	if mov, handled, err := window.selection.Poll(); handled {
		if err != nil {
			logrus.WithError(err).Error("Engine failed to move")
		} else {
			logrus.WithField("move", mov.String()).Info("Engine moved")
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		square, onBoard := window.geometry.SquareAt(ebiten.CursorPosition())
		window.selection.Click(square, onBoard)
	}

	window.selection.Start(window.ctx)
	return nil
}

// Draw redraws the board, the selection, and the pieces.
func (window *Window) Draw(screen *ebiten.Image) {
	oracle := window.selection.Session().Oracle()
	selected, hasSelection := window.selection.Selected()

	for sq := games.Square(0); sq < games.SquareN; sq++ {
		x, y := window.geometry.Origin(sq)

		fill := lightSquare
		if (sq.File()+sq.Rank())%2 == 0 {
			fill = darkSquare
		}

		vector.DrawFilledRect(screen, float32(x), float32(y), squareSize, squareSize, fill, false)
		if hasSelection && sq == selected {
			vector.DrawFilledRect(screen, float32(x), float32(y), squareSize, squareSize, selectedSquare, false)
		}

		window.drawPiece(screen, oracle.PieceAt(sq), x, y)
	}

	for _, sq := range window.selection.Destinations() {
		x, y := window.geometry.Origin(sq)
		vector.DrawFilledCircle(screen, float32(x+squareSize/2), float32(y+squareSize/2), destinationRadius, destination, true)
	}

	switch window.selection.State() {
	case session.Finished:
		result, reason := window.selection.Session().Outcome()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Game Over! Result: %s (%s)", result, reason), 4, 4)
	case session.AwaitingRecommender:
		ebitenutil.DebugPrintAt(screen, "Thinking...", 4, 4)
	}
}

func (window *Window) drawPiece(screen *ebiten.Image, piece games.Piece, x, y int) {
	if piece.IsEmpty() {
		return
	}

	img, found := window.pieces[piece]
	if !found {
		ebitenutil.DebugPrintAt(screen, string(piece.Letter()), x+squareSize/2-3, y+squareSize/2-8)
		return
	}

	bounds := img.Bounds()

	var options ebiten.DrawImageOptions
	options.GeoM.Scale(
		float64(squareSize)/float64(bounds.Dx()),
		float64(squareSize)/float64(bounds.Dy()),
	)
	options.GeoM.Translate(float64(x), float64(y))
	options.Filter = ebiten.FilterLinear

	screen.DrawImage(img, &options)
}

// Layout fixes the board's logical size.
func (window *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return boardSize, boardSize
}
