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

// Package tui implements a mouse driven board in the terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/session"
)

const (
	originX, originY = 2, 1
	cellWidth        = 3
)

var (
	lightStyle       = squareStyle(238, 238, 210, tcell.ColorBlack)
	darkStyle        = squareStyle(118, 150, 86, tcell.ColorBlack)
	selectedStyle    = squareStyle(246, 246, 105, tcell.ColorBlack)
	destinationStyle = squareStyle(0, 128, 0, tcell.ColorWhite)
)

func squareStyle(r, g, b int32, fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Background(tcell.NewRGBColor(r, g, b)).Foreground(fg)
}

// glyphs are indexed by Color and PieceType.
var glyphs = [games.ColorN][games.King + 1]rune{
	games.White: {' ', '♙', '♘', '♗', '♖', '♕', '♔'},
	games.Black: {' ', '♟', '♞', '♝', '♜', '♛', '♚'},
}

// quit is posted to stop the event loop.
type quit struct{}

// Terminal plays a Selection on a tcell screen.
type Terminal struct {
	ctx       context.Context
	screen    tcell.Screen
	selection *session.Selection
	geometry  session.Geometry

	// pressed tracks button 1 so that drags are not taken as clicks.
	pressed bool
}

// NewTerminal creates a terminal board on an initialized screen.
func NewTerminal(ctx context.Context, screen tcell.Screen, selection *session.Selection) *Terminal {
	return &Terminal{
		ctx:       ctx,
		screen:    screen,
		selection: selection,
		geometry: session.Geometry{
			OriginX: originX, OriginY: originY,
			CellW: cellWidth, CellH: 1,
			Flipped: selection.Session().Human() == games.Black,
		},
	}
}

// Run takes over the terminal and plays until the user quits or ctx
// is done.
func Run(ctx context.Context, selection *session.Selection) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}

	if err := screen.Init(); err != nil {
		return err
	}

	defer screen.Fini()

	return NewTerminal(ctx, screen, selection).Loop()
}

// Loop draws the board and handles events until the user quits.
func (terminal *Terminal) Loop() error {
	terminal.screen.EnableMouse()

	stop := context.AfterFunc(terminal.ctx, func() {
		_ = terminal.screen.PostEvent(tcell.NewEventInterrupt(quit{}))
	})
	defer stop()

	terminal.start()
	for {
		terminal.Draw()

		if !terminal.Handle(terminal.screen.PollEvent()) {
			return nil
		}
	}
}

// Handle processes a single event. It reports false once the loop
// should stop.
func (terminal *Terminal) Handle(event tcell.Event) bool {
	switch ev := event.(type) {
	case nil:
		// the screen has been finalized
		terminal.stop()
		return false

	case *tcell.EventResize:
		terminal.screen.Sync()

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			terminal.stop()
			return false
		}

	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !terminal.pressed {
			square, onBoard := terminal.geometry.SquareAt(ev.Position())
			terminal.selection.Click(square, onBoard)
			terminal.start()
		}

		terminal.pressed = pressed

	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case quit:
			terminal.stop()
			return false

		case session.Reply:
			mov, err := terminal.selection.Resolve(data)
			if err != nil {
				logrus.WithError(err).Error("Engine failed to move")
				break
			}

			logrus.WithField("move", mov.String()).Debug("Engine moved")
			terminal.start()
		}
	}

	return true
}

// start requests the recommender's move when it is its turn. The reply
// is delivered to the event loop as an interrupt.
func (terminal *Terminal) start() {
	pending := terminal.selection.Start(terminal.ctx)
	if pending == nil {
		return
	}

	go func() {
		reply := <-pending.Done()
		if err := terminal.screen.PostEvent(tcell.NewEventInterrupt(reply)); err != nil {
			logrus.WithError(err).Warn("Could not deliver the engine's reply")
		}
	}()
}

func (terminal *Terminal) stop() {
	terminal.selection.Cancel()
	terminal.selection.Session().Abort(session.ReasonInterrupted)
}

// Draw redraws the whole board and the status line.
func (terminal *Terminal) Draw() {
	screen := terminal.screen
	screen.Clear()

	oracle := terminal.selection.Session().Oracle()
	selected, hasSelection := terminal.selection.Selected()

	for sq := games.Square(0); sq < games.SquareN; sq++ {
		x, y := terminal.geometry.Origin(sq)

		style := lightStyle
		switch {
		case hasSelection && sq == selected:
			style = selectedStyle
		case terminal.selection.IsDestination(sq):
			style = destinationStyle
		case (sq.File()+sq.Rank())%2 == 0:
			style = darkStyle
		}

		center := ' '
		if piece := oracle.PieceAt(sq); !piece.IsEmpty() {
			center = glyphs[piece.Color][piece.Type]
		} else if terminal.selection.IsDestination(sq) {
			center = '•'
		}

		screen.SetContent(x, y, ' ', nil, style)
		screen.SetContent(x+1, y, center, nil, style)
		screen.SetContent(x+2, y, ' ', nil, style)
	}

	// file and rank labels
	for i := 0; i < 8; i++ {
		file, rank := games.NewSquare(i, 0), games.NewSquare(0, i)

		x, _ := terminal.geometry.Origin(file)
		_, y := terminal.geometry.Origin(rank)

		screen.SetContent(x+1, originY+8, rune('a'+i), nil, tcell.StyleDefault)
		screen.SetContent(originX-2, y, rune('1'+i), nil, tcell.StyleDefault)
	}

	terminal.print(0, originY+10, terminal.status())
	screen.Show()
}

func (terminal *Terminal) status() string {
	switch terminal.selection.State() {
	case session.Finished:
		result, reason := terminal.selection.Session().Outcome()
		return fmt.Sprintf("Game Over! Result: %s (%s)  [q to quit]", result, reason)
	case session.AwaitingRecommender:
		return "Thinking..."
	default:
		return "Your move"
	}
}

func (terminal *Terminal) print(x, y int, str string) {
	for _, r := range str {
		terminal.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		x++
	}
}
