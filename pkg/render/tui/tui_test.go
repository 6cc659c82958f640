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

package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/match"
	"laptudirm.com/x/versus/pkg/session"
)

// replies is a recommender which plays a fixed list of moves.
type replies chan string

func (moves replies) Recommend(ctx context.Context, _ match.Position, _ match.Limit) (games.Move, error) {
	select {
	case mov := <-moves:
		return games.ParseMove(mov)
	case <-ctx.Done():
		return games.Move{}, ctx.Err()
	}
}

func (replies) Close() error { return nil }

func newReplies(moves ...string) replies {
	ch := make(replies, len(moves))
	for _, mov := range moves {
		ch <- mov
	}

	return ch
}

func newTerminal(t *testing.T, ctx context.Context, recommender match.Recommender, human games.Color) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(screen.Fini)

	oracle, _ := games.GetOracle("mess")
	game, err := session.New(oracle, recommender, session.Options{Human: human})
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = game.Close() })
	return NewTerminal(ctx, screen, session.NewSelection(game)), screen
}

// click presses and releases button 1 over the given square.
func click(t *testing.T, terminal *Terminal, name string) {
	t.Helper()

	sq, err := games.ParseSquare(name)
	if err != nil {
		t.Fatal(err)
	}

	x, y := terminal.geometry.Origin(sq)
	terminal.Handle(tcell.NewEventMouse(x+1, y, tcell.Button1, tcell.ModNone))
	terminal.Handle(tcell.NewEventMouse(x+1, y, tcell.ButtonNone, tcell.ModNone))
}

// awaitReply handles screen events until the engine's reply arrives.
func awaitReply(t *testing.T, terminal *Terminal, screen tcell.Screen) {
	t.Helper()

	events := make(chan tcell.Event)
	go func() {
		for {
			event := screen.PollEvent()
			events <- event
			if _, ok := event.(*tcell.EventInterrupt); ok || event == nil {
				return
			}
		}
	}()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case event := <-events:
			terminal.Handle(event)
			if _, ok := event.(*tcell.EventInterrupt); ok {
				return
			}
		case <-timeout:
			t.Fatal("engine reply was not delivered")
		}
	}
}

// cell returns the rune drawn in the middle of the given square.
func cell(t *testing.T, terminal *Terminal, screen tcell.SimulationScreen, name string) (rune, tcell.Style) {
	t.Helper()

	sq, _ := games.ParseSquare(name)
	x, y := terminal.geometry.Origin(sq)

	cells, width, _ := screen.GetContents()
	c := cells[y*width+x+1]
	if len(c.Runes) == 0 {
		return 0, c.Style
	}

	return c.Runes[0], c.Style
}

// line returns the text of the given screen row.
func line(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()

	var str strings.Builder
	for _, c := range cells[y*width : (y+1)*width] {
		if len(c.Runes) > 0 {
			str.WriteRune(c.Runes[0])
		}
	}

	return strings.TrimSpace(str.String())
}

func TestTerminalPlaysMove(t *testing.T) {
	terminal, screen := newTerminal(t, context.Background(), newReplies("e7e5"), games.White)

	terminal.Draw()
	if r, _ := cell(t, terminal, screen, "e2"); r != '♙' {
		t.Errorf("e2 shows %q, want a white pawn", r)
	}

	click(t, terminal, "e2")
	terminal.Draw()

	if _, style := cell(t, terminal, screen, "e2"); style != selectedStyle {
		t.Error("e2 is not highlighted as selected")
	}

	for _, sq := range []string{"e3", "e4"} {
		if r, style := cell(t, terminal, screen, sq); r != '•' || style != destinationStyle {
			t.Errorf("%s shows %q, want a destination marker", sq, r)
		}
	}

	click(t, terminal, "e4")
	terminal.Draw()
	if got := line(screen, originY+10); got != "Thinking..." {
		t.Errorf("status = %q while the engine thinks", got)
	}

	awaitReply(t, terminal, screen)
	terminal.Draw()

	game := terminal.selection.Session()
	want := []games.Move{{From: 12, To: 28}, {From: 52, To: 36}}
	if diff := cmp.Diff(want, game.Moves()); diff != "" {
		t.Errorf("Moves mismatch (-want +got):\n%s", diff)
	}

	if r, _ := cell(t, terminal, screen, "e5"); r != '♟' {
		t.Errorf("e5 shows %q, want a black pawn", r)
	}

	if got := line(screen, originY+10); got != "Your move" {
		t.Errorf("status = %q after the reply", got)
	}
}

func TestTerminalIgnoresOutsideAndDrags(t *testing.T) {
	terminal, _ := newTerminal(t, context.Background(), newReplies(), games.White)
	before := terminal.selection.Session().Oracle().FEN()

	// the rank labels and the status line are not on the board
	terminal.Handle(tcell.NewEventMouse(0, originY, tcell.Button1, tcell.ModNone))
	terminal.Handle(tcell.NewEventMouse(0, originY, tcell.ButtonNone, tcell.ModNone))
	terminal.Handle(tcell.NewEventMouse(5, originY+10, tcell.Button1, tcell.ModNone))
	terminal.Handle(tcell.NewEventMouse(5, originY+10, tcell.ButtonNone, tcell.ModNone))

	if state := terminal.selection.State(); state != session.Idle {
		t.Errorf("state = %v after outside clicks", state)
	}

	// dragging from e2 to e4 is a single click on e2
	e2x, e2y := terminal.geometry.Origin(12)
	e4x, e4y := terminal.geometry.Origin(28)
	terminal.Handle(tcell.NewEventMouse(e2x+1, e2y, tcell.Button1, tcell.ModNone))
	terminal.Handle(tcell.NewEventMouse(e4x+1, e4y, tcell.Button1, tcell.ModNone))
	terminal.Handle(tcell.NewEventMouse(e4x+1, e4y, tcell.ButtonNone, tcell.ModNone))

	if sq, ok := terminal.selection.Selected(); !ok || sq.String() != "e2" {
		t.Errorf("selected = %v, %v, want e2", sq, ok)
	}

	if terminal.selection.Session().Oracle().FEN() != before {
		t.Error("position changed")
	}
}

func TestTerminalQuit(t *testing.T) {
	for _, key := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	} {
		terminal, _ := newTerminal(t, context.Background(), newReplies(), games.White)

		if terminal.Handle(key) {
			t.Errorf("%s did not quit", key.Name())
		}

		result, reason := terminal.selection.Session().Outcome()
		if result != games.Aborted || reason != session.ReasonInterrupted {
			t.Errorf("Outcome after %s = %v, %q", key.Name(), result, reason)
		}
	}
}

func TestTerminalEngineMovesFirst(t *testing.T) {
	terminal, screen := newTerminal(t, context.Background(), newReplies("d2d4"), games.Black)

	terminal.start()
	awaitReply(t, terminal, screen)
	terminal.Draw()

	if got := len(terminal.selection.Session().Moves()); got != 1 {
		t.Fatalf("%d moves played, want 1", got)
	}

	// black is at the bottom, so the top-left square is h1
	if x, y := terminal.geometry.Origin(7); x != originX || y != originY {
		t.Errorf("h1 is drawn at (%d, %d)", x, y)
	}

	if r, _ := cell(t, terminal, screen, "d4"); r != '♙' {
		t.Errorf("d4 shows %q, want a white pawn", r)
	}
}

func TestTerminalLoopCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// the engine never replies, so the loop has a request to cancel
	terminal, _ := newTerminal(t, ctx, make(replies), games.Black)

	done := make(chan error, 1)
	go func() { done <- terminal.Loop() }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Loop did not return after cancellation")
	}

	if result, reason := terminal.selection.Session().Outcome(); result != games.Aborted || reason != session.ReasonInterrupted {
		t.Errorf("Outcome = %v, %q", result, reason)
	}
}
