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

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"laptudirm.com/x/versus/pkg/games"
)

func TestRunTextRepromptsOnInvalidInput(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		recommender := &scripted{script: []string{"e7e5"}}
		session := newSession(t, oracle, recommender, Options{Human: games.White})

		var out strings.Builder
		result, err := RunText(context.Background(), session, strings.NewReader("xyz\ne2e5\ne2e4\n"), &out)
		if err != nil {
			t.Fatal(err)
		}

		if result != games.Aborted {
			t.Errorf("result = %v, want aborted at end of input", result)
		}

		output := out.String()
		if n := strings.Count(output, "Invalid move! Try again."); n != 2 {
			t.Errorf("%d rejections, want 2:\n%s", n, output)
		}

		if n := strings.Count(output, "Your move (e.g., e2e4): "); n != 4 {
			t.Errorf("%d prompts, want 4:\n%s", n, output)
		}

		for _, line := range []string{
			"Engine move: e7e5\n",
			"Game Over! Result: * (End of Input)\n",
		} {
			if !strings.Contains(output, line) {
				t.Errorf("output is missing %q:\n%s", line, output)
			}
		}

		want := []games.Move{mustMove(t, "e2e4"), mustMove(t, "e7e5")}
		if diff := cmp.Diff(want, session.Moves()); diff != "" {
			t.Errorf("Moves mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRunTextCheckmate(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		recommender := &scripted{script: []string{"e7e5", "d8h4"}}
		session := newSession(t, oracle, recommender, Options{Human: games.White})

		var out strings.Builder
		result, err := RunText(context.Background(), session, strings.NewReader("f2f3\ng2g4\ne2e4\n"), &out)
		if err != nil {
			t.Fatal(err)
		}

		if result != games.BlackWins {
			t.Errorf("result = %v, want 0-1", result)
		}

		if calls := recommender.Calls(); calls != 2 {
			t.Errorf("recommender asked %d times, want 2", calls)
		}

		if !strings.HasSuffix(out.String(), "Game Over! Result: 0-1 (Checkmate)\n") {
			t.Errorf("unexpected ending:\n%s", out.String())
		}
	})
}

func TestRunTextHumanDeliversMate(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		recommender := &scripted{}
		session := newSession(t, oracle, recommender, Options{
			Human:    games.White,
			StartFEN: "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
		})

		var out strings.Builder
		result, err := RunText(context.Background(), session, strings.NewReader("a1a8\n"), &out)
		if err != nil {
			t.Fatal(err)
		}

		if result != games.WhiteWins {
			t.Errorf("result = %v, want 1-0", result)
		}

		if calls := recommender.Calls(); calls != 0 {
			t.Errorf("recommender asked %d times after mate", calls)
		}
	})
}

func TestRunTextHumanPlaysBlack(t *testing.T) {
	forEachOracle(t, func(t *testing.T, oracle string) {
		recommender := &scripted{script: []string{"e2e4", "g1f3"}}
		session := newSession(t, oracle, recommender, Options{Human: games.Black})

		var out strings.Builder
		if _, err := RunText(context.Background(), session, strings.NewReader("e7e5\n"), &out); err != nil {
			t.Fatal(err)
		}

		want := []games.Move{mustMove(t, "e2e4"), mustMove(t, "e7e5"), mustMove(t, "g1f3")}
		if diff := cmp.Diff(want, session.Moves()); diff != "" {
			t.Errorf("Moves mismatch (-want +got):\n%s", diff)
		}

		// black's pieces are drawn at the bottom
		if !strings.Contains(out.String(), "Current Board:\nR N B K Q B N R\n") {
			t.Errorf("board is not flipped:\n%s", out.String())
		}
	})
}

func TestRunTextEngineFailure(t *testing.T) {
	failure := errors.New("engine crashed")
	session := newSession(t, "mess", &scripted{err: failure}, Options{Human: games.White})

	var out strings.Builder
	result, err := RunText(context.Background(), session, strings.NewReader("e2e4\n"), &out)
	if !errors.Is(err, failure) {
		t.Errorf("RunText error = %v, want %v", err, failure)
	}

	if result != games.Aborted {
		t.Errorf("result = %v, want aborted", result)
	}

	if _, reason := session.Outcome(); reason != ReasonEngineFailure {
		t.Errorf("reason = %q", reason)
	}
}

func TestRunTextCancelled(t *testing.T) {
	session := newSession(t, "mess", &scripted{}, Options{Human: games.White})

	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	result, err := RunText(ctx, session, reader, &out)
	if err != nil {
		t.Fatal(err)
	}

	if _, reason := session.Outcome(); result != games.Aborted || reason != ReasonInterrupted {
		t.Errorf("Outcome = %v, %q", result, reason)
	}
}

func TestReadLinesStopsOnDone(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	done := make(chan struct{})
	lines := readLines(r, done)

	if _, err := io.WriteString(w, "e2e4\n"); err != nil {
		t.Fatal(err)
	}

	if line := <-lines; line != "e2e4" {
		t.Errorf("first line = %q, want e2e4", line)
	}

	// The writer stays open, so only done can end the reader.
	close(done)

	select {
	case _, ok := <-lines:
		if ok {
			t.Error("line received after done")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reader goroutine still blocked after done")
	}
}
