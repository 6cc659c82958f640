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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
	"laptudirm.com/x/versus/pkg/internal/util"
	"laptudirm.com/x/versus/pkg/render/text"
)

// ReasonEndOfInput is reported when the human's input runs out.
const ReasonEndOfInput = "End of Input"

// RunText plays the session as a text dialogue, reading the human's moves
// line by line from in and writing the board and prompts to out. It
// returns once the game is over, the input ends, or ctx is cancelled, in
// the latter two cases with an Aborted result. A failing recommender also
// aborts the game, and its error is returned.
func RunText(ctx context.Context, session *Session, in io.Reader, out io.Writer) (games.Result, error) {
	done := make(chan struct{})
	defer close(done)

	lines := readLines(in, done)
	flipped := session.Human() == games.Black

	var err error

loop:
	for {
		fmt.Fprintln(out, "\nCurrent Board:")
		_ = text.Write(out, session.Oracle(), flipped)

		if session.Over() {
			break
		}

		if session.Turn() == HumanToMove {
			fmt.Fprint(out, "\nYour move (e.g., e2e4): ")

			select {
			case <-ctx.Done():
				session.Abort(ReasonInterrupted)
				break loop

			case line, ok := <-lines:
				if !ok {
					session.Abort(ReasonEndOfInput)
					break loop
				}

				if _, err := session.Play(line); err != nil {
					logrus.WithField("input", line).Debug("Rejected human move")
					fmt.Fprintln(out, "Invalid move! Try again.")
					continue
				}
			}

			if session.Over() {
				continue
			}
		}

		stop := thinking(out)
		mov, respondErr := session.Respond(ctx)
		stop()

		if respondErr != nil {
			if ctx.Err() != nil {
				session.Abort(ReasonInterrupted)
			} else {
				err = fmt.Errorf("engine move: %w", respondErr)
				session.Abort(ReasonEngineFailure)
			}

			break
		}

		fmt.Fprintf(out, "\nEngine move: %s\n", mov)
	}

	result, reason := session.Outcome()
	fmt.Fprintf(out, "\nGame Over! Result: %s (%s)\n", result, reason)
	return result, err
}

// readLines sends every line read from in on the returned channel, which
// is closed when in is exhausted. Once done is closed, a reader which
// supports deadlines, like a pipe, is unblocked so that the reading
// goroutine exits. Other readers hold it until their next line.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	finished := make(chan struct{})

	go func() {
		defer close(lines)
		defer close(finished)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	if deadliner, ok := in.(interface{ SetReadDeadline(time.Time) error }); ok {
		go func() {
			select {
			case <-done:
				_ = deadliner.SetReadDeadline(time.Now())
			case <-finished:
			}
		}()
	}

	return lines
}

// thinking shows a spinner on terminals while the recommender searches.
// It returns the function which hides the spinner.
func thinking(out io.Writer) func() {
	file, ok := out.(*os.File)
	if !ok {
		return func() {}
	}

	s := util.NewSpinner(file, " thinking...")
	s.Start()
	return s.Stop
}
