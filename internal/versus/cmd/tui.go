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

package cmd

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/versus/pkg/config"
	"laptudirm.com/x/versus/pkg/render/tui"
	"laptudirm.com/x/versus/pkg/session"
)

func Terminal() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Play a game against an engine with the mouse in the terminal",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`tui draws the board in the terminal, where moves are made by
			clicking on a piece and then on one of its marked
			destinations. Pawns are always promoted to queens.

			Press q or Esc to quit.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			return playGame(cmd, func(ctx context.Context, _ config.Config, game *session.Session) error {
				// Logs would be drawn over the board, so hold them
				// until the terminal is given back.
				var logs bytes.Buffer
				logrus.SetOutput(&logs)
				defer func() {
					logrus.SetOutput(os.Stderr)
					_, _ = io.Copy(os.Stderr, &logs)
				}()

				selection := session.NewSelection(game)
				if err := tui.Run(ctx, selection); err != nil {
					return err
				}

				result, reason := game.Outcome()
				cmd.Printf("Game Over! Result: %s (%s)\n", result, reason)
				return selection.Err()
			})
		},
	}

	gameFlags(cmd)
	return cmd
}
