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
	"context"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/versus/pkg/config"
	"laptudirm.com/x/versus/pkg/session"
)

func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game against an engine in the terminal",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play starts a game against an engine, showing the board as
			text after every move. Moves are entered in UCI notation,
			like e2e4 or e7e8q, and invalid moves are asked for again.

			The game ends when it is over, or when the input ends.`),
		Example: heredoc.Doc(`
			$ versus play
			$ versus play --engine stockfish@sf_16 --color black
			$ versus play --movetime 5s --pgn game.pgn
		`),

		RunE: func(cmd *cobra.Command, args []string) error {
			return playGame(cmd, func(ctx context.Context, _ config.Config, game *session.Session) error {
				_, err := session.RunText(ctx, game, cmd.InOrStdin(), cmd.OutOrStdout())
				return err
			})
		},
	}

	gameFlags(cmd)
	return cmd
}
