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
	"laptudirm.com/x/versus/pkg/render/gui"
	"laptudirm.com/x/versus/pkg/session"
)

func Window() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gui",
		Aliases: []string{"window"},
		Short:   "Play a game against an engine in a window",
		Args:    cobra.NoArgs,
		Long: heredoc.Doc(`gui opens a window with the board, where moves are made by
			clicking on a piece and then on one of its highlighted
			destinations. Pawns are always promoted to queens.

			Piece images are loaded from the assets directory, named
			like wK.png and bN.png; pieces without an image are drawn
			as their letter.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			return playGame(cmd, func(ctx context.Context, cfg config.Config, game *session.Session) error {
				selection := session.NewSelection(game)
				if err := gui.Run(ctx, selection, cfg.Assets); err != nil {
					return err
				}

				return selection.Err()
			})
		},
	}

	gameFlags(cmd)
	cmd.Flags().String("assets", "", "Directory with the piece images")
	return cmd
}
