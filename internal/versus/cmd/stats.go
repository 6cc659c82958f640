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
	"github.com/spf13/cobra"

	"laptudirm.com/x/versus/pkg/history"
	"laptudirm.com/x/versus/pkg/stats"
)

func Stats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your results against every engine played",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			entries, err := history.Open(cfg.History).Load()
			if err != nil {
				return err
			}

			summaries := history.Summarize(entries)
			if len(summaries) == 0 {
				cmd.Println("\x1b[31mNo Games Played.\x1b[0m")
				return nil
			}

			var total stats.Score
			for _, summary := range summaries {
				cmd.Printf("\x1b[34m%-20s\x1b[0m %s\n", summary.Engine, summary.Score)

				total.Wins += summary.Wins
				total.Draws += summary.Draws
				total.Losses += summary.Losses
			}

			if len(summaries) > 1 {
				cmd.Printf("\x1b[33m%-20s\x1b[0m %s\n", "Total", total)
			}

			return nil
		},
	}
}
