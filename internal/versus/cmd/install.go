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
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/versus/pkg/manager"
)

func Install() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install { engine owner/engine git-url }[@version]",
		Short: "Install the given chess engine",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`install builds the given engine from its source repository
			so that it can be played against by name, without having to
			build and locate the engine every time it is used.

			The formats supported for the engine name are <name>,
			<owner>/<name> (for engines on github), or a full <url> to
			a git repository. The <name> format is only supported for
			the engines versus knows by default, and for engines which
			have been installed before.

			The version can be a tag name, stable for the latest tag, or
			latest for the latest commit. The default is stable.`),
		Example: heredoc.Doc(`
			$ versus install stockfish
			$ versus install stockfish@sf_16
			$ versus install AndyGrant/Ethereal@latest
		`),

		RunE: func(cmd *cobra.Command, args []string) error {
			installed, err := manager.Open("")
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			noMain, _ := cmd.Flags().GetBool("no-main")

			_, _, err = installed.Install(args[0], force, noMain)
			return err
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Force a re-installation of the engine")
	cmd.Flags().BoolP("no-main", "n", false, "Don't replace the engine's main version with the new version")

	return cmd
}
