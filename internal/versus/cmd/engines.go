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
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"laptudirm.com/x/versus/pkg/manager"
)

func Engines() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "Lists the installed engines and their versions",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			installed, err := manager.Open("")
			if err != nil {
				return err
			}

			names := make([]string, 0, len(installed.Engines))
			for name, info := range installed.Engines {
				if len(info.Versions) > 0 {
					names = append(names, name)
				}
			}

			if len(names) == 0 {
				cmd.Println("\x1b[31mNo Engines Installed.\x1b[0m")
				return nil
			}

			sort.Strings(names)
			cmd.Print("\x1b[32mInstalled Engines\x1b[0m:\n\n")

			for _, engine := range names {
				info := installed.Engines[engine]

				// The main version is highlighted and listed first.
				versions := ""
				for _, version := range info.Versions {
					if version == info.Current {
						versions = "\x1b[33m" + version + "\x1b[0m " + versions
					} else {
						versions += version + " "
					}
				}

				name := fmt.Sprintf("\x1b[34m%s\x1b[0m:", engine)
				cmd.Printf("- %-20s %s\n", name, versions)
			}

			return nil
		},
	}
}
