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

// Package common holds the locations of versus's files on disk.
package common

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const FilePermissions = 0755

var (
	// Directory is where versus keeps its data: installed engines
	// and the history of played games.
	Directory = filepath.Join(xdg.DataHome, "versus")

	// ConfigFile is the default configuration file.
	ConfigFile = filepath.Join(xdg.ConfigHome, "versus", "config.yaml")

	// HistoryFile records the results of finished games.
	HistoryFile = filepath.Join(Directory, "history.yaml")
)

// TryMkdir creates the given directory, and its parents, if it does
// not exist yet.
func TryMkdir(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(dir, FilePermissions)
	}

	return nil
}

// TryCreate creates the given file with the given contents if it does
// not exist yet.
func TryCreate(file string, data []byte) error {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		if err := TryMkdir(filepath.Dir(file)); err != nil {
			return err
		}

		return os.WriteFile(file, data, FilePermissions)
	}

	return nil
}
