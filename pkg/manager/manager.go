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

// Package manager installs chess engines from their git repositories and
// keeps track of the installed versions, so that they can be played
// against by name.
package manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"laptudirm.com/x/versus/pkg/common"
)

var ErrNotInstalled = errors.New("engine not installed")

// Manager is an engine installation directory.
type Manager struct {
	// BinaryDirectory is the path to the directory where the manager
	// stores all the binaries of downloaded and installed Engines.
	BinaryDirectory string

	// SourceDirectory is the path to the directory where the manager
	// stores all the source repositories of downloaded Engines.
	SourceDirectory string

	// EnginesFile is the path to the lockfile used by the manager
	// to keep track of what Engines and Versions are available.
	EnginesFile string

	Engines EngineInfoList
}

// Open opens the manager rooted at the given directory, or at the default
// data directory if dir is empty. The directory is initialized with the
// core engines if it is new.
func Open(dir string) (*Manager, error) {
	if dir == "" {
		dir = common.Directory
	}

	manager := &Manager{
		BinaryDirectory: filepath.Join(dir, "bin"),
		SourceDirectory: filepath.Join(dir, "src"),
		EnginesFile:     filepath.Join(dir, "engines.yaml"),
	}

	for _, dir := range []string{manager.BinaryDirectory, manager.SourceDirectory} {
		if err := common.TryMkdir(dir); err != nil {
			return nil, err
		}
	}

	base, err := yaml.Marshal(CoreEngines)
	if err != nil {
		return nil, err
	}

	if err := common.TryCreate(manager.EnginesFile, base); err != nil {
		return nil, err
	}

	file, err := os.ReadFile(manager.EnginesFile)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(file, &manager.Engines); err != nil {
		return nil, fmt.Errorf("%s: %w", manager.EnginesFile, err)
	}

	if manager.Engines == nil {
		manager.Engines = make(EngineInfoList)
	}

	logrus.WithField("engines-file", manager.EnginesFile).Debug("Loaded engine records")
	return manager, nil
}

// Dump writes the manager's engine records back to its lockfile.
func (manager *Manager) Dump() error {
	file, err := yaml.Marshal(manager.Engines)
	if err != nil {
		return err
	}

	return os.WriteFile(manager.EnginesFile, file, common.FilePermissions)
}

// Resolve returns the path to the binary of an installed engine, given
// its name and optionally a version as <engine-name>[@<version>]. The
// engine's main version is used if no version is provided.
func (manager *Manager) Resolve(identifier string) (string, error) {
	name, version, _ := strings.Cut(identifier, "@")
	name = strings.ToLower(name)

	info, found := manager.Engines[name]
	if !found || len(info.Versions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}

	if version == "" {
		version = info.Current
	}

	if !slices.Contains(info.Versions, version) {
		return "", fmt.Errorf("%w: %s %s", ErrNotInstalled, name, version)
	}

	binary := manager.VersionBinary(name, version)
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("%w: %s %s: %v", ErrNotInstalled, name, version, err)
	}

	return binary, nil
}

// VersionBinary is the location of the binary of the given engine version.
func (manager *Manager) VersionBinary(name, version string) string {
	return filepath.Join(manager.BinaryDirectory, strings.ToLower(name)+"-"+version)
}
