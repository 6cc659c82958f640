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

package manager

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Install fetches, builds, and records the engine with the given identifier,
// which is an engine identifier as accepted by NewEngine optionally followed
// by @<version>. The latest stable version is installed if no version is
// given. An already installed version is only rebuilt if force is set. The
// installed version becomes the engine's main version unless noMain is set.
func (manager *Manager) Install(identifier string, force, noMain bool) (*Engine, Version, error) {
	source, tag, _ := strings.Cut(identifier, "@")

	engine, err := manager.NewEngine(source)
	if err != nil {
		return nil, Version{}, err
	}

	if engine.Author != "" {
		fmt.Printf("\x1b[92mInstalling Engine:\x1b[0m %s by %s\n\n", engine.Name, engine.Author)
	} else {
		fmt.Printf("\x1b[92mInstalling Engine:\x1b[0m %s\n\n", engine.Name)
	}

	if err := engine.Fetch(); err != nil {
		return nil, Version{}, err
	}

	version, err := engine.ResolveVersion(tag)
	if err != nil {
		return nil, Version{}, err
	}

	logrus.WithField("version", version.Name).Debug("Resolved engine version")

	if engine.Downloaded(version.Name) && !force {
		fmt.Printf("Engine \x1b[92m%s %s\x1b[0m is already installed.\n", engine.Name, version.Name)
	} else if err := engine.Download(version); err != nil {
		return nil, Version{}, err
	}

	if !noMain {
		manager.Engines.SetMainVersion(engine.Name, version.Name)
		if err := manager.Dump(); err != nil {
			return nil, Version{}, err
		}
	}

	fmt.Printf("\nInstalled engine \x1b[92m%s %s\x1b[0m.\n", engine.Name, version.Name)
	return engine, version, nil
}

// Remove uninstalls the engine with the given <engine-name>[@<version>]
// identifier. Every version of the engine is removed if none is given.
func (manager *Manager) Remove(identifier string) error {
	name, version, has_version := strings.Cut(identifier, "@")
	name = strings.ToLower(name)

	info, found := manager.Engines[name]
	if !found || len(info.Versions) == 0 {
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}

	versions := info.Versions
	if has_version {
		if _, err := manager.Resolve(name + "@" + version); err != nil {
			return err
		}

		versions = []string{version}
	}

	for _, version := range versions {
		fmt.Printf("\x1b[32mUninstalling Engine:\x1b[0m %s %s\n", name, version)
		if err := os.Remove(manager.VersionBinary(name, version)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	if has_version {
		manager.Engines.RemoveVersion(name, version)
	} else {
		manager.Engines.RemoveEngine(name)
	}

	return manager.Dump()
}
