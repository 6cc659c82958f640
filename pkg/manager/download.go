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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/internal/util"
)

// builtBinary is the file every build method leaves the engine's binary in,
// relative to the repository root.
const builtBinary = "engine-binary"

// Download builds the given version of the engine, moves the binary into
// the manager's binary directory, and records the version.
func (engine *Engine) Download(version Version) error {
	binary := engine.VersionBinary(version.Name)

	// Build the given version of the engine and move the file to binary.
	if err := engine.Build(version, binary); err != nil {
		return err
	}

	// Check if the Engine's binary was successfully built and moved.
	if _, err := os.Stat(binary); err != nil {
		logrus.Debug(err)
		return errors.New("Installer \x1b[31mfailed\x1b[0m in building the engine binary")
	}

	engine.manager.Engines.AddVersion(engine, version.Name)
	return engine.manager.Dump()
}

// Build builds the binary of the given Version of the Engine and move it to dst.
func (engine *Engine) Build(version Version, dst string) error {
	// Reset repository state after building has been done.
	head, err := engine.Head()
	if err != nil {
		return err
	}

	defer func() {
		logrus.Debugf("Checking out back to %s", head.Name().Short())
		if err := engine.Checkout(&git.CheckoutOptions{
			Branch: head.Name(),
		}); err != nil {
			logrus.Error(err)
		}
	}()

	// Fetch the git objects associated with the given version,
	// and checkout to its patch in preparation for building.
	if err := engine.FetchVersion(version); err != nil {
		return err
	}

	if err := engine.Checkout(&git.CheckoutOptions{
		// Checkout to a detached-HEAD.
		Hash: version.Ref.Hash(),
	}); err != nil {
		return err
	}

	// Some Engines registered with the manager have custom build scripts.
	// If a custom build script is available, use that to build the Engine's binary.
	if engine.Info != nil && engine.Info.BuildScript != "" {
		return script_build(engine.Path, dst, engine.Info.BuildScript)
	}

	// The default build method is to use an OpenBench-compliant Makefile.
	return makefile_build(engine.Path, dst)
}

// The default installation pathway. An OpenBench-compliant Makefile is used to
// build the Engine at a particular location, from which it is moved to dst.
func makefile_build(src, dst string) error {
	logrus.Info("Trying to build using an \x1b[33mOpenBench-compliant Makefile\x1b[0m...")

	makefile_dir := findMakefile(src)
	if makefile_dir == "" {
		return errors.New("Makefile \x1b[31mnot found\x1b[0m in engine's git")
	}

	logrus.WithField("makefile-directory", makefile_dir).Debug("makefile found in git")

	// make -j EXE=engine-binary # The binary will be moved from here later.
	err := util.Execute(
		makefile_dir,
		"Makefile failed to build the engine binary",
		"make", "-j", "EXE="+builtBinary,
	)

	if err != nil {
		return err
	}

	if err := os.Rename(filepath.Join(makefile_dir, builtBinary), dst); err != nil {
		logrus.Debug(err)
		return errors.New("Discovered Makefile is \x1b[31mnot Openbench-compliant\x1b[0m.")
	}

	return nil
}

// findMakefile returns the directory of the shallowest Makefile in src, or
// the empty string if there is none. Makefile names are case-insensitive.
func findMakefile(src string) string {
	var makefile_dir, makefile_depth = "", 10_000
	_ = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		// Don't walk into the repository's git objects.
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		// Shallowness of a Makefile is determined by the number of path
		// elements in its file path, separated by filepath.Separator.
		if !d.IsDir() && strings.EqualFold(d.Name(), "makefile") &&
			strings.Count(path, string(filepath.Separator)) < makefile_depth {
			makefile_dir = filepath.Dir(path)
			makefile_depth = strings.Count(path, string(filepath.Separator))
		}

		return nil
	})

	return makefile_dir
}

// Installation using a build script recorded in the engine's record. The
// script is run from the repository root and leaves ./engine-binary behind.
func script_build(src, dst, build_script string) error {
	logrus.Info("Trying to build using an \x1b[33mIn-built Installation Script\x1b[0m...")

	const failed = "Build script failed; Check requirements or open an issue"
	if err := util.Script(src, failed, build_script); err != nil {
		return err
	}

	if err := os.Rename(filepath.Join(src, builtBinary), dst); err != nil {
		logrus.Debug(err)
		return errors.New(failed)
	}

	return nil
}
