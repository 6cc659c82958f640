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
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/internal/util"
)

// Version represents an installable version of an Engine.
type Version struct {
	Name string              // Human-readable name of the version
	Ref  *plumbing.Reference // Git object reference of the version
}

// ResolveVersion resolves a version string for an Engine into a Version.
// The following formats for the version string are supported:
//
// stable: Resolves to the latest tagged patch of the Engine.
// latest: Resolves to the latest patch of the Engine.
// <name>: Resolves to the patch with the given name.
func (engine *Engine) ResolveVersion(v string) (Version, error) {
	var err error
	var version Version
	switch v {
	case "stable", "":
		version.Ref, err = engine.FindStable()

	case "latest":
		version.Ref, err = engine.FindLatest()

	default:
		version.Ref, err = engine.FindTag(v)
	}

	if err != nil || version.Ref == nil {
		// Print the actual error at DEBUG level, and return a human-readable error instead.
		logrus.Debug(err)
		return version, fmt.Errorf("Unable to find version \x1b[31m%s\x1b[0m", v)
	}

	version.Name = versionName(version.Ref)
	return version, nil
}

// versionName names a version after its tag, or after its abbreviated
// commit hash if it is not tagged.
func versionName(ref *plumbing.Reference) string {
	if ref.Name().IsTag() {
		return ref.Name().Short()
	}

	return ref.Hash().String()[:7]
}

// FindStable finds the reference of the latest tagged patch to the Engine,
// falling back to the latest patch if the Engine has no tags.
func (engine *Engine) FindStable() (*plumbing.Reference, error) {
	logrus.Debug("Looking for the latest stable release...")

	refs, err := engine.remoteRefs()
	if err != nil {
		return nil, err
	}

	if stable := latestTag(refs); stable != nil {
		return stable, nil
	}

	return engine.FindLatest()
}

// FindLatest finds the reference of the latest patch to the Engine.
func (engine *Engine) FindLatest() (*plumbing.Reference, error) {
	return engine.Head()
}

// FindTag finds the reference to the patch tagged with the given name in the Engine.
func (engine *Engine) FindTag(tag string) (*plumbing.Reference, error) {
	refs, err := engine.remoteRefs()
	if err != nil {
		return nil, err
	}

	if ref, found := tags(refs)[tag]; found {
		return ref, nil
	}

	return nil, fmt.Errorf("Unable to find version \x1b[31m%s\x1b[0m", tag)
}

// remoteRefs lists the references in the Engine's remote repository.
func (engine *Engine) remoteRefs() ([]*plumbing.Reference, error) {
	remote, err := engine.Remote(git.DefaultRemoteName)
	if err != nil {
		return nil, err
	}

	return remote.List(&git.ListOptions{PeelingOption: git.AppendPeeled})
}

// tags maps tag names to references pointing at the tagged commits. The
// peeled reference of an annotated tag replaces the tag object's one.
func tags(refs []*plumbing.Reference) map[string]*plumbing.Reference {
	const peeledSuffix = "^{}"

	found := make(map[string]*plumbing.Reference)
	for _, ref := range refs {
		if !ref.Name().IsTag() {
			continue
		}

		name, peeled := strings.CutSuffix(ref.Name().Short(), peeledSuffix)
		if _, seen := found[name]; seen && !peeled {
			continue
		}

		found[name] = plumbing.NewHashReference(plumbing.NewTagReferenceName(name), ref.Hash())
	}

	return found
}

// latestTag returns the reference of the latest tag among refs, or nil.
// The latest tag is the greatest in natural order, which works for the
// usual engine version formats like sf_16 or v3.10.
func latestTag(refs []*plumbing.Reference) *plumbing.Reference {
	var stable *plumbing.Reference
	for name, ref := range tags(refs) {
		if stable == nil || util.NaturalCompare(stable.Name().Short(), name) < 0 {
			stable = ref
		}
	}

	return stable
}
