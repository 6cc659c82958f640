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
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
)

// EngineInfoList maps the names of known engines to their records.
type EngineInfoList map[string]EngineInfo

// EngineInfo is the record of an engine known to the manager.
type EngineInfo struct {
	Author string `yaml:"author"`
	Source string `yaml:"source"`

	// Installation Stuff
	Current     string   `yaml:"current"`
	Versions    []string `yaml:"versions,omitempty"`
	BuildScript string   `yaml:"build-script,omitempty"`
}

// CoreEngines are the engines every new manager knows about, so that they
// can be installed by their name alone. A build script is recorded for
// engines which do not ship an OpenBench-compliant Makefile.
var CoreEngines = EngineInfoList{
	"stockfish": {
		Source: "https://github.com/official-stockfish/stockfish",
		Author: "the Stockfish Developers",
		BuildScript: heredoc.Doc(`
			cd src
			make -j profile-build
			mv stockfish ../engine-binary
		`),
	},

	"ethereal": {Source: "https://github.com/AndyGrant/Ethereal", Author: "Andrew Grant"},
	"mess":     {Source: "https://github.com/raklaptudirm/mess", Author: "Rak Laptudirm"},
}

// TryAddEngine adds a record for the given engine if it has none.
func (list EngineInfoList) TryAddEngine(engine *Engine) {
	if _, found := list[engine.Name]; !found {
		list[engine.Name] = EngineInfo{
			Author: engine.Author,
			Source: engine.URL,
		}
	}
}

// AddVersion records an installed version of the given engine. The first
// version installed becomes the engine's main version.
func (list EngineInfoList) AddVersion(engine *Engine, version string) {
	list.TryAddEngine(engine)
	info := list[engine.Name]
	if !slices.Contains(info.Versions, version) {
		info.Versions = append(info.Versions, version)
	}

	if info.Current == "" {
		info.Current = version
	}

	list[engine.Name] = info
}

// SetMainVersion sets the version used when the engine is resolved
// without an explicit version.
func (list EngineInfoList) SetMainVersion(engine string, version string) {
	info := list[engine]
	info.Current = version
	list[engine] = info
}

// RemoveVersion forgets an installed version of the given engine. If it
// was the main version, the latest remaining version replaces it.
func (list EngineInfoList) RemoveVersion(engine string, version string) {
	info, found := list[engine]
	if !found {
		return
	}

	info.Versions = slices.DeleteFunc(info.Versions, func(v string) bool {
		return v == version
	})

	if info.Current == version {
		info.Current = ""
		if n := len(info.Versions); n > 0 {
			info.Current = info.Versions[n-1]
		}
	}

	list[engine] = info
}

// RemoveEngine forgets every installed version of the given engine. Core
// engines keep their record so that they can be installed again by name.
func (list EngineInfoList) RemoveEngine(engine string) {
	if core, found := CoreEngines[engine]; found {
		list[engine] = core
		return
	}

	delete(list, engine)
}
