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

package match

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMoveTime is the search budget used when a Limit is empty.
const DefaultMoveTime = time.Second

// moveTimeMargin is how long past a movetime budget the engine is given
// to report its best move before the request times out.
const moveTimeMargin = 5 * time.Second

// Limit restricts the engine's search for a single move.
type Limit struct {
	MoveTime time.Duration
	Depth    int
	Nodes    int
}

// IsZero reports whether no restriction is set.
func (limit Limit) IsZero() bool {
	return limit.MoveTime <= 0 && limit.Depth <= 0 && limit.Nodes <= 0
}

// Normalize returns the limit with DefaultMoveTime applied if it is empty.
func (limit Limit) Normalize() Limit {
	if limit.IsZero() {
		limit.MoveTime = DefaultMoveTime
	}

	return limit
}

// GoCommand returns the UCI go command which starts a search
// with the given limit.
func (limit Limit) GoCommand() string {
	limit = limit.Normalize()

	command := []string{"go"}
	if limit.MoveTime > 0 {
		command = append(command, fmt.Sprintf("movetime %d", limit.MoveTime.Milliseconds()))
	}

	if limit.Depth > 0 {
		command = append(command, fmt.Sprintf("depth %d", limit.Depth))
	}

	if limit.Nodes > 0 {
		command = append(command, fmt.Sprintf("nodes %d", limit.Nodes))
	}

	return strings.Join(command, " ")
}

// Timeout returns how long to wait for the engine's reply to a search
// with the given limit. Depth and node limits have no time bound, so
// zero, meaning no timeout, is returned for them.
func (limit Limit) Timeout() time.Duration {
	limit = limit.Normalize()
	if limit.MoveTime <= 0 {
		return 0
	}

	return limit.MoveTime + moveTimeMargin
}

func (limit Limit) String() string {
	return strings.TrimPrefix(limit.GoCommand(), "go ")
}
