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
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
)

func startNotnilFake(t *testing.T) *NotnilEngine {
	t.Helper()
	t.Setenv(fakeEngineEnv, "normal")

	engine, err := StartNotnilEngine(EngineConfig{Name: "fake", Cmd: os.Args[0]})
	if err != nil {
		t.Fatalf("StartNotnilEngine: %v", err)
	}

	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func TestNotnilEngineSendsMoves(t *testing.T) {
	engine := startNotnilFake(t)
	limit := Limit{MoveTime: 10 * time.Millisecond}

	mov, err := engine.Recommend(context.Background(), Position{StartFEN: games.StartFEN}, limit)
	if err != nil {
		t.Fatal(err)
	}

	if mov.String() != "e2e4" {
		t.Errorf("Recommend(start) = %s, want e2e4", mov)
	}

	// The fake engine only answers e7e5 when the position command lists
	// the moves played since the start position.
	position := Position{StartFEN: games.StartFEN, Moves: []games.Move{mov}}
	if mov, err = engine.Recommend(context.Background(), position, limit); err != nil {
		t.Fatal(err)
	}

	if mov.String() != "e7e5" {
		t.Errorf("Recommend(e2e4) = %s, want e7e5", mov)
	}
}

func TestNotnilEngineIllegalHistory(t *testing.T) {
	engine := startNotnilFake(t)

	bad, err := games.ParseMove("e2e5")
	if err != nil {
		t.Fatal(err)
	}

	position := Position{StartFEN: games.StartFEN, Moves: []games.Move{bad}}
	if _, err := engine.Recommend(context.Background(), position, Limit{}); !errors.Is(err, games.ErrIllegalMove) {
		t.Errorf("Recommend error = %v, want ErrIllegalMove", err)
	}
}

func TestNotnilEngineClosesLogs(t *testing.T) {
	level := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() { logrus.SetLevel(level) })

	engine := startNotnilFake(t)
	if engine.logs == nil {
		t.Fatal("debug logging did not create a log writer")
	}

	_ = engine.Close()

	if _, err := engine.logs.Write([]byte("late\n")); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("write after Close = %v, want io.ErrClosedPipe", err)
	}
}
