// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
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
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/versus/pkg/games"
)

// EngineConfig describes how to launch and talk to an engine.
type EngineConfig struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
	Dir  string `yaml:"dir"`
	Arg  string `yaml:"arg"`

	Protocol string `yaml:"protocol"`

	Stderr string `yaml:"stderr"`

	InitStr string `yaml:"init-string"`

	Options map[string]string `yaml:"options"`

	MoveTime time.Duration `yaml:"movetime"`
	Depth    int           `yaml:"depth"`
	Nodes    int           `yaml:"nodes"`
}

// Limit returns the search limit configured for the engine.
func (config EngineConfig) Limit() Limit {
	return Limit{
		MoveTime: config.MoveTime,
		Depth:    config.Depth,
		Nodes:    config.Nodes,
	}.Normalize()
}

const (
	// handshakeTimeout bounds every startup and synchronization reply.
	handshakeTimeout = 5 * time.Second

	// quitTimeout is how long a quitting engine may take to exit
	// before it is killed.
	quitTimeout = time.Second

	// stopTimeout is how long a stopped search may take to report.
	stopTimeout = time.Second
)

var (
	ErrReadTimeout  = errors.New("engine: read i/o timeout")
	ErrEngineExited = errors.New("engine: process exited")
)

// StartEngine launches the engine process and performs the UCI handshake.
// If the handshake fails the process is killed before returning.
func StartEngine(ctx context.Context, config EngineConfig) (*Engine, error) {
	if config.Protocol == "" {
		config.Protocol = "uci"
	}

	if config.Name == "" {
		config.Name = filepath.Base(config.Cmd)
	}

	var engine Engine
	engine.config = config
	engine.log = logrus.WithField("engine", config.Name)

	process := exec.Command(config.Cmd, strings.Fields(config.Arg)...)
	process.Dir = config.Dir

	stdin, err := process.StdinPipe()
	if err != nil {
		return nil, err
	}

	stdout, err := process.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if config.Stderr != "" {
		if engine.stderr, err = os.Create(config.Stderr); err != nil {
			return nil, err
		}

		process.Stderr = engine.stderr
	}

	engine.writer = bufio.NewWriter(stdin)
	engine.reader = bufio.NewReader(stdout)
	engine.lines = make(chan string)
	engine.done = make(chan struct{})

	engine.Cmd = process

	if err := engine.Cmd.Start(); err != nil {
		if engine.stderr != nil {
			_ = engine.stderr.Close()
		}

		return nil, fmt.Errorf("engine: start %s: %w", config.Cmd, err)
	}

	go engine.read()

	if err := engine.handshake(ctx); err != nil {
		_ = engine.Close()
		return nil, fmt.Errorf("engine: %s handshake: %w", config.Name, err)
	}

	return &engine, nil
}

// Engine is a UCI engine running in a child process.
type Engine struct {
	config EngineConfig

	*exec.Cmd

	writer *bufio.Writer
	reader *bufio.Reader
	stderr *os.File

	// lines carries the engine's output, one trimmed line at a time.
	// It is closed when the engine's stdout reaches an error, which is
	// stored in err before the close.
	lines chan string
	err   error

	// done is closed by Close to release the reader goroutine.
	done chan struct{}

	mu       sync.Mutex // serializes writes
	once     sync.Once
	closeErr error

	log *logrus.Entry
}

func (engine *Engine) read() {
	defer close(engine.lines)

	for {
		line, err := engine.reader.ReadString('\n')
		if err != nil {
			engine.err = err
			return
		}

		line = strings.Trim(line, " \n\t\r")
		engine.log.Debugf("> %s", line)

		select {
		case engine.lines <- line:
		case <-engine.done:
			return
		}
	}
}

func (engine *Engine) handshake(ctx context.Context) error {
	if engine.config.InitStr != "" {
		if err := engine.Write("%s", engine.config.InitStr); err != nil {
			return err
		}
	}

	if err := engine.Initialize(ctx); err != nil {
		return err
	}

	if err := engine.SetOptions(engine.config.Options); err != nil {
		return err
	}

	return engine.NewGame(ctx)
}

// Initialize initializes the engine on startup.
func (engine *Engine) Initialize(ctx context.Context) error {
	if err := engine.Write(engine.config.Protocol); err != nil {
		return err
	}

	_, err := engine.Await(ctx, "^"+engine.config.Protocol+"ok$", handshakeTimeout)
	return err
}

// SetOptions sends a setoption command for every given option, in
// alphabetical order of their names.
func (engine *Engine) SetOptions(options map[string]string) error {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := engine.Write("setoption name %s value %s", name, options[name]); err != nil {
			return err
		}
	}

	return nil
}

// NewGame prepares the engine for a new game of chess.
func (engine *Engine) NewGame(ctx context.Context) error {
	if err := engine.Write(engine.config.Protocol + "newgame"); err != nil {
		return err
	}

	return engine.Synchronize(ctx)
}

// Synchronize waits for the engine to complete some time consuming task
// and synchronizes the interface with it.
func (engine *Engine) Synchronize(ctx context.Context) error {
	if err := engine.Write("isready"); err != nil {
		return err
	}

	_, err := engine.Await(ctx, "^readyok$", handshakeTimeout)
	return err
}

// Recommend asks the engine for its best move in the given position. If
// ctx is cancelled or the budget runs out the search is stopped, and its
// bestmove drained, before returning.
func (engine *Engine) Recommend(ctx context.Context, position Position, limit Limit) (games.Move, error) {
	if err := engine.Write("%s", positionCommand(position)); err != nil {
		return games.Move{}, err
	}

	if err := engine.Synchronize(ctx); err != nil {
		return games.Move{}, err
	}

	if err := engine.Write("%s", limit.GoCommand()); err != nil {
		return games.Move{}, err
	}

	line, err := engine.Await(ctx, "^bestmove", limit.Timeout())
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, ErrReadTimeout) {
			engine.stop()
		}

		return games.Move{}, err
	}

	return parseBestMove(line)
}

// stop halts a running search and discards its result.
func (engine *Engine) stop() {
	if err := engine.Write("stop"); err != nil {
		return
	}

	_, _ = engine.Await(context.Background(), "^bestmove", stopTimeout)
}

// Close asks the engine to quit and kills it if it does not exit in time.
func (engine *Engine) Close() error {
	engine.once.Do(func() {
		close(engine.done)
		_ = engine.Write("quit")

		exited := make(chan error, 1)
		go func() { exited <- engine.Cmd.Wait() }()

		select {
		case <-exited:
		case <-time.After(quitTimeout):
			engine.log.Debug("engine did not quit in time, killing it")
			engine.closeErr = engine.Process.Kill()
			<-exited
		}

		if engine.stderr != nil {
			_ = engine.stderr.Close()
		}
	})

	return engine.closeErr
}

// Await is a utility function which waits for a line matching the given
// pattern from the engine. A timeout of zero waits until ctx is done.
func (engine *Engine) Await(ctx context.Context, pattern string, timeout time.Duration) (string, error) {
	regex := regexp.MustCompile(pattern)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case <-expired:
			// timer ran out: wait timeout
			return "", ErrReadTimeout

		case line, ok := <-engine.lines:
			if !ok {
				// engine's stdout is closed
				if engine.err != nil && !errors.Is(engine.err, os.ErrClosed) {
					return "", fmt.Errorf("%w: %v", ErrEngineExited, engine.err)
				}

				return "", ErrEngineExited
			}

			if regex.MatchString(line) {
				// line is the expected line
				return line, nil
			}
		}
	}
}

func (engine *Engine) Write(format string, a ...any) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.log.Debugf("< "+format, a...)

	if _, err := fmt.Fprintf(engine.writer, format+"\n", a...); err != nil {
		return err
	}

	return engine.writer.Flush()
}
