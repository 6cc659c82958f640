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

package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Execute runs the given command in dir behind the ~working~ spinner. The
// command's output is only shown if it fails, or if tracing is enabled. A
// non-empty errStr replaces the command's error in the return value.
func Execute(dir, errStr, command string, args ...string) error {
	logrus.WithField("dir", dir).Debugf("\x1b[34m%s\x1b[0m %s", command, strings.Join(args, " "))

	cmd := exec.Command(command, args...)
	cmd.Dir = dir

	return run(cmd, errStr)
}

// Script pipes the given shell script into sh, running it in dir.
func Script(dir, errStr, script string) error {
	logrus.WithField("dir", dir).Debug("running build script")
	logrus.Trace(script)

	// TODO: use cmd.exe on windows, the scripts assume a posix shell.
	cmd := exec.Command("sh")
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(script)

	return run(cmd, errStr)
}

func run(cmd *exec.Cmd, errStr string) error {
	// Buffer the command's output so that it can be dumped on failure.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Show the command's output if logging level is Trace.
	tracing := logrus.IsLevelEnabled(logrus.TraceLevel)
	if tracing {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	fmt.Print("\x1b[33m") // Make the outputs yellow.
	StartSpinner()

	err := cmd.Run()

	PauseSpinner()
	fmt.Print("\x1b[0m") // Reset the terminal's color.

	if err == nil {
		return nil
	}

	// Dump command's stdout and stderr in case of failure.
	if !tracing {
		fmt.Print("==== \x1b[31mERROR\x1b[0m ====\n\x1b[31m")
		_, _ = io.Copy(os.Stdout, &stdout)
		_, _ = io.Copy(os.Stderr, &stderr)
		fmt.Print("\x1b[0m===============\n")
	}

	logrus.Debug(err)
	if errStr == "" {
		return err
	}

	return errors.New(errStr)
}
