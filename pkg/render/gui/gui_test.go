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

package gui

import (
	"image/color"
	"testing"
)

func TestDestinationMarker(t *testing.T) {
	if destinationRadius != 15 {
		t.Errorf("destination radius = %d, want 15", destinationRadius)
	}

	if want := (color.RGBA{R: 0, G: 255, B: 0, A: 255}); destination != want {
		t.Errorf("destination color = %v, want %v", destination, want)
	}

	// the marker must fit inside its square
	if 2*destinationRadius >= squareSize {
		t.Errorf("destination marker of radius %d overflows a %d pixel square", destinationRadius, squareSize)
	}
}

func TestLayout(t *testing.T) {
	var window Window
	if w, h := window.Layout(1920, 1080); w != boardSize || h != boardSize {
		t.Errorf("Layout = %dx%d, want %dx%d", w, h, boardSize, boardSize)
	}
}
