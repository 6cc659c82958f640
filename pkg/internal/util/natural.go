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

import "strings"

// NaturalCompare compares two strings in natural order, in which runs of
// digits are compared by their numeric value, so that "v2" sorts before
// "v10". The result is -1, 0, or +1, like strings.Compare.
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		var chunkA, chunkB string
		chunkA, a = nextChunk(a)
		chunkB, b = nextChunk(b)

		var c int
		if isDigit(chunkA[0]) && isDigit(chunkB[0]) {
			c = compareNumbers(chunkA, chunkB)
		} else {
			c = strings.Compare(chunkA, chunkB)
		}

		if c != 0 {
			return c
		}
	}

	// a string with chunks left over sorts after its prefix
	return strings.Compare(a, b)
}

// nextChunk splits the leading run of digits or non-digits off str.
func nextChunk(str string) (chunk, rest string) {
	digits := isDigit(str[0])

	i := 1
	for i < len(str) && isDigit(str[i]) == digits {
		i++
	}

	return str[:i], str[i:]
}

// compareNumbers compares two runs of digits by value. The runs may be
// longer than any integer type can hold.
func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}

		return 1
	}

	return strings.Compare(a, b)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
