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

// Package stats estimates playing strength from game results.
package stats

import (
	"fmt"
	"math"
)

// Score is a tally of game results from one player's point of view.
type Score struct {
	Wins   int `yaml:"wins"`
	Draws  int `yaml:"draws"`
	Losses int `yaml:"losses"`
}

// Games returns the number of games tallied.
func (score Score) Games() int {
	return score.Wins + score.Draws + score.Losses
}

// Points returns the player's points, counting draws as half a point.
func (score Score) Points() float64 {
	return float64(score.Wins) + float64(score.Draws)/2
}

// Elo returns the player's elo difference against its opponents, and
// its 95% error margin.
func (score Score) Elo() (elo float64, margin float64) {
	muMin, mu, muMax := Elo(score.Wins, score.Draws, score.Losses)
	return mu, (muMax - muMin) / 2
}

func (score Score) String() string {
	elo, margin := score.Elo()
	return fmt.Sprintf("W: %d D: %d L: %d  Elo: %+.1f ± %.1f", score.Wins, score.Draws, score.Losses, elo, margin)
}

// Elo returns the likely elo of the target player along with its p < 0.05
// upper bound and lower bound, called mu, muMax, and muMin respectively.
// Every result is smoothed by half a game so that one-sided records have
// a finite estimate.
func Elo(ws, ds, ls int) (muMin float64, mu float64, muMax float64) {
	N := float64(ws+ds+ls) + 1.5 // total number of games

	w := (float64(ws) + 0.5) / N // measured win probability
	d := (float64(ds) + 0.5) / N // measured draw probability
	l := (float64(ls) + 0.5) / N // measured loss probability

	// empirical mean of random variable
	mu = w + d/2

	// standard deviation of the random variable
	sigma := math.Sqrt(
		w*math.Pow(1-mu, 2)+
			d*math.Pow(0.5-mu, 2)+
			l*math.Pow(0-mu, 2),
	) / math.Sqrt(N)

	muMax = mu + phiInv(0.975)*sigma // upper bound
	muMin = mu + phiInv(0.025)*sigma // lower bound

	return clampElo(muMin), clampElo(mu), clampElo(muMax)
}

// minScore keeps expected scores away from 0 and 1, where the elo
// difference is infinite.
const minScore = 1e-3

// clampElo converts an expected score into an elo difference. Scores
// past the ends of the scale are clamped rather than discarded so that
// the bounds of a one-sided record stay ordered.
func clampElo(x float64) float64 {
	x = math.Max(minScore, math.Min(1-minScore, x))
	return -400 * math.Log10(1/x-1)
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
