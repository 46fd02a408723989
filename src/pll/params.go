/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pll

import (
	"math"

	"github.com/ansel1/merry"
)

// Divider ranges supported by the PLL hardware.
const (
	RefDivMin  = 1
	RefDivMax  = 63
	FbDivMin   = 16
	FbDivMax   = 320
	PostDivMin = 1
	PostDivMax = 7
)

// ErrInvalidParams is the root of every error returned by Params.Validate.
var ErrInvalidParams = merry.New("pll: invalid parameters")

/*
Params describes one divider search. All frequencies are in MHz.

The effective reference frequency (Input / REFDIV) is never allowed to
fall below RefMin, and the VCO frequency (Input / REFDIV * FBDIV) must lie
in [VCOMin, VCOMax]. LowVCO selects which of several equally good
solutions wins: normally the one with the highest VCO frequency (less
jitter), with LowVCO the one with the lowest (less power).
*/
type Params struct {
	Output float32 // requested output frequency
	Input  float32 // reference input frequency
	RefMin float32 // floor for Input / REFDIV
	VCOMax float32
	VCOMin float32
	LowVCO bool
}

// DefaultParams returns the defaults for a 12MHz crystal: a 5MHz reference
// floor and a 750..1600MHz VCO band. Output is left at zero.
func DefaultParams() Params {
	return Params{
		Input:  12,
		RefMin: 5,
		VCOMax: 1600,
		VCOMin: 750,
	}
}

// Validate checks that every frequency is positive and finite. An empty or
// inverted VCO band is valid; Search just finds nothing in it.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float32
	}{
		{"output", p.Output},
		{"input", p.Input},
		{"ref-min", p.RefMin},
		{"vco-max", p.VCOMax},
		{"vco-min", p.VCOMin},
	}
	for _, f := range fields {
		x := float64(f.v)
		if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
			return merry.Prepend(ErrInvalidParams, f.name+" must be a positive frequency, got "+FormatMHz(f.v))
		}
	}
	return nil
}

// RefDivLimit is the largest REFDIV that keeps Input / REFDIV at or above
// RefMin, capped at RefDivMax. Zero means no REFDIV is usable.
func (p Params) RefDivLimit() int {
	q := math.Floor(float64(p.Input / p.RefMin))
	if !(q >= RefDivMin) {
		return 0
	}
	if q > RefDivMax {
		return RefDivMax
	}
	return int(q)
}

// Order is the direction in which feedback dividers are enumerated. Since
// the first candidate reaching the minimal margin is kept, the order is
// what breaks ties.
type Order int

const (
	HighVCOFirst Order = iota // FBDIV from FbDivMax down
	LowVCOFirst               // FBDIV from FbDivMin up
)

// Order returns the enumeration order selected by LowVCO.
func (p Params) Order() Order {
	if p.LowVCO {
		return LowVCOFirst
	}
	return HighVCOFirst
}

// FeedbackDividers lists every FBDIV in enumeration order.
func (o Order) FeedbackDividers() []int {
	r := make([]int, 0, FbDivMax-FbDivMin+1)
	for i := 0; i <= FbDivMax-FbDivMin; i++ {
		r = append(r, o.feedbackDivider(i))
	}
	return r
}

// feedbackDivider maps an enumeration rank to the FBDIV tried at that rank.
func (o Order) feedbackDivider(rank int) int {
	if o == LowVCOFirst {
		return FbDivMin + rank
	}
	return FbDivMax - rank
}

func (o Order) String() string {
	if o == LowVCOFirst {
		return "low-vco-first"
	}
	return "high-vco-first"
}
