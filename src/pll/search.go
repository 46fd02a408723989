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

// Candidate is one setting of the four PLL dividers.
type Candidate struct {
	RefDiv, FbDiv, PD1, PD2 int
}

// VCO is the VCO frequency that results from feeding input (MHz) through
// the reference and feedback dividers.
func (c Candidate) VCO(input float32) float32 {
	return input / float32(c.RefDiv) * float32(c.FbDiv)
}

// Output is the frequency after both post-dividers.
func (c Candidate) Output(input float32) float32 {
	return c.VCO(input) / float32(c.PD1) / float32(c.PD2)
}

/*
Result is the outcome of a divider search.

If Found is false, no candidate came closer to the requested frequency than
0MHz does, either because no divider pair put the VCO inside its band
(Evaluated == 0) or because every reachable output was too far away. In that
case Candidate is the zero value and Output is 0.
*/
type Result struct {
	Candidate
	Output    float32 // achieved output frequency, MHz
	VCO       float32 // VCO frequency of Candidate, MHz
	Margin    float32 // |requested - Output|
	Found     bool
	Evaluated int // candidates with an in-band VCO that were examined
}

// start is the state before any candidate is evaluated: the zero candidate
// with the margin of a 0MHz output.
func start(p Params) Result {
	return Result{Margin: abs(p.Output)}
}

/*
Search exhaustively tries every REFDIV, FBDIV, PD2, PD1 combination (nested
in that order, PD1 fastest) and returns the one whose output is closest to
p.Output.

REFDIV runs upward from 1 to p.RefDivLimit(). FBDIV runs in the direction
given by p.Order(). A (REFDIV, FBDIV) pair whose VCO is outside
[p.VCOMin, p.VCOMax] is skipped along with all of its post-dividers. A
candidate replaces the current best only when its margin is strictly
smaller, so among equal margins the first one enumerated wins.

All arithmetic is float32 so that tie-breaks are reproducible.
*/
func Search(p Params) Result {
	best := start(p)
	for refdiv := RefDivMin; refdiv <= p.RefDivLimit(); refdiv++ {
		searchRefDiv(p, refdiv, &best)
	}
	return best
}

// searchRefDiv folds every candidate with the given REFDIV into best.
func searchRefDiv(p Params, refdiv int, best *Result) {
	order := p.Order()
	for rank := 0; rank <= FbDivMax-FbDivMin; rank++ {
		fbdiv := order.feedbackDivider(rank)
		vco := p.Input / float32(refdiv) * float32(fbdiv)
		if vco < p.VCOMin || vco > p.VCOMax {
			continue
		}
		for pd2 := PostDivMin; pd2 <= PostDivMax; pd2++ {
			for pd1 := PostDivMin; pd1 <= PostDivMax; pd1++ {
				out := vco / float32(pd1) / float32(pd2)
				margin := abs(p.Output - out)
				best.Evaluated++
				if margin < best.Margin {
					best.Candidate = Candidate{RefDiv: refdiv, FbDiv: fbdiv, PD1: pd1, PD2: pd2}
					best.Output = out
					best.VCO = vco
					best.Margin = margin
					best.Found = true
				}
			}
		}
	}
}

// merge folds a result computed for a later part of the enumeration into
// best, keeping best on ties.
func merge(best *Result, later Result) {
	best.Evaluated += later.Evaluated
	if later.Found && later.Margin < best.Margin {
		evaluated := best.Evaluated
		*best = later
		best.Evaluated = evaluated
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
