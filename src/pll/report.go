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
	"fmt"
	"io"
	"math"
	"strconv"

	"pllcalc/src/support"
)

// FormatMHz renders a frequency in the shortest form that reads back as
// the same float32, e.g. 100, 99.99999 or 0.
func FormatMHz(x float32) string {
	return strconv.FormatFloat(float64(x), 'f', -1, 32)
}

// WriteResult prints the six line report for r. The VCO is recomputed from
// the chosen dividers, so a result that found nothing shows VCO = NaN.
func WriteResult(w io.Writer, p Params, r Result) error {
	_, err := fmt.Fprintf(w,
		"Requested: %s MHz\n"+
			"Achieved: %s MHz\n"+
			"REFDIV: %d\n"+
			"FBDIV: %d (VCO = %s MHz)\n"+
			"PD1: %d\n"+
			"PD2: %d\n",
		FormatMHz(p.Output),
		FormatMHz(r.Output),
		r.RefDiv,
		r.FbDiv, FormatMHz(r.Candidate.VCO(p.Input)),
		r.PD1,
		r.PD2)
	return err
}

// WriteDetails prints the diagnostics shown with --verbose.
func WriteDetails(w io.Writer, p Params, r Result) error {
	if _, err := fmt.Fprintf(w, "Margin: %s MHz\nEvaluated: %d candidates\nOrder: %s\n",
		FormatMHz(r.Margin), r.Evaluated, p.Order()); err != nil {
		return err
	}
	if num, den, ok := IdealRatio(p); ok {
		ideal := float64(p.Input) * float64(num) / float64(den)
		if _, err := fmt.Fprintf(w, "Ideal: %s * %d/%d = %s MHz\n",
			FormatMHz(p.Input), num, den, strconv.FormatFloat(ideal, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}

// NoSolutionReason explains why r found nothing, or returns "" if it did.
func NoSolutionReason(p Params, r Result) string {
	switch {
	case r.Found:
		return ""
	case r.Evaluated == 0:
		return fmt.Sprintf("no divider combination puts the VCO inside [%s, %s] MHz",
			FormatMHz(p.VCOMin), FormatMHz(p.VCOMax))
	default:
		return fmt.Sprintf("no reachable output is closer to %s MHz than 0 MHz", FormatMHz(p.Output))
	}
}

// IdealDenominator is the largest total division REFDIV * PD1 * PD2 can give.
const IdealDenominator = RefDivMax * PostDivMax * PostDivMax

/*
IdealRatio is the best rational approximation num/den of Output/Input with
den <= IdealDenominator, ignoring the VCO band and the individual divider
ranges. It gives a rough idea of how close an integer divider chain could get.
Frequencies are resolved to 1Hz before the approximation.
*/
func IdealRatio(p Params) (num, den uint64, ok bool) {
	const hz = 1e6
	a := math.Round(float64(p.Output) * hz)
	b := math.Round(float64(p.Input) * hz)
	if !(a >= 0 && a < 1<<62) || !(b >= 1 && b < 1<<62) {
		return 0, 0, false
	}
	num, den, _ = support.NearestFraction(uint64(a), uint64(b), IdealDenominator)
	return num, den, den != 0
}
