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

package support

/*
NearestFraction finds the best approximation c/d ≈ a/b with d <= maxDenominator.

Returns c, d and the error a/b - c/d as floating point.

The approximation is built from the terms of the continued fraction of a/b,
stopping just before a term would push the denominator past the limit.

For a PLL the limit is the largest total division the chain can apply. If
an output/input ratio of 100/12 is wanted and at most 63*7*7 = 3087 can be
divided out, the answer is 25/3: exact, and reachable with FBDIV = 125,
REFDIV = 1 and PD1*PD2 = 15. When the ratio is awkward, say 100.1234/12,
the result shows how small an error any choice of dividers could possibly
reach, before the VCO band and the individual divider ranges cut it down
further.
*/
func NearestFraction(a, b, maxDenominator uint64) (c, d uint64, eps float64) {
	c, d = continuedFraction(a, b, 0, 1, maxDenominator)
	eps = float64(a)/float64(b) - float64(c)/float64(d)
	return c, d, eps
}

/*
continuedFraction expands a/b recursively and returns the value of the
truncated expansion as c/d.

Any rational a/b can be written as

	cf(a, b) = floor(a/b) + rem(a/b) / b = floor(a/b) + 1 / cf(b, rem(a/b))

These truncations are the best rational approximations for their
denominator. e and f carry the last two denominators of the convergents
(starting at 0 and 1) so we know when the next term would exceed the limit.
*/
func continuedFraction(a, b, e, f, maxDenominator uint64) (c, d uint64) {
	term := a / b
	denom := f + term*e
	if denom > maxDenominator {
		return 1, 0
	}
	ax := a - term*b
	if ax == 0 {
		return term, 1
	}
	// a/b = term + 1/(cx/dx) = (term*cx + dx) / cx
	cx, dx := continuedFraction(b, ax, denom, e, maxDenominator)
	return term*cx + dx, cx
}
