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

// Package cli binds the divider search parameters to command line flags.
// The same binding serves the main command and each line of a batch file.
package cli

import (
	"io"
	"strconv"

	"github.com/ansel1/merry"
	"github.com/spf13/pflag"

	"pllcalc/src/pll"
)

// ErrUsage marks errors caused by a malformed command line.
var ErrUsage = merry.New("usage")

// BindFlags registers the search flags on fs, writing into p. The current
// contents of p are the defaults.
func BindFlags(fs *pflag.FlagSet, p *pll.Params) {
	fs.Float32VarP(&p.Input, "input", "i", p.Input, "Input (reference) frequency in MHz")
	fs.Float32Var(&p.RefMin, "ref-min", p.RefMin, "Override minimum reference frequency in MHz")
	fs.Float32Var(&p.VCOMax, "vco-max", p.VCOMax, "Override maximum VCO frequency in MHz")
	fs.Float32Var(&p.VCOMin, "vco-min", p.VCOMin, "Override minimum VCO frequency in MHz")
	fs.BoolVarP(&p.LowVCO, "low-vco", "l", p.LowVCO,
		"Use a lower VCO frequency when possible. This reduces power consumption, at the cost of increased jitter")
}

// ParseOutput parses the positional output frequency in MHz.
func ParseOutput(arg string) (float32, error) {
	f, err := strconv.ParseFloat(arg, 32)
	if err != nil {
		return 0, merry.Prepend(ErrUsage, "invalid output frequency "+strconv.Quote(arg))
	}
	return float32(f), nil
}

// ParseArgs parses a complete command line such as
// "100 -i 12 --low-vco" into validated parameters, starting from
// pll.DefaultParams.
func ParseArgs(args []string) (pll.Params, error) {
	p := pll.DefaultParams()
	fs := pflag.NewFlagSet("pllcalc", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindFlags(fs, &p)
	if err := fs.Parse(args); err != nil {
		return pll.Params{}, merry.Prepend(ErrUsage, err.Error())
	}
	if fs.NArg() != 1 {
		return pll.Params{}, merry.Prepend(ErrUsage, "expected exactly one output frequency, got "+strconv.Itoa(fs.NArg()))
	}
	out, err := ParseOutput(fs.Arg(0))
	if err != nil {
		return pll.Params{}, err
	}
	p.Output = out
	if err := p.Validate(); err != nil {
		return pll.Params{}, err
	}
	return p, nil
}
