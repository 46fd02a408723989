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

/*
Package batch evaluates many divider searches read from a file.

Each line holds one command line in the same syntax as the main command,
for instance

	# 48MHz for USB, preferring low power
	48 --low-vco
	125 -i 12 --vco-min 800

Blank lines and lines starting with # are ignored. Results are printed in
input order as six line blocks separated by a blank line. Identical
requests are searched only once.
*/
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ansel1/merry"
	"github.com/google/shlex"
	"github.com/schollz/progressbar/v3"

	"pllcalc/src/cli"
	"pllcalc/src/pll"
)

// DefaultCacheSize is used when Options.CacheSize is not positive.
const DefaultCacheSize = 256

// Options controls a batch run.
type Options struct {
	Verbose   bool      // add the diagnostic lines after each result
	Progress  bool      // draw a progress bar on Log
	CacheSize int       // number of distinct results remembered
	Log       io.Writer // warnings and progress; nil discards them
}

// Request is one parsed line of a batch file.
type Request struct {
	Line   int
	Params pll.Params
}

// Summary counts what a batch run did.
type Summary struct {
	Requests   int
	CacheHits  int
	NoSolution int
}

// Read parses every request in r. name is used only to label errors,
// which carry the offending line as "name:line".
func Read(r io.Reader, name string) ([]Request, error) {
	var requests []Request
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		args, err := shlex.Split(text)
		if err != nil {
			return nil, merry.Prepend(err, fmt.Sprintf("%s:%d", name, line))
		}
		if len(args) == 0 {
			continue
		}
		p, err := cli.ParseArgs(args)
		if err != nil {
			return nil, merry.Prepend(err, fmt.Sprintf("%s:%d", name, line))
		}
		requests = append(requests, Request{Line: line, Params: p})
	}
	if err := scanner.Err(); err != nil {
		return nil, merry.Prepend(err, "reading "+name)
	}
	return requests, nil
}

// Run searches every request and writes the results to out. It stops early
// with ctx.Err() if the context is cancelled.
func Run(ctx context.Context, requests []Request, out io.Writer, opts Options) (Summary, error) {
	var s Summary
	log := opts.Log
	if log == nil {
		log = io.Discard
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := pll.NewCache(size)
	if err != nil {
		return s, err
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(len(requests),
			progressbar.OptionSetWriter(log),
			progressbar.OptionSetDescription("Searching"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
	}

	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return s, err
			}
		}
		r, hit := cache.Search(req.Params)
		s.Requests++
		if hit {
			s.CacheHits++
		}
		if err := pll.WriteResult(out, req.Params, r); err != nil {
			return s, err
		}
		if opts.Verbose {
			if err := pll.WriteDetails(out, req.Params, r); err != nil {
				return s, err
			}
		}
		if reason := pll.NoSolutionReason(req.Params, r); reason != "" {
			s.NoSolution++
			if _, err := fmt.Fprintf(log, "Warning: line %d: %s\n", req.Line, reason); err != nil {
				return s, err
			}
		}
		// progress output is best effort
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return s, nil
}
