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

package batch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ansel1/merry"

	"pllcalc/src/cli"
	"pllcalc/src/pll"
)

const sample = `# clocks for the board
100

48 --low-vco   # usb
'100' -i 12
100 --vco-min 1600 --vco-max 1601
`

func Test_Read(t *testing.T) {
	requests, err := Read(strings.NewReader(sample), "clocks.txt")
	if err != nil {
		t.Fatal(err)
	}
	wantLines := []int{2, 4, 5, 6}
	if len(requests) != len(wantLines) {
		t.Fatalf("got %d requests, want %d", len(requests), len(wantLines))
	}
	for i, line := range wantLines {
		if requests[i].Line != line {
			t.Errorf("request %d is from line %d, want %d", i, requests[i].Line, line)
		}
	}
	if p := requests[1].Params; p.Output != 48 || !p.LowVCO {
		t.Errorf("line 4 parsed as %+v", p)
	}
	if requests[0].Params != requests[2].Params {
		t.Errorf("quoted output should parse like a bare one: %+v vs %+v", requests[0].Params, requests[2].Params)
	}
}

func Test_Read_errors(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"bad flag", "100\n100 --fast\n", "clocks.txt:2"},
		{"unterminated quote", "'100\n", "clocks.txt:1"},
		{"invalid frequency", "# x\n\n100 --ref-min 0\n", "clocks.txt:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), "clocks.txt")
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error %q does not start with %q", err, tt.want)
			}
		})
	}
	_, err := Read(strings.NewReader("100 200\n"), "clocks.txt")
	if !merry.Is(err, cli.ErrUsage) {
		t.Errorf("expected a usage error, got %v", err)
	}
}

func Test_Run(t *testing.T) {
	requests, err := Read(strings.NewReader(sample), "clocks.txt")
	if err != nil {
		t.Fatal(err)
	}
	var out, log bytes.Buffer
	s, err := Run(context.Background(), requests, &out, Options{Log: &log})
	if err != nil {
		t.Fatal(err)
	}
	if s != (Summary{Requests: 4, CacheHits: 1, NoSolution: 1}) {
		t.Errorf("summary = %+v", s)
	}

	blocks := strings.Split(out.String(), "\n\n")
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks:\n%s", len(blocks), out.String())
	}
	for i, req := range requests {
		var want bytes.Buffer
		if err := pll.WriteResult(&want, req.Params, pll.Search(req.Params)); err != nil {
			t.Fatal(err)
		}
		got := blocks[i]
		if i < len(blocks)-1 {
			got += "\n"
		}
		if got != want.String() {
			t.Errorf("block %d:\n%s\nwant\n%s", i, got, want.String())
		}
	}
	if !strings.Contains(blocks[1], "FBDIV: 64 (VCO = 768 MHz)") {
		t.Errorf("low vco request did not pick the low VCO:\n%s", blocks[1])
	}

	wantLog := "Warning: line 6: no divider combination puts the VCO inside [1600, 1601] MHz\n"
	if log.String() != wantLog {
		t.Errorf("log = %q, want %q", log.String(), wantLog)
	}
}

func Test_Run_verboseAndProgress(t *testing.T) {
	requests := []Request{{Line: 1, Params: pll.Params{Output: 100, Input: 12, RefMin: 5, VCOMax: 1600, VCOMin: 750}}}
	var out, log bytes.Buffer
	if _, err := Run(context.Background(), requests, &out, Options{Verbose: true, Progress: true, Log: &log}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Ideal: 12 * 25/3 = 100 MHz\n") {
		t.Errorf("verbose output missing details:\n%s", out.String())
	}
	if log.Len() == 0 {
		t.Errorf("expected a progress bar on the log")
	}
}

func Test_Run_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	requests := []Request{{Line: 1, Params: pll.Params{Output: 100, Input: 12, RefMin: 5, VCOMax: 1600, VCOMin: 750}}}
	var out bytes.Buffer
	_, err := Run(ctx, requests, &out, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("cancelled run wrote %q", out.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func Test_Run_logWriteError(t *testing.T) {
	requests := []Request{{Line: 3, Params: pll.Params{Output: 100, Input: 12, RefMin: 5, VCOMax: 1601, VCOMin: 1600}}}
	var out bytes.Buffer
	s, err := Run(context.Background(), requests, &out, Options{Log: failingWriter{}})
	if err == nil || err.Error() != "disk full" {
		t.Errorf("got %v, want the log write error", err)
	}
	if s.NoSolution != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func Test_Run_progressWriteError(t *testing.T) {
	requests := []Request{{Line: 1, Params: pll.Params{Output: 100, Input: 12, RefMin: 5, VCOMax: 1600, VCOMin: 750}}}
	var out bytes.Buffer
	if _, err := Run(context.Background(), requests, &out, Options{Progress: true, Log: failingWriter{}}); err != nil {
		t.Errorf("a failing progress bar stopped the run: %v", err)
	}
	if !strings.Contains(out.String(), "FBDIV: 125 (VCO = 1500 MHz)") {
		t.Errorf("result missing:\n%s", out.String())
	}
}
