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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pllcalc/src/batch"
	"pllcalc/src/cli"
	"pllcalc/src/pll"
)

// Version is set via ldflags during build
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	params := pll.DefaultParams()
	var (
		verbose     bool
		workers     int
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "pllcalc <output>",
		Short: "Find PLL divider settings for an output frequency in MHz",
		Long: `pllcalc searches every REFDIV, FBDIV, PD1 and PD2 setting of a PLL and
reports the one whose output comes closest to the requested frequency while
keeping the reference and VCO frequencies in range.

Example:
  pllcalc 100
  pllcalc 48 --low-vco
  pllcalc 133 -i 12 --vco-min 800 --vco-max 1600`,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError(cmd, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(stdout, "pllcalc version %s\n", Version)
				return nil
			}
			out, err := cli.ParseOutput(args[0])
			if err != nil {
				return usageError(cmd, err)
			}
			params.Output = out
			if err := params.Validate(); err != nil {
				return usageError(cmd, err)
			}

			r, err := search(cmd.Context(), params, workers)
			if err != nil {
				return err
			}
			if err := pll.WriteResult(stdout, params, r); err != nil {
				return err
			}
			if verbose {
				if err := pll.WriteDetails(stdout, params, r); err != nil {
					return err
				}
			}
			if reason := pll.NoSolutionReason(params, r); reason != "" {
				fmt.Fprintf(stderr, "Warning: %s\n", reason)
			}
			return nil
		},
	}
	// usage only goes out through usageError, and always to stderr
	rootCmd.SilenceUsage = true
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(usageError)

	cli.BindFlags(rootCmd.Flags(), &params)
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Print margin, candidate count and the ideal divider ratio")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of goroutines used for the search")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")

	rootCmd.AddCommand(newBatchCmd(stdout, stderr))
	return rootCmd
}

func newBatchCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts batch.Options
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Run one search per line of a file (- for stdin)",
		Long: `Each non-blank line of the file is a pllcalc command line, e.g.

  100
  48 --low-vco
  125 -i 12 --vco-min 800

Lines starting with # are ignored. Results are printed in order, separated
by a blank line.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError(cmd, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			var in io.Reader = cmd.InOrStdin()
			if name != "-" {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			requests, err := batch.Read(in, name)
			if err != nil {
				return err
			}
			opts.Log = stderr
			summary, err := batch.Run(cmd.Context(), requests, stdout, opts)
			if err != nil {
				return err
			}
			if opts.Verbose {
				fmt.Fprintf(stderr, "%d requests, %d cached, %d without solution\n",
					summary.Requests, summary.CacheHits, summary.NoSolution)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Print diagnostics after each result and a summary at the end")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "Show a progress bar on stderr")
	cmd.Flags().IntVar(&opts.CacheSize, "cache-size", batch.DefaultCacheSize, "Number of distinct results to remember")
	return cmd
}

// usageError prints the usage of cmd on its error writer and returns err.
func usageError(cmd *cobra.Command, err error) error {
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return err
}

// search runs the serial search unless more than one worker was asked for.
func search(ctx context.Context, p pll.Params, workers int) (pll.Result, error) {
	if workers <= 1 {
		return pll.Search(p), nil
	}
	return pll.SearchParallel(ctx, p, workers)
}
