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
	"context"
	"sync"
)

/*
SearchParallel returns the same Result as Search but spreads the REFDIV
values over up to workers goroutines.

Each REFDIV is searched on its own starting from the initial state, and the
partial results are merged in ascending REFDIV with strict improvement. That
reproduces the serial enumeration exactly, ties included.

It returns ctx.Err() if the context is cancelled before all REFDIV values
are searched.
*/
func SearchParallel(ctx context.Context, p Params, workers int) (Result, error) {
	n := p.RefDivLimit()
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	partial := make([]Result, n)
	jobs := make(chan int, n)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case refdiv, ok := <-jobs:
					if !ok {
						return
					}
					r := start(p)
					searchRefDiv(p, refdiv, &r)
					partial[refdiv-RefDivMin] = r
				}
			}
		}()
	}

feed:
	for refdiv := RefDivMin; refdiv <= n; refdiv++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- refdiv:
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	best := start(p)
	for _, r := range partial {
		merge(&best, r)
	}
	return best, nil
}
