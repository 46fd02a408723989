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
	"github.com/ansel1/merry"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes search results by their parameters. A search is pure, so
// a cached result never goes stale.
type Cache struct {
	results *lru.Cache[Params, Result]
}

// NewCache returns a cache holding at most size results.
func NewCache(size int) (*Cache, error) {
	results, err := lru.New[Params, Result](size)
	if err != nil {
		return nil, merry.Prepend(err, "pll: result cache")
	}
	return &Cache{results: results}, nil
}

// Search returns the result for p, running Search only when p has not been
// seen recently. hit reports whether the result came from the cache.
func (c *Cache) Search(p Params) (r Result, hit bool) {
	if r, ok := c.results.Get(p); ok {
		return r, true
	}
	r = Search(p)
	c.results.Add(p, r)
	return r, false
}

// Len is the number of cached results.
func (c *Cache) Len() int {
	return c.results.Len()
}
