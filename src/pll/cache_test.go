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

import "testing"

func Test_Cache(t *testing.T) {
	c, err := NewCache(2)
	if err != nil {
		t.Fatal(err)
	}
	r, hit := c.Search(params(100))
	if hit {
		t.Errorf("first search reported a hit")
	}
	if r != Search(params(100)) {
		t.Errorf("cached search differs from Search")
	}
	again, hit := c.Search(params(100))
	if !hit || again != r {
		t.Errorf("second search: hit=%v, %+v", hit, again)
	}
	if _, hit := c.Search(lowVCO(100)); hit {
		t.Errorf("low vco search must not share the default result")
	}
	c.Search(params(48))
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
	// params(100) is the least recently used and was evicted
	if _, hit := c.Search(params(100)); hit {
		t.Errorf("expected params(100) to be evicted")
	}
}

func Test_NewCache_invalidSize(t *testing.T) {
	if _, err := NewCache(0); err == nil {
		t.Errorf("expected an error for a zero sized cache")
	}
}
