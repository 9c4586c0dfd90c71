// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SortedSet_01(t *testing.T) {
	set := NewSortedSet("y", "x", "z", "x")
	assert.Equal(t, []string{"x", "y", "z"}, set.Slice())
	assert.True(t, set.Contains("y"))
	assert.False(t, set.Contains("w"))
}

func Test_SortedSet_02(t *testing.T) {
	left := NewSortedSet("a", "c", "e")
	left.InsertSorted(NewSortedSet("b", "c", "d"))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, left.Slice())
}

func Test_SortedSet_03(t *testing.T) {
	set := NewSortedSet("a", "b", "c")
	set.Remove("b")
	set.Remove("q")
	assert.Equal(t, []string{"a", "c"}, set.Slice())
}

func Test_SortedSet_04(t *testing.T) {
	left := NewSortedSet(1, 2, 3, 4)
	right := NewSortedSet(2, 4, 6)
	assert.Equal(t, []int{2, 4}, left.Intersect(right).Slice())
}

func Test_SortedSet_05(t *testing.T) {
	sets := [][]string{{"x"}, {"y", "x"}, {}}
	union := UnionSortedSets(sets, func(s []string) *SortedSet[string] { return NewSortedSet(s...) })
	assert.Equal(t, []string{"x", "y"}, union.Slice())
}

func Test_SortedSet_06(t *testing.T) {
	set := NewSortedSet[string]()
	set.InsertSorted(NewSortedSet("b", "a"))
	assert.Equal(t, 2, set.Len())
}
