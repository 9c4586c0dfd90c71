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
	"cmp"
	"sort"
)

// SortedSet is an array of unique elements held in ascending order.  Sorted
// sets are used for sets of variable names, since iterating them is
// deterministic and this determines the order in which obligations, ghost
// constants and solver declarations are produced.
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns a sorted set containing the given elements.
func NewSortedSet[T cmp.Ordered](elements ...T) *SortedSet[T] {
	var set SortedSet[T]
	//
	for _, e := range elements {
		set.Insert(e)
	}
	//
	return &set
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(*p)
}

// Contains returns true if a given element is in the set.
func (p *SortedSet[T]) Contains(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(data), func(i int) bool {
		return element <= data[i]
	})
	// Check whether item existed or not.
	return i < len(data) && data[i] == element
}

// Insert an element into this sorted set.
func (p *SortedSet[T]) Insert(element T) {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(data), func(i int) bool {
		return element <= data[i]
	})
	// Check whether item existed or not.
	if i >= len(data) || data[i] != element {
		ndata := make([]T, len(data)+1)
		copy(ndata, data[0:i])
		ndata[i] = element
		copy(ndata[i+1:], data[i:])
		*p = ndata
	}
}

// Remove an element from this sorted set (if it is present).
func (p *SortedSet[T]) Remove(element T) {
	data := *p
	//
	i := sort.Search(len(data), func(i int) bool {
		return element <= data[i]
	})
	//
	if i < len(data) && data[i] == element {
		ndata := make([]T, len(data)-1)
		copy(ndata, data[0:i])
		copy(ndata[i:], data[i+1:])
		*p = ndata
	}
}

// InsertSorted inserts all elements in a given sorted set into this set.
func (p *SortedSet[T]) InsertSorted(q *SortedSet[T]) {
	left := *p
	right := *q
	// Check containment
	n := countDuplicates(left, right)
	// Check for total inclusion
	if n == len(right) {
		return
	}
	// Allocate space
	ndata := make([]T, len(left)+len(right)-n)
	// Merge
	mergeSorted(ndata, left, right)
	// Finally copy over new data
	*p = ndata
}

// Intersect returns those elements of this set which are also in another.
func (p *SortedSet[T]) Intersect(q *SortedSet[T]) *SortedSet[T] {
	var result SortedSet[T]
	//
	for _, e := range *p {
		if q.Contains(e) {
			result = append(result, e)
		}
	}
	//
	return &result
}

// Slice returns the elements of this set in ascending order.
func (p *SortedSet[T]) Slice() []T {
	return *p
}

// UnionSortedSets unions together a number of things which can be turn into a
// sorted set using a given mapping function.  At some level, this is a
// map/reduce function.
func UnionSortedSets[S any, T cmp.Ordered](elems []S, fn func(S) *SortedSet[T]) *SortedSet[T] {
	var set SortedSet[T]
	//
	for _, e := range elems {
		set.InsertSorted(fn(e))
	}
	//
	return &set
}

// Determine number of duplicate elements
func countDuplicates[T cmp.Ordered](left []T, right []T) int {
	var i, j, n int
	//
	for i < len(left) && j < len(right) {
		if left[i] < right[j] {
			i++
		} else if left[i] > right[j] {
			j++
		} else {
			i++
			j++
			n++ // duplicate detected
		}
	}

	return n
}

// Merge two sorted arrays into a target array, dropping duplicates.  The target
// array must be exactly large enough to hold the result.
func mergeSorted[T cmp.Ordered](target []T, left []T, right []T) {
	var i, j, k int
	//
	for i < len(left) && j < len(right) {
		if left[i] < right[j] {
			target[k] = left[i]
			i++
		} else if left[i] > right[j] {
			target[k] = right[j]
			j++
		} else {
			target[k] = left[i]
			i++
			j++
		}
		//
		k++
	}
	//
	k += copy(target[k:], left[i:])
	copy(target[k:], right[j:])
}
