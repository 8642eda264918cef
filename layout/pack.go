// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package layout stacks reads and read pairs into display rows so that no
// two items in a row overlap.
package layout

import "sort"

// Item is anything with a 1-based inclusive reference span.
type Item interface {
	Start() int
	End() int
}

// Rows is the result of Pack.  Rows[i] lists the items of row i in ascending
// (start, end) order.
type Rows [][]Item

// Pack assigns every item to a row.  Items are visited in (start, end) order,
// ties keeping their input order, and each goes to the lowest-numbered row
// whose last item ends at least two bases before the item starts, i.e.
// last.End()+1 < item.Start().  A new row is opened when no row qualifies.
//
// Treating every item as occupying [Start, End+1], the number of rows equals
// the largest number of items whose occupied spans share a position.  items
// is not modified.
func Pack(items []Item) Rows {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start() != sorted[j].Start() {
			return sorted[i].Start() < sorted[j].Start()
		}
		return sorted[i].End() < sorted[j].End()
	})

	var rows Rows
	for _, item := range sorted {
		placed := false
		for r, row := range rows {
			if row[len(row)-1].End()+1 < item.Start() {
				rows[r] = append(row, item)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []Item{item})
		}
	}
	return rows
}

// Assignment returns the row index of every item.  Items must be comparable,
// which holds for the pointer types of this package.
func (rows Rows) Assignment() map[Item]int {
	m := make(map[Item]int)
	for r, row := range rows {
		for _, item := range row {
			m[item] = r
		}
	}
	return m
}
