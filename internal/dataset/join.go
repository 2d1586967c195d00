package dataset

import (
	"fmt"
	"strings"
)

// JoinStats counts distinct key tuples seen on each side of an inner join.
type JoinStats struct {
	MatchedKeys   int
	LeftOnlyKeys  int
	RightOnlyKeys int
}

// InnerJoin joins left and right on the named key columns, keeping only key
// tuples present on both sides. Key columns must be string columns on both
// frames; rows with a null key cell never match. The output carries the
// left columns in order followed by the right columns minus the keys, with
// left row order preserved (one output row per matching left/right row
// pair). A non-key column name shared by both frames is an error.
func InnerJoin(left, right *Frame, keys []string) (*Frame, JoinStats, error) {
	var stats JoinStats

	leftKeys, err := joinKeyColumns(left, keys, "left")
	if err != nil {
		return nil, stats, err
	}
	rightKeys, err := joinKeyColumns(right, keys, "right")
	if err != nil {
		return nil, stats, err
	}

	isKey := make(map[string]struct{}, len(keys))
	for _, name := range keys {
		isKey[name] = struct{}{}
	}
	for _, c := range right.cols {
		if _, ok := isKey[c.name]; ok {
			continue
		}
		if left.HasColumn(c.name) {
			return nil, stats, fmt.Errorf("column %q exists on both sides of the join", c.name)
		}
	}

	rightRows := make(map[string][]int, right.NumRows())
	var b strings.Builder
	for i := 0; i < right.NumRows(); i++ {
		key, ok := rowJoinKey(&b, rightKeys, i)
		if !ok {
			continue
		}
		rightRows[key] = append(rightRows[key], i)
	}

	var leftIdx, rightIdx []int
	leftSeen := make(map[string]struct{})
	matched := make(map[string]struct{})
	for i := 0; i < left.NumRows(); i++ {
		key, ok := rowJoinKey(&b, leftKeys, i)
		if !ok {
			continue
		}
		leftSeen[key] = struct{}{}
		rows, hit := rightRows[key]
		if !hit {
			continue
		}
		matched[key] = struct{}{}
		for _, ri := range rows {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, ri)
		}
	}

	stats.MatchedKeys = len(matched)
	stats.LeftOnlyKeys = len(leftSeen) - len(matched)
	stats.RightOnlyKeys = len(rightRows) - len(matched)

	out := make([]*Column, 0, left.NumColumns()+right.NumColumns()-len(keys))
	for _, c := range left.cols {
		out = append(out, c.take(leftIdx))
	}
	for _, c := range right.cols {
		if _, ok := isKey[c.name]; ok {
			continue
		}
		out = append(out, c.take(rightIdx))
	}
	joined, err := NewFrame(out...)
	if err != nil {
		return nil, stats, err
	}
	return joined, stats, nil
}

func joinKeyColumns(f *Frame, keys []string, side string) ([]*Column, error) {
	cols := make([]*Column, len(keys))
	for i, name := range keys {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("join key column %q not found on %s side", name, side)
		}
		if c.Kind() != KindString {
			return nil, fmt.Errorf("join key column %q on %s side is %s, want string", name, side, c.Kind())
		}
		cols[i] = c
	}
	return cols, nil
}

func rowJoinKey(b *strings.Builder, keyCols []*Column, i int) (string, bool) {
	b.Reset()
	for _, c := range keyCols {
		if !c.strs[i].Valid {
			return "", false
		}
		c.appendCellKey(b, i)
	}
	return b.String(), true
}
