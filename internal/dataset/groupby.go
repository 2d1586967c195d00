package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// AggKind selects the reduction applied to one column within each group.
type AggKind uint8

const (
	// AggJoinDistinct joins the distinct non-null strings of the group,
	// sorted ascending, with ", ". All-null groups yield an empty string,
	// not null.
	AggJoinDistinct AggKind = iota
	// AggAny is true when any cell in the group is definitively true;
	// null counts as false here, unlike the row-level Kleene OR.
	AggAny
	// AggMean is the arithmetic mean of the non-null cells; all-null
	// groups yield null.
	AggMean
	// AggSum is the sum of the non-null cells; all-null groups yield 0.
	AggSum
)

// Aggregation pairs a column with the reduction applied to it.
type Aggregation struct {
	Column string
	Kind   AggKind
}

type group struct {
	keyVals []string
	rows    []int
}

// GroupBy collapses f to one row per distinct key tuple, applying each
// aggregation within its group. Key columns must be string columns; rows
// with a null key cell take no part in grouping. The output carries the key
// columns first, then the aggregates in declaration order, with rows
// ordered by key tuple ascending.
func GroupBy(f *Frame, keys []string, aggs []Aggregation) (*Frame, error) {
	keyCols := make([]*Column, len(keys))
	isKey := make(map[string]struct{}, len(keys))
	for i, name := range keys {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("group key column %q not found", name)
		}
		if c.Kind() != KindString {
			return nil, fmt.Errorf("group key column %q is %s, want string", name, c.Kind())
		}
		keyCols[i] = c
		isKey[name] = struct{}{}
	}

	aggCols := make([]*Column, len(aggs))
	for i, agg := range aggs {
		if _, ok := isKey[agg.Column]; ok {
			return nil, fmt.Errorf("column %q is a group key and cannot be aggregated", agg.Column)
		}
		c, ok := f.Column(agg.Column)
		if !ok {
			return nil, fmt.Errorf("aggregated column %q not found", agg.Column)
		}
		if want := agg.Kind.columnKind(); c.Kind() != want {
			return nil, fmt.Errorf("aggregated column %q is %s, want %s", agg.Column, c.Kind(), want)
		}
		aggCols[i] = c
	}

	byKey := make(map[string]*group)
	var ordered []*group
	var b strings.Builder
rows:
	for i := 0; i < f.NumRows(); i++ {
		b.Reset()
		for _, kc := range keyCols {
			if !kc.strs[i].Valid {
				continue rows
			}
			kc.appendCellKey(&b, i)
		}
		key := b.String()
		g, ok := byKey[key]
		if !ok {
			vals := make([]string, len(keyCols))
			for j, kc := range keyCols {
				vals[j] = kc.strs[i].String
			}
			g = &group{keyVals: vals}
			byKey[key] = g
			ordered = append(ordered, g)
		}
		g.rows = append(g.rows, i)
	}

	sort.Slice(ordered, func(x, y int) bool {
		gx, gy := ordered[x], ordered[y]
		for j := range gx.keyVals {
			if gx.keyVals[j] != gy.keyVals[j] {
				return gx.keyVals[j] < gy.keyVals[j]
			}
		}
		return false
	})

	out := make([]*Column, 0, len(keys)+len(aggs))
	for j, name := range keys {
		vals := make([]NullString, len(ordered))
		for gi, g := range ordered {
			vals[gi] = StringOf(g.keyVals[j])
		}
		out = append(out, NewStringColumn(name, vals))
	}
	for ai, agg := range aggs {
		out = append(out, reduce(agg, aggCols[ai], ordered))
	}
	return NewFrame(out...)
}

func (k AggKind) columnKind() Kind {
	switch k {
	case AggJoinDistinct:
		return KindString
	case AggAny:
		return KindBool
	default:
		return KindFloat
	}
}

func reduce(agg Aggregation, c *Column, groups []*group) *Column {
	switch agg.Kind {
	case AggJoinDistinct:
		vals := make([]NullString, len(groups))
		for gi, g := range groups {
			distinct := make(map[string]struct{})
			for _, i := range g.rows {
				if v := c.strs[i]; v.Valid {
					distinct[v.String] = struct{}{}
				}
			}
			names := make([]string, 0, len(distinct))
			for name := range distinct {
				names = append(names, name)
			}
			sort.Strings(names)
			vals[gi] = StringOf(strings.Join(names, ", "))
		}
		return NewStringColumn(agg.Column, vals)

	case AggAny:
		vals := make([]Bool, len(groups))
		for gi, g := range groups {
			vals[gi] = BoolFalse
			for _, i := range g.rows {
				if c.bools[i].IsTrue() {
					vals[gi] = BoolTrue
					break
				}
			}
		}
		return NewBoolColumn(agg.Column, vals)

	case AggMean:
		vals := make([]NullFloat64, len(groups))
		for gi, g := range groups {
			var sum float64
			var count int
			for _, i := range g.rows {
				if v := c.floats[i]; v.Valid {
					sum += v.Float64
					count++
				}
			}
			if count > 0 {
				vals[gi] = FloatOf(sum / float64(count))
			}
		}
		return NewFloatColumn(agg.Column, vals)

	default: // AggSum
		vals := make([]NullFloat64, len(groups))
		for gi, g := range groups {
			var sum float64
			for _, i := range g.rows {
				if v := c.floats[i]; v.Valid {
					sum += v.Float64
				}
			}
			vals[gi] = FloatOf(sum)
		}
		return NewFloatColumn(agg.Column, vals)
	}
}
