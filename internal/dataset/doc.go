// Package dataset provides the in-memory tabular representation the
// pipeline stages pass between each other.
//
// # Model
//
// A Frame is an ordered set of equal-length named columns. Every cell is
// nullable; columns come in three kinds:
//
//  1. string: NullString cells, the kind every loaded column starts as
//  2. bool: three-valued Bool cells (true, false, null)
//  3. float: NullFloat64 cells
//
// Frames are loaded untyped (all string columns) and coerced column by
// column during normalization. Mutating operations (DropColumns,
// RenameColumn, TransformHeaders, the coercions, DropDuplicates) work in
// place; GroupBy and InnerJoin allocate new frames.
//
// # Null semantics
//
// The three-valued Bool carries two distinct OR semantics on purpose:
// Bool.Or is the Kleene OR used for per-row derivations (null OR false is
// null), while the AggAny group reduction treats null as false. Mean
// reductions skip nulls and yield null for all-null groups; sum reductions
// skip nulls and yield 0.
package dataset
