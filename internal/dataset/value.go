package dataset

// NullString is a string cell that may be absent, in the mold of
// sql.NullString. The zero value is null.
type NullString struct {
	String string
	Valid  bool
}

// StringOf returns a valid NullString holding s.
func StringOf(s string) NullString {
	return NullString{String: s, Valid: true}
}

// NullFloat64 is a float64 cell that may be absent. The zero value is null.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// FloatOf returns a valid NullFloat64 holding f.
func FloatOf(f float64) NullFloat64 {
	return NullFloat64{Float64: f, Valid: true}
}

// Bool is a three-valued boolean cell: definitively true, definitively
// false, or null (indeterminate). The zero value is BoolNull, so a freshly
// allocated []Bool starts out all-null.
type Bool uint8

const (
	BoolNull Bool = iota
	BoolFalse
	BoolTrue
)

// BoolOf converts a plain bool to a definite Bool.
func BoolOf(v bool) Bool {
	if v {
		return BoolTrue
	}
	return BoolFalse
}

// Valid reports whether b holds a definite value.
func (b Bool) Valid() bool {
	return b != BoolNull
}

// IsTrue reports whether b is definitively true.
func (b Bool) IsTrue() bool {
	return b == BoolTrue
}

// Or returns the Kleene OR of b and other: true beats everything, and
// null absorbs false (null OR false = null, null OR true = true). This is
// the null-propagating OR used for per-row derivations; group reductions
// that treat null as false use IsTrue instead.
func (b Bool) Or(other Bool) Bool {
	if b == BoolTrue || other == BoolTrue {
		return BoolTrue
	}
	if b == BoolNull || other == BoolNull {
		return BoolNull
	}
	return BoolFalse
}

// String returns a debug representation; CSV rendering lives in the
// exporter package.
func (b Bool) String() string {
	switch b {
	case BoolTrue:
		return "true"
	case BoolFalse:
		return "false"
	default:
		return "null"
	}
}
