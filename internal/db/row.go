package db

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Row is an ordered mapping from column name to Value, produced by adapters.
type Row struct {
	cols []string
	vals map[string]Value
}

// NewRow builds a row; cols and vals must have the same length. A repeated
// column name keeps its first position and last value.
func NewRow(cols []string, vals []Value) *Row {
	r := &Row{vals: make(map[string]Value, len(cols))}
	for i, c := range cols {
		r.Set(c, vals[i])
	}
	return r
}

// Set stores v under col, appending col to the order if new.
func (r *Row) Set(col string, v Value) {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

// Columns returns column names in result order.
func (r *Row) Columns() []string { return append([]string(nil), r.cols...) }

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.cols) }

// Get returns the raw value of col.
func (r *Row) Get(col string) (Value, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Uint64 returns an unsigned integer; non-negative I64 is accepted.
func (r *Row) Uint64(col string) (uint64, error) {
	v := r.vals[col]
	switch {
	case v.Kind == KindU64:
		return v.U64, nil
	case v.Kind == KindI64 && v.I64 >= 0:
		return uint64(v.I64), nil
	}
	return 0, r.mismatch(col, KindU64)
}

// Int64 returns a signed integer.
func (r *Row) Int64(col string) (int64, error) {
	v := r.vals[col]
	if v.Kind != KindI64 {
		return 0, r.mismatch(col, KindI64)
	}
	return v.I64, nil
}

// Float32 returns a single-precision float.
func (r *Row) Float32(col string) (float32, error) {
	v := r.vals[col]
	if v.Kind != KindF32 {
		return 0, r.mismatch(col, KindF32)
	}
	return v.F32, nil
}

// Float64 returns a double-precision float.
func (r *Row) Float64(col string) (float64, error) {
	v := r.vals[col]
	if v.Kind != KindF64 {
		return 0, r.mismatch(col, KindF64)
	}
	return v.F64, nil
}

// Bool accepts a boolean, any integer (nonzero is true) or the strings "0"/"1".
func (r *Row) Bool(col string) (bool, error) {
	v := r.vals[col]
	switch v.Kind {
	case KindBool:
		return v.Bool, nil
	case KindI64:
		return v.I64 != 0, nil
	case KindU64:
		return v.U64 != 0, nil
	case KindString:
		switch v.Str {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
	}
	return false, r.mismatch(col, KindBool)
}

// Str returns a string cell.
func (r *Row) Str(col string) (string, error) {
	v := r.vals[col]
	if v.Kind != KindString {
		return "", r.mismatch(col, KindString)
	}
	return v.Str, nil
}

// DateTime returns a naive date-time in UTC.
func (r *Row) DateTime(col string) (time.Time, error) {
	v := r.vals[col]
	if v.Kind != KindDateTime {
		return time.Time{}, r.mismatch(col, KindDateTime)
	}
	return v.Time, nil
}

// Binary returns a copy of a binary cell.
func (r *Row) Binary(col string) ([]byte, error) {
	v := r.vals[col]
	if v.Kind != KindBin {
		return nil, r.mismatch(col, KindBin)
	}
	return append([]byte(nil), v.Bin...), nil
}

// UUID decodes a 16-byte binary cell.
func (r *Row) UUID(col string) (uuid.UUID, error) {
	b, err := r.Binary(col)
	if err != nil {
		return uuid.Nil, err
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, &ColumnError{Column: col, Reason: "is not valid UUID bytes"}
	}
	return u, nil
}

// OptStr returns nil for NULL. Unlike Str, a missing column is reported as not found.
func (r *Row) OptStr(col string) (*string, error) {
	v, ok := r.vals[col]
	if !ok {
		return nil, &ColumnError{Column: col, Reason: "not found"}
	}
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindString:
		s := v.Str
		return &s, nil
	}
	return nil, &ColumnError{Column: col, Reason: "is not String/NULL"}
}

// OptDateTime returns nil for NULL.
func (r *Row) OptDateTime(col string) (*time.Time, error) {
	v, ok := r.vals[col]
	if !ok {
		return nil, &ColumnError{Column: col, Reason: "not found"}
	}
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindDateTime:
		t := v.Time
		return &t, nil
	}
	return nil, &ColumnError{Column: col, Reason: "is not DateTime/NULL"}
}

func (r *Row) mismatch(col string, want Kind) error {
	return &ColumnError{Column: col, Reason: "is not " + want.String()}
}
