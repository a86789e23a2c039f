package db

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Kind tags the variant held by a Value or Param.
type Kind uint8

// Variants. The zero Kind is Null.
const (
	KindNull Kind = iota
	KindI64
	KindU64
	KindF32
	KindF64
	KindBool
	KindString
	KindDateTime
	KindBin
)

var kindNames = [...]string{
	KindNull:     "Null",
	KindI64:      "I64",
	KindU64:      "U64",
	KindF32:      "F32",
	KindF64:      "F64",
	KindBool:     "Bool",
	KindString:   "String",
	KindDateTime: "DateTime",
	KindBin:      "Bin",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a decoded cell. Only the field matching Kind is meaningful.
// DateTime values are naive: adapters store them as UTC wall-clock time.
type Value struct {
	Kind Kind
	I64  int64
	U64  uint64
	F32  float32
	F64  float64
	Bool bool
	Str  string
	Time time.Time
	Bin  []byte
}

// IsNull reports whether v is SQL NULL.
func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) String() string {
	switch v.Kind {
	case KindI64:
		return "I64(" + strconv.FormatInt(v.I64, 10) + ")"
	case KindU64:
		return "U64(" + strconv.FormatUint(v.U64, 10) + ")"
	case KindF32:
		return "F32(" + strconv.FormatFloat(float64(v.F32), 'g', -1, 32) + ")"
	case KindF64:
		return "F64(" + strconv.FormatFloat(v.F64, 'g', -1, 64) + ")"
	case KindBool:
		return "Bool(" + strconv.FormatBool(v.Bool) + ")"
	case KindString:
		return "Str(" + strconv.Quote(v.Str) + ")"
	case KindDateTime:
		return "DateTime(" + v.Time.Format("2006-01-02T15:04:05.999999") + ")"
	case KindBin:
		return "Bin(0x" + hex.EncodeToString(v.Bin) + ")"
	default:
		return "Null"
	}
}

// Param is a query argument. It has the same shape as Value; byte slices
// are borrowed from the caller and copied by adapters before binding.
type Param Value

func (p Param) String() string { return Value(p).String() }

// Null returns an SQL NULL parameter.
func Null() Param { return Param{Kind: KindNull} }

// I64 returns a signed integer parameter.
func I64(v int64) Param { return Param{Kind: KindI64, I64: v} }

// U64 returns an unsigned integer parameter.
func U64(v uint64) Param { return Param{Kind: KindU64, U64: v} }

// F32 returns a single-precision float parameter.
func F32(v float32) Param { return Param{Kind: KindF32, F32: v} }

// F64 returns a double-precision float parameter.
func F64(v float64) Param { return Param{Kind: KindF64, F64: v} }

// Bool returns a boolean parameter.
func Bool(v bool) Param { return Param{Kind: KindBool, Bool: v} }

// Str returns a UTF-8 string parameter.
func Str(v string) Param { return Param{Kind: KindString, Str: v} }

// DateTime returns a naive date-time parameter; the zone of t is discarded
// after conversion to UTC.
func DateTime(t time.Time) Param { return Param{Kind: KindDateTime, Time: t.UTC()} }

// Bin returns a binary parameter. A nil slice is bound as an empty buffer; use OptBin for NULL.
func Bin(b []byte) Param {
	if b == nil {
		b = []byte{}
	}
	return Param{Kind: KindBin, Bin: b}
}

// UUID returns u as a 16-byte binary parameter.
func UUID(u uuid.UUID) Param { return Param{Kind: KindBin, Bin: u.Bytes()} }

// OptStr maps nil to NULL.
func OptStr(s *string) Param {
	if s == nil {
		return Null()
	}
	return Str(*s)
}

// OptBin maps a nil slice to NULL.
func OptBin(b []byte) Param {
	if b == nil {
		return Null()
	}
	return Bin(b)
}

// OptDateTime maps nil to NULL.
func OptDateTime(t *time.Time) Param {
	if t == nil {
		return Null()
	}
	return DateTime(*t)
}

// Args converts Go values to params. Supported: nil, Param, every integer
// kind, float32/64, bool, string, *string, []byte, time.Time, *time.Time,
// uuid.UUID and *uuid.UUID. Nil pointers and nil []byte become NULL.
// Anything else is an error.
func Args(values ...any) ([]Param, error) {
	out := make([]Param, 0, len(values))
	for i, v := range values {
		p, err := toParam(v)
		if err != nil {
			return nil, fmt.Errorf("db: arg %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// MustArgs is Args that panics on unsupported types. Intended for literals.
func MustArgs(values ...any) []Param {
	ps, err := Args(values...)
	if err != nil {
		panic(err)
	}
	return ps
}

func toParam(v any) (Param, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Param:
		return x, nil
	case int:
		return I64(int64(x)), nil
	case int8:
		return I64(int64(x)), nil
	case int16:
		return I64(int64(x)), nil
	case int32:
		return I64(int64(x)), nil
	case int64:
		return I64(x), nil
	case uint:
		return U64(uint64(x)), nil
	case uint8:
		return U64(uint64(x)), nil
	case uint16:
		return U64(uint64(x)), nil
	case uint32:
		return U64(uint64(x)), nil
	case uint64:
		return U64(x), nil
	case float32:
		return F32(x), nil
	case float64:
		return F64(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return Str(x), nil
	case *string:
		return OptStr(x), nil
	case []byte:
		return OptBin(x), nil
	case time.Time:
		return DateTime(x), nil
	case *time.Time:
		return OptDateTime(x), nil
	case uuid.UUID:
		return UUID(x), nil
	case *uuid.UUID:
		if x == nil {
			return Null(), nil
		}
		return UUID(*x), nil
	default:
		return Param{}, fmt.Errorf("unsupported type %T", v)
	}
}
