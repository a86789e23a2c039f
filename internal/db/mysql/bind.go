package mysql

import (
	"time"

	"github.com/and161185/wzs-web/internal/db"
)

// bindParams converts params to driver arguments, preserving order.
// Booleans become 0/1, strings become byte buffers, date-times are truncated
// to microseconds in UTC and binary slices are copied.
func bindParams(params []db.Param) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = bindParam(p)
	}
	return args
}

func bindParam(p db.Param) any {
	switch p.Kind {
	case db.KindI64:
		return p.I64
	case db.KindU64:
		return p.U64
	case db.KindF32:
		return p.F32
	case db.KindF64:
		return p.F64
	case db.KindBool:
		if p.Bool {
			return int64(1)
		}
		return int64(0)
	case db.KindString:
		return []byte(p.Str)
	case db.KindDateTime:
		return p.Time.UTC().Truncate(time.Microsecond)
	case db.KindBin:
		return append([]byte{}, p.Bin...)
	default:
		return nil
	}
}
