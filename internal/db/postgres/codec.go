package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/and161185/wzs-web/internal/db"
)

func bindParams(params []db.Param) []any {
	args := make([]any, len(params))
	for i, p := range params {
		switch p.Kind {
		case db.KindI64:
			args[i] = p.I64
		case db.KindU64:
			args[i] = p.U64
		case db.KindF32:
			args[i] = p.F32
		case db.KindF64:
			args[i] = p.F64
		case db.KindBool:
			args[i] = p.Bool
		case db.KindString:
			args[i] = p.Str
		case db.KindDateTime:
			args[i] = p.Time.UTC().Truncate(time.Microsecond)
		case db.KindBin:
			args[i] = append([]byte{}, p.Bin...)
		default:
			args[i] = nil
		}
	}
	return args
}

// decodeValue maps a value returned by pgx.Rows.Values. Types without a port
// variant (numeric, time of day, intervals) are rendered as text.
func decodeValue(v any) db.Value {
	switch x := v.(type) {
	case nil:
		return db.Value{}
	case int16:
		return db.Value{Kind: db.KindI64, I64: int64(x)}
	case int32:
		return db.Value{Kind: db.KindI64, I64: int64(x)}
	case int64:
		return db.Value{Kind: db.KindI64, I64: x}
	case uint32:
		return db.Value{Kind: db.KindU64, U64: uint64(x)}
	case uint64:
		return db.Value{Kind: db.KindU64, U64: x}
	case float32:
		return db.Value{Kind: db.KindF32, F32: x}
	case float64:
		return db.Value{Kind: db.KindF64, F64: x}
	case bool:
		return db.Value{Kind: db.KindBool, Bool: x}
	case string:
		return db.Value{Kind: db.KindString, Str: x}
	case time.Time:
		u := x.UTC()
		return db.Value{Kind: db.KindDateTime, Time: u}
	case []byte:
		return db.Value{Kind: db.KindBin, Bin: append([]byte{}, x...)}
	case [16]byte:
		return db.Value{Kind: db.KindBin, Bin: append([]byte{}, x[:]...)}
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return db.Value{Kind: db.KindString, Str: fmt.Sprint(x)}
		}
		if _, again := dv.(driver.Valuer); again {
			return db.Value{Kind: db.KindString, Str: fmt.Sprint(dv)}
		}
		return decodeValue(dv)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return db.Value{Kind: db.KindString, Str: fmt.Sprint(x)}
		}
		return db.Value{Kind: db.KindString, Str: string(b)}
	default:
		return db.Value{Kind: db.KindString, Str: fmt.Sprint(x)}
	}
}
