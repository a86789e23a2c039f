package mysql

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/and161185/wzs-web/internal/db"
)

// epoch replaces dates the driver cannot represent, such as 0000-00-00.
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// scanRows drains rows into port rows, closing nothing.
func scanRows(rows *sql.Rows, limit int) ([]*db.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	typeNames := make([]string, len(cols))
	for i, ct := range types {
		typeNames[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	var out []*db.Row
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		vals := make([]db.Value, len(cols))
		for i, v := range raw {
			vals[i] = decodeValue(typeNames[i], v)
		}
		out = append(out, db.NewRow(cols, vals))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

// decodeValue maps a scanned driver value to a port value. typeName is the
// upper-cased column type reported by the driver and may be empty.
func decodeValue(typeName string, v any) db.Value {
	unsigned := strings.HasPrefix(typeName, "UNSIGNED ")
	switch x := v.(type) {
	case nil:
		return db.Value{}
	case int64:
		if unsigned && x >= 0 {
			return db.Value{Kind: db.KindU64, U64: uint64(x)}
		}
		return db.Value{Kind: db.KindI64, I64: x}
	case uint64:
		return db.Value{Kind: db.KindU64, U64: x}
	case float32:
		return db.Value{Kind: db.KindF32, F32: x}
	case float64:
		if typeName == "FLOAT" {
			return db.Value{Kind: db.KindF32, F32: float32(x)}
		}
		return db.Value{Kind: db.KindF64, F64: x}
	case bool:
		return db.Value{Kind: db.KindBool, Bool: x}
	case time.Time:
		return dateTimeValue(x)
	case string:
		return decodeBytes(typeName, unsigned, []byte(x))
	case []byte:
		return decodeBytes(typeName, unsigned, x)
	default:
		return stringValue([]byte(fmt.Sprint(x)))
	}
}

func decodeBytes(typeName string, unsigned bool, b []byte) db.Value {
	base := strings.TrimPrefix(typeName, "UNSIGNED ")
	switch base {
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BIT", "GEOMETRY":
		return db.Value{Kind: db.KindBin, Bin: append([]byte{}, b...)}
	case "DATETIME", "TIMESTAMP", "DATE":
		return dateTimeValue(parseDateTime(string(b)))
	case "TIME":
		if s, ok := formatTime(string(b)); ok {
			return db.Value{Kind: db.KindString, Str: s}
		}
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR":
		if unsigned {
			if n, err := strconv.ParseUint(string(b), 10, 64); err == nil {
				return db.Value{Kind: db.KindU64, U64: n}
			}
		} else if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			return db.Value{Kind: db.KindI64, I64: n}
		}
	case "FLOAT":
		if f, err := strconv.ParseFloat(string(b), 32); err == nil {
			return db.Value{Kind: db.KindF32, F32: float32(f)}
		}
	case "DOUBLE":
		if f, err := strconv.ParseFloat(string(b), 64); err == nil {
			return db.Value{Kind: db.KindF64, F64: f}
		}
	}
	// DECIMAL, TEXT, JSON and unknown types stay textual.
	return stringValue(b)
}

func stringValue(b []byte) db.Value {
	s := string(b)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return db.Value{Kind: db.KindString, Str: s}
}

func dateTimeValue(t time.Time) db.Value {
	if t.IsZero() {
		t = epoch
	}
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	naive := time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
	return db.Value{Kind: db.KindDateTime, Time: naive}
}

func parseDateTime(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return epoch
}

// formatTime renders a MySQL TIME ("-838:59:59.000000") as "[-]DDD HH:MM:SS[.uuuuuu]".
func formatTime(s string) (string, bool) {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	clock, frac, _ := strings.Cut(s, ".")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return "", false
	}
	var hms [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return "", false
		}
		hms[i] = n
	}
	if hms[1] > 59 || hms[2] > 59 {
		return "", false
	}
	var micros uint64
	if frac != "" {
		if len(frac) > 6 {
			frac = frac[:6]
		}
		frac += strings.Repeat("0", 6-len(frac))
		n, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return "", false
		}
		micros = n
	}
	days, hours := hms[0]/24, hms[0]%24
	out := fmt.Sprintf("%s%03d %02d:%02d:%02d", sign, days, hours, hms[1], hms[2])
	if micros > 0 {
		out += fmt.Sprintf(".%06d", micros)
	}
	return out, true
}
