package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/wzs-web/internal/db"
)

func TestDecodeValue_Scalars(t *testing.T) {
	t.Parallel()

	require.Equal(t, db.Value{}, decodeValue("VARCHAR", nil))
	require.Equal(t, db.Value{Kind: db.KindI64, I64: -3}, decodeValue("BIGINT", int64(-3)))
	require.Equal(t, db.Value{Kind: db.KindU64, U64: 3}, decodeValue("UNSIGNED INT", int64(3)))
	require.Equal(t, db.Value{Kind: db.KindU64, U64: 1 << 63}, decodeValue("UNSIGNED BIGINT", uint64(1<<63)))
	require.Equal(t, db.Value{Kind: db.KindF32, F32: 1.5}, decodeValue("FLOAT", float32(1.5)))
	require.Equal(t, db.Value{Kind: db.KindF32, F32: 1.5}, decodeValue("FLOAT", float64(1.5)))
	require.Equal(t, db.Value{Kind: db.KindF64, F64: 2.25}, decodeValue("DOUBLE", 2.25))
	require.Equal(t, db.Value{Kind: db.KindBool, Bool: true}, decodeValue("", true))
}

func TestDecodeValue_TextProtocolNumbers(t *testing.T) {
	t.Parallel()

	require.Equal(t, db.Value{Kind: db.KindI64, I64: -12}, decodeValue("INT", []byte("-12")))
	require.Equal(t, db.Value{Kind: db.KindU64, U64: 18446744073709551615},
		decodeValue("UNSIGNED BIGINT", []byte("18446744073709551615")))
	require.Equal(t, db.Value{Kind: db.KindF64, F64: 0.125}, decodeValue("DOUBLE", []byte("0.125")))
	require.Equal(t, db.Value{Kind: db.KindString, Str: "12.340"}, decodeValue("DECIMAL", []byte("12.340")))
}

func TestDecodeValue_Bytes(t *testing.T) {
	t.Parallel()

	require.Equal(t, db.Value{Kind: db.KindString, Str: "héllo"}, decodeValue("TEXT", []byte("héllo")))
	require.Equal(t, db.Value{Kind: db.KindString, Str: "a�b"}, decodeValue("", []byte{'a', 0xff, 'b'}))
	require.Equal(t, db.Value{Kind: db.KindBin, Bin: []byte{0xff, 0x00}}, decodeValue("VARBINARY", []byte{0xff, 0x00}))
	require.Equal(t, db.Value{Kind: db.KindBin, Bin: []byte{1}}, decodeValue("BLOB", []byte{1}))

	src := []byte{1, 2}
	v := decodeValue("BINARY", src)
	src[0] = 9
	require.Equal(t, []byte{1, 2}, v.Bin, "binary values must be copied")
}

func TestDecodeValue_DateTimes(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 7, 9, 12, 34, 56, 123456000, time.UTC)
	require.Equal(t, db.Value{Kind: db.KindDateTime, Time: want},
		decodeValue("DATETIME", []byte("2024-07-09 12:34:56.123456")))
	require.Equal(t, db.Value{Kind: db.KindDateTime, Time: time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)},
		decodeValue("DATE", []byte("2024-07-09")))

	epochValue := db.Value{Kind: db.KindDateTime, Time: epoch}
	require.Equal(t, epochValue, decodeValue("DATETIME", []byte("0000-00-00 00:00:00")))
	require.Equal(t, epochValue, decodeValue("TIMESTAMP", []byte("garbage")))
	require.Equal(t, epochValue, decodeValue("DATETIME", time.Time{}))

	tokyo := time.FixedZone("JST", 9*3600)
	got := decodeValue("DATETIME", time.Date(2024, 1, 2, 3, 4, 5, 0, tokyo))
	require.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), got.Time, "wall clock is kept, zone dropped")
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"12:34:56":          "000 12:34:56",
		"-01:02:03":         "-000 01:02:03",
		"36:34:56.789012":   "001 12:34:56.789012",
		"-838:59:59":        "-034 22:59:59",
		"00:00:01.5":        "000 00:00:01.500000",
		"00:00:01.000000":   "000 00:00:01",
		"100:00:00.1234567": "004 04:00:00.123456",
	}
	for in, want := range cases {
		got, ok := formatTime(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "12:34", "aa:bb:cc", "12:61:00", "1:2:3.x"} {
		_, ok := formatTime(bad)
		require.False(t, ok, bad)
	}
	require.Equal(t, db.Value{Kind: db.KindString, Str: "001 00:00:00"}, decodeValue("TIME", []byte("24:00:00")))
}

func TestBindParams(t *testing.T) {
	t.Parallel()

	bin := []byte{1, 2}
	at := time.Date(2024, 7, 9, 12, 34, 56, 999_999_999, time.FixedZone("X", 3600))
	args := bindParams([]db.Param{
		db.I64(-1), db.U64(2), db.F32(0.5), db.F64(0.25), db.Bool(true), db.Bool(false),
		db.Str("s"), db.DateTime(at), db.Bin(bin), db.Null(),
	})
	require.Equal(t, []any{
		int64(-1), uint64(2), float32(0.5), 0.25, int64(1), int64(0),
		[]byte("s"), time.Date(2024, 7, 9, 11, 34, 56, 999_999_000, time.UTC), []byte{1, 2}, nil,
	}, args)

	bin[0] = 9
	require.Equal(t, []byte{1, 2}, args[8], "binary params must be copied")
}
