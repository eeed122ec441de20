package schema

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Value is a typed cell value.
type Value struct {
	Type ColumnType
	Null bool
	Int  int64
	Real float64
	Text string
	Blob []byte
}

// IntValue returns an INTEGER value.
func IntValue(v int64) Value { return Value{Type: TypeInteger, Int: v} }

// RealValue returns a REAL value.
func RealValue(v float64) Value { return Value{Type: TypeReal, Real: v} }

// TextValue returns a TEXT value.
func TextValue(v string) Value { return Value{Type: TypeText, Text: v} }

// BlobValue returns a BLOB value.
func BlobValue(v []byte) Value { return Value{Type: TypeBlob, Blob: v} }

// NullValue returns a NULL of the given column type.
func NullValue(t ColumnType) Value { return Value{Type: t, Null: true} }

// Clone copies the value.
func (v Value) Clone() Value {
	if v.Blob != nil {
		v.Blob = append([]byte(nil), v.Blob...)
	}
	return v
}

// Compare orders two non-NULL values of the same type with SQLite's rules:
// numeric for INTEGER and REAL, memcmp for TEXT (BINARY collation) and BLOB.
// ok is false when either side is NULL or the types differ.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.Null || b.Null || a.Type != b.Type {
		return 0, false
	}
	switch a.Type {
	case TypeInteger:
		switch {
		case a.Int < b.Int:
			return -1, true
		case a.Int > b.Int:
			return 1, true
		}
		return 0, true
	case TypeReal:
		switch {
		case a.Real < b.Real:
			return -1, true
		case a.Real > b.Real:
			return 1, true
		}
		return 0, true
	case TypeText:
		return strings.Compare(a.Text, b.Text), true
	case TypeBlob:
		return bytes.Compare(a.Blob, b.Blob), true
	}
	return 0, false
}

// Equal reports whether two values are identical, NULLs included.
func Equal(a, b Value) bool {
	if a.Null || b.Null {
		return a.Null == b.Null && a.Type == b.Type
	}
	cmp, ok := Compare(a, b)
	return ok && cmp == 0
}

// Add returns a+b for numeric values of one type.
func Add(a, b Value) (Value, bool) {
	if a.Null || b.Null || a.Type != b.Type {
		return Value{}, false
	}
	switch a.Type {
	case TypeInteger:
		return IntValue(a.Int + b.Int), true
	case TypeReal:
		return RealValue(a.Real + b.Real), true
	}
	return Value{}, false
}

// SQLLiteral renders the value as a SQL literal.
func (v Value) SQLLiteral() string {
	if v.Null {
		return "NULL"
	}
	switch v.Type {
	case TypeInteger:
		return strconv.FormatInt(v.Int, 10)
	case TypeReal:
		return formatReal(v.Real)
	case TypeText:
		return "'" + strings.ReplaceAll(v.Text, "'", "''") + "'"
	case TypeBlob:
		return "X'" + strings.ToUpper(hex.EncodeToString(v.Blob)) + "'"
	}
	return "NULL"
}

// String renders a type-tagged signature used to compare result sets.
func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	switch v.Type {
	case TypeInteger:
		return "i:" + strconv.FormatInt(v.Int, 10)
	case TypeReal:
		return "r:" + strconv.FormatFloat(v.Real, 'g', -1, 64)
	case TypeText:
		return "t:" + strconv.Quote(v.Text)
	case TypeBlob:
		return "b:" + hex.EncodeToString(v.Blob)
	}
	return "?"
}

// formatReal keeps a decimal point or exponent so the engine reads the
// literal back as REAL.
func formatReal(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "NULL"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FromEngine converts a driver value scanned from a column of type t.
func FromEngine(t ColumnType, raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NullValue(t), nil
	case int64:
		if t == TypeReal {
			return RealValue(float64(v)), nil
		}
		return IntValue(v), nil
	case int:
		return FromEngine(t, int64(v))
	case float64:
		return RealValue(v), nil
	case string:
		if t == TypeBlob {
			return BlobValue([]byte(v)), nil
		}
		return TextValue(v), nil
	case []byte:
		if t == TypeBlob {
			return BlobValue(append([]byte(nil), v...)), nil
		}
		if t == TypeInteger || t == TypeReal {
			return parseNumeric(t, string(v))
		}
		return TextValue(string(v)), nil
	default:
		return Value{}, errors.Errorf("unsupported driver value %T", raw)
	}
}

// parseNumeric handles drivers that return numbers as text (go-sql-driver/mysql).
func parseNumeric(t ColumnType, s string) (Value, error) {
	if t == TypeInteger {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, errors.Wrapf(err, "decode %s value %q", t, s)
		}
		return IntValue(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, errors.Wrapf(err, "decode %s value %q", t, s)
	}
	return RealValue(f), nil
}
