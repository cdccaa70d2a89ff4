package tuple

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"reconciler/core/utils"

	"github.com/shopspring/decimal"
)

// Value is one immutable column value. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    []byte
	t    time.Time
	d    decimal.Decimal
	o    any
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Decimal returns an exact decimal value.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, d: d} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Time returns a timestamp value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Bytes returns a byte string value. The slice is copied.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, b: bytes.Clone(b)}
}

// Opaque wraps a host value that has no intrinsic ordering.
func Opaque(o any) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindOpaque, o: o}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload. It is only meaningful for KindInteger.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. It is only meaningful for KindFloat.
func (v Value) Float() float64 { return v.f }

// Decimal returns the decimal payload. It is only meaningful for KindDecimal.
func (v Value) Decimal() decimal.Decimal { return v.d }

// Text returns the string payload. It is only meaningful for KindText.
func (v Value) Text() string { return v.s }

// Bool returns the boolean payload. It is only meaningful for KindBool.
func (v Value) Bool() bool { return v.i != 0 }

// Time returns the timestamp payload. It is only meaningful for KindTime.
func (v Value) Time() time.Time { return v.t }

// Bytes returns the byte payload. It is only meaningful for KindBytes.
// The returned slice must not be modified.
func (v Value) Bytes() []byte { return v.b }

// Opaque returns the wrapped host value. It is only meaningful for KindOpaque.
func (v Value) Opaque() any { return v.o }

// Number returns the value as an exact decimal if it is numeric.
// NaN and infinite floats are not representable and report false.
func (v Value) Number() (decimal.Decimal, bool) {
	switch v.kind {
	case KindInteger:
		return decimal.NewFromInt(v.i), true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v.f), true
	case KindDecimal:
		return v.d, true
	}
	return decimal.Decimal{}, false
}

// Interface returns the payload as a plain Go value (nil for Null).
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.s
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindDecimal:
		return v.d
	case KindBool:
		return v.Bool()
	case KindTime:
		return v.t
	case KindBytes:
		return v.b
	case KindOpaque:
		return v.o
	}
	return nil
}

// String renders the value for reports. Null renders as an empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		return v.d.String()
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindBytes:
		return hex.EncodeToString(v.b)
	case KindOpaque:
		return fmt.Sprintf("%v", v.o)
	}
	return ""
}

// ValueOf converts a Go value into a Value by type switch.
// Types outside the supported categories become opaque values.
func ValueOf(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return Text(x)
	case []byte:
		return Bytes(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case decimal.Decimal:
		return Decimal(x)
	case *decimal.Decimal:
		if x == nil {
			return Null()
		}
		return Decimal(*x)
	case time.Time:
		return Time(x)
	case *time.Time:
		if x == nil {
			return Null()
		}
		return Time(*x)
	case *string:
		if x == nil {
			return Null()
		}
		return Text(*x)
	case *int64:
		if x == nil {
			return Null()
		}
		return Int(*x)
	case *float64:
		if x == nil {
			return Null()
		}
		return Float(*x)
	case *bool:
		if x == nil {
			return Null()
		}
		return Bool(*x)
	}
	return Opaque(raw)
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Decimal(decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0))
	}
	return Int(int64(u))
}

// Coerce converts a raw driver or file value into a Value of the given kind.
// A nil raw value, and an empty string for any kind other than text, yields Null.
// KindNull leaves the conversion to ValueOf.
func Coerce(kind Kind, raw any) (Value, error) {
	if raw == nil {
		return Null(), nil
	}
	if v, ok := raw.(Value); ok {
		if v.kind == kind || v.IsNull() {
			return v, nil
		}
		raw = v.Interface()
	}
	if kind != KindText && kind != KindBytes && isBlank(raw) {
		return Null(), nil
	}

	switch kind {
	case KindNull:
		return ValueOf(raw), nil
	case KindText:
		return Text(utils.ToString(raw)), nil
	case KindInteger:
		i, err := utils.ToInt64(raw)
		if err != nil {
			return Null(), err
		}
		return Int(i), nil
	case KindFloat:
		f, err := utils.ToFloat64(raw)
		if err != nil {
			return Null(), err
		}
		return Float(f), nil
	case KindDecimal:
		d, err := toDecimal(raw)
		if err != nil {
			return Null(), err
		}
		return Decimal(d), nil
	case KindBool:
		b, err := utils.ToBool(raw)
		if err != nil {
			return Null(), err
		}
		return Bool(b), nil
	case KindTime:
		t, err := utils.ToTime(raw)
		if err != nil {
			return Null(), err
		}
		return Time(t), nil
	case KindBytes:
		switch x := raw.(type) {
		case []byte:
			return Bytes(x), nil
		case string:
			return Bytes([]byte(x)), nil
		}
		return Null(), fmt.Errorf("cannot convert %T to bytes", raw)
	case KindOpaque:
		return Opaque(raw), nil
	}
	return Null(), fmt.Errorf("unsupported kind %s", kind)
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch x := raw.(type) {
	case decimal.Decimal:
		return x, nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	case []byte:
		return decimal.NewFromString(strings.TrimSpace(string(x)))
	case float32:
		return decimal.NewFromFloat32(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, fmt.Errorf("cannot convert %v to decimal", x)
		}
		return decimal.NewFromFloat(x), nil
	}
	i, err := utils.ToInt64(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot convert %T to decimal", raw)
	}
	return decimal.NewFromInt(i), nil
}

func isBlank(raw any) bool {
	switch x := raw.(type) {
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return len(bytes.TrimSpace(x)) == 0
	}
	return false
}
