package memsource

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"reconciler/core/tuple"

	"github.com/shopspring/decimal"
)

// TagName is the struct tag read by FromStructs.
const TagName = "recon"

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	bytesType   = reflect.TypeOf([]byte(nil))
)

type field struct {
	index  []int
	column tuple.Column
}

// FromStructs creates a stream over items, a slice of structs or struct pointers.
// Nil pointers in the slice are skipped.
func FromStructs(items any, opts ...Option) (*Stream, error) {
	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected a slice of structs, got %T", items)
	}

	elem := v.Type().Elem()
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	schema, fields, err := structSchema(elem)
	if err != nil {
		return nil, err
	}

	rows := make([]*tuple.Tuple, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		if item.Kind() == reflect.Ptr {
			if item.IsNil() {
				continue
			}
			item = item.Elem()
		}
		values := make([]tuple.Value, len(fields))
		for j, f := range fields {
			val, err := tuple.Coerce(f.column.Kind, fieldValue(item.FieldByIndex(f.index)))
			if err != nil {
				return nil, fmt.Errorf("item %d field %s: %w", i, f.column.Name, err)
			}
			values[j] = val
		}
		t, err := tuple.New(schema, values)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		rows = append(rows, t)
	}

	return NewTuples(schema, rows, opts...), nil
}

// SchemaOf derives the schema FromStructs would use for struct type t.
func SchemaOf(t reflect.Type) (*tuple.Schema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	schema, _, err := structSchema(t)
	return schema, err
}

func structSchema(t reflect.Type) (*tuple.Schema, []field, error) {
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("expected a struct type, got %s", t)
	}

	var (
		cols   []tuple.Column
		fields []field
	)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		label := sf.Name
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				label = name
			}
		}
		col := tuple.NewStrongColumn(label, kindOf(sf.Type))
		cols = append(cols, col)
		fields = append(fields, field{index: sf.Index, column: col})
	}
	if len(cols) == 0 {
		return nil, nil, errors.New("struct has no exported fields")
	}

	schema, err := tuple.NewSchema(cols...)
	if err != nil {
		return nil, nil, err
	}
	return schema, fields, nil
}

func kindOf(t reflect.Type) tuple.Kind {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return tuple.KindTime
	case decimalType:
		return tuple.KindDecimal
	case bytesType:
		return tuple.KindBytes
	}
	switch t.Kind() {
	case reflect.String:
		return tuple.KindText
	case reflect.Bool:
		return tuple.KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return tuple.KindInteger
	case reflect.Uint64:
		return tuple.KindDecimal
	case reflect.Float32, reflect.Float64:
		return tuple.KindFloat
	}
	return tuple.KindOpaque
}

// fieldValue unwraps pointers; a nil pointer becomes nil.
func fieldValue(v reflect.Value) any {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
