package tuple

import (
	"fmt"
	"strings"
)

// Kind is the declared or observed category of a column value.
type Kind uint8

const (
	// KindNull marks an absent value. As a column kind it means "untyped".
	KindNull Kind = iota
	// KindText is a UTF-8 string.
	KindText
	// KindInteger is a signed 64-bit integer.
	KindInteger
	// KindFloat is a 64-bit floating point number.
	KindFloat
	// KindDecimal is an arbitrary precision decimal number.
	KindDecimal
	// KindBool is a boolean.
	KindBool
	// KindTime is a timestamp.
	KindTime
	// KindBytes is a raw byte string (blobs).
	KindBytes
	// KindOpaque is a host value with no intrinsic ordering.
	KindOpaque
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindText:    "text",
	KindInteger: "integer",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindBool:    "bool",
	KindTime:    "time",
	KindBytes:   "bytes",
	KindOpaque:  "opaque",
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Numeric reports whether values of this kind are numbers.
func (k Kind) Numeric() bool {
	return k == KindInteger || k == KindFloat || k == KindDecimal
}

// Ordered reports whether values of this kind have an intrinsic ordering.
func (k Kind) Ordered() bool {
	return k != KindOpaque
}

// ParseKind maps a configuration name (and a few common aliases) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "string", "str":
		return KindText, nil
	case "integer", "int", "long":
		return KindInteger, nil
	case "float", "double", "real":
		return KindFloat, nil
	case "decimal", "numeric", "number":
		return KindDecimal, nil
	case "bool", "boolean":
		return KindBool, nil
	case "time", "timestamp", "datetime", "date":
		return KindTime, nil
	case "bytes", "blob", "binary":
		return KindBytes, nil
	case "opaque", "any":
		return KindOpaque, nil
	case "null", "":
		return KindNull, nil
	}
	return KindNull, fmt.Errorf("unknown value kind %q", name)
}

var integerTypes = map[string]bool{
	"int": true, "integer": true, "tinyint": true, "smallint": true, "mediumint": true, "bigint": true,
	"int2": true, "int4": true, "int8": true, "serial": true, "smallserial": true, "bigserial": true,
	"year": true,
}

// KindFromDatabaseType maps a SQL column type as reported by the database
// (e.g. "int(11)", "varchar(255)", "NUMERIC", "timestamp with time zone") to a Kind.
// Unknown types map to KindOpaque.
func KindFromDatabaseType(dbType string) Kind {
	t := strings.ToLower(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimSpace(strings.TrimSuffix(t, " unsigned"))

	switch {
	case t == "":
		return KindNull
	case t == "bool" || t == "boolean" || t == "bit":
		return KindBool
	case integerTypes[t]:
		return KindInteger
	case t == "decimal" || t == "numeric" || t == "money" || t == "number":
		return KindDecimal
	case t == "float" || t == "double" || t == "real" || t == "double precision" ||
		t == "float4" || t == "float8":
		return KindFloat
	case strings.HasPrefix(t, "timestamp") || strings.HasPrefix(t, "datetime") ||
		t == "date" || strings.HasPrefix(t, "time"):
		return KindTime
	case strings.Contains(t, "char") || strings.HasSuffix(t, "text") || t == "enum" || t == "set" ||
		t == "uuid" || t == "json" || t == "jsonb" || t == "string" || t == "clob" || t == "xml":
		return KindText
	case strings.Contains(t, "blob") || strings.Contains(t, "binary") || t == "bytea" || t == "raw":
		return KindBytes
	}
	return KindOpaque
}
