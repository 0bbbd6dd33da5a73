package database

import (
	"fmt"
	"strings"
	"time"
)

// NativeType is an explicit driver-side type tag for a parameter. The zero
// value lets the driver infer the type from the Go value.
type NativeType int

const (
	TypeDefault NativeType = iota
	TypeBit
	TypeInt
	TypeBigInt
	TypeFloat
	TypeVarChar
	TypeNVarChar
	TypeDateTime
	TypeBinary
)

func (t NativeType) String() string {
	switch t {
	case TypeBit:
		return "bit"
	case TypeInt:
		return "int"
	case TypeBigInt:
		return "bigint"
	case TypeFloat:
		return "float"
	case TypeVarChar:
		return "varchar"
	case TypeNVarChar:
		return "nvarchar"
	case TypeDateTime:
		return "datetime"
	case TypeBinary:
		return "binary"
	default:
		return "default"
	}
}

// Param is one named input parameter. Values are restricted to a closed set
// of primitive kinds; anything else is rejected at bind time.
type Param struct {
	Name  string
	Value any
	Type  NativeType
}

// P builds a parameter with an inferred driver type.
func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// PT builds a parameter with an explicit driver type.
func PT(name string, value any, t NativeType) Param {
	return Param{Name: name, Value: value, Type: t}
}

// checkParams validates names and value kinds before any driver sees them.
// Go has no closed union types, so the supported set is enforced here with
// one exhaustive switch instead of being scattered across drivers.
func checkParams(params []Param) error {
	for i, p := range params {
		if p.Name == "" {
			return errInvalidInput(fmt.Sprintf("parameter %d has an empty name", i))
		}
		switch p.Value.(type) {
		case nil, bool,
			int, int32, int64,
			float32, float64,
			string, []byte,
			time.Time:
			// supported
		default:
			return errInvalidInput(fmt.Sprintf(
				"parameter %q has unsupported value type %T", p.Name, p.Value))
		}
	}
	return nil
}

// StripMarker removes a leading @ from a parameter name. Driver binding APIs
// reject the marker, so the return-value execution path normalizes names with
// it; every other path binds names verbatim.
func StripMarker(name string) string {
	return strings.TrimPrefix(name, "@")
}
