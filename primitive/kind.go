package primitive

import (
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies value-like types: the types a member tree shows as a
// single terminal value instead of expanding into members.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (not value-like) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUintptr
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
	KindBool
	KindString
	KindTime
	KindDuration
	KindUUID
	KindBigInt
	KindBigFloat
	KindBigRat
	KindPrimitiveEnum // named type over any basic kind: integer, float, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64, KindUintptr,
		KindFloat32, KindFloat64, KindComplex64, KindComplex128,
		KindBigInt, KindBigFloat, KindBigRat:
		return true
	}
}

func (k KindEnum) IsText() bool {
	switch k {
	default:
		return false
	case KindString, KindUUID:
		return true
	}
}

func (k KindEnum) IsTemporal() bool {
	switch k {
	default:
		return false
	case KindTime, KindDuration:
		return true
	}
}

var (
	typeTime     = reflect.TypeOf(time.Time{})
	typeDuration = reflect.TypeOf(time.Duration(0))
	typeUUID     = reflect.TypeOf(uuid.UUID{})
	typeBigInt   = reflect.TypeOf(big.Int{})
	typeBigFloat = reflect.TypeOf(big.Float{})
	typeBigRat   = reflect.TypeOf(big.Rat{})
)

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	// check if true primitive type
	switch rtype {
	case reflect.TypeOf(int(0)):
		return KindInt
	case reflect.TypeOf(int8(0)):
		return KindInt8
	case reflect.TypeOf(int16(0)):
		return KindInt16
	case reflect.TypeOf(int32(0)):
		return KindInt32
	case reflect.TypeOf(int64(0)):
		return KindInt64
	case reflect.TypeOf(uint(0)):
		return KindUint
	case reflect.TypeOf(uint8(0)):
		return KindUint8
	case reflect.TypeOf(uint16(0)):
		return KindUint16
	case reflect.TypeOf(uint32(0)):
		return KindUint32
	case reflect.TypeOf(uint64(0)):
		return KindUint64
	case reflect.TypeOf(uintptr(0)):
		return KindUintptr
	case reflect.TypeOf(float32(0)):
		return KindFloat32
	case reflect.TypeOf(float64(0)):
		return KindFloat64
	case reflect.TypeOf(complex64(0)):
		return KindComplex64
	case reflect.TypeOf(complex128(0)):
		return KindComplex128
	case reflect.TypeOf(false):
		return KindBool
	case reflect.TypeOf(""):
		return KindString
	case typeTime:
		return KindTime
	case typeDuration:
		return KindDuration
	case typeUUID:
		return KindUUID
	case typeBigInt:
		return KindBigInt
	case typeBigFloat:
		return KindBigFloat
	case typeBigRat:
		return KindBigRat
	}

	// check if it's a primitive enum type
	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Bool, reflect.String:
		return KindPrimitiveEnum
	}
}
