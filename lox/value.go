package lox

import "fmt"

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
)

// Value is an immutable tagged scalar. The zero Value is nil.
type Value struct {
	kind ValueKind
	data any
}

// KindError reports an accessor called on a value of the wrong kind.
type KindError struct {
	Want ValueKind
	Got  ValueKind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("value is %s, not %s", e.Got, e.Want)
}

func NewNil() Value             { return Value{kind: KindNil} }
func NewBool(b bool) Value      { return Value{kind: KindBool, data: b} }
func NewNumber(n float64) Value { return Value{kind: KindNumber, data: n} }
func NewString(s string) Value  { return Value{kind: KindString, data: s} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNil() bool     { return v.kind == KindNil }
func (v Value) IsBool() bool    { return v.kind == KindBool }
func (v Value) IsNumber() bool  { return v.kind == KindNumber }
func (v Value) IsString() bool  { return v.kind == KindString }

func (v Value) mustBe(k ValueKind) {
	if v.kind != k {
		panic(&KindError{Want: k, Got: v.kind})
	}
}

// AsBool returns the boolean payload. It panics with a *KindError when v is
// not a bool; callers check IsBool first.
func (v Value) AsBool() bool {
	v.mustBe(KindBool)
	return v.data.(bool)
}

// AsNumber returns the numeric payload, panicking if v is not a number.
func (v Value) AsNumber() float64 {
	v.mustBe(KindNumber)
	return v.data.(float64)
}

// AsString returns the string payload, panicking if v is not a string.
func (v Value) AsString() string {
	v.mustBe(KindString)
	return v.data.(string)
}
