package jsonvalue

import (
	"strconv"
	"strings"
)

// CoerceString reads a string, accepting a number in its literal form.
func (v Value) CoerceString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return v.num.String(), true
	}
	return "", false
}

// CoerceInt reads an integer, accepting a string holding a base-10 integer.
func (v Value) CoerceInt() (int, bool) {
	if i, ok := v.AsInt(); ok {
		return i, true
	}
	if v.kind != KindString {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v.str))
	if err != nil {
		return 0, false
	}
	return i, true
}

// LooseString returns a pointer to the coerced string member key, or nil.
func (v Value) LooseString(key string) *string {
	member, ok := v.Get(key)
	if !ok {
		return nil
	}
	s, ok := member.CoerceString()
	if !ok {
		return nil
	}
	return &s
}

// LooseInt returns a pointer to the coerced integer member key, or nil.
func (v Value) LooseInt(key string) *int {
	member, ok := v.Get(key)
	if !ok {
		return nil
	}
	i, ok := member.CoerceInt()
	if !ok {
		return nil
	}
	return &i
}

// LooseObject returns a pointer to member key when it is an object, or nil.
func (v Value) LooseObject(key string) *Value {
	member, ok := v.Get(key)
	if !ok || member.kind != KindObject {
		return nil
	}
	return &member
}
