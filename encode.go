// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/ikmak/bson/bsontype"
	"github.com/ikmak/bson/objectid"
	"github.com/ikmak/bson/primitive"
	"github.com/pkg/errors"
)

// EncodeHook converts a value the encoder has no mapping for into one it
// does. It is invoked as the last resort for a value; the result re-enters
// the standard mapping rules once.
type EncodeHook func(v interface{}) (interface{}, error)

// Encodable is the interface implemented by types that can convert
// themselves into a value the encoder understands. It is consulted by the
// default encode hook.
type Encodable interface {
	EncodeBSON() (interface{}, error)
}

// DefaultEncodeHook is the EncodeHook used when none is provided. It
// delegates to the value's Encodable implementation.
func DefaultEncodeHook(v interface{}) (interface{}, error) {
	if enc, ok := v.(Encodable); ok {
		return enc.EncodeBSON()
	}
	return nil, errors.Errorf("%T does not implement bson.Encodable", v)
}

// An Encoder converts host values into BSON bytes.
type Encoder struct {
	hook EncodeHook
}

// NewEncoder returns an Encoder that consults hook for values without a
// standard mapping. A nil hook selects DefaultEncodeHook.
func NewEncoder(hook EncodeHook) *Encoder {
	if hook == nil {
		hook = DefaultEncodeHook
	}
	return &Encoder{hook: hook}
}

// Encode converts v into a fully framed BSON document. The top-level value
// must map to a document; any other mapping is an UnsupportedTypeError. No
// bytes are produced unless the entire conversion succeeds.
func (e *Encoder) Encode(v interface{}) ([]byte, error) {
	s := &encodeState{hook: e.hook}
	val, err := s.value(v, false)
	if err != nil {
		return nil, err
	}
	if val.Type() != bsontype.EmbeddedDocument {
		return nil, UnsupportedTypeError{Value: v, Err: errors.New("top-level value must encode as a document")}
	}
	d := val.Document()
	w := newDocWriter(docByteLength(d))
	if err := encodeDoc(w, d); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

// encodeState tracks the objects currently being traversed. Cycles are
// detected by reference identity, not value equality, so two equal but
// distinct maps may each be visited.
type encodeState struct {
	hook  EncodeHook
	stack []uintptr
}

// push records p as in progress. It fails with ErrCyclicValue if p is
// already on the stack.
func (s *encodeState) push(p uintptr) error {
	for _, q := range s.stack {
		if q == p {
			return ErrCyclicValue
		}
	}
	s.stack = append(s.stack, p)
	return nil
}

func (s *encodeState) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// value maps a single host value to a Val. hooked is true when o is the
// result of an EncodeHook invocation; a hooked value that again has no
// standard mapping is rejected rather than hooked a second time.
func (s *encodeState) value(o interface{}, hooked bool) (Val, error) {
	switch t := o.(type) {
	case nil:
		return Null(), nil
	case Val:
		return t, nil
	case Doc:
		return Document(t), nil
	case *Doc:
		if t == nil {
			return Null(), nil
		}
		return Document(*t), nil
	case Arr:
		return Array(t), nil
	case D:
		return s.orderedDocument(t)
	case A:
		if t == nil {
			return Null(), nil
		}
		return s.slice(reflect.ValueOf(t))
	case []interface{}:
		if t == nil {
			return Null(), nil
		}
		return s.slice(reflect.ValueOf(t))
	case map[string]interface{}:
		if t == nil {
			return Null(), nil
		}
		return s.stringMap(t)
	case bool:
		return Boolean(t), nil
	case int:
		return intValue(int64(t)), nil
	case int8:
		return Int32(int32(t)), nil
	case int16:
		return Int32(int32(t)), nil
	case int32:
		return Int32(t), nil
	case int64:
		return intValue(t), nil
	case uint8:
		return Int32(int32(t)), nil
	case uint16:
		return Int32(int32(t)), nil
	case uint32:
		return intValue(int64(t)), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Val{}, ErrIntegerOverflow
		}
		return intValue(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Val{}, ErrIntegerOverflow
		}
		return intValue(int64(t)), nil
	case float32:
		return Double(float64(t)), nil
	case float64:
		return Double(t), nil
	case string:
		return String(t), nil
	case time.Time:
		return Time(t), nil
	case objectid.ObjectID:
		return ObjectID(t), nil
	case []byte:
		return Binary(t), nil
	case primitive.Binary:
		return BinaryWithSubtype(t.Data, t.Subtype), nil
	case primitive.Undefined:
		return Undefined(), nil
	case primitive.Null:
		return Null(), nil
	case primitive.Regex:
		return Regex(t.Pattern, t.Options), nil
	case primitive.DBPointer:
		return DBPointer(t.DB, t.Pointer), nil
	case primitive.JavaScript:
		return JavaScript(string(t)), nil
	case primitive.Symbol:
		return Symbol(string(t)), nil
	case primitive.Timestamp:
		return Timestamp(t.T, t.I), nil
	case primitive.MinKey:
		return MinKey(), nil
	case primitive.MaxKey:
		return MaxKey(), nil
	}

	return s.reflectValue(o, hooked)
}

// reflectValue handles host values without a direct mapping: other slice,
// array, map, and pointer types, and finally the encode hook.
func (s *encodeState) reflectValue(o interface{}, hooked bool) (Val, error) {
	rv := reflect.ValueOf(o)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		return s.slice(rv)
	case reflect.Array:
		return s.array(rv)
	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return Val{}, UnsupportedTypeError{Value: o, Err: errors.Errorf("map key type %s is not a string", rv.Type().Key())}
		}
		return s.reflectMap(rv)
	case reflect.Ptr:
		if rv.IsNil() {
			return Null(), nil
		}
		if err := s.push(rv.Pointer()); err != nil {
			return Val{}, UnsupportedTypeError{Value: o, Err: err}
		}
		defer s.pop()
		return s.hookOrElem(rv, o, hooked)
	}
	return s.hookValue(o, hooked)
}

// hookOrElem encodes the pointee through the full mapping rules, including
// the hook applied to the pointee. Only when that fails with an
// UnsupportedTypeError is the hook consulted again with the original pointer
// value.
func (s *encodeState) hookOrElem(rv reflect.Value, o interface{}, hooked bool) (Val, error) {
	elem := rv.Elem().Interface()
	v, err := s.value(elem, hooked)
	if err == nil {
		return v, nil
	}
	if _, ok := err.(UnsupportedTypeError); !ok {
		return Val{}, err
	}
	return s.hookValue(o, hooked)
}

func (s *encodeState) hookValue(o interface{}, hooked bool) (Val, error) {
	if hooked {
		return Val{}, UnsupportedTypeError{Value: o}
	}
	res, err := s.hook(o)
	if err != nil {
		return Val{}, UnsupportedTypeError{Value: o, Err: err}
	}
	v, err := s.value(res, true)
	if err != nil {
		return Val{}, UnsupportedTypeError{Value: o, Err: err}
	}
	return v, nil
}

// orderedDocument encodes a D, preserving element order.
func (s *encodeState) orderedDocument(d D) (Val, error) {
	if d == nil {
		return Document(Doc{}), nil
	}
	if err := s.push(reflect.ValueOf(d).Pointer()); err != nil {
		return Val{}, UnsupportedTypeError{Value: d, Err: err}
	}
	defer s.pop()
	out := make(Doc, 0, len(d))
	for _, e := range d {
		v, err := s.value(e.Value, false)
		if err != nil {
			return Val{}, err
		}
		out = append(out, Elem{Key: e.Key, Value: v})
	}
	return Document(out), nil
}

// stringMap encodes a map[string]interface{}. Go maps have no iteration
// order, so keys are emitted sorted to keep the encoding deterministic.
func (s *encodeState) stringMap(m map[string]interface{}) (Val, error) {
	if err := s.push(reflect.ValueOf(m).Pointer()); err != nil {
		return Val{}, UnsupportedTypeError{Value: m, Err: err}
	}
	defer s.pop()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Doc, 0, len(m))
	for _, k := range keys {
		v, err := s.value(m[k], false)
		if err != nil {
			return Val{}, err
		}
		out = append(out, Elem{Key: k, Value: v})
	}
	return Document(out), nil
}

// reflectMap encodes an arbitrary string-keyed map with sorted keys.
func (s *encodeState) reflectMap(rv reflect.Value) (Val, error) {
	if err := s.push(rv.Pointer()); err != nil {
		return Val{}, UnsupportedTypeError{Value: rv.Interface(), Err: err}
	}
	defer s.pop()
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	out := make(Doc, 0, len(keys))
	for _, k := range keys {
		v, err := s.value(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface(), false)
		if err != nil {
			return Val{}, err
		}
		out = append(out, Elem{Key: k, Value: v})
	}
	return Document(out), nil
}

// slice encodes a non-nil slice value as a BSON array.
func (s *encodeState) slice(rv reflect.Value) (Val, error) {
	if err := s.push(rv.Pointer()); err != nil {
		return Val{}, UnsupportedTypeError{Value: rv.Interface(), Err: err}
	}
	defer s.pop()
	return s.sequence(rv)
}

// array encodes a fixed-size Go array as a BSON array. Arrays are values,
// so they cannot participate in a cycle and are not pushed on the stack.
func (s *encodeState) array(rv reflect.Value) (Val, error) {
	return s.sequence(rv)
}

func (s *encodeState) sequence(rv reflect.Value) (Val, error) {
	out := make(Arr, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := s.value(rv.Index(i).Interface(), false)
		if err != nil {
			return Val{}, err
		}
		out = append(out, v)
	}
	return Array(out), nil
}

// intValue selects the narrowest BSON integer type that fits i.
func intValue(i int64) Val {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return Int32(int32(i))
	}
	return Int64(i)
}
