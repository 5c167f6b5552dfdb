// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikmak/bson/objectid"
	"github.com/ikmak/bson/primitive"
)

func TestEncodeIntegerWidths(t *testing.T) {
	testCases := []struct {
		name string
		in   interface{}
		want Val
	}{
		{"small int", int(42), Int32(42)},
		{"negative int", int(-42), Int32(-42)},
		{"max int32", int64(math.MaxInt32), Int32(math.MaxInt32)},
		{"min int32", int64(math.MinInt32), Int32(math.MinInt32)},
		{"max int32 plus one", int64(math.MaxInt32) + 1, Int64(int64(math.MaxInt32) + 1)},
		{"min int32 minus one", int64(math.MinInt32) - 1, Int64(int64(math.MinInt32) - 1)},
		{"max int64", int64(math.MaxInt64), Int64(math.MaxInt64)},
		{"uint32 above int32", uint32(math.MaxUint32), Int64(math.MaxUint32)},
		{"uint8", uint8(7), Int32(7)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Marshal(D{{"v", tc.in}})
			require.NoError(t, err)
			doc, err := ReadDoc(data)
			require.NoError(t, err)
			got, err := doc.Lookup("v")
			require.NoError(t, err)
			require.True(t, got.Equal(tc.want), "got %v (%s), want %s", got, got.Type(), tc.want.Type())
		})
	}
}

func TestEncodeIntegerOverflow(t *testing.T) {
	_, err := Marshal(D{{"v", uint64(math.MaxInt64) + 1}})
	require.Error(t, err)
	require.Equal(t, ErrIntegerOverflow, errors.Cause(err))
}

func TestEncodeScalars(t *testing.T) {
	oid := objectid.New()
	now := time.Date(2018, 5, 30, 15, 4, 5, 123000000, time.UTC)

	data, err := Marshal(D{
		{"f64", 3.14},
		{"f32", float32(2.5)},
		{"bool", true},
		{"nil", nil},
		{"str", "hello"},
		{"time", now},
		{"oid", oid},
		{"bytes", []byte{0xDE, 0xAD}},
		{"js", primitive.JavaScript("return 1")},
		{"regex", primitive.Regex{Pattern: "^a", Options: "i"}},
		{"ts", primitive.Timestamp{T: 1, I: 2}},
		{"min", primitive.MinKey{}},
		{"max", primitive.MaxKey{}},
	})
	require.NoError(t, err)

	doc, err := ReadDoc(data)
	require.NoError(t, err)
	want := Doc{
		{"f64", Double(3.14)},
		{"f32", Double(2.5)},
		{"bool", Boolean(true)},
		{"nil", Null()},
		{"str", String("hello")},
		{"time", Time(now)},
		{"oid", ObjectID(oid)},
		{"bytes", Binary([]byte{0xDE, 0xAD})},
		{"js", JavaScript("return 1")},
		{"regex", Regex("^a", "i")},
		{"ts", Timestamp(1, 2)},
		{"min", MinKey()},
		{"max", MaxKey()},
	}
	require.True(t, doc.Equal(want), "decoded document differs from expected")
}

func TestEncodeTopLevelMustBeDocument(t *testing.T) {
	for _, v := range []interface{}{42, "string", true, A{1, 2}, []string{"a"}} {
		_, err := Marshal(v)
		require.Error(t, err, "top-level %T should be rejected", v)
		_, ok := err.(UnsupportedTypeError)
		require.True(t, ok, "expected UnsupportedTypeError, got %T", err)
	}
}

func TestEncodeNestedContainers(t *testing.T) {
	data, err := Marshal(D{
		{"seq", []string{"a", "b"}},
		{"mixed", A{int32(1), "two", 3.0}},
		{"doc", D{{"inner", int32(1)}}},
		{"map", map[string]interface{}{"b": int32(2), "a": int32(1)}},
	})
	require.NoError(t, err)

	doc, err := ReadDoc(data)
	require.NoError(t, err)
	want := Doc{
		{"seq", Array(Arr{String("a"), String("b")})},
		{"mixed", Array(Arr{Int32(1), String("two"), Double(3.0)})},
		{"doc", Document(Doc{{"inner", Int32(1)}})},
		// Map keys are emitted in sorted order.
		{"map", Document(Doc{{"a", Int32(1)}, {"b", Int32(2)}})},
	}
	require.True(t, doc.Equal(want), "decoded document differs from expected")
}

func TestEncodeNonStringMapKeys(t *testing.T) {
	_, err := Marshal(D{{"m", map[int]interface{}{1: "a"}}})
	require.Error(t, err)
}

func TestEncodeCycles(t *testing.T) {
	t.Run("SelfReferentialSlice", func(t *testing.T) {
		a := make(A, 1)
		a[0] = a
		_, err := Marshal(D{{"a", a}})
		require.Error(t, err)
		assert.True(t, IsCyclicValueError(errInnermost(err)), "expected a cyclic value error, got %v", err)
	})
	t.Run("SelfReferentialMap", func(t *testing.T) {
		m := map[string]interface{}{}
		m["self"] = m
		_, err := Marshal(m)
		require.Error(t, err)
		assert.True(t, IsCyclicValueError(errInnermost(err)), "expected a cyclic value error, got %v", err)
	})
	t.Run("EqualValuesAreNotCycles", func(t *testing.T) {
		// Cycle detection is by reference identity; equal but distinct
		// maps may recur.
		inner1 := map[string]interface{}{"a": int32(1)}
		inner2 := map[string]interface{}{"a": int32(1)}
		_, err := Marshal(D{{"x", inner1}, {"y", inner2}})
		require.NoError(t, err)
	})
	t.Run("RepeatedSiblingIsNotACycle", func(t *testing.T) {
		shared := map[string]interface{}{"a": int32(1)}
		_, err := Marshal(D{{"x", shared}, {"y", shared}})
		require.NoError(t, err)
	})
}

// errInnermost unwinds nested UnsupportedTypeErrors to the deepest one.
func errInnermost(err error) error {
	for {
		ute, ok := err.(UnsupportedTypeError)
		if !ok || ute.Err == nil {
			return err
		}
		if _, ok := ute.Err.(UnsupportedTypeError); !ok {
			return err
		}
		err = ute.Err
	}
}

type wrapped struct {
	inner interface{}
}

func (w wrapped) EncodeBSON() (interface{}, error) {
	return D{{"wrapped", w.inner}}, nil
}

type opaque struct{}

func TestEncodeHook(t *testing.T) {
	t.Run("DefaultUsesEncodable", func(t *testing.T) {
		data, err := Marshal(D{{"v", wrapped{inner: int32(7)}}})
		require.NoError(t, err)
		doc, err := ReadDoc(data)
		require.NoError(t, err)
		want := Doc{{"v", Document(Doc{{"wrapped", Int32(7)}})}}
		require.True(t, doc.Equal(want))
	})
	t.Run("ValueWithoutMappingFails", func(t *testing.T) {
		_, err := Marshal(D{{"v", opaque{}}})
		require.Error(t, err)
		_, ok := err.(UnsupportedTypeError)
		require.True(t, ok, "expected UnsupportedTypeError, got %T", err)
	})
	t.Run("CustomHook", func(t *testing.T) {
		hook := func(v interface{}) (interface{}, error) {
			if _, ok := v.(opaque); ok {
				return "replaced", nil
			}
			return nil, errors.Errorf("no mapping for %T", v)
		}
		c := NewCodec(WithEncodeHook(hook))
		data, err := c.Encode(D{{"v", opaque{}}})
		require.NoError(t, err)
		doc, err := ReadDoc(data)
		require.NoError(t, err)
		require.True(t, doc.Equal(Doc{{"v", String("replaced")}}))
	})
	t.Run("PerCallOverride", func(t *testing.T) {
		c := NewCodec()
		hook := func(v interface{}) (interface{}, error) { return int32(0), nil }
		data, err := c.Encode(D{{"v", opaque{}}}, hook)
		require.NoError(t, err)
		doc, err := ReadDoc(data)
		require.NoError(t, err)
		require.True(t, doc.Equal(Doc{{"v", Int32(0)}}))
	})
	t.Run("HookErrorCarriedAsCause", func(t *testing.T) {
		sentinel := errors.New("boom")
		hook := func(v interface{}) (interface{}, error) { return nil, sentinel }
		c := NewCodec(WithEncodeHook(hook))
		_, err := c.Encode(D{{"v", opaque{}}})
		require.Error(t, err)
		ute, ok := err.(UnsupportedTypeError)
		require.True(t, ok, "expected UnsupportedTypeError, got %T", err)
		require.Equal(t, sentinel, ute.Cause())
	})
	t.Run("HookedResultIsNotReHooked", func(t *testing.T) {
		calls := 0
		hook := func(v interface{}) (interface{}, error) {
			calls++
			return opaque{}, nil
		}
		c := NewCodec(WithEncodeHook(hook))
		_, err := c.Encode(D{{"v", opaque{}}})
		require.Error(t, err)
		require.Equal(t, 1, calls)
	})
}

func TestEncodeTypedValuesPassThrough(t *testing.T) {
	data, err := Marshal(D{{"v", Int64(12)}, {"d", Document(Doc{{"k", Null()}})}})
	require.NoError(t, err)
	doc, err := ReadDoc(data)
	require.NoError(t, err)
	want := Doc{{"v", Int64(12)}, {"d", Document(Doc{{"k", Null()}})}}
	require.True(t, doc.Equal(want))
}
