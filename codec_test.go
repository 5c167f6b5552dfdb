// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikmak/bson/objectid"
	"github.com/ikmak/bson/primitive"
)

func TestDocMarshal(t *testing.T) {
	t.Run("EmptyDocument", func(t *testing.T) {
		got, err := Doc{}.MarshalBSON()
		require.NoError(t, err)
		require.Equal(t, []byte("\x05\x00\x00\x00\x00"), got)
	})
	t.Run("StringElement", func(t *testing.T) {
		got, err := Doc{{"hello", String("world")}}.MarshalBSON()
		require.NoError(t, err)
		require.Equal(t, []byte("\x16\x00\x00\x00\x02hello\x00\x06\x00\x00\x00world\x00\x00"), got)
	})
	t.Run("MixedArray", func(t *testing.T) {
		doc := Doc{{"BSON", Array(Arr{String("awesome"), Double(5.05), Int32(1986)})}}
		got, err := doc.MarshalBSON()
		require.NoError(t, err)
		want := []byte(
			"\x31\x00\x00\x00\x04BSON\x00\x26\x00\x00\x00\x020\x00\x08\x00\x00\x00awesome\x00" +
				"\x011\x00\x33\x33\x33\x33\x33\x33\x14\x40\x102\x00\xc2\x07\x00\x00\x00\x00")
		require.Equal(t, want, got)
	})
	t.Run("TimestampIncrementFirst", func(t *testing.T) {
		got, err := Doc{{"test", Timestamp(4, 20)}}.MarshalBSON()
		require.NoError(t, err)
		want := []byte("\x13\x00\x00\x00\x11test\x00\x14\x00\x00\x00\x04\x00\x00\x00\x00")
		require.Equal(t, want, got)
	})
	t.Run("DateTime", func(t *testing.T) {
		date := time.Date(2007, 1, 8, 0, 30, 11, 0, time.UTC)
		got, err := Doc{{"date", Time(date)}}.MarshalBSON()
		require.NoError(t, err)
		want := []byte("\x13\x00\x00\x00\x09date\x00\x38\xBE\x1C\xFF\x0F\x01\x00\x00\x00")
		require.Equal(t, want, got)
	})
	t.Run("JavaScript", func(t *testing.T) {
		got, err := Doc{{"$where", JavaScript("test")}}.MarshalBSON()
		require.NoError(t, err)
		want := []byte("\x16\x00\x00\x00\x0d$where\x00\x05\x00\x00\x00test\x00\x00")
		require.Equal(t, want, got)
	})
	t.Run("OldBinary", func(t *testing.T) {
		doc := Doc{{"b", BinaryWithSubtype([]byte("test"), 0x02)}}
		got, err := doc.MarshalBSON()
		require.NoError(t, err)
		want := []byte("\x15\x00\x00\x00\x05b\x00\x08\x00\x00\x00\x02\x04\x00\x00\x00test\x00")
		require.Equal(t, want, got)
	})
	t.Run("KeyWithNullByte", func(t *testing.T) {
		_, err := Doc{{"a\x00b", Int32(1)}}.MarshalBSON()
		require.Error(t, err)
	})
}

func TestDocUnmarshal(t *testing.T) {
	t.Run("EmptyDocument", func(t *testing.T) {
		doc, err := ReadDoc([]byte("\x05\x00\x00\x00\x00"))
		require.NoError(t, err)
		require.Len(t, doc, 0)
	})
	t.Run("StringElement", func(t *testing.T) {
		doc, err := ReadDoc([]byte("\x16\x00\x00\x00\x02hello\x00\x06\x00\x00\x00world\x00\x00"))
		require.NoError(t, err)
		require.True(t, doc.Equal(Doc{{"hello", String("world")}}))
	})
	t.Run("SymbolBecomesString", func(t *testing.T) {
		data, err := Doc{{"s", Symbol("sym")}}.MarshalBSON()
		require.NoError(t, err)
		doc, err := ReadDoc(data)
		require.NoError(t, err)
		require.True(t, doc.Equal(Doc{{"s", String("sym")}}))
	})
	t.Run("OldBinaryLengthMismatch", func(t *testing.T) {
		// Outer length 9 with inner length 4 is off by one.
		data := []byte("\x12\x00\x00\x00\x05b\x00\x09\x00\x00\x00\x02\x04\x00\x00\x00test\x00\x00")
		_, err := ReadDoc(data)
		require.Error(t, err)
		assert.True(t, IsFormatError(err), "expected a FormatError, got %v", err)
	})
	t.Run("ArrayKeysDiscarded", func(t *testing.T) {
		// The decoder does not verify that array keys are sequential
		// decimal strings; the values are kept in the order encountered.
		data := []byte("\x1b\x00\x00\x00\x04a\x00\x13\x00\x00\x00\x10x\x00\x01\x00\x00\x00\x10y\x00\x02\x00\x00\x00\x00\x00")
		doc, err := ReadDoc(data)
		require.NoError(t, err)
		require.True(t, doc.Equal(Doc{{"a", Array(Arr{Int32(1), Int32(2)})}}))
	})
	t.Run("InvalidBooleanByte", func(t *testing.T) {
		data := []byte("\x09\x00\x00\x00\x08b\x00\x02\x00")
		_, err := ReadDoc(data)
		require.Error(t, err)
	})
	t.Run("CodeWithScopeReserved", func(t *testing.T) {
		// Type 0x0F is in the table but its codec fails on any use.
		data := []byte("\x0c\x00\x00\x00\x0fc\x00\x00\x00\x00\x00\x00")
		_, err := ReadDoc(data)
		require.Error(t, err)
	})
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"TruncatedLengthPrefix", []byte("\x1B")},
		{"LengthBelowMinimum", []byte("\x01\x00\x00\x00\x00")},
		{"DeclaredLengthShort", []byte("\x15\x00\x00\x00\x02hello\x00\x06\x00\x00\x00world\x00\x00")},
		{"DeclaredLengthLong", []byte("\x17\x00\x00\x00\x02hello\x00\x06\x00\x00\x00world\x00\x00")},
		{"MissingTerminator", []byte("\x16\x00\x00\x00\x02hello\x00\x06\x00\x00\x00world\x00")},
		{"NonZeroTerminator", []byte("\x16\x00\x00\x00\x02hello\x00\x06\x00\x00\x00world\x00\x01")},
		{"UnknownTypeTag", []byte("\x0b\x00\x00\x00\x42a\x00\x01\x00\x00")},
		{"StringMissingNull", []byte("\x16\x00\x00\x00\x02hello\x00\x06\x00\x00\x00worldX\x00")},
		{"EmptyInput", []byte{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal(tc.data)
			require.Error(t, err)
			assert.True(t, IsFormatError(err), "expected a FormatError, got %v", err)
		})
	}
}

func TestDecodeTruncations(t *testing.T) {
	data, err := Doc{
		{"a", Int32(1)},
		{"pi", Double(3.14159)},
		{"nested", Document(Doc{{"b", String("c")}})},
		{"arr", Array(Arr{Boolean(true), Null()})},
	}.MarshalBSON()
	require.NoError(t, err)

	_, err = Unmarshal(data)
	require.NoError(t, err)

	// Every proper prefix of a valid document must fail to decode.
	for i := 0; i < len(data); i++ {
		_, err := Unmarshal(data[:i])
		assert.Error(t, err, "truncation to %d bytes should not decode", i)
	}
}

func TestDecodeLengthFlips(t *testing.T) {
	data, err := Doc{{"hello", String("world")}}.MarshalBSON()
	require.NoError(t, err)

	for flip := 0; flip < 64; flip++ {
		if flip == len(data) {
			continue
		}
		mutated := make([]byte, len(data))
		copy(mutated, data)
		mutated[0] = byte(flip)
		_, err := Unmarshal(mutated)
		assert.Error(t, err, "flipping the length prefix to %d should not decode", flip)
	}
}

func TestRoundTrip(t *testing.T) {
	oid, err := objectid.FromHex("5a934e000102030405000000")
	require.NoError(t, err)

	doc := Doc{
		{"double", Double(3.14159)},
		{"string", String("foo")},
		{"doc", Document(Doc{{"a", Int32(1)}})},
		{"arr", Array(Arr{Int32(1), Int64(1 << 40), String("x")})},
		{"bin", Binary([]byte{0x01, 0x02, 0x03})},
		{"binOld", BinaryWithSubtype([]byte("test"), 0x02)},
		{"undefined", Undefined()},
		{"oid", ObjectID(oid)},
		{"bool", Boolean(true)},
		{"date", Time(time.Date(2018, 1, 1, 12, 0, 0, 0, time.UTC))},
		{"null", Null()},
		{"regex", Regex("^foo|bar$", "im")},
		{"dbptr", DBPointer("db.coll", oid)},
		{"js", JavaScript("function(){ return true }")},
		{"int32", Int32(-27)},
		{"ts", Timestamp(4, 20)},
		{"int64", Int64(1<<62 - 1)},
		{"min", MinKey()},
		{"max", MaxKey()},
	}

	data, err := doc.MarshalBSON()
	require.NoError(t, err)
	require.Equal(t, int(data[0])|int(data[1])<<8|int(data[2])<<16|int(data[3])<<24, len(data))

	got, err := ReadDoc(data)
	require.NoError(t, err)
	require.True(t, got.Equal(doc), "round tripped document differs")

	// Re-encoding the decoded document must be byte identical.
	data2, err := got.MarshalBSON()
	require.NoError(t, err)
	require.Equal(t, data, data2)
}

func TestTimestampVal(t *testing.T) {
	ts := Timestamp(4, 20).Timestamp()
	require.Equal(t, primitive.Timestamp{T: 4, I: 20}, ts)
}

func TestNewTimestampAllocatesIncrements(t *testing.T) {
	v1 := NewTimestamp().Timestamp()
	v2 := NewTimestamp().Timestamp()
	require.Equal(t, v1.I+1, v2.I)
}
