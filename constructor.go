// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"math"
	"time"

	"github.com/ikmak/bson/bsontype"
	"github.com/ikmak/bson/objectid"
	"github.com/ikmak/bson/primitive"
)

// Double constructs a BSON double Val.
func Double(f64 float64) Val {
	return Val{t: bsontype.Double, scalar: int64(math.Float64bits(f64))}
}

// String constructs a BSON string Val.
func String(str string) Val {
	return Val{t: bsontype.String, primitive: str}
}

// Document constructs a BSON embedded document Val from the given Doc.
func Document(doc Doc) Val {
	return Val{t: bsontype.EmbeddedDocument, primitive: doc}
}

// Array constructs a BSON array Val from the given Arr.
func Array(arr Arr) Val {
	return Val{t: bsontype.Array, primitive: arr}
}

// Binary constructs a BSON binary Val with the generic subtype.
func Binary(data []byte) Val {
	return BinaryWithSubtype(data, bsontype.BinaryGeneric)
}

// BinaryWithSubtype constructs a BSON binary Val with the given subtype.
func BinaryWithSubtype(data []byte, subtype byte) Val {
	return Val{t: bsontype.Binary, primitive: primitive.Binary{Subtype: subtype, Data: data}}
}

// Undefined constructs a BSON undefined Val.
func Undefined() Val {
	return Val{t: bsontype.Undefined}
}

// ObjectID constructs a BSON objectid Val.
func ObjectID(oid objectid.ObjectID) Val {
	return Val{t: bsontype.ObjectID, primitive: oid}
}

// Boolean constructs a BSON boolean Val.
func Boolean(b bool) Val {
	v := Val{t: bsontype.Boolean}
	if b {
		v.scalar = 1
	}
	return v
}

// DateTime constructs a BSON datetime Val from milliseconds since the Unix
// epoch.
func DateTime(ms int64) Val {
	return Val{t: bsontype.DateTime, scalar: ms}
}

// Time constructs a BSON datetime Val from a time.Time. Sub-millisecond
// precision is truncated.
func Time(t time.Time) Val {
	return DateTime(t.Unix()*1000 + int64(t.Nanosecond()/1000000))
}

// Null constructs a BSON null Val.
func Null() Val {
	return Val{t: bsontype.Null}
}

// Regex constructs a BSON regex Val.
func Regex(pattern, options string) Val {
	return Val{t: bsontype.Regex, primitive: primitive.Regex{Pattern: pattern, Options: options}}
}

// DBPointer constructs a BSON dbpointer Val.
func DBPointer(ns string, ptr objectid.ObjectID) Val {
	return Val{t: bsontype.DBPointer, primitive: primitive.DBPointer{DB: ns, Pointer: ptr}}
}

// JavaScript constructs a BSON JavaScript code Val.
func JavaScript(code string) Val {
	return Val{t: bsontype.JavaScript, primitive: code}
}

// Symbol constructs a BSON symbol Val.
func Symbol(symbol string) Val {
	return Val{t: bsontype.Symbol, primitive: symbol}
}

// Int32 constructs a BSON int32 Val.
func Int32(i32 int32) Val {
	return Val{t: bsontype.Int32, scalar: int64(i32)}
}

// Timestamp constructs a BSON timestamp Val from seconds and increment.
func Timestamp(t uint32, i uint32) Val {
	return Val{t: bsontype.Timestamp, scalar: int64(uint64(t)<<32 | uint64(i))}
}

// NewTimestamp constructs a BSON timestamp Val for the current wall-clock
// second with an increment allocated from the process-wide counter.
func NewTimestamp() Val {
	tp := primitive.NewTimestamp()
	return Timestamp(tp.T, tp.I)
}

// Int64 constructs a BSON int64 Val.
func Int64(i64 int64) Val {
	return Val{t: bsontype.Int64, scalar: i64}
}

// MinKey constructs a BSON minkey Val.
func MinKey() Val {
	return Val{t: bsontype.MinKey}
}

// MaxKey constructs a BSON maxkey Val.
func MaxKey() Val {
	return Val{t: bsontype.MaxKey}
}
