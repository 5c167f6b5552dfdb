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

// Val represents a BSON value. It is a tagged union: the type byte selects
// which payload is valid. Small fixed-width payloads (double, boolean,
// datetime, int32, int64, timestamp) live in scalar; everything else lives
// in primitive.
type Val struct {
	t bsontype.Type

	scalar    int64
	primitive interface{}
}

// Type returns the BSON type of this value.
func (v Val) Type() bsontype.Type { return v.t }

// IsZero returns true if this value is zero.
func (v Val) IsZero() bool { return v.t == bsontype.Type(0) && v.primitive == nil }

// Double returns the BSON double value the Val represents. It panics if the
// value is a BSON type other than double.
func (v Val) Double() float64 {
	if v.t != bsontype.Double {
		panic(ElementTypeError{"bson.Val.Double", v.t})
	}
	return math.Float64frombits(uint64(v.scalar))
}

// StringValue returns the BSON string the Val represents. It panics if the
// value is a BSON type other than string.
//
// NOTE: This method is called StringValue to avoid a collision with the
// String method used for the Stringer interface.
func (v Val) StringValue() string {
	if v.t != bsontype.String {
		panic(ElementTypeError{"bson.Val.StringValue", v.t})
	}
	return v.primitive.(string)
}

// Document returns the BSON embedded document the Val represents. It panics
// if the value is a BSON type other than embedded document.
func (v Val) Document() Doc {
	if v.t != bsontype.EmbeddedDocument {
		panic(ElementTypeError{"bson.Val.Document", v.t})
	}
	return v.primitive.(Doc)
}

// Array returns the BSON array the Val represents. It panics if the value is
// a BSON type other than array.
func (v Val) Array() Arr {
	if v.t != bsontype.Array {
		panic(ElementTypeError{"bson.Val.Array", v.t})
	}
	return v.primitive.(Arr)
}

// Binary returns the BSON binary the Val represents. It panics if the value
// is a BSON type other than binary.
func (v Val) Binary() primitive.Binary {
	if v.t != bsontype.Binary {
		panic(ElementTypeError{"bson.Val.Binary", v.t})
	}
	return v.primitive.(primitive.Binary)
}

// ObjectID returns the BSON ObjectID the Val represents. It panics if the
// value is a BSON type other than ObjectID.
func (v Val) ObjectID() objectid.ObjectID {
	if v.t != bsontype.ObjectID {
		panic(ElementTypeError{"bson.Val.ObjectID", v.t})
	}
	return v.primitive.(objectid.ObjectID)
}

// Boolean returns the BSON boolean the Val represents. It panics if the
// value is a BSON type other than boolean.
func (v Val) Boolean() bool {
	if v.t != bsontype.Boolean {
		panic(ElementTypeError{"bson.Val.Boolean", v.t})
	}
	return v.scalar == 1
}

// DateTime returns the BSON datetime the Val represents as milliseconds
// since the Unix epoch. It panics if the value is a BSON type other than
// datetime.
func (v Val) DateTime() int64 {
	if v.t != bsontype.DateTime {
		panic(ElementTypeError{"bson.Val.DateTime", v.t})
	}
	return v.scalar
}

// Time returns the BSON datetime the Val represents as a UTC time.Time. It
// panics if the value is a BSON type other than datetime.
func (v Val) Time() time.Time {
	if v.t != bsontype.DateTime {
		panic(ElementTypeError{"bson.Val.Time", v.t})
	}
	return time.Unix(v.scalar/1000, (v.scalar%1000)*1000000).UTC()
}

// Regex returns the BSON regex the Val represents. It panics if the value is
// a BSON type other than regex.
func (v Val) Regex() primitive.Regex {
	if v.t != bsontype.Regex {
		panic(ElementTypeError{"bson.Val.Regex", v.t})
	}
	return v.primitive.(primitive.Regex)
}

// DBPointer returns the BSON dbpointer the Val represents. It panics if the
// value is a BSON type other than dbpointer.
func (v Val) DBPointer() primitive.DBPointer {
	if v.t != bsontype.DBPointer {
		panic(ElementTypeError{"bson.Val.DBPointer", v.t})
	}
	return v.primitive.(primitive.DBPointer)
}

// JavaScript returns the BSON JavaScript code the Val represents. It panics
// if the value is a BSON type other than JavaScript code.
func (v Val) JavaScript() string {
	if v.t != bsontype.JavaScript {
		panic(ElementTypeError{"bson.Val.JavaScript", v.t})
	}
	return v.primitive.(string)
}

// Symbol returns the BSON symbol the Val represents. It panics if the value
// is a BSON type other than symbol.
func (v Val) Symbol() string {
	if v.t != bsontype.Symbol {
		panic(ElementTypeError{"bson.Val.Symbol", v.t})
	}
	return v.primitive.(string)
}

// Int32 returns the BSON int32 the Val represents. It panics if the value is
// a BSON type other than int32.
func (v Val) Int32() int32 {
	if v.t != bsontype.Int32 {
		panic(ElementTypeError{"bson.Val.Int32", v.t})
	}
	return int32(v.scalar)
}

// Timestamp returns the BSON timestamp the Val represents. It panics if the
// value is a BSON type other than timestamp.
func (v Val) Timestamp() primitive.Timestamp {
	if v.t != bsontype.Timestamp {
		panic(ElementTypeError{"bson.Val.Timestamp", v.t})
	}
	return primitive.Timestamp{T: uint32(uint64(v.scalar) >> 32), I: uint32(uint64(v.scalar) & math.MaxUint32)}
}

// Int64 returns the BSON int64 the Val represents. It panics if the value is
// a BSON type other than int64.
func (v Val) Int64() int64 {
	if v.t != bsontype.Int64 {
		panic(ElementTypeError{"bson.Val.Int64", v.t})
	}
	return v.scalar
}

// IsNumber returns true if the type of v is a numeric BSON type.
func (v Val) IsNumber() bool {
	switch v.t {
	case bsontype.Double, bsontype.Int32, bsontype.Int64:
		return true
	default:
		return false
	}
}

// Interface returns the Go value of this Val as an empty interface.
//
// Containers are returned as their Doc and Arr forms; values without a
// natural Go equivalent are returned as their primitive package types.
func (v Val) Interface() interface{} {
	switch v.t {
	case bsontype.Double:
		return v.Double()
	case bsontype.String:
		return v.StringValue()
	case bsontype.EmbeddedDocument:
		return v.Document()
	case bsontype.Array:
		return v.Array()
	case bsontype.Binary:
		return v.Binary()
	case bsontype.Undefined:
		return primitive.Undefined{}
	case bsontype.ObjectID:
		return v.ObjectID()
	case bsontype.Boolean:
		return v.Boolean()
	case bsontype.DateTime:
		return v.Time()
	case bsontype.Null:
		return nil
	case bsontype.Regex:
		return v.Regex()
	case bsontype.DBPointer:
		return v.DBPointer()
	case bsontype.JavaScript:
		return primitive.JavaScript(v.JavaScript())
	case bsontype.Symbol:
		return primitive.Symbol(v.Symbol())
	case bsontype.Int32:
		return v.Int32()
	case bsontype.Timestamp:
		return v.Timestamp()
	case bsontype.Int64:
		return v.Int64()
	case bsontype.MinKey:
		return primitive.MinKey{}
	case bsontype.MaxKey:
		return primitive.MaxKey{}
	default:
		return nil
	}
}

// Equal compares v to v2 and returns true if they are equal. Documents and
// arrays are compared recursively.
func (v Val) Equal(v2 Val) bool {
	if v.t != v2.t {
		return false
	}
	switch v.t {
	case bsontype.EmbeddedDocument:
		return v.Document().Equal(v2.Document())
	case bsontype.Array:
		return v.Array().Equal(v2.Array())
	case bsontype.Binary:
		return v.Binary().Equal(v2.Binary())
	case bsontype.String, bsontype.JavaScript, bsontype.Symbol,
		bsontype.Regex, bsontype.DBPointer, bsontype.ObjectID:
		return v.primitive == v2.primitive
	default:
		return v.scalar == v2.scalar
	}
}
