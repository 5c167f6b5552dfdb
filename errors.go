// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
	"fmt"

	"github.com/ikmak/bson/bsontype"
)

// ErrTooSmall indicates that the slice being read or written is not large
// enough to fit the next component.
var ErrTooSmall = errors.New("not enough bytes available")

// ErrInvalidLength indicates that a length in a binary representation of a
// BSON document is invalid.
var ErrInvalidLength = errors.New("document length is invalid")

// ErrInvalidKey indicates that a key or other cstring being decoded is
// missing its null terminator, or that a key being encoded contains a null
// byte.
var ErrInvalidKey = errors.New("invalid document key")

// ErrInvalidString indicates that a BSON string is missing its null
// terminator or declares a non-positive length.
var ErrInvalidString = errors.New("string is missing null terminator")

// ErrInvalidUTF8 indicates that a BSON string or cstring does not hold valid
// UTF-8 bytes.
var ErrInvalidUTF8 = errors.New("string contains invalid UTF-8")

// ErrInvalidBinaryLength indicates that the redundant inner length of an
// old-style binary value does not match its outer length.
var ErrInvalidBinaryLength = errors.New("binary inner length does not match outer length")

// ErrInvalidBooleanValue indicates that a BSON boolean payload byte is
// neither 0 nor 1.
var ErrInvalidBooleanValue = errors.New("invalid byte for boolean")

// ErrIntegerOverflow indicates that an integer does not fit in a 64-bit
// signed BSON integer.
var ErrIntegerOverflow = errors.New("integer overflows a 64-bit signed integer")

// ErrCyclicValue indicates that a value directly or indirectly contains
// itself.
var ErrCyclicValue = errors.New("cyclic reference detected")

// FormatError is returned for any structural error in a BSON byte stream.
// Offset is the reader position at which decoding failed.
type FormatError struct {
	Offset int
	Err    error
}

func (fe FormatError) Error() string {
	return fmt.Sprintf("invalid BSON at offset %d: %v", fe.Offset, fe.Err)
}

// Cause returns the underlying error.
func (fe FormatError) Cause() error { return fe.Err }

// IsFormatError reports whether err is a FormatError.
func IsFormatError(err error) bool {
	_, ok := err.(FormatError)
	return ok
}

// wrapFormatError attaches the failure offset to a decode error. An error
// that already is a FormatError is returned unchanged.
func wrapFormatError(err error, offset int) error {
	if IsFormatError(err) {
		return err
	}
	return FormatError{Offset: offset, Err: err}
}

// UnknownTypeError is returned when a decoded element carries a type byte
// that is not in the BSON type table.
type UnknownTypeError struct {
	Type byte
}

func (ute UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown element type 0x%02X", ute.Type)
}

// UnsupportedTypeError is returned when the encoder is given a value it has
// no mapping for and the encode hook could not produce an encodable value.
// Err, when set, carries the hook's failure or the reason the value was
// rejected.
type UnsupportedTypeError struct {
	Value interface{}
	Err   error
}

func (ute UnsupportedTypeError) Error() string {
	if ute.Err != nil {
		return fmt.Sprintf("cannot encode value of type %T: %v", ute.Value, ute.Err)
	}
	return fmt.Sprintf("cannot encode value of type %T", ute.Value)
}

// Cause returns the underlying reason the value could not be encoded, if
// one was recorded.
func (ute UnsupportedTypeError) Cause() error { return ute.Err }

// IsCyclicValueError reports whether err is an UnsupportedTypeError caused
// by a reference cycle.
func IsCyclicValueError(err error) bool {
	ute, ok := err.(UnsupportedTypeError)
	return ok && ute.Err == ErrCyclicValue
}

// ElementTypeError specifies that a method to obtain a BSON value an
// incorrect type was called on a bson.Val.
type ElementTypeError struct {
	Method string
	Type   bsontype.Type
}

func (ete ElementTypeError) Error() string {
	return "Call of " + ete.Method + " on " + ete.Type.String() + " type"
}
