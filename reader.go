// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/ikmak/bson/objectid"
	"github.com/pkg/errors"
)

// docReader is a positioned cursor over a BSON byte slice. It borrows the
// slice; the caller's buffer must remain valid while the reader is in use.
type docReader struct {
	buf []byte
	pos int
}

func newDocReader(b []byte) *docReader {
	return &docReader{buf: b}
}

// offset returns the current cursor position.
func (r *docReader) offset() int { return r.pos }

// remaining returns the number of unread bytes.
func (r *docReader) remaining() int { return len(r.buf) - r.pos }

func (r *docReader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrTooSmall
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *docReader) readInt32() (int32, error) {
	if r.remaining() < 4 {
		return 0, ErrTooSmall
	}
	i32 := int32(binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4]))
	r.pos += 4
	return i32, nil
}

func (r *docReader) readInt64() (int64, error) {
	if r.remaining() < 8 {
		return 0, ErrTooSmall
	}
	i64 := int64(binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8]))
	r.pos += 8
	return i64, nil
}

func (r *docReader) readDouble() (float64, error) {
	if r.remaining() < 8 {
		return 0, ErrTooSmall
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// readSlice returns the next n bytes without copying. The returned slice
// aliases the reader's buffer.
func (r *docReader) readSlice(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, ErrTooSmall
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// readCString reads bytes up to, but not including, the next null byte, then
// consumes the null byte.
func (r *docReader) readCString() (string, error) {
	idx := bytes.IndexByte(r.buf[r.pos:], 0x00)
	if idx < 0 {
		return "", ErrInvalidKey
	}
	b := r.buf[r.pos : r.pos+idx]
	r.pos += idx + 1
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// readString reads a length-prefixed string: an int32 length, length-1 bytes
// of UTF-8, and a null terminator that the length accounts for.
func (r *docReader) readString() (string, error) {
	length, err := r.readInt32()
	if err != nil {
		return "", err
	}
	if length <= 0 {
		return "", errors.Wrapf(ErrInvalidString, "declared length %d", length)
	}
	b, err := r.readSlice(int(length) - 1)
	if err != nil {
		return "", err
	}
	term, err := r.readByte()
	if err != nil {
		return "", err
	}
	if term != 0x00 {
		return "", ErrInvalidString
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

func (r *docReader) readObjectID() (objectid.ObjectID, error) {
	var oid objectid.ObjectID
	b, err := r.readSlice(12)
	if err != nil {
		return oid, err
	}
	copy(oid[:], b)
	return oid, nil
}
