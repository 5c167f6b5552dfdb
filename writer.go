// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/binary"
	"math"

	"github.com/ikmak/bson/objectid"
)

// docWriter owns a single contiguous buffer sized exactly to the byte length
// of the document being encoded. Each write advances the cursor; a write
// past the end of the buffer fails with ErrTooSmall.
type docWriter struct {
	buf []byte
	pos int
}

func newDocWriter(size int) *docWriter {
	return &docWriter{buf: make([]byte, size)}
}

// bytes returns the underlying buffer.
func (w *docWriter) bytes() []byte { return w.buf }

// offset returns the current cursor position.
func (w *docWriter) offset() int { return w.pos }

func (w *docWriter) writeByte(b byte) error {
	if len(w.buf)-w.pos < 1 {
		return ErrTooSmall
	}
	w.buf[w.pos] = b
	w.pos++
	return nil
}

func (w *docWriter) writeInt32(i32 int32) error {
	if len(w.buf)-w.pos < 4 {
		return ErrTooSmall
	}
	binary.LittleEndian.PutUint32(w.buf[w.pos:w.pos+4], uint32(i32))
	w.pos += 4
	return nil
}

func (w *docWriter) writeInt64(i64 int64) error {
	if len(w.buf)-w.pos < 8 {
		return ErrTooSmall
	}
	binary.LittleEndian.PutUint64(w.buf[w.pos:w.pos+8], uint64(i64))
	w.pos += 8
	return nil
}

func (w *docWriter) writeDouble(f float64) error {
	if len(w.buf)-w.pos < 8 {
		return ErrTooSmall
	}
	binary.LittleEndian.PutUint64(w.buf[w.pos:w.pos+8], math.Float64bits(f))
	w.pos += 8
	return nil
}

func (w *docWriter) writeBytes(b []byte) error {
	if len(w.buf)-w.pos < len(b) {
		return ErrTooSmall
	}
	copy(w.buf[w.pos:], b)
	w.pos += len(b)
	return nil
}

// writeCString writes the UTF-8 bytes of s followed by a null terminator.
// The caller guarantees s contains no interior null byte.
func (w *docWriter) writeCString(s string) error {
	if len(w.buf)-w.pos < len(s)+1 {
		return ErrTooSmall
	}
	copy(w.buf[w.pos:], s)
	w.pos += len(s)
	w.buf[w.pos] = 0x00
	w.pos++
	return nil
}

// writeString writes an int32 length prefix, the UTF-8 bytes of s, and a
// null terminator. The prefix counts the terminator.
func (w *docWriter) writeString(s string) error {
	if err := w.writeInt32(int32(len(s)) + 1); err != nil {
		return err
	}
	return w.writeCString(s)
}

func (w *docWriter) writeObjectID(oid objectid.ObjectID) error {
	return w.writeBytes(oid[:])
}
