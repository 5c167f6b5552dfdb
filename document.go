// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"errors"
)

// ErrElementNotFound indicates that an Elem matching a certain condition does
// not exist.
var ErrElementNotFound = errors.New("element not found")

// Elem represents a BSON element. An element is a key and a value.
type Elem struct {
	Key   string
	Value Val
}

// Equal compares e and e2 and returns true if they are equal.
func (e Elem) Equal(e2 Elem) bool {
	if e.Key != e2.Key {
		return false
	}
	return e.Value.Equal(e2.Value)
}

// Doc is a type safe, concise BSON document representation. It preserves the
// insertion order of its elements.
type Doc []Elem

// ReadDoc will create a Doc using the provided slice of bytes. If the slice
// of bytes is not a valid BSON document, this method will return an error.
func ReadDoc(b []byte) (Doc, error) {
	doc := make(Doc, 0)
	err := doc.UnmarshalBSON(b)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Append adds an element to the end of the document, creating it from the key
// and value provided.
func (d Doc) Append(key string, val Val) Doc {
	return append(d, Elem{Key: key, Value: val})
}

// Delete removes the element with key if it exists and returns the updated
// Doc.
func (d Doc) Delete(key string) Doc {
	idx := d.IndexOf(key)
	if idx == -1 {
		return d
	}
	return append(d[:idx], d[idx+1:]...)
}

// IndexOf returns the index of the first element with a key of key, or -1 if
// no element with a key was found.
func (d Doc) IndexOf(key string) int {
	for i, e := range d {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Lookup searches the document for an element with the provided key and
// returns its value. ErrElementNotFound is returned when no element matches.
func (d Doc) Lookup(key string) (Val, error) {
	idx := d.IndexOf(key)
	if idx == -1 {
		return Val{}, ErrElementNotFound
	}
	return d[idx].Value, nil
}

// Set replaces the value of the first element with key if one exists,
// otherwise it appends a new element.
func (d Doc) Set(key string, val Val) Doc {
	idx := d.IndexOf(key)
	if idx == -1 {
		return append(d, Elem{Key: key, Value: val})
	}
	d[idx] = Elem{Key: key, Value: val}
	return d
}

// Keys returns the keys of the document's elements in insertion order.
func (d Doc) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, e := range d {
		keys = append(keys, e.Key)
	}
	return keys
}

// Equal compares d to d2 and returns true if they are equal.
func (d Doc) Equal(d2 Doc) bool {
	if len(d) != len(d2) {
		return false
	}
	for idx := range d {
		if !d[idx].Equal(d2[idx]) {
			return false
		}
	}
	return true
}

// MarshalBSON serializes the document into a fully framed BSON byte slice.
func (d Doc) MarshalBSON() ([]byte, error) {
	w := newDocWriter(docByteLength(d))
	if err := encodeDoc(w, d); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

// UnmarshalBSON replaces the contents of d with the elements of the provided
// BSON document.
func (d *Doc) UnmarshalBSON(b []byte) error {
	if d == nil {
		return ErrNilDocument
	}
	r := newDocReader(b)
	doc, err := decodeDoc(r)
	if err != nil {
		return wrapFormatError(err, r.offset())
	}
	*d = doc
	return nil
}

// ErrNilDocument indicates that an operation was attempted through a nil
// *Doc.
var ErrNilDocument = errors.New("document is nil")

// D is an ordered representation of a BSON document produced by and accepted
// by the host adapter. The values are native Go values rather than Vals.
//
// Example usage:
//
//	bson.D{{"foo", "bar"}, {"hello", "world"}, {"pi", 3.14159}}
type D []E

// E represents a BSON element for a D. It is usually used inside a D.
type E struct {
	Key   string
	Value interface{}
}

// Get returns the value for the first element of d with the provided key.
// The second return value reports whether an element was found.
func (d D) Get(key string) (interface{}, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// A is an ordered representation of a BSON array produced by and accepted by
// the host adapter.
//
// Example usage:
//
//	bson.A{"bar", "world", 3.14159, bson.A{"shallow", "nesting"}}
type A []interface{}
