// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"github.com/ikmak/bson/bsontype"
)

// Reviver transforms each value produced during decoding. The key is the
// string key of the value inside a document, the int index of the value
// inside an array, or nil for the final call with the root value.
type Reviver func(key interface{}, value interface{}) interface{}

// A Decoder converts BSON bytes into host values.
type Decoder struct {
	reviver Reviver
}

// NewDecoder returns a Decoder that passes every decoded value through
// reviver. A nil reviver leaves values unchanged.
func NewDecoder(reviver Reviver) *Decoder {
	return &Decoder{reviver: reviver}
}

// Decode parses a single BSON document from b and lowers it to host values.
// Documents become Ds, arrays become As, and scalar values become their
// natural Go equivalents; values without one are returned as primitive
// package types. Any structural error in b is reported as a FormatError.
func (dec *Decoder) Decode(b []byte) (interface{}, error) {
	r := newDocReader(b)
	doc, err := decodeDoc(r)
	if err != nil {
		return nil, wrapFormatError(err, r.offset())
	}
	var root interface{} = dec.document(doc)
	if dec.reviver != nil {
		root = dec.reviver(nil, root)
	}
	return root, nil
}

func (dec *Decoder) document(d Doc) D {
	out := make(D, 0, len(d))
	for _, e := range d {
		v := dec.value(e.Value)
		if dec.reviver != nil {
			v = dec.reviver(e.Key, v)
		}
		out = append(out, E{Key: e.Key, Value: v})
	}
	return out
}

func (dec *Decoder) array(a Arr) A {
	out := make(A, 0, len(a))
	for i, val := range a {
		v := dec.value(val)
		if dec.reviver != nil {
			v = dec.reviver(i, v)
		}
		out = append(out, v)
	}
	return out
}

func (dec *Decoder) value(v Val) interface{} {
	switch v.Type() {
	case bsontype.EmbeddedDocument:
		return dec.document(v.Document())
	case bsontype.Array:
		return dec.array(v.Array())
	default:
		return v.Interface()
	}
}
