// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bson is a library for reading and writing BSON, the length
// prefixed binary document format.
//
// The package converts between Go values and BSON bytes in two layers. The
// typed layer is the Val, Doc, and Arr family: a discriminated tree with one
// variant per BSON type. The host layer is the Encoder and Decoder pair,
// which map ordinary Go values (numbers, strings, bools, time.Time, Ds, As,
// slices, and string keyed maps) onto the typed layer and back.
//
// The Codec type ties both directions together and carries the default
// EncodeHook and Reviver callbacks. The package level Marshal and Unmarshal
// functions use a Codec with default hooks.
package bson

// A Codec bundles an encode and a decode direction with their default
// callbacks. Codec values are immutable and safe for concurrent use.
type Codec struct {
	hook    EncodeHook
	reviver Reviver
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithEncodeHook sets the default EncodeHook consulted for host values the
// encoder has no mapping for.
func WithEncodeHook(hook EncodeHook) CodecOption {
	return func(c *Codec) { c.hook = hook }
}

// WithReviver sets the default Reviver applied to every decoded value.
func WithReviver(reviver Reviver) CodecOption {
	return func(c *Codec) { c.reviver = reviver }
}

// NewCodec creates a Codec. Without options it uses DefaultEncodeHook and no
// reviver.
func NewCodec(opts ...CodecOption) *Codec {
	c := new(Codec)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encoder returns an Encoder bound to the codec's default encode hook.
func (c *Codec) Encoder() *Encoder { return NewEncoder(c.hook) }

// Decoder returns a Decoder bound to the codec's default reviver.
func (c *Codec) Decoder() *Decoder { return NewDecoder(c.reviver) }

// Encode converts v into BSON bytes. The top-level value must map to a
// document. An optional hook overrides the codec's default for this call
// only.
func (c *Codec) Encode(v interface{}, hook ...EncodeHook) ([]byte, error) {
	h := c.hook
	if len(hook) > 0 && hook[0] != nil {
		h = hook[0]
	}
	return NewEncoder(h).Encode(v)
}

// Decode parses a BSON document from b and lowers it to host values. An
// optional reviver overrides the codec's default for this call only.
func (c *Codec) Decode(b []byte, reviver ...Reviver) (interface{}, error) {
	r := c.reviver
	if len(reviver) > 0 && reviver[0] != nil {
		r = reviver[0]
	}
	return NewDecoder(r).Decode(b)
}

var defaultCodec = NewCodec()

// Marshal converts v into BSON bytes using a Codec with default hooks.
func Marshal(v interface{}) ([]byte, error) {
	return defaultCodec.Encode(v)
}

// Unmarshal parses a BSON document from b using a Codec with default hooks.
func Unmarshal(b []byte) (interface{}, error) {
	return defaultCodec.Decode(b)
}
