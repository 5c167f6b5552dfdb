// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"strconv"
	"strings"

	"github.com/ikmak/bson/bsontype"
	"github.com/pkg/errors"
)

// valueCodec handles the payload of a single BSON type. The element framing
// (type byte and key) is written by the document codec; a valueCodec only
// sees its own payload bytes.
type valueCodec interface {
	// byteLength returns the encoded payload size of v in bytes.
	byteLength(v Val) int
	// encodeValue writes the payload of v.
	encodeValue(w *docWriter, v Val) error
	// decodeValue reads one payload and returns it as a Val.
	decodeValue(r *docReader) (Val, error)
}

// valueCodecs is the codec registry, keyed by type byte. CodeWithScope and
// Decimal128 are reserved: present in the table, fail on any use.
var valueCodecs = map[bsontype.Type]valueCodec{
	bsontype.Double:           doubleCodec{},
	bsontype.String:           stringCodec{},
	bsontype.EmbeddedDocument: documentCodec{},
	bsontype.Array:            arrayCodec{},
	bsontype.Binary:           binaryCodec{},
	bsontype.Undefined:        emptyCodec{construct: Undefined},
	bsontype.ObjectID:         objectIDCodec{},
	bsontype.Boolean:          booleanCodec{},
	bsontype.DateTime:         dateTimeCodec{},
	bsontype.Null:             emptyCodec{construct: Null},
	bsontype.Regex:            regexCodec{},
	bsontype.DBPointer:        dbPointerCodec{},
	bsontype.JavaScript:       javaScriptCodec{},
	bsontype.Symbol:           symbolCodec{},
	bsontype.CodeWithScope:    reservedCodec{t: bsontype.CodeWithScope},
	bsontype.Int32:            int32Codec{},
	bsontype.Timestamp:        timestampCodec{},
	bsontype.Int64:            int64Codec{},
	bsontype.Decimal128:       reservedCodec{t: bsontype.Decimal128},
	bsontype.MinKey:           emptyCodec{construct: MinKey},
	bsontype.MaxKey:           emptyCodec{construct: MaxKey},
}

// lookupCodec returns the codec for the given type byte. The second return
// value is false for type bytes outside the BSON type table.
func lookupCodec(t byte) (valueCodec, bool) {
	c, ok := valueCodecs[bsontype.Type(t)]
	return c, ok
}

// docByteLength returns the fully framed size of d: the int32 length prefix,
// each element, and the trailing null byte.
func docByteLength(d Doc) int {
	size := 4 + 1
	for _, e := range d {
		size += elementByteLength(e.Key, e.Value)
	}
	return size
}

// arrByteLength returns the fully framed size of a, using the decimal string
// forms of the indexes as keys.
func arrByteLength(a Arr) int {
	size := 4 + 1
	for i, v := range a {
		size += elementByteLength(strconv.Itoa(i), v)
	}
	return size
}

// elementByteLength returns the size of one element: type byte, key cstring,
// and payload.
func elementByteLength(key string, v Val) int {
	return 1 + len(key) + 1 + valueCodecs[v.Type()].byteLength(v)
}

// encodeDoc writes the full framing for d: length prefix, elements, and
// terminator.
func encodeDoc(w *docWriter, d Doc) error {
	if err := w.writeInt32(int32(docByteLength(d))); err != nil {
		return err
	}
	for _, e := range d {
		if err := encodeElement(w, e.Key, e.Value); err != nil {
			return err
		}
	}
	return w.writeByte(0x00)
}

// encodeArr writes a with document framing, keys being the decimal string
// forms of the indexes.
func encodeArr(w *docWriter, a Arr) error {
	if err := w.writeInt32(int32(arrByteLength(a))); err != nil {
		return err
	}
	for i, v := range a {
		if err := encodeElement(w, strconv.Itoa(i), v); err != nil {
			return err
		}
	}
	return w.writeByte(0x00)
}

func encodeElement(w *docWriter, key string, v Val) error {
	if strings.IndexByte(key, 0x00) != -1 {
		return errors.Wrapf(ErrInvalidKey, "key %q contains a null byte", key)
	}
	if err := w.writeByte(byte(v.Type())); err != nil {
		return err
	}
	if err := w.writeCString(key); err != nil {
		return err
	}
	codec, ok := lookupCodec(byte(v.Type()))
	if !ok {
		return UnknownTypeError{Type: byte(v.Type())}
	}
	return codec.encodeValue(w, v)
}

// decodeDoc reads one fully framed document from r. The declared length must
// match the number of bytes consumed exactly and the element list must end
// with a null terminator.
func decodeDoc(r *docReader) (Doc, error) {
	elems, err := decodeElements(r)
	if err != nil {
		return nil, err
	}
	return Doc(elems), nil
}

// decodeArr reads one document-framed array from r. The keys are read and
// discarded; values are appended in the order encountered.
func decodeArr(r *docReader) (Arr, error) {
	elems, err := decodeElements(r)
	if err != nil {
		return nil, err
	}
	a := make(Arr, 0, len(elems))
	for _, e := range elems {
		a = append(a, e.Value)
	}
	return a, nil
}

func decodeElements(r *docReader) ([]Elem, error) {
	start := r.offset()
	length, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if length < 5 {
		return nil, errors.Wrapf(ErrInvalidLength, "declared length %d", length)
	}
	t, err := r.readByte()
	if err != nil {
		return nil, err
	}
	var elems []Elem
	for t != 0x00 && r.offset()-start < int(length) {
		key, err := r.readCString()
		if err != nil {
			return nil, err
		}
		codec, ok := lookupCodec(t)
		if !ok {
			return nil, UnknownTypeError{Type: t}
		}
		v, err := codec.decodeValue(r)
		if err != nil {
			return nil, err
		}
		elems = append(elems, Elem{Key: key, Value: v})
		t, err = r.readByte()
		if err != nil {
			return nil, err
		}
	}
	if t != 0x00 {
		return nil, errors.Wrap(ErrInvalidLength, "document not null terminated")
	}
	if r.offset()-start != int(length) {
		return nil, errors.Wrapf(ErrInvalidLength, "declared length %d, read %d", length, r.offset()-start)
	}
	return elems, nil
}

type doubleCodec struct{}

func (doubleCodec) byteLength(Val) int { return 8 }

func (doubleCodec) encodeValue(w *docWriter, v Val) error {
	return w.writeDouble(v.Double())
}

func (doubleCodec) decodeValue(r *docReader) (Val, error) {
	f, err := r.readDouble()
	if err != nil {
		return Val{}, err
	}
	return Double(f), nil
}

type stringCodec struct{}

func (stringCodec) byteLength(v Val) int { return 4 + len(v.StringValue()) + 1 }

func (stringCodec) encodeValue(w *docWriter, v Val) error {
	return w.writeString(v.StringValue())
}

func (stringCodec) decodeValue(r *docReader) (Val, error) {
	s, err := r.readString()
	if err != nil {
		return Val{}, err
	}
	return String(s), nil
}

type documentCodec struct{}

func (documentCodec) byteLength(v Val) int { return docByteLength(v.Document()) }

func (documentCodec) encodeValue(w *docWriter, v Val) error {
	return encodeDoc(w, v.Document())
}

func (documentCodec) decodeValue(r *docReader) (Val, error) {
	d, err := decodeDoc(r)
	if err != nil {
		return Val{}, err
	}
	return Document(d), nil
}

type arrayCodec struct{}

func (arrayCodec) byteLength(v Val) int { return arrByteLength(v.Array()) }

func (arrayCodec) encodeValue(w *docWriter, v Val) error {
	return encodeArr(w, v.Array())
}

func (arrayCodec) decodeValue(r *docReader) (Val, error) {
	a, err := decodeArr(r)
	if err != nil {
		return Val{}, err
	}
	return Array(a), nil
}

type binaryCodec struct{}

func (binaryCodec) byteLength(v Val) int {
	b := v.Binary()
	size := 4 + 1 + len(b.Data)
	if b.Subtype == bsontype.BinaryOld {
		size += 4
	}
	return size
}

func (binaryCodec) encodeValue(w *docWriter, v Val) error {
	b := v.Binary()
	total := int32(len(b.Data))
	if b.Subtype == bsontype.BinaryOld {
		total += 4
	}
	if err := w.writeInt32(total); err != nil {
		return err
	}
	if err := w.writeByte(b.Subtype); err != nil {
		return err
	}
	if b.Subtype == bsontype.BinaryOld {
		if err := w.writeInt32(total - 4); err != nil {
			return err
		}
	}
	return w.writeBytes(b.Data)
}

func (binaryCodec) decodeValue(r *docReader) (Val, error) {
	total, err := r.readInt32()
	if err != nil {
		return Val{}, err
	}
	if total < 0 {
		return Val{}, errors.Wrapf(ErrInvalidLength, "binary length %d", total)
	}
	subtype, err := r.readByte()
	if err != nil {
		return Val{}, err
	}
	if subtype == bsontype.BinaryOld {
		inner, err := r.readInt32()
		if err != nil {
			return Val{}, err
		}
		if inner != total-4 {
			return Val{}, errors.Wrapf(ErrInvalidBinaryLength, "outer %d, inner %d", total, inner)
		}
		total -= 4
	}
	data, err := r.readSlice(int(total))
	if err != nil {
		return Val{}, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return BinaryWithSubtype(out, subtype), nil
}

type objectIDCodec struct{}

func (objectIDCodec) byteLength(Val) int { return 12 }

func (objectIDCodec) encodeValue(w *docWriter, v Val) error {
	return w.writeObjectID(v.ObjectID())
}

func (objectIDCodec) decodeValue(r *docReader) (Val, error) {
	oid, err := r.readObjectID()
	if err != nil {
		return Val{}, err
	}
	return ObjectID(oid), nil
}

type booleanCodec struct{}

func (booleanCodec) byteLength(Val) int { return 1 }

func (booleanCodec) encodeValue(w *docWriter, v Val) error {
	var b byte
	if v.Boolean() {
		b = 0x01
	}
	return w.writeByte(b)
}

func (booleanCodec) decodeValue(r *docReader) (Val, error) {
	b, err := r.readByte()
	if err != nil {
		return Val{}, err
	}
	if b > 1 {
		return Val{}, errors.Wrapf(ErrInvalidBooleanValue, "byte 0x%02X", b)
	}
	return Boolean(b == 0x01), nil
}

type dateTimeCodec struct{}

func (dateTimeCodec) byteLength(Val) int { return 8 }

func (dateTimeCodec) encodeValue(w *docWriter, v Val) error {
	return w.writeInt64(v.DateTime())
}

func (dateTimeCodec) decodeValue(r *docReader) (Val, error) {
	ms, err := r.readInt64()
	if err != nil {
		return Val{}, err
	}
	return DateTime(ms), nil
}

type regexCodec struct{}

func (regexCodec) byteLength(v Val) int {
	rgx := v.Regex()
	return len(rgx.Pattern) + 1 + len(rgx.Options) + 1
}

func (regexCodec) encodeValue(w *docWriter, v Val) error {
	rgx := v.Regex()
	if err := w.writeCString(rgx.Pattern); err != nil {
		return err
	}
	return w.writeCString(rgx.Options)
}

func (regexCodec) decodeValue(r *docReader) (Val, error) {
	pattern, err := r.readCString()
	if err != nil {
		return Val{}, err
	}
	options, err := r.readCString()
	if err != nil {
		return Val{}, err
	}
	return Regex(pattern, options), nil
}

type dbPointerCodec struct{}

func (dbPointerCodec) byteLength(v Val) int {
	return 4 + len(v.DBPointer().DB) + 1 + 12
}

func (dbPointerCodec) encodeValue(w *docWriter, v Val) error {
	dbp := v.DBPointer()
	if err := w.writeString(dbp.DB); err != nil {
		return err
	}
	return w.writeObjectID(dbp.Pointer)
}

func (dbPointerCodec) decodeValue(r *docReader) (Val, error) {
	ns, err := r.readString()
	if err != nil {
		return Val{}, err
	}
	oid, err := r.readObjectID()
	if err != nil {
		return Val{}, err
	}
	return DBPointer(ns, oid), nil
}

type javaScriptCodec struct{}

func (javaScriptCodec) byteLength(v Val) int { return 4 + len(v.JavaScript()) + 1 }

func (javaScriptCodec) encodeValue(w *docWriter, v Val) error {
	return w.writeString(v.JavaScript())
}

func (javaScriptCodec) decodeValue(r *docReader) (Val, error) {
	code, err := r.readString()
	if err != nil {
		return Val{}, err
	}
	return JavaScript(code), nil
}

// symbolCodec decodes a symbol to a plain string Val, so the symbol tag is
// not preserved across a round trip.
type symbolCodec struct{}

func (symbolCodec) byteLength(v Val) int { return 4 + len(v.Symbol()) + 1 }

func (symbolCodec) encodeValue(w *docWriter, v Val) error {
	return w.writeString(v.Symbol())
}

func (symbolCodec) decodeValue(r *docReader) (Val, error) {
	s, err := r.readString()
	if err != nil {
		return Val{}, err
	}
	return String(s), nil
}

type int32Codec struct{}

func (int32Codec) byteLength(Val) int { return 4 }

func (int32Codec) encodeValue(w *docWriter, v Val) error {
	return w.writeInt32(v.Int32())
}

func (int32Codec) decodeValue(r *docReader) (Val, error) {
	i32, err := r.readInt32()
	if err != nil {
		return Val{}, err
	}
	return Int32(i32), nil
}

// timestampCodec lays the payload out increment first, then seconds, both as
// little-endian uint32.
type timestampCodec struct{}

func (timestampCodec) byteLength(Val) int { return 8 }

func (timestampCodec) encodeValue(w *docWriter, v Val) error {
	ts := v.Timestamp()
	if err := w.writeInt32(int32(ts.I)); err != nil {
		return err
	}
	return w.writeInt32(int32(ts.T))
}

func (timestampCodec) decodeValue(r *docReader) (Val, error) {
	i, err := r.readInt32()
	if err != nil {
		return Val{}, err
	}
	t, err := r.readInt32()
	if err != nil {
		return Val{}, err
	}
	return Timestamp(uint32(t), uint32(i)), nil
}

type int64Codec struct{}

func (int64Codec) byteLength(Val) int { return 8 }

func (int64Codec) encodeValue(w *docWriter, v Val) error {
	return w.writeInt64(v.Int64())
}

func (int64Codec) decodeValue(r *docReader) (Val, error) {
	i64, err := r.readInt64()
	if err != nil {
		return Val{}, err
	}
	return Int64(i64), nil
}

// emptyCodec handles the types whose payload is zero bytes: null, undefined,
// minkey, and maxkey.
type emptyCodec struct {
	construct func() Val
}

func (emptyCodec) byteLength(Val) int { return 0 }

func (emptyCodec) encodeValue(*docWriter, Val) error { return nil }

func (ec emptyCodec) decodeValue(*docReader) (Val, error) { return ec.construct(), nil }

// reservedCodec occupies a registry slot for a type that is recognized but
// not implemented. Every operation fails.
type reservedCodec struct {
	t bsontype.Type
}

func (reservedCodec) byteLength(Val) int { return 0 }

func (rc reservedCodec) encodeValue(*docWriter, Val) error {
	return errors.Errorf("encoding of BSON type %s is not supported", rc.t)
}

func (rc reservedCodec) decodeValue(*docReader) (Val, error) {
	return Val{}, errors.Errorf("decoding of BSON type %s is not supported", rc.t)
}
