// Package protocol implements the wire framing and field encoding for the
// core's binary packet stream: varint-length-prefixed frames, primitive
// field codecs (varint, string, big-endian fixed-width, angle,
// position-delta, block-position, opaque NBT pass-through), and a
// struct-tag-driven marshaller that turns a tagged Go struct into a wire
// payload and back.
package protocol

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
)

const tagName = "mc"

// BlockPosition is the (x, y, z) triple packed into the 8-byte
// block-position wire encoding (spec §4.A).
type BlockPosition struct {
	X, Y, Z int32
}

// Marshal encodes a Packet's tagged fields into its wire payload, in
// struct field order. Fields without an "mc" tag (or tagged "-") are
// skipped, letting a struct carry untagged bookkeeping fields.
func Marshal(p Packet) ([]byte, error) {
	v := reflect.ValueOf(p)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("marshal: expected struct, got %s", v.Kind())
	}

	var buf bytes.Buffer
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}
		if err := WriteField(&buf, tag, v.Field(i).Interface()); err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", field.Name, err)
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into p's tagged fields, in struct field order.
func Unmarshal(data []byte, p Packet) error {
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("unmarshal: expected non-nil pointer, got %T", p)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal: expected pointer to struct, got pointer to %s", v.Kind())
	}

	r := bytes.NewReader(data)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}
		val, err := ReadField(r, tag)
		if err != nil {
			return fmt.Errorf("unmarshal field %s: %w", field.Name, err)
		}
		fv := v.Field(i)
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(fv.Type()) {
			return fmt.Errorf("unmarshal field %s: cannot assign %s to %s", field.Name, rv.Type(), fv.Type())
		}
		fv.Set(rv)
	}
	return nil
}

// WriteField encodes a single value to w according to tag.
func WriteField(w io.Writer, tag string, val any) error {
	switch tag {
	case "varint":
		return WriteVarInt(w, val.(int32))
	case "string":
		return WriteString(w, val.(string))
	case "u8":
		return WriteBEFixed(w, val.(uint8))
	case "i8":
		return WriteBEFixed(w, val.(int8))
	case "u16":
		return WriteBEFixed(w, val.(uint16))
	case "i16":
		return WriteBEFixed(w, val.(int16))
	case "i32":
		return WriteBEFixed(w, val.(int32))
	case "i64":
		return WriteBEFixed(w, val.(int64))
	case "f32":
		return WriteBEFixed(w, val.(float32))
	case "f64":
		return WriteBEFixed(w, val.(float64))
	case "bool":
		b := byte(0)
		if val.(bool) {
			b = 1
		}
		return WriteBEFixed(w, b)
	case "uuid":
		return WriteUUID(w, val.([16]byte))
	case "angle":
		return WriteBEFixed(w, EncodeAngle(val.(float64)))
	case "posdelta":
		return WriteBEFixed(w, EncodePositionDelta(val.(float64)))
	case "blockpos":
		bp := val.(BlockPosition)
		packed, err := EncodeBlockPosition(bp.X, bp.Y, bp.Z)
		if err != nil {
			return err
		}
		return WriteBEFixed(w, packed)
	case "raw":
		_, err := w.Write(val.([]byte))
		return err
	default:
		return fmt.Errorf("unknown field tag %q", tag)
	}
}

// ReadField decodes a single value from r according to tag.
func ReadField(r io.Reader, tag string) (any, error) {
	switch tag {
	case "varint":
		return ReadVarInt(r)
	case "string":
		return ReadString(r)
	case "u8":
		var v uint8
		err := ReadBEFixed(r, &v)
		return v, err
	case "i8":
		var v int8
		err := ReadBEFixed(r, &v)
		return v, err
	case "u16":
		var v uint16
		err := ReadBEFixed(r, &v)
		return v, err
	case "i16":
		var v int16
		err := ReadBEFixed(r, &v)
		return v, err
	case "i32":
		var v int32
		err := ReadBEFixed(r, &v)
		return v, err
	case "i64":
		var v int64
		err := ReadBEFixed(r, &v)
		return v, err
	case "f32":
		var v float32
		err := ReadBEFixed(r, &v)
		return v, err
	case "f64":
		var v float64
		err := ReadBEFixed(r, &v)
		return v, err
	case "bool":
		var b byte
		if err := ReadBEFixed(r, &b); err != nil {
			return nil, err
		}
		return b != 0, nil
	case "uuid":
		return ReadUUID(r)
	case "angle":
		var b byte
		if err := ReadBEFixed(r, &b); err != nil {
			return nil, err
		}
		return DecodeAngle(b), nil
	case "posdelta":
		var v int16
		if err := ReadBEFixed(r, &v); err != nil {
			return nil, err
		}
		return DecodePositionDelta(v), nil
	case "blockpos":
		var packed uint64
		if err := ReadBEFixed(r, &packed); err != nil {
			return nil, err
		}
		x, y, z := DecodeBlockPosition(packed)
		return BlockPosition{X: x, Y: y, Z: z}, nil
	case "raw":
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unknown field tag %q", tag)
	}
}
