package mapedit

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"reflect"
	"sort"
)

// EntityHash is a consistent hash (content address) over an entity's
// contents: its kind, id, version, tags and kind-specific payload (location,
// node list, or member list). Two entities with the same EntityHash are
// considered equal for the purposes of Difference computation; this lets the
// spatial index and egress adapters tell "payload or position changed" apart
// from "nothing changed" without a deep equality check at every call site.
//
// A content-address should change if an exported field's value changes, and
// should not change merely because fields were declared in a different
// order.
type EntityHash contentAddress

func (h EntityHash) MarshalText() ([]byte, error)     { return contentAddress(h).MarshalText() }
func (h *EntityHash) UnmarshalText(text []byte) error { return (*contentAddress)(h).UnmarshalText(text) }
func (h EntityHash) String() string                   { return contentAddress(h).String() }
func (h EntityHash) IsZero() bool                     { return contentAddress(h).IsZero() }

// ContentAddress computes the EntityHash of e.
func ContentAddress(e Entity) EntityHash {
	d := sha1.New()
	t := reflect.TypeOf(e)
	d.Write([]byte(t.PkgPath()))
	d.Write([]byte(t.Name()))
	if err := reflectiveHash(d, reflect.ValueOf(e)); err != nil {
		// Entity is implemented only by the three variants declared in this
		// package, all of which are plain structs of hashable field kinds; a
		// failure here means a new variant was added without updating this
		// function.
		panic(fmt.Sprintf("mapedit: un-hashable entity (type %T): %v", e, err))
	}
	return EntityHash(d.Sum(nil))
}

// reflectiveHash writes a deterministic digest of node's exported fields,
// sorted by name, recursing into nested structs, slices and maps. This
// mirrors the teacher library's reflection-based content-addressing scheme,
// retargeted from an arbitrary graph Value to this package's fixed Entity
// variants.
func reflectiveHash(digest hash.Hash, node reflect.Value) error {
	switch node.Kind() {
	case reflect.Struct:
		fields := reflect.VisibleFields(node.Type())
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		for _, field := range fields {
			if !field.IsExported() {
				continue
			}
			digest.Write([]byte(field.Name))
			if err := reflectiveHash(digest, node.FieldByIndex(field.Index)); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
		}
		return nil
	case reflect.String:
		digest.Write([]byte(node.String()))
		return nil
	case reflect.Int:
		buf := make([]byte, binary.MaxVarintLen64)
		n := binary.PutVarint(buf, node.Int())
		digest.Write(buf[:n])
		return nil
	case reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return binary.Write(digest, binary.BigEndian, node.Interface())
	case reflect.Slice, reflect.Array:
		digest.Write([]byte{byte(node.Len())})
		for i := 0; i < node.Len(); i++ {
			if err := reflectiveHash(digest, node.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	case reflect.Map:
		keys := node.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface()) })
		for _, k := range keys {
			if err := reflectiveHash(digest, k); err != nil {
				return err
			}
			if err := reflectiveHash(digest, node.MapIndex(k)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Interface:
		if node.IsNil() {
			return nil
		}
		return reflectiveHash(digest, node.Elem())
	default:
		return fmt.Errorf("unsupported kind %s", node.Kind())
	}
}

// contentAddress is the shared sha1-sized hash primitive underlying
// EntityHash, mirroring the teacher's contentAddress type.
type contentAddress [sha1.Size]byte

func (h contentAddress) MarshalText() ([]byte, error) {
	text := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(text, h[:])
	return text, nil
}

func (h *contentAddress) UnmarshalText(text []byte) error {
	n, err := hex.Decode(h[:], text)
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	if n != len(h) {
		return fmt.Errorf("not enough bytes: %w", io.ErrUnexpectedEOF)
	}
	return nil
}

func (h contentAddress) String() string { return hex.EncodeToString(h[:]) }

func (h contentAddress) IsZero() bool { return h == contentAddress{} }
