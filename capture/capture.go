// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package capture is an lz4 backed archive for recorded adapter data.
// Every entry is compressed on its own and the index in front of the
// data knows where each entry lives, so an archive can be memory mapped
// and entries read concurrently without scanning. Offsets are relative
// to the end of the header, which lets the header be written without
// knowing its encoded size in advance.
package capture

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
)

// package errors
var (
	ErrFileFormat = errors.New("corrupted or not a capture archive")
	ErrNotFound   = errors.New("no such entry in archive")
	ErrDuplicate  = errors.New("entry already added")
)

// Magic opens every archive
var Magic = [MagicLength]byte{'R', 'H', 'C', '\x00'}

// Sizes relevant to the start of the file
const (
	MagicLength            = 4
	HeaderSizeNumberLength = 8
)

// FormatVersion is written by Builder and the newest Open accepts
const FormatVersion = 1

// IndexEntry is info for one entry in the index.
type IndexEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header is the gob encoded header that follows the magic.
type Header struct {
	Author      string
	DateCreated int64
	Version     int64
	Index       []IndexEntry
}

// Find returns the index entry with the given name.
func (h *Header) Find(name string) (IndexEntry, bool) {
	for _, e := range h.Index {
		if e.Name == name {
			return e, true
		}
	}
	return IndexEntry{}, false
}

func int64ToBinary(num int64) []byte {
	bts := make([]byte, HeaderSizeNumberLength)
	binary.LittleEndian.PutUint64(bts, uint64(num))
	return bts
}

func binaryToInt64(bts []byte) int64 {
	return int64(binary.LittleEndian.Uint64(bts))
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	enc := gob.NewEncoder(&encoded)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(bts))
	return dec.Decode(obj)
}
