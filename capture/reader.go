// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package capture

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
	"golang.org/x/exp/mmap"
)

// Archive provides concurrent reads of entries from an io.ReaderAt.
type Archive struct {
	reader    io.ReaderAt
	header    Header
	dataStart int64
}

// Open reads the header of the archive in r and checks that r actually
// is an archive this package can read.
func Open(r io.ReaderAt) (*Archive, error) {
	magic := make([]byte, MagicLength)
	if _, err := r.ReadAt(magic, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	} else if !bytes.Equal(magic, Magic[:]) {
		return nil, ErrFileFormat
	}

	headerSizeBytes := make([]byte, HeaderSizeNumberLength)
	if _, err := r.ReadAt(headerSizeBytes, MagicLength); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	}
	headerSize := binaryToInt64(headerSizeBytes)
	if headerSize <= 0 || headerSize > 1<<30 {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if _, err := r.ReadAt(headerBytes, MagicLength+HeaderSizeNumberLength); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	}
	if header.Version < 1 || header.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFileFormat, header.Version)
	}

	dataStart := MagicLength + HeaderSizeNumberLength + headerSize
	limit := int64(-1)
	if size, ok := readerSize(r); ok {
		limit = size - dataStart
	}
	for _, e := range header.Index {
		if err := e.check(limit); err != nil {
			return nil, err
		}
	}

	return &Archive{
		reader:    r,
		header:    header,
		dataStart: dataStart,
	}, nil
}

// maxRatio bounds how far lz4 can expand an entry.
const maxRatio = 255

// check rejects entries whose sizes cannot be real. A negative limit
// skips the bounds check against the data section.
func (e IndexEntry) check(limit int64) error {
	switch {
	case e.Offset < 0 || e.Size < 0 || e.CompressedSize < 0:
		return fmt.Errorf("%w: entry %s has a negative size", ErrFileFormat, e.Name)
	case e.Size > 64 && (e.Size-64)/maxRatio > e.CompressedSize:
		return fmt.Errorf("%w: entry %s claims %d bytes from %d", ErrFileFormat, e.Name, e.Size, e.CompressedSize)
	case limit >= 0 && (e.Offset > limit || e.CompressedSize > limit-e.Offset):
		return fmt.Errorf("%w: entry %s is out of bounds", ErrFileFormat, e.Name)
	}
	return nil
}

func readerSize(r io.ReaderAt) (int64, bool) {
	switch r := r.(type) {
	case interface{ Size() int64 }:
		return r.Size(), true
	case interface{ Len() int }:
		return int64(r.Len()), true
	}
	return 0, false
}

// Header returns the decoded header
func (a *Archive) Header() Header {
	return a.header
}

// Names lists the entries in the order they were added
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.header.Index))
	for _, e := range a.header.Index {
		names = append(names, e.Name)
	}
	return names
}

// Open returns a reader of the decompressed entry name.
func (a *Archive) Open(name string) (io.Reader, error) {
	e, ok := a.header.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	section := io.NewSectionReader(a.reader, a.dataStart+e.Offset, e.CompressedSize)
	return lz4.NewReader(section), nil
}

// ReadAll returns the entire decompressed contents of entry name.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	e, ok := a.header.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := e.check(-1); err != nil {
		return nil, err
	}
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	data := make([]byte, e.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: entry %s: %v", ErrFileFormat, name, err)
	}
	return data, nil
}

// File is an archive memory mapped from disk
type File struct {
	*Archive
	mapped *mmap.ReaderAt
}

// OpenFile memory maps the archive at path.
func OpenFile(path string) (*File, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	ar, err := Open(r)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &File{Archive: ar, mapped: r}, nil
}

// Close unmaps the file. Readers obtained from it must not be used
// afterwards.
func (f *File) Close() error {
	return f.mapped.Close()
}
