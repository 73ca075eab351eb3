// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package capture

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/pierrec/lz4"
)

type entry struct {
	name       string
	size       int64
	compressed []byte
}

// Builder collects compressed entries and writes them out as one
// archive. Archives cannot be appended to once written.
type Builder struct {
	header Header

	mutex   sync.Mutex
	entries []entry
}

// NewBuilder creates a Builder. The Index and Version of header are
// filled in by WriteTo.
func NewBuilder(header Header) *Builder {
	return &Builder{header: header}
}

// Add compresses everything read from r as entry name. It is safe to
// use concurrently; entries keep the order in which Add returned.
func (b *Builder) Add(name string, r io.Reader) error {
	var compressed bytes.Buffer
	writer := lz4.NewWriter(&compressed)
	written, err := io.Copy(writer, r)
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, e := range b.entries {
		if e.name == name {
			return fmt.Errorf("%w: %s", ErrDuplicate, name)
		}
	}
	b.entries = append(b.entries, entry{
		name:       name,
		size:       written,
		compressed: compressed.Bytes(),
	})
	return nil
}

// Len returns the number of entries added
func (b *Builder) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.entries)
}

// WriteTo writes the archive: magic, header size, header, then the
// compressed entries back to back.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	header.Version = FormatVersion
	header.Index = nil
	var offset int64
	for _, e := range b.entries {
		header.Index = append(header.Index, IndexEntry{
			Name:           e.name,
			Offset:         offset,
			Size:           e.size,
			CompressedSize: int64(len(e.compressed)),
		})
		offset += int64(len(e.compressed))
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var total int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		total += int64(n)
		return err
	}
	if err := write(Magic[:]); err != nil {
		return total, err
	}
	if err := write(int64ToBinary(int64(len(rawHeader)))); err != nil {
		return total, err
	}
	if err := write(rawHeader); err != nil {
		return total, err
	}
	for _, e := range b.entries {
		if err := write(e.compressed); err != nil {
			return total, err
		}
	}
	return total, nil
}
