// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package abi

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/devblok/rhi/api"
)

// ErrorBufferSize is the capacity of the buffer the loader hands to
// CreateDevice, terminator included.
const ErrorBufferSize = 512

// WriteError copies msg into buf as a NUL terminated string, truncating
// on a rune boundary when it does not fit. A zero length buf is left
// untouched.
func WriteError(buf []byte, msg string) {
	if len(buf) == 0 {
		return
	}
	n := len(msg)
	if n > len(buf)-1 {
		n = len(buf) - 1
		for n > 0 && !utf8.RuneStart(msg[n]) {
			n--
		}
	}
	copy(buf, msg[:n])
	buf[n] = 0
}

// ReadError returns the text in buf up to the first NUL.
func ReadError(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

// WriteStatus writes a failure as "<Status>: <message>".
func WriteStatus(buf []byte, status api.Status, msg string) {
	WriteError(buf, status.String()+": "+msg)
}

// ReadStatus splits a message written by WriteStatus. Text without a
// known status prefix is reported as InternalError in full.
func ReadStatus(buf []byte) (api.Status, string) {
	text := ReadError(buf)
	if i := strings.Index(text, ": "); i > 0 {
		if status, ok := api.ParseStatus(text[:i]); ok && status != api.StatusOk {
			return status, text[i+2:]
		}
	}
	return api.StatusInternalError, text
}
