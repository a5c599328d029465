// Copyright 2024 The iim Authors
// SPDX-License-Identifier: MIT

package iim

import (
	"encoding/binary"
	"errors"
	"io"
)

var errShortRead = errors.New("short read")

func newStreamReader(r io.ReadSeeker) *streamReader {
	return &streamReader{
		r:         r,
		byteOrder: binary.BigEndian,
	}
}

// streamReader is a wrapper around a ReadSeeker that provides methods to read binary data.
// Note that this is not thread safe.
type streamReader struct {
	// The current Reader.
	r         io.ReadSeeker
	byteOrder binary.ByteOrder

	buf []byte

	readErr error
}

func (e *streamReader) allocateBuf(length int) {
	if length > cap(e.buf) {
		e.buf = make([]byte, length)
	}
}

func (e *streamReader) pos() int64 {
	n, _ := e.r.Seek(0, 1)
	return n
}

func (e *streamReader) read1E() (uint8, error) {
	const n = 1
	if err := e.readNIntoBufE(n); err != nil {
		return 0, err
	}
	return e.buf[0], nil
}

// readBytesVolatileE reads a slice of bytes from the stream
// which is not guaranteed to be valid after the next read.
func (e *streamReader) readBytesVolatileE(n int) ([]byte, error) {
	if err := e.readNIntoBufE(n); err != nil {
		return nil, err
	}
	return e.buf[:n], nil
}

func (e *streamReader) readNIntoBufE(n int) error {
	e.allocateBuf(n)
	n2, err := io.ReadFull(e.r, e.buf[:n])
	if err != nil {
		return err
	}
	if n != n2 {
		return errShortRead
	}
	return nil
}

func (e *streamReader) seek(pos int64) {
	_, err := e.r.Seek(pos, io.SeekStart)
	if err != nil {
		e.stop(err)
	}
}

func (e *streamReader) stop(err error) {
	if err != nil {
		e.readErr = err
	}
	panic(errStop)
}

// isExhausted reports whether err marks a normal end of the source, as
// opposed to a read fault.
func isExhausted(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
