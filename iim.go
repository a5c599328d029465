// Copyright 2024 The iim Authors
// SPDX-License-Identifier: MIT

// Package iim locates and decodes IPTC IIM record-2 ("application record")
// metadata embedded in arbitrary binary files, such as JPEG photos written
// by newsroom and desktop tools.
//
// The reader scans a bounded prefix of the source for the marker sequence
// that opens an application record block, then walks the length-prefixed
// tags that follow, accumulating single-valued and list-valued attributes.
// Malformed or truncated streams never fail a decode; it stops and returns
// what it has.
package iim

import (
	"fmt"
	"io"
	"os"
)

// DefaultScanWindow is the default scan bound: the block marker is searched
// for at offsets 0 through DefaultScanWindow, inclusive.
const DefaultScanWindow = 512

var (
	// ErrNoMetadata is returned by Decode when no IIM application record
	// block starts within the scan window.
	ErrNoMetadata = fmt.Errorf("iim: no IPTC metadata found")

	// Internal error to signal that we should stop any further processing.
	errStop = fmt.Errorf("stop")
)

// Options contains the options for the Decode function.
type Options struct {
	// The Reader (typically a *os.File) to read metadata from, positioned at
	// the start of the data.
	R io.ReadSeeker

	// ScanWindow is the inclusive upper bound, in bytes from the start, for
	// locating the block marker. If zero, DefaultScanWindow is used. Writing
	// tools place IIM blocks near the start of the file; the bounded scan
	// avoids reading an entire large file just to report absence.
	ScanWindow int64

	// Warnf will be called for each warning, e.g. a discarded unsupported
	// dataset. May be nil.
	Warnf func(string, ...any)
}

// Decode reads IIM application records from r and returns the decoded
// attributes. Absence of metadata is reported as ErrNoMetadata; a stream
// that ends or goes foreign mid-block is not an error and yields whatever
// was decoded up to that point.
func Decode(opts Options) (meta *Metadata, err error) {
	if opts.R == nil {
		return nil, fmt.Errorf("no reader provided")
	}
	if opts.ScanWindow < 0 {
		return nil, fmt.Errorf("negative scan window")
	}
	if opts.ScanWindow == 0 {
		opts.ScanWindow = DefaultScanWindow
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}

	e := newStreamReader(opts.R)

	defer func() {
		if r := recover(); r != nil {
			if r != errStop {
				panic(r)
			}
			meta, err = nil, e.readErr
		}
	}()

	if _, found := scanForMarker(e, opts.ScanWindow); !found {
		return nil, ErrNoMetadata
	}

	d := newRecordDecoder(e, opts)
	return d.decodeRecords(), nil
}

// DecodeFile decodes the named file. The returned Metadata holds copies of
// all values and stays valid after the file is closed.
func DecodeFile(filename string) (*Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(Options{R: f})
}
