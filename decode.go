// Copyright 2024 The iim Authors
// SPDX-License-Identifier: MIT

package iim

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	// tagMarker begins every IIM tag header.
	tagMarker = 0x1C
	// applicationRecord is the IIM record number carrying application
	// metadata, the only record decoded here.
	applicationRecord = 2
	// versionDataset is dataset 0, the record version tag that opens a block.
	versionDataset = 0

	// tagHeaderSize is marker + record + dataset + 2 length bytes.
	tagHeaderSize = 5
)

// stopCause records why the record loop ended. Callers see the same behavior
// for all of them: decoding stops cleanly with whatever was accumulated.
type stopCause uint8

const (
	// stopExhausted: the source ended inside a tag header.
	stopExhausted stopCause = iota + 1
	// stopForeignRecord: the next tag is not an application record tag.
	stopForeignRecord
	// stopTruncatedValue: a declared value length ran past the source end.
	stopTruncatedValue
)

func newRecordDecoder(e *streamReader, opts Options) *recordDecoder {
	return &recordDecoder{
		streamReader:           e,
		iso88591CharsetDecoder: charmap.ISO8859_1.NewDecoder(),
		opts:                   opts,
		meta:                   &Metadata{},
	}
}

type recordDecoder struct {
	*streamReader

	iso88591CharsetDecoder *encoding.Decoder
	opts                   Options

	meta  *Metadata
	cause stopCause
}

// decodeRecords decodes the marker-delimited IIM tags starting at the
// current cursor position, until the first tag that is not a valid record-2
// continuation. Record-2 tags are contiguous in practice, so a tag from any
// other record means the block has ended. A truncated trailing tag is
// dropped, never partially stored.
func (d *recordDecoder) decodeRecords() *Metadata {
	for {
		hdr, err := d.readBytesVolatileE(tagHeaderSize)
		if err != nil {
			d.stopWith(stopExhausted, err)
			return d.meta
		}
		marker, record, dataset := hdr[0], hdr[1], hdr[2]
		length := d.byteOrder.Uint16(hdr[3:tagHeaderSize])

		if marker != tagMarker || record != applicationRecord {
			d.cause = stopForeignRecord
			return d.meta
		}

		raw, err := d.readBytesVolatileE(int(length))
		if err != nil {
			d.stopWith(stopTruncatedValue, err)
			return d.meta
		}

		// The list table wins over the scalar table; the two never share a
		// dataset id.
		if name, ok := listDatasetNames[dataset]; ok {
			d.meta.appendList(name, d.decodeString(raw))
		} else if name, ok := scalarDatasetNames[dataset]; ok {
			d.meta.setScalar(name, d.decodeString(raw))
		} else {
			d.opts.Warnf("iim: discarding unsupported dataset 2:%d (%d bytes)", dataset, length)
		}
	}
}

func (d *recordDecoder) stopWith(cause stopCause, err error) {
	if !isExhausted(err) {
		d.stop(err)
	}
	d.cause = cause
}

// decodeString copies raw value bytes out of the volatile read buffer into a
// string. Values carry no charset declaration of their own; ISO 8859-1 maps
// every byte and is transparent to ASCII, so nothing is lost.
func (d *recordDecoder) decodeString(raw []byte) string {
	v, err := d.iso88591CharsetDecoder.Bytes(raw)
	if err != nil {
		d.opts.Warnf("iim: charset decode: %v", err)
		return string(raw)
	}
	return string(v)
}
