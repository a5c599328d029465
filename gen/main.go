// Copyright 2024 The iim Authors
// SPDX-License-Identifier: MIT

//go:generate go run main.go
package main

import (
	"bytes"
	"encoding/binary"
	"log"
	"os"
	"path/filepath"
)

// Writes the committed sample files under ../testdata: a small JPEG carrying
// an IIM block inside an APP13 Photoshop resource, and a file whose only IIM
// block starts beyond the default scan window.

func main() {
	outDir := filepath.Join("..", "testdata")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	files := map[string][]byte{
		"sample.jpg": sampleJPEG(),
		"noiptc.bin": noIPTC(),
	}

	for name, b := range files {
		if err := os.WriteFile(filepath.Join(outDir, name), b, 0o644); err != nil {
			log.Fatal(err)
		}
	}
}

// tag encodes one application record tag: marker, record 2, dataset id,
// big-endian length, value.
func tag(dataset uint8, value string) []byte {
	b := []byte{0x1C, 0x02, dataset, 0, 0}
	binary.BigEndian.PutUint16(b[3:], uint16(len(value)))
	return append(b, value...)
}

// iimBlock builds the record-2 block. String values are ISO 8859-1 on the
// wire, hence the \xc5 (Å) and \xa9 (©) escapes.
func iimBlock() []byte {
	var b bytes.Buffer
	b.Write([]byte{0x1C, 0x02, 0x00, 0x00, 0x02, 0x00, 0x04}) // record version 4
	b.Write(tag(120, "Fishing boats at dusk, \xc5lesund harbour"))
	b.Write(tag(25, "harbour"))
	b.Write(tag(25, "boats"))
	b.Write(tag(25, "dusk"))
	b.Write(tag(20, "travel"))
	b.Write(tag(80, "K. Nordvik"))
	b.Write(tag(90, "\xc5lesund"))
	b.Write(tag(55, "20240612"))
	b.Write(tag(105, "Harbour at dusk"))
	b.Write(tag(116, "\xa9 2024 K. Nordvik"))
	return b.Bytes()
}

// exifSegment builds a minimal APP1 EXIF segment: a big-endian TIFF whose
// IFD0 holds just orientation and resolution unit. Real writing tools emit
// EXIF alongside the IPTC block, and cross-library benchmarks need one.
func exifSegment() []byte {
	var tiff bytes.Buffer
	tiff.WriteString("MM\x00\x2A")
	binary.Write(&tiff, binary.BigEndian, uint32(8))
	binary.Write(&tiff, binary.BigEndian, uint16(2))
	for _, e := range []struct {
		tag   uint16
		value uint16
	}{
		{0x0112, 1}, // Orientation: normal
		{0x0128, 2}, // ResolutionUnit: inches
	} {
		binary.Write(&tiff, binary.BigEndian, e.tag)
		binary.Write(&tiff, binary.BigEndian, uint16(3)) // SHORT
		binary.Write(&tiff, binary.BigEndian, uint32(1))
		binary.Write(&tiff, binary.BigEndian, e.value)
		tiff.Write([]byte{0, 0})
	}
	binary.Write(&tiff, binary.BigEndian, uint32(0))

	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xE1})
	content := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	binary.Write(&b, binary.BigEndian, uint16(len(content)+2))
	b.Write(content)
	return b.Bytes()
}

// resource wraps data in an 8BIM image resource block with the given id and
// an empty name.
func resource(id uint16, data []byte) []byte {
	var b bytes.Buffer
	b.WriteString("8BIM")
	binary.Write(&b, binary.BigEndian, id)
	b.Write([]byte{0, 0})
	binary.Write(&b, binary.BigEndian, uint32(len(data)))
	b.Write(data)
	if len(data)%2 == 1 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

// sampleJPEG wraps the IIM block the way Photoshop writes it: SOI, APP1 with
// the EXIF block, one APP13 segment holding the 8BIM resources (the IPTC
// block plus a digest block so the record decoder sees a foreign tag rather
// than EOF), EOI.
func sampleJPEG() []byte {
	resources := append(resource(0x0404, iimBlock()), resource(0x0425, make([]byte, 16))...)

	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8})
	b.Write(exifSegment())
	b.Write([]byte{0xFF, 0xED})
	content := append([]byte("Photoshop 3.0\x00"), resources...)
	binary.Write(&b, binary.BigEndian, uint16(len(content)+2))
	b.Write(content)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

// noIPTC carries false markers throughout the scan window and a real block
// only at offset 540, past the default bound.
func noIPTC() []byte {
	var b bytes.Buffer
	for i := 0; i < 540; i++ {
		if i%7 == 0 {
			b.WriteByte(0x1C)
		} else {
			b.WriteByte(byte('A' + i%23))
		}
	}
	b.Write([]byte{0x1C, 0x02, 0x00, 0x00, 0x02, 0x00, 0x04})
	b.Write(tag(105, "hidden"))
	return b.Bytes()
}
