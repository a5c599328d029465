package iim_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/photometa/iim"
)

// tag encodes one application record tag: marker, record 2, dataset id,
// big-endian length, value.
func tag(dataset uint8, value string) []byte {
	b := []byte{0x1C, 0x02, dataset, byte(len(value) >> 8), byte(len(value))}
	return append(b, value...)
}

// versionTag opens a block: record 2, dataset 0, version 4.
func versionTag() []byte {
	return tag(0, "\x00\x04")
}

func stream(prefix []byte, tags ...[]byte) *bytes.Reader {
	var b bytes.Buffer
	b.Write(prefix)
	for _, t := range tags {
		b.Write(t)
	}
	return bytes.NewReader(b.Bytes())
}

func TestDecode(t *testing.T) {
	c := qt.New(t)

	meta, err := iim.Decode(iim.Options{R: stream(nil, versionTag(), tag(116, "ok"), tag(25, "alpha"), tag(25, "beta"))})
	c.Assert(err, qt.IsNil)

	v, found := meta.Attribute("copyright notice")
	c.Assert(found, qt.IsTrue)
	c.Assert(v, qt.Equals, "ok")
	c.Assert(meta.List("keywords"), qt.DeepEquals, []string{"alpha", "beta"})
	c.Assert(meta.Keywords(), qt.DeepEquals, []string{"alpha", "beta"})
	c.Assert(meta.Len(), qt.Equals, 2)
}

func TestDecodeBinaryPrefix(t *testing.T) {
	c := qt.New(t)

	// Fifty bytes of arbitrary binary, including false marker bytes, then
	// the block, then a tag from another record.
	prefix := bytes.Repeat([]byte{0xFF, 0x00, 0x1C, 0x99, 0x47}, 10)
	meta, err := iim.Decode(iim.Options{R: stream(prefix, versionTag(), tag(120, "cat"), []byte{0x1C, 0x07, 0x00, 0x00, 0x02, 'x', 'y'})})
	c.Assert(err, qt.IsNil)

	v, _ := meta.Attribute("caption/abstract")
	c.Assert(v, qt.Equals, "cat")
	c.Assert(meta.Len(), qt.Equals, 1)
}

func TestDecodeLastWriteWins(t *testing.T) {
	c := qt.New(t)

	meta, err := iim.Decode(iim.Options{R: stream(nil, versionTag(), tag(105, "A"), tag(105, "B"))})
	c.Assert(err, qt.IsNil)

	v, _ := meta.Attribute("headline")
	c.Assert(v, qt.Equals, "B")
}

func TestDecodeUnknownDataset(t *testing.T) {
	c := qt.New(t)

	var warnings []string
	meta, err := iim.Decode(iim.Options{
		R: stream(nil, versionTag(), tag(116, "ok"), tag(200, "junk"), tag(105, "B")),
		Warnf: func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		},
	})
	c.Assert(err, qt.IsNil)

	c.Assert(meta.Len(), qt.Equals, 2)
	v, _ := meta.Attribute("copyright notice")
	c.Assert(v, qt.Equals, "ok")
	v, _ = meta.Attribute("headline")
	c.Assert(v, qt.Equals, "B")
	c.Assert(strings.Join(warnings, "\n"), qt.Contains, "dataset 2:200")
}

func TestDecodeTruncatedValue(t *testing.T) {
	c := qt.New(t)

	// The headline header declares ten value bytes with only four left.
	meta, err := iim.Decode(iim.Options{R: stream(nil, versionTag(), tag(116, "ok"), []byte{0x1C, 0x02, 105, 0x00, 0x0A, 'f', 'o', 'u', 'r'})})
	c.Assert(err, qt.IsNil)

	v, _ := meta.Attribute("copyright notice")
	c.Assert(v, qt.Equals, "ok")
	_, found := meta.Attribute("headline")
	c.Assert(found, qt.IsFalse)
}

func TestDecodeIdempotent(t *testing.T) {
	c := qt.New(t)

	var b bytes.Buffer
	b.Write(versionTag())
	b.Write(tag(116, "ok"))
	b.Write(tag(25, "alpha"))
	b.Write(tag(25, "beta"))
	b.Write(tag(20, "travel"))

	first, err := iim.Decode(iim.Options{R: bytes.NewReader(b.Bytes())})
	c.Assert(err, qt.IsNil)
	second, err := iim.Decode(iim.Options{R: bytes.NewReader(b.Bytes())})
	c.Assert(err, qt.IsNil)

	c.Assert(second.Scalars(), qt.DeepEquals, first.Scalars())
	c.Assert(second.Lists(), qt.DeepEquals, first.Lists())
}

func TestDecodeNoMetadata(t *testing.T) {
	c := qt.New(t)

	c.Run("empty stream", func(c *qt.C) {
		_, err := iim.Decode(iim.Options{R: bytes.NewReader(nil)})
		c.Assert(err, qt.ErrorIs, iim.ErrNoMetadata)
	})

	c.Run("no marker at all", func(c *qt.C) {
		_, err := iim.Decode(iim.Options{R: bytes.NewReader(bytes.Repeat([]byte{'x'}, 1000))})
		c.Assert(err, qt.ErrorIs, iim.ErrNoMetadata)
	})

	c.Run("false markers only", func(c *qt.C) {
		_, err := iim.Decode(iim.Options{R: bytes.NewReader(bytes.Repeat([]byte{0x1C, 0x99}, 400))})
		c.Assert(err, qt.ErrorIs, iim.ErrNoMetadata)
	})

	c.Run("block beyond window", func(c *qt.C) {
		b := append(bytes.Repeat([]byte{'x'}, iim.DefaultScanWindow+1), versionTag()...)
		_, err := iim.Decode(iim.Options{R: bytes.NewReader(b)})
		c.Assert(err, qt.ErrorIs, iim.ErrNoMetadata)
	})
}

func TestDecodeScanWindow(t *testing.T) {
	c := qt.New(t)

	block := append(versionTag(), tag(105, "deep")...)

	c.Run("block at default bound", func(c *qt.C) {
		b := append(bytes.Repeat([]byte{'x'}, iim.DefaultScanWindow), block...)
		meta, err := iim.Decode(iim.Options{R: bytes.NewReader(b)})
		c.Assert(err, qt.IsNil)
		v, _ := meta.Attribute("headline")
		c.Assert(v, qt.Equals, "deep")
	})

	c.Run("wider window", func(c *qt.C) {
		b := append(bytes.Repeat([]byte{'x'}, 2000), block...)
		meta, err := iim.Decode(iim.Options{R: bytes.NewReader(b), ScanWindow: 2000})
		c.Assert(err, qt.IsNil)
		v, _ := meta.Attribute("headline")
		c.Assert(v, qt.Equals, "deep")
	})

	c.Run("narrow window", func(c *qt.C) {
		b := append(bytes.Repeat([]byte{'x'}, 100), block...)
		_, err := iim.Decode(iim.Options{R: bytes.NewReader(b), ScanWindow: 50})
		c.Assert(err, qt.ErrorIs, iim.ErrNoMetadata)
	})
}

func TestDecodeErrors(t *testing.T) {
	c := qt.New(t)

	_, err := iim.Decode(iim.Options{})
	c.Assert(err, qt.ErrorMatches, "no reader provided")

	_, err = iim.Decode(iim.Options{R: strings.NewReader("foo"), ScanWindow: -1})
	c.Assert(err, qt.ErrorMatches, "negative scan window")
}

func TestDecodeFile(t *testing.T) {
	c := qt.New(t)

	meta, err := iim.DecodeFile(filepath.Join("testdata", "sample.jpg"))
	c.Assert(err, qt.IsNil)

	c.Assert(meta.Len(), qt.Equals, 8)

	caption, _ := meta.Attribute("caption/abstract")
	c.Assert(caption, qt.Equals, "Fishing boats at dusk, Ålesund harbour")
	city, _ := meta.Attribute("city")
	c.Assert(city, qt.Equals, "Ålesund")
	copyright, _ := meta.Attribute("copyright notice")
	c.Assert(copyright, qt.Equals, "© 2024 K. Nordvik")
	byline, _ := meta.Attribute("by-line")
	c.Assert(byline, qt.Equals, "K. Nordvik")
	date, _ := meta.Attribute("date created")
	c.Assert(date, qt.Equals, "20240612")
	headline, _ := meta.Attribute("headline")
	c.Assert(headline, qt.Equals, "Harbour at dusk")
	c.Assert(meta.Keywords(), qt.DeepEquals, []string{"harbour", "boats", "dusk"})
	c.Assert(meta.SupplementalCategories(), qt.DeepEquals, []string{"travel"})
}

func TestDecodeFileNoMetadata(t *testing.T) {
	c := qt.New(t)

	_, err := iim.DecodeFile(filepath.Join("testdata", "noiptc.bin"))
	c.Assert(err, qt.ErrorIs, iim.ErrNoMetadata)
}

func TestDecodeFileMissing(t *testing.T) {
	c := qt.New(t)

	_, err := iim.DecodeFile(filepath.Join("testdata", "no-such-file.jpg"))
	c.Assert(err, qt.IsNotNil)
}

func TestMetadataNames(t *testing.T) {
	c := qt.New(t)

	meta, err := iim.Decode(iim.Options{R: stream(nil, versionTag(), tag(105, "h"), tag(25, "k"), tag(90, "c"), tag(20, "s"))})
	c.Assert(err, qt.IsNil)

	c.Assert(meta.Names(), qt.DeepEquals, []string{"city", "headline", "keywords", "supplemental category"})
	c.Assert(meta.Len(), qt.Equals, 4)
}

func TestMetadataAbsentAttributes(t *testing.T) {
	c := qt.New(t)

	meta, err := iim.Decode(iim.Options{R: stream(nil, versionTag())})
	c.Assert(err, qt.IsNil)

	c.Assert(meta.Len(), qt.Equals, 0)
	_, found := meta.Attribute("headline")
	c.Assert(found, qt.IsFalse)
	c.Assert(meta.List("keywords"), qt.HasLen, 0)
	c.Assert(meta.Names(), qt.HasLen, 0)
}

func BenchmarkDecode(b *testing.B) {
	runBenchmark := func(b *testing.B, name, filename string, f func(r io.ReadSeeker) error) {
		img, err := os.Open(filepath.Join("testdata", filename))
		if err != nil {
			b.Fatal(err)
		}
		b.Cleanup(func() { img.Close() })
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if err := f(img); err != nil {
					b.Fatal(err)
				}
				img.Seek(0, 0)
			}
		})
	}

	runBenchmark(b, "photometa/iim/jpg/iptc", "sample.jpg", func(r io.ReadSeeker) error {
		_, err := iim.Decode(iim.Options{R: r})
		return err
	})

	runBenchmark(b, "photometa/iim/bin/absent", "noiptc.bin", func(r io.ReadSeeker) error {
		_, err := iim.Decode(iim.Options{R: r})
		if !errors.Is(err, iim.ErrNoMetadata) {
			return err
		}
		return nil
	})

	runBenchmark(b, "rwcarlsen/goexif/exif/jpg/alltags", "sample.jpg", func(r io.ReadSeeker) error {
		_, err := exif.Decode(r)
		return err
	})
}
