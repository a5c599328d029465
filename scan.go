// Copyright 2024 The iim Authors
// SPDX-License-Identifier: MIT

package iim

// scanForMarker searches offsets 0 through window, inclusive, for the tag
// header that opens an IIM application record block: the marker byte
// followed by record 2, dataset 0 (the record version tag that leads real
// record-2 data).
//
// A marker byte whose two lookahead bytes do not qualify is a false
// positive; the cursor moves back to one past it, so the lookahead bytes are
// themselves scanned as marker candidates and back-to-back markers are never
// skipped. On success the cursor is left at the marker's offset.
func scanForMarker(e *streamReader, window int64) (int64, bool) {
	for off := int64(0); off <= window; {
		b, err := e.read1E()
		if err != nil {
			if !isExhausted(err) {
				e.stop(err)
			}
			return 0, false
		}
		if b != tagMarker {
			off++
			continue
		}
		lookahead, err := e.readBytesVolatileE(2)
		if err != nil {
			if !isExhausted(err) {
				e.stop(err)
			}
			return 0, false
		}
		if lookahead[0] == applicationRecord && lookahead[1] == versionDataset {
			e.seek(off)
			return off, true
		}
		off++
		e.seek(off)
	}
	return 0, false
}
