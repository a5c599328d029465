package iim

// Dataset names for IIM record 2 (application records), keyed by dataset id.
// Names follow the IPTC-NAA Information Interchange Model dataset titles.
// Ids in neither table are reserved or unsupported and their values are
// discarded, including dataset 0 (the record version tag).

// listDatasetNames holds the repeatable datasets. These may occur any number
// of times in one stream and decode into ordered lists.
var listDatasetNames = map[uint8]string{
	20: "supplemental category",
	25: "keywords",
}

// scalarDatasetNames holds the single-valued datasets. A repeated occurrence
// overwrites the previous value.
var scalarDatasetNames = map[uint8]string{
	5:   "object name",
	7:   "edit status",
	10:  "urgency",
	15:  "category",
	22:  "fixture identifier",
	30:  "release date",
	35:  "release time",
	40:  "special instructions",
	45:  "reference service",
	47:  "reference date",
	50:  "reference number",
	55:  "date created",
	60:  "time created",
	65:  "originating program",
	70:  "program version",
	75:  "object cycle",
	80:  "by-line",
	85:  "by-line title",
	90:  "city",
	92:  "sub-location",
	95:  "province/state",
	100: "country/primary location code",
	101: "country/primary location name",
	103: "original transmission reference",
	105: "headline",
	110: "credit",
	115: "source",
	116: "copyright notice",
	118: "contact",
	120: "caption/abstract",
	122: "writer/editor",
	130: "image type",
	131: "image orientation",
	135: "language identifier",
}
