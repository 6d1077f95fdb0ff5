package openarch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// Document is the raw record envelope returned by the show endpoint.
// Open Archieven serves records in the A2A (Archief 2 All) exchange
// format, which is notoriously irregular: fields holding one value are
// bare objects, fields holding several are arrays, and person-to-event
// roles live in two disjoint relation tables. The list types below
// absorb the cardinality irregularity at decode time; Normalize
// resolves the rest.
type Document struct {
	A2A A2A `json:"a2a"`
}

// A2A is the record payload inside a show response
type A2A struct {
	Persons    PersonList `json:"A2A_Person,omitempty"`
	Event      *RawEvent  `json:"A2A_Event,omitempty"`
	RelationEP EPList     `json:"A2A_RelationEP,omitempty"`
	RelationPP PPList     `json:"A2A_RelationPP,omitempty"`
	Source     *RawSource `json:"A2A_Source,omitempty"`
}

// RawPerson is one person entry as the upstream ships it, including
// the record-internal pid cross-reference
type RawPerson struct {
	Pid        string     `json:"pid,omitempty"`
	Name       PersonName `json:"PersonName"`
	Gender     string     `json:"Gender,omitempty"`
	BirthDate  *A2ADate   `json:"BirthDate,omitempty"`
	BirthPlace *Place     `json:"BirthPlace,omitempty"`
}

// PersonName holds the upstream's split name fields
type PersonName struct {
	First  string `json:"PersonNameFirstName,omitempty"`
	Prefix string `json:"PersonNamePrefixLastName,omitempty"`
	Last   string `json:"PersonNameLastName,omitempty"`
}

// A2ADate is a partial date; any of the parts may be absent
type A2ADate struct {
	Year  string `json:"Year,omitempty"`
	Month string `json:"Month,omitempty"`
	Day   string `json:"Day,omitempty"`
}

// Place wraps a place name
type Place struct {
	Place string `json:"Place,omitempty"`
}

// RawEvent is the event block with its internal pid cross-reference
type RawEvent struct {
	Pid   string   `json:"pid,omitempty"`
	Type  string   `json:"EventType,omitempty"`
	Date  *A2ADate `json:"EventDate,omitempty"`
	Place *Place   `json:"EventPlace,omitempty"`
}

// EPRelation links a person to a role within the record's event
type EPRelation struct {
	PersonKeyRef string `json:"PersonKeyRef"`
	RelationType string `json:"RelationType"`
}

// PPRelation links two persons to each other (e.g. spouses); it only
// matters for participants the event-relation table leaves unassigned
type PPRelation struct {
	Person1KeyRef string `json:"Person1KeyRef"`
	Person2KeyRef string `json:"Person2KeyRef"`
	RelationType  string `json:"RelationType"`
}

// Remark is one free-form source annotation
type Remark struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// RawSource is the source-citation block
type RawSource struct {
	Type            string           `json:"SourceType,omitempty"`
	Place           *Place           `json:"SourcePlace,omitempty"`
	IndexDate       *SourceIndexDate `json:"SourceIndexDate,omitempty"`
	Reference       *SourceReference `json:"SourceReference,omitempty"`
	Remarks         RemarkList       `json:"SourceRemark,omitempty"`
	AvailableScans  *AvailableScans  `json:"SourceAvailableScans,omitempty"`
	DigitalOriginal string           `json:"SourceDigitalOriginal,omitempty"`
}

// SourceIndexDate is the date range covered by the source index
type SourceIndexDate struct {
	From string `json:"From,omitempty"`
	To   string `json:"To,omitempty"`
}

// SourceReference identifies the physical register the record came from
type SourceReference struct {
	Archive        string `json:"Archive,omitempty"`
	Collection     string `json:"Collection,omitempty"`
	Book           string `json:"Book,omitempty"`
	RegistryNumber string `json:"RegistryNumber,omitempty"`
	DocumentNumber string `json:"DocumentNumber,omitempty"`
}

// AvailableScans wraps the scan field
type AvailableScans struct {
	Scan ScanField `json:"Scan,omitempty"`
}

// Scan is one digitized page of the source register
type Scan struct {
	Uri                 string `json:"Uri,omitempty"`
	UriViewer           string `json:"UriViewer,omitempty"`
	OrderSequenceNumber string `json:"OrderSequenceNumber,omitempty"`
}

// PersonList decodes the upstream's person field, which is a bare
// object for single-person records and an array otherwise
type PersonList []RawPerson

func (l *PersonList) UnmarshalJSON(data []byte) error {
	var items []RawPerson
	if err := unmarshalOneOrMany(data, &items); err != nil {
		return fmt.Errorf("A2A_Person: %w", err)
	}
	*l = items
	return nil
}

// EPList decodes the event-participant relation table (object or array)
type EPList []EPRelation

func (l *EPList) UnmarshalJSON(data []byte) error {
	var items []EPRelation
	if err := unmarshalOneOrMany(data, &items); err != nil {
		return fmt.Errorf("A2A_RelationEP: %w", err)
	}
	*l = items
	return nil
}

// PPList decodes the person-to-person relation table (object or array)
type PPList []PPRelation

func (l *PPList) UnmarshalJSON(data []byte) error {
	var items []PPRelation
	if err := unmarshalOneOrMany(data, &items); err != nil {
		return fmt.Errorf("A2A_RelationPP: %w", err)
	}
	*l = items
	return nil
}

// RemarkList decodes the source remark field (object or array)
type RemarkList []Remark

func (l *RemarkList) UnmarshalJSON(data []byte) error {
	var items []Remark
	if err := unmarshalOneOrMany(data, &items); err != nil {
		return fmt.Errorf("SourceRemark: %w", err)
	}
	*l = items
	return nil
}

// unmarshalOneOrMany decodes JSON that is either a single object or an
// array of objects into a slice. Any other shape is an error; callers
// surface it as a malformed response rather than best-effort coercion.
func unmarshalOneOrMany[T any](data []byte, out *[]T) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case '[':
		return json.Unmarshal(data, out)
	case '{':
		var single T
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*out = []T{single}
		return nil
	case 'n': // null
		*out = nil
		return nil
	default:
		return fmt.Errorf("unexpected shape: neither object nor array")
	}
}

// ScanField preserves a known upstream inconsistency: Scan is an array
// of scan objects for most records but a bare object for some. An
// array is flattened down to its public viewer URLs; a bare object is
// deliberately left untouched for compatibility with downstream
// formatting logic. Flattening is idempotent: an already-flattened URL
// list round-trips unchanged.
type ScanField struct {
	URLs   []string `json:"-"`
	Single *Scan    `json:"-"`
}

func (f *ScanField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("Scan: empty value")
	}

	switch trimmed[0] {
	case '{':
		var single Scan
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("Scan: %w", err)
		}
		f.Single = &single
		return nil
	case '[':
		var scans []Scan
		if err := json.Unmarshal(data, &scans); err == nil {
			f.URLs = viewerURLs(scans)
			return nil
		}
		// Already flattened to a plain URL list
		var urls []string
		if err := json.Unmarshal(data, &urls); err != nil {
			return fmt.Errorf("Scan: %w", err)
		}
		f.URLs = urls
		return nil
	case 'n': // null
		return nil
	default:
		return fmt.Errorf("Scan: unexpected shape: neither object nor array")
	}
}

func (f ScanField) MarshalJSON() ([]byte, error) {
	if f.Single != nil {
		return json.Marshal(f.Single)
	}
	return json.Marshal(f.URLs)
}

// viewerURLs reduces scan objects to their public viewer URLs
func viewerURLs(scans []Scan) []string {
	return lo.FilterMap(scans, func(s Scan, _ int) (string, bool) {
		if s.UriViewer != "" {
			return s.UriViewer, true
		}
		if s.Uri != "" {
			return s.Uri, true
		}
		return "", false
	})
}
