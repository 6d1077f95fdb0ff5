package openarch

import (
	"strings"
)

// Record is the flat, predictable record shape every consumer sees.
// The raw relation tables and record-internal pid cross-references are
// gone: each participating person carries a resolved relation type.
type Record struct {
	Persons []Person `json:"persons"`
	Event   Event    `json:"event"`
	Source  Source   `json:"source"`
}

// Person is one event participant.
// RelationType is deliberately the first field: downstream renderers
// present a person by their first field, so the role must lead.
type Person struct {
	RelationType string `json:"relation_type,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Gender       string `json:"gender,omitempty"`
	BirthDate    string `json:"birth_date,omitempty"`
	BirthPlace   string `json:"birth_place,omitempty"`
}

// FullName joins the name parts for display
func (p Person) FullName() string {
	parts := []string{}
	for _, s := range []string{p.FirstName, p.Prefix, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Event is the civil event the record documents
type Event struct {
	Type  string `json:"type,omitempty"`
	Date  string `json:"date,omitempty"`
	Place string `json:"place,omitempty"`
}

// Link is the permalink composite identifying a record upstream
type Link struct {
	Archive    string `json:"archive"`
	Identifier string `json:"identifier"`
}

// Source is the restructured source-citation block. The record's
// permalink composite lives here, the remark list has become a plain
// key-to-value mapping, and a scan list has been flattened to its
// viewer URLs (a bare scan object is preserved as-is; see ScanField).
type Source struct {
	Archive         string            `json:"archive"`
	Identifier      string            `json:"identifier"`
	Type            string            `json:"type,omitempty"`
	Place           string            `json:"place,omitempty"`
	IndexDate       *SourceIndexDate  `json:"index_date,omitempty"`
	Reference       *SourceReference  `json:"reference,omitempty"`
	Remarks         map[string]string `json:"remarks,omitempty"`
	Scans           *ScanField        `json:"scans,omitempty"`
	DigitalOriginal string            `json:"digital_original,omitempty"`
}

// Normalize reshapes a raw show document into a Record.
//
// Roles are resolved in two passes: the event-participant relation
// table wins, and the pairwise person-to-person table only fills in
// participants the first pass left unassigned (an implicit partner
// role, typically). The link argument is the permalink composite the
// record was fetched under; it is spliced into the source block.
func Normalize(doc *Document, link Link) *Record {
	a2a := doc.A2A

	roles := make(map[string]string, len(a2a.Persons))
	for _, rel := range a2a.RelationEP {
		if rel.PersonKeyRef == "" || rel.RelationType == "" {
			continue
		}
		if _, ok := roles[rel.PersonKeyRef]; !ok {
			roles[rel.PersonKeyRef] = rel.RelationType
		}
	}
	for _, rel := range a2a.RelationPP {
		for _, ref := range []string{rel.Person1KeyRef, rel.Person2KeyRef} {
			if ref == "" || rel.RelationType == "" {
				continue
			}
			if _, ok := roles[ref]; !ok {
				roles[ref] = rel.RelationType
			}
		}
	}

	rec := &Record{
		Persons: make([]Person, 0, len(a2a.Persons)),
	}

	for _, raw := range a2a.Persons {
		p := Person{
			RelationType: roles[raw.Pid],
			FirstName:    raw.Name.First,
			Prefix:       raw.Name.Prefix,
			LastName:     raw.Name.Last,
			Gender:       raw.Gender,
			BirthDate:    formatDate(raw.BirthDate),
		}
		if raw.BirthPlace != nil {
			p.BirthPlace = raw.BirthPlace.Place
		}
		rec.Persons = append(rec.Persons, p)
	}

	if a2a.Event != nil {
		rec.Event = Event{
			Type: a2a.Event.Type,
			Date: formatDate(a2a.Event.Date),
		}
		if a2a.Event.Place != nil {
			rec.Event.Place = a2a.Event.Place.Place
		}
	}

	rec.Source = Source{
		Archive:    link.Archive,
		Identifier: link.Identifier,
	}
	if src := a2a.Source; src != nil {
		rec.Source.Type = src.Type
		if src.Place != nil {
			rec.Source.Place = src.Place.Place
		}
		rec.Source.IndexDate = src.IndexDate
		rec.Source.Reference = src.Reference
		rec.Source.DigitalOriginal = src.DigitalOriginal

		if len(src.Remarks) > 0 {
			rec.Source.Remarks = make(map[string]string, len(src.Remarks))
			for _, r := range src.Remarks {
				rec.Source.Remarks[r.Key] = r.Value
			}
		}

		if src.AvailableScans != nil {
			scans := src.AvailableScans.Scan
			rec.Source.Scans = &scans
		}
	}

	return rec
}

// formatDate renders a partial date as day-month-year, skipping
// whatever parts the upstream left out
func formatDate(d *A2ADate) string {
	if d == nil {
		return ""
	}
	parts := []string{}
	for _, s := range []string{d.Day, d.Month, d.Year} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}
