// Package core contains the single source of truth for one schema
// snapshot: the objects it contains, their raw DDL, and — for tables —
// the structured model derived from that DDL.
package core

import "sort"

// ObjectKind is a closed enumeration of the seven kinds of schema object
// the introspector and differ understand.
type ObjectKind string

const (
	KindTable     ObjectKind = "table"
	KindView      ObjectKind = "view"
	KindProcedure ObjectKind = "procedure"
	KindFunction  ObjectKind = "function"
	KindTrigger   ObjectKind = "trigger"
	KindEvent     ObjectKind = "event"
	KindSequence  ObjectKind = "sequence"
)

// AllKinds returns the seven object kinds in the section order the
// forward planner emits them: tables first, then stored code, then
// scheduled/derived objects.
func AllKinds() []ObjectKind {
	return []ObjectKind{
		KindTable,
		KindProcedure,
		KindFunction,
		KindTrigger,
		KindEvent,
		KindView,
		KindSequence,
	}
}

// UsesDelimiter reports whether CREATE statements of this kind must be
// wrapped in a DELIMITER $$ block because their body may contain semicolons.
func (k ObjectKind) UsesDelimiter() bool {
	switch k {
	case KindProcedure, KindFunction, KindTrigger:
		return true
	default:
		return false
	}
}

// DropKeyword returns the SQL keyword used in "DROP <keyword> IF EXISTS ...".
func (k ObjectKind) DropKeyword() string {
	switch k {
	case KindTable:
		return "TABLE"
	case KindView:
		return "VIEW"
	case KindProcedure:
		return "PROCEDURE"
	case KindFunction:
		return "FUNCTION"
	case KindTrigger:
		return "TRIGGER"
	case KindEvent:
		return "EVENT"
	case KindSequence:
		return "SEQUENCE"
	default:
		return ""
	}
}

// ObjectRef identifies one object within a single schema. Names are
// compared case-sensitively.
type ObjectRef struct {
	Kind ObjectKind
	Name string
}

// ObjectRecord is an ObjectRef together with the exact CREATE ... text
// the database returned for it. For every kind other than table this is
// the only representation used downstream.
type ObjectRecord struct {
	Ref ObjectRef
	// DDL is the raw CREATE ... statement, with any leading USE <schema>
	// or CREATE DATABASE statement stripped. Empty when extraction failed
	// for this object (see DDLError).
	DDL string
	// DDLError records why DDL is empty, when extraction failed. Enumeration
	// of the object still succeeded; only the per-object DDL fetch did not.
	DDLError error
}

// Name is a convenience accessor for r.Ref.Name.
func (r ObjectRecord) Name() string { return r.Ref.Name }

// Snapshot is the full set of objects of all seven kinds captured from one
// schema at one point in time. Lists are sorted by name at construction
// and must stay that way: all downstream iteration depends on this order
// for determinism (spec invariant I1).
type Snapshot struct {
	Schema string
	Kinds  map[ObjectKind][]ObjectRecord
}

// NewSnapshot creates an empty Snapshot with all seven kind buckets present
// (possibly empty), so callers never need a nil check before ranging.
func NewSnapshot(schema string) *Snapshot {
	s := &Snapshot{Schema: schema, Kinds: make(map[ObjectKind][]ObjectRecord, len(AllKinds()))}
	for _, k := range AllKinds() {
		s.Kinds[k] = nil
	}
	return s
}

// Add appends a record to its kind's bucket. Callers must call Sort once
// all records for a kind have been added.
func (s *Snapshot) Add(rec ObjectRecord) {
	s.Kinds[rec.Ref.Kind] = append(s.Kinds[rec.Ref.Kind], rec)
}

// Sort orders every kind bucket by name (case-sensitive, lexical). This
// is the hard invariant I1: callers must never rely on the insertion
// order a concurrent fan-out introspection produced.
func (s *Snapshot) Sort() {
	for k, recs := range s.Kinds {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Ref.Name < recs[j].Ref.Name })
		s.Kinds[k] = recs
	}
}

// Names returns the sorted list of object names for a kind.
func (s *Snapshot) Names(kind ObjectKind) []string {
	recs := s.Kinds[kind]
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Ref.Name
	}
	return names
}

// Find returns the ObjectRecord for name within kind, or false if absent.
func (s *Snapshot) Find(kind ObjectKind, name string) (ObjectRecord, bool) {
	for _, r := range s.Kinds[kind] {
		if r.Ref.Name == name {
			return r, true
		}
	}
	return ObjectRecord{}, false
}
