package catalog

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/schema/field"
)

// snapshotVersion is bumped whenever the encoded layout changes.
const snapshotVersion = 1

type (
	snapshot struct {
		Version int             `msgpack:"v"`
		Entries []snapshotEntry `msgpack:"e"`
	}

	snapshotEntry struct {
		Host      string          `msgpack:"h"`
		Attribute string          `msgpack:"a"`
		Column    string          `msgpack:"c"`
		Prefix    string          `msgpack:"p,omitempty"`
		Slim      bool            `msgpack:"s,omitempty"`
		Whiny     bool            `msgpack:"w"`
		Dirty     bool            `msgpack:"d,omitempty"`
		Comment   string          `msgpack:"m,omitempty"`
		Values    []snapshotValue `msgpack:"vs"`
	}

	snapshotValue struct {
		_msgpack struct{} `msgpack:",as_array"`
		Name     string
		Code     int64
	}
)

// EncodeSnapshot writes the definitions of entries to w in a compact
// binary form, so a process can restore them without parsing catalogs.
func EncodeSnapshot(w io.Writer, entries []asenum.Entry) error {
	s := snapshot{Version: snapshotVersion, Entries: make([]snapshotEntry, len(entries))}
	for i, e := range entries {
		d := e.Definition
		se := snapshotEntry{
			Host:      e.Host,
			Attribute: d.Attribute(),
			Column:    d.Column(),
			Prefix:    d.Prefix(),
			Slim:      !d.Shortcuts(),
			Whiny:     d.Whiny(),
			Dirty:     d.Dirty(),
			Comment:   d.Comment(),
			Values:    make([]snapshotValue, d.Len()),
		}
		for j, v := range d.Values() {
			se.Values[j] = snapshotValue{Name: v.N, Code: v.C}
		}
		s.Entries[i] = se
	}
	if err := msgpack.NewEncoder(w).Encode(&s); err != nil {
		return fmt.Errorf("catalog: encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads definitions written by EncodeSnapshot. Each
// definition is validated again.
func DecodeSnapshot(r io.Reader) ([]asenum.Entry, error) {
	var s snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("catalog: decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("catalog: unsupported snapshot version %d", s.Version)
	}
	entries := make([]asenum.Entry, 0, len(s.Entries))
	for _, se := range s.Entries {
		b := field.Enum(se.Attribute).
			Column(se.Column).
			Prefix(se.Prefix).
			Whiny(se.Whiny).
			Comment(se.Comment)
		for _, v := range se.Values {
			b.Value(v.Name, v.Code)
		}
		if se.Slim {
			b.Slim()
		}
		if se.Dirty {
			b.Dirty()
		}
		d, err := asenum.Build(b.Descriptor())
		if err != nil {
			return nil, fmt.Errorf("catalog: snapshot entry %s.%s: %w", se.Host, se.Attribute, err)
		}
		entries = append(entries, asenum.Entry{Host: se.Host, Definition: d})
	}
	return entries, nil
}
