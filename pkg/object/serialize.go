package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/gat-vcs/gat/pkg/kvlm"
)

// Marshal encodes any object variant to its canonical payload bytes.
func Marshal(obj Object) ([]byte, error) {
	switch o := obj.(type) {
	case *Blob:
		return MarshalBlob(o), nil
	case *TreeObj:
		return MarshalTree(o)
	case *CommitObj:
		return MarshalCommit(o), nil
	case *TagObj:
		return MarshalTag(o), nil
	default:
		return nil, &UnsupportedTypeError{Tag: string(obj.Type())}
	}
}

// Unmarshal decodes a canonical payload into the variant named by objType.
func Unmarshal(objType ObjectType, payload []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return UnmarshalBlob(payload)
	case TypeTree:
		return UnmarshalTree(payload)
	case TypeCommit:
		return UnmarshalCommit(payload)
	case TypeTag:
		return UnmarshalTag(payload)
	default:
		return nil, &UnsupportedTypeError{Tag: string(objType)}
	}
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// SortTreeEntries orders entries in canonical tree order: by name, with
// directories compared as if the name had a trailing separator.
func SortTreeEntries(entries []TreeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].sortKey() < entries[j].sortKey()
	})
}

// MarshalTree serializes a TreeObj. Entries are sorted into canonical
// order first so the encoding is deterministic regardless of insertion
// order. Each entry is "mode SP name NUL" followed by the 20 raw digest
// bytes of the target hash.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	SortTreeEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		raw, err := hex.DecodeString(string(e.Target))
		if err != nil || len(raw) != RawHashLen {
			return nil, fmt.Errorf("marshal tree: entry %q: invalid target hash %q", e.Name, e.Target)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a TreeObj from its binary payload, preserving
// encountered order as the canonical order. The digest field is always
// exactly 20 raw bytes, whatever those bytes contain.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	pos := 0
	for pos < len(data) {
		spc := bytes.IndexByte(data[pos:], ' ')
		if spc < 0 {
			return nil, fmt.Errorf("unmarshal tree: truncated entry at offset %d", pos)
		}
		mode := string(data[pos : pos+spc])
		pos += spc + 1

		nul := bytes.IndexByte(data[pos:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: unterminated name at offset %d", pos)
		}
		name := string(data[pos : pos+nul])
		pos += nul + 1

		if len(data)-pos < RawHashLen {
			return nil, fmt.Errorf("unmarshal tree: truncated digest for entry %q", name)
		}
		target := hex.EncodeToString(data[pos : pos+RawHashLen])
		pos += RawHashLen

		tr.Entries = append(tr.Entries, TreeEntry{
			Mode:   mode,
			Name:   name,
			Target: Hash(target),
		})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// CommitObj / TagObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj; the payload is the commit's KVLM
// document verbatim.
func MarshalCommit(c *CommitObj) []byte {
	return kvlm.Serialize(&c.Doc)
}

// UnmarshalCommit parses a CommitObj from its KVLM payload.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	doc, err := kvlm.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: %w", err)
	}
	return &CommitObj{Doc: *doc}, nil
}

// MarshalTag serializes a TagObj; same KVLM call-through as commits.
func MarshalTag(t *TagObj) []byte {
	return kvlm.Serialize(&t.Doc)
}

// UnmarshalTag parses a TagObj from its KVLM payload.
func UnmarshalTag(data []byte) (*TagObj, error) {
	doc, err := kvlm.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: %w", err)
	}
	return &TagObj{Doc: *doc}, nil
}
