package object

import (
	"bytes"

	"github.com/gat-vcs/gat/pkg/kvlm"
)

// Hash is a 40-character hex-encoded SHA-1 digest of an object's canonical
// encoded bytes. Two objects with identical canonical bytes are the same
// stored entity.
type Hash string

// RawHashLen is the digest length in raw bytes; hex-encoded hashes are
// twice this long.
const RawHashLen = 20

// Valid reports whether h is a full lowercase hex digest. Ref files and
// command arguments are the usual sources of strings that fail this.
func (h Hash) Valid() bool {
	if len(h) != 2*RawHashLen {
		return false
	}
	for _, c := range []byte(h) {
		if !(('0' <= c && c <= '9') || ('a' <= c && c <= 'f')) {
			return false
		}
	}
	return true
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

const (
	// Tree mode constants use Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
)

// Object is the closed set of stored variants: Blob, TreeObj, CommitObj
// and TagObj. Decoding dispatches on the envelope type tag.
type Object interface {
	Type() ObjectType
}

// Blob holds raw file data with no further structure.
type Blob struct {
	Data []byte
}

func (b *Blob) Type() ObjectType { return TypeBlob }

// TreeEntry is one entry in a tree object: a mode string, a path segment,
// and the hash of the referenced object.
type TreeEntry struct {
	Mode   string
	Name   string
	Target Hash
}

// IsDir reports how the entry sorts inside a tree. File entries carry
// "10"-prefixed modes (regular, executable); everything else compares as
// a directory with a trailing separator. Use IsTree to decide whether the
// target is actually a subtree.
func (e TreeEntry) IsDir() bool {
	return len(e.Mode) < 2 || e.Mode[:2] != "10"
}

// IsTree reports whether the entry points at a subtree. Symlinks and
// gitlinks carry non-"10" modes but their targets are blobs and commits,
// not trees.
func (e TreeEntry) IsTree() bool {
	return e.Mode == TreeModeDir
}

// sortKey orders entries the way trees are encoded: directories compare as
// if their name had a trailing separator.
func (e TreeEntry) sortKey() string {
	if e.IsDir() {
		return e.Name + "/"
	}
	return e.Name
}

// TreeObj holds an ordered list of tree entries.
type TreeObj struct {
	Entries []TreeEntry
}

func (t *TreeObj) Type() ObjectType { return TypeTree }

// CommitObj is a commit's ordered header fields plus message. The full
// KVLM document is retained so unknown fields (gpgsig and friends)
// round-trip byte-exact.
type CommitObj struct {
	Doc kvlm.Document
}

func (c *CommitObj) Type() ObjectType { return TypeCommit }

// TreeHash returns the hash named by the commit's tree field.
func (c *CommitObj) TreeHash() Hash {
	v, _ := c.Doc.Get("tree")
	return Hash(v)
}

// Parents returns the commit's parent hashes in listed order. A root
// commit returns nil.
func (c *CommitObj) Parents() []Hash {
	vals := c.Doc.Values("parent")
	if len(vals) == 0 {
		return nil
	}
	out := make([]Hash, len(vals))
	for i, v := range vals {
		out[i] = Hash(v)
	}
	return out
}

// Author returns the commit's author line.
func (c *CommitObj) Author() string {
	v, _ := c.Doc.Get("author")
	return string(v)
}

// Committer returns the commit's committer line.
func (c *CommitObj) Committer() string {
	v, _ := c.Doc.Get("committer")
	return string(v)
}

// Message returns the commit message.
func (c *CommitObj) Message() string { return string(c.Doc.Message) }

// Summary returns the first line of the commit message.
func (c *CommitObj) Summary() string { return firstLine(c.Doc.Message) }

// TagObj is an annotated tag: the same KVLM shape as a commit, pointing at
// a target object.
type TagObj struct {
	Doc kvlm.Document
}

func (t *TagObj) Type() ObjectType { return TypeTag }

// TargetHash returns the hash named by the tag's object field.
func (t *TagObj) TargetHash() Hash {
	v, _ := t.Doc.Get("object")
	return Hash(v)
}

// TargetType returns the declared type of the tagged object.
func (t *TagObj) TargetType() ObjectType {
	v, _ := t.Doc.Get("type")
	return ObjectType(v)
}

// Name returns the tag name recorded in the payload.
func (t *TagObj) Name() string {
	v, _ := t.Doc.Get("tag")
	return string(v)
}

// Tagger returns the tag's tagger line.
func (t *TagObj) Tagger() string {
	v, _ := t.Doc.Get("tagger")
	return string(v)
}

// Message returns the tag message.
func (t *TagObj) Message() string { return string(t.Doc.Message) }

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
