package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestHashObjectKnownDigest(t *testing.T) {
	// The canonical bytes for this blob are "blob 6\x00hello\n"; their
	// SHA-1 is a fixed, externally verifiable constant.
	h := HashObject(TypeBlob, []byte("hello\n"))
	if h != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Errorf("HashObject: got %q", h)
	}
}

func TestHashObjectDeterminism(t *testing.T) {
	data := []byte("hello world")
	h1 := HashObject(TypeBlob, data)
	h2 := HashObject(TypeBlob, data)
	if h1 != h2 {
		t.Errorf("HashObject not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 2*RawHashLen {
		t.Errorf("Hash length: got %d, want %d", len(h1), 2*RawHashLen)
	}

	// Different type, same payload => different identity.
	if h1 == HashObject(TypeCommit, data) {
		t.Error("different types should produce different hashes")
	}
}

func TestHashIsLowerHex(t *testing.T) {
	h := HashObject(TypeBlob, []byte("test"))
	for _, c := range string(h) {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("hash contains non-lowercase-hex character: %c", c)
		}
	}
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if h != HashObject(TypeBlob, data) {
		t.Errorf("Write hash disagrees with hash-only mode")
	}

	gotType, gotData, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotType != TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, TypeBlob)
	}
	if !bytes.Equal(gotData, data) {
		t.Errorf("Data: got %q, want %q", gotData, data)
	}
}

func TestStoreFanoutLayout(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("fanout test"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	objPath := filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
	if _, err := os.Stat(objPath); err != nil {
		t.Errorf("expected fan-out file at %s: %v", objPath, err)
	}
}

func TestStoreOnDiskCompressed(t *testing.T) {
	s := tempStore(t)
	data := []byte("format check")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("stored object is not a zlib stream: %v", err)
	}
	var out bytes.Buffer
	if _, err := out.ReadFrom(zr); err != nil {
		t.Fatalf("decompress: %v", err)
	}
	zr.Close()

	want := "blob 12\x00format check"
	if out.String() != want {
		t.Errorf("canonical bytes: got %q, want %q", out.String(), want)
	}
}

func TestStoreDuplicateWriteIsIdempotent(t *testing.T) {
	s := tempStore(t)
	data := []byte("duplicate")
	h1, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	info1, err := os.Stat(s.objectPath(h1))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	h2, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("same content produced different hashes: %q vs %q", h1, h2)
	}

	// Exactly one object file in the fan-out directory, untouched.
	entries, err := os.ReadDir(filepath.Dir(s.objectPath(h1)))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("object files: got %d, want 1", len(entries))
	}
	info2, err := os.Stat(s.objectPath(h1))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info1.ModTime().Equal(info2.ModTime()) {
		t.Error("duplicate write rewrote the existing object")
	}
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	_, _, err := s.Read(Hash("0000000000000000000000000000000000000000"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read of missing object: got %v, want ErrNotFound", err)
	}
}

func TestStoreReadCorruptStream(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("will be damaged"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Truncate the compressed file so decompression fails.
	raw, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := os.WriteFile(s.objectPath(h), raw[:len(raw)/2], 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, _, err = s.Read(h)
	var ce *CorruptError
	if !errors.As(err, &ce) {
		t.Fatalf("truncated object: got %v, want CorruptError", err)
	}
}

func TestStoreReadBadLength(t *testing.T) {
	s := tempStore(t)
	h := Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	// Hand-craft an object whose declared length disagrees with the payload.
	if err := os.MkdirAll(filepath.Dir(s.objectPath(h)), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte("blob 99\x00short"))
	zw.Close()
	if err := os.WriteFile(s.objectPath(h), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, _, err := s.Read(h)
	var ce *CorruptError
	if !errors.As(err, &ce) {
		t.Fatalf("length mismatch: got %v, want CorruptError", err)
	}
}

func TestStoreReadUnsupportedType(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(ObjectType("widget"), []byte("payload"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, err = s.ReadObject(h)
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("unknown tag: got %v, want UnsupportedTypeError", err)
	}
}

func TestStoreTypedReadMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("a blob"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, err = s.ReadCommit(h)
	var tme *TypeMismatchError
	if !errors.As(err, &tme) {
		t.Fatalf("ReadCommit on blob: got %v, want TypeMismatchError", err)
	}
	if tme.Got != TypeBlob || tme.Want != TypeCommit {
		t.Errorf("mismatch detail: got=%q want=%q", tme.Got, tme.Want)
	}
}

func TestStoreWriteReadObjectVariants(t *testing.T) {
	s := tempStore(t)

	blobHash, err := s.WriteObject(&Blob{Data: []byte("content\n")})
	if err != nil {
		t.Fatalf("WriteObject blob: %v", err)
	}

	tree := &TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "file.txt", Target: blobHash},
	}}
	treeHash, err := s.WriteObject(tree)
	if err != nil {
		t.Fatalf("WriteObject tree: %v", err)
	}

	got, err := s.ReadObject(treeHash)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	gotTree, ok := got.(*TreeObj)
	if !ok {
		t.Fatalf("ReadObject: got %T, want *TreeObj", got)
	}
	if len(gotTree.Entries) != 1 || gotTree.Entries[0].Target != blobHash {
		t.Errorf("tree round-trip mismatch: %+v", gotTree.Entries)
	}
}

func TestHashValid(t *testing.T) {
	if !Hash("ce013625030ba8dba906f756967f9e9ca394464a").Valid() {
		t.Error("valid hash rejected")
	}
	bad := []string{
		"",
		"a",
		"ce0136",
		"CE013625030BA8DBA906F756967F9E9CA394464A",
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"ce013625030ba8dba906f756967f9e9ca394464a0",
	}
	for _, s := range bad {
		if Hash(s).Valid() {
			t.Errorf("Hash(%q).Valid() = true", s)
		}
	}
}

func TestStoreRejectsMalformedHash(t *testing.T) {
	s := tempStore(t)

	// Short strings reach the store when a ref file is damaged; they must
	// produce an error, not an out-of-range panic building the fan-out path.
	for _, h := range []Hash{"", "a", "not-a-hash"} {
		if s.Has(h) {
			t.Errorf("Has(%q) = true", h)
		}
		_, _, err := s.Read(h)
		if !errors.Is(err, ErrBadHash) {
			t.Errorf("Read(%q): got %v, want ErrBadHash", h, err)
		}
	}
}
