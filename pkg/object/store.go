package object

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Files hold the zlib-compressed
// canonical envelope "type len\0payload". Existing objects are never
// overwritten or deleted; writing identical content is a no-op.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given metadata directory. The
// objects/ subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !h.Valid() {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. The hash is
// computed over the uncompressed envelope; the file holds the compressed
// bytes. Writes are atomic: data goes to a temp file and is renamed into
// place. An already-present object is left untouched.
func (s *Store) Write(objType ObjectType, payload []byte) (Hash, error) {
	h := HashObject(objType, payload)

	// Fast path: identical content is idempotent.
	if s.Has(h) {
		return h, nil
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := fmt.Fprintf(zw, "%s %d\x00", objType, len(payload)); err != nil {
		zw.Close()
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	return h, nil
}

// Read retrieves an object by hash, returning its type and raw payload.
// A hash that is not 40 lowercase hex characters returns ErrBadHash, a
// missing object returns ErrNotFound, and anything structurally wrong
// with an object that does exist is a CorruptError.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !h.Valid() {
		return "", nil, fmt.Errorf("object %q: %w", string(h), ErrBadHash)
	}
	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("object %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", nil, &CorruptError{Hash: h, Reason: "decompress", Err: err}
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		zr.Close()
		return "", nil, &CorruptError{Hash: h, Reason: "decompress", Err: err}
	}
	if err := zr.Close(); err != nil {
		return "", nil, &CorruptError{Hash: h, Reason: "decompress", Err: err}
	}

	objType, payload, err := splitEnvelope(h, raw)
	if err != nil {
		return "", nil, err
	}
	return objType, payload, nil
}

// splitEnvelope validates "type len\0payload" and returns the parts. The
// payload is the full remaining byte range after the header NUL.
func splitEnvelope(h Hash, raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, &CorruptError{Hash: h, Reason: "invalid header (no NUL)"}
	}
	header := string(raw[:nulIdx])
	payload := raw[nulIdx+1:]

	tag, lenStr, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, &CorruptError{Hash: h, Reason: fmt.Sprintf("invalid header %q", header)}
	}
	length, err := strconv.Atoi(lenStr)
	if err != nil {
		return "", nil, &CorruptError{Hash: h, Reason: fmt.Sprintf("invalid length %q", lenStr), Err: err}
	}
	if len(payload) != length {
		return "", nil, &CorruptError{
			Hash:   h,
			Reason: fmt.Sprintf("length mismatch (header=%d, actual=%d)", length, len(payload)),
		}
	}
	return ObjectType(tag), payload, nil
}

// ReadObject reads and decodes any of the four object variants,
// dispatching on the stored type tag.
func (s *Store) ReadObject(h Hash) (Object, error) {
	objType, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	obj, err := Unmarshal(objType, payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return obj, nil
}

// WriteObject encodes and stores any object variant.
func (s *Store) WriteObject(obj Object) (Hash, error) {
	payload, err := Marshal(obj)
	if err != nil {
		return "", err
	}
	return s.Write(obj.Type(), payload)
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	objType, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: TypeBlob}
	}
	return UnmarshalBlob(payload)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	objType, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeTree {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: TypeTree}
	}
	tr, err := UnmarshalTree(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	objType, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: TypeCommit}
	}
	c, err := UnmarshalCommit(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}

// ReadTag reads and deserializes a TagObj.
func (s *Store) ReadTag(h Hash) (*TagObj, error) {
	objType, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeTag {
		return nil, &TypeMismatchError{Hash: h, Got: objType, Want: TypeTag}
	}
	t, err := UnmarshalTag(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return t, nil
}
