package kvlm

import (
	"bytes"
	"errors"
	"testing"
)

const sampleCommit = "tree 29ff16c9c14e2652b22f8b78bb08a5a07930c147\n" +
	"parent 206941306e8a8af65b66eaaaea388a7ae24d49a0\n" +
	"author Alice <alice@example.com> 1527025023 +0200\n" +
	"committer Alice <alice@example.com> 1527025044 +0200\n" +
	"gpgsig -----BEGIN PGP SIGNATURE-----\n" +
	" \n" +
	" iQIzBAABCAAdFiEExwXquOM8bWb4Q2zVGxM2FxoLkGQFAlsEjZQACgkQGxM2FxoL\n" +
	" kGQdcBAAqPP+ln4nGDd2gETXjvOpOxLzIMEw4A9gU6CzWzm+oB8mEIKyaH0UFIPh\n" +
	" =lgTX\n" +
	" -----END PGP SIGNATURE-----\n" +
	"\n" +
	"Create first draft\n"

func TestParseSample(t *testing.T) {
	d, err := Parse([]byte(sampleCommit))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tree, ok := d.Get("tree")
	if !ok || string(tree) != "29ff16c9c14e2652b22f8b78bb08a5a07930c147" {
		t.Errorf("tree: got %q", tree)
	}
	if string(d.Message) != "Create first draft\n" {
		t.Errorf("Message: got %q", d.Message)
	}

	sig, ok := d.Get("gpgsig")
	if !ok {
		t.Fatal("gpgsig field missing")
	}
	if !bytes.HasPrefix(sig, []byte("-----BEGIN PGP SIGNATURE-----\n")) {
		t.Errorf("gpgsig continuation not folded: %q", sig[:40])
	}
	if bytes.Contains(sig, []byte("\n ")) {
		t.Error("gpgsig still contains continuation markers")
	}
}

func TestParseFieldOrder(t *testing.T) {
	d, err := Parse([]byte(sampleCommit))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"tree", "parent", "author", "committer", "gpgsig"}
	fields := d.Fields()
	if len(fields) != len(want) {
		t.Fatalf("field count: got %d, want %d", len(fields), len(want))
	}
	for i, f := range fields {
		if f.Name != want[i] {
			t.Errorf("field %d: got %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestParseMultipleValues(t *testing.T) {
	raw := []byte("tree aaaa\nparent bbbb\nparent cccc\nauthor a\n\nmerge\n")
	d, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	parents := d.Values("parent")
	if len(parents) != 2 {
		t.Fatalf("parent count: got %d, want 2", len(parents))
	}
	if string(parents[0]) != "bbbb" || string(parents[1]) != "cccc" {
		t.Errorf("parent order: got %q, %q", parents[0], parents[1])
	}
	// Duplicate keys collapse to a single ordered field.
	if n := len(d.Fields()); n != 3 {
		t.Errorf("field count: got %d, want 3", n)
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	d := &Document{}
	d.Add("tree", []byte("29ff16c9c14e2652b22f8b78bb08a5a07930c147"))
	d.Add("parent", []byte("206941306e8a8af65b66eaaaea388a7ae24d49a0"))
	d.Add("parent", []byte("aaaabbbbccccddddeeeeffff0000111122223333"))
	d.Add("author", []byte("Alice <alice@example.com> 1527025023 +0200"))
	d.Add("note", []byte("first line\nsecond line\nthird line"))
	d.Message = []byte("Merge branch 'topic'\n\nLong body.\n")

	got, err := Parse(Serialize(d))
	if err != nil {
		t.Fatalf("Parse(Serialize): %v", err)
	}

	if !bytes.Equal(got.Message, d.Message) {
		t.Errorf("Message: got %q, want %q", got.Message, d.Message)
	}
	wantFields := d.Fields()
	gotFields := got.Fields()
	if len(gotFields) != len(wantFields) {
		t.Fatalf("field count: got %d, want %d", len(gotFields), len(wantFields))
	}
	for i := range wantFields {
		if gotFields[i].Name != wantFields[i].Name {
			t.Errorf("field %d name: got %q, want %q", i, gotFields[i].Name, wantFields[i].Name)
		}
		if len(gotFields[i].Values) != len(wantFields[i].Values) {
			t.Fatalf("field %q value count: got %d, want %d",
				wantFields[i].Name, len(gotFields[i].Values), len(wantFields[i].Values))
		}
		for j := range wantFields[i].Values {
			if !bytes.Equal(gotFields[i].Values[j], wantFields[i].Values[j]) {
				t.Errorf("field %q value %d: got %q, want %q",
					wantFields[i].Name, j, gotFields[i].Values[j], wantFields[i].Values[j])
			}
		}
	}
}

func TestParseSerializeCanonicalBytes(t *testing.T) {
	d, err := Parse([]byte(sampleCommit))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := Serialize(d)
	if !bytes.Equal(out, []byte(sampleCommit)) {
		t.Errorf("serialize(parse(x)) != x:\ngot  %q\nwant %q", out, sampleCommit)
	}
}

func TestParseEmptyMessage(t *testing.T) {
	d, err := Parse([]byte("tree aaaa\n\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Message) != 0 {
		t.Errorf("Message: got %q, want empty", d.Message)
	}
	// The blank separator is still emitted on the way back out.
	if got := Serialize(d); !bytes.Equal(got, []byte("tree aaaa\n\n")) {
		t.Errorf("Serialize: got %q", got)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"missing separator", "tree aaaa\n"},
		{"unterminated line", "tree aaaa"},
		{"continuation without key", " leading space\n\nmsg"},
		{"keyless header line", "treeaaaa\n\nmsg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tc.input)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("Parse(%q): error %v is not a FormatError", tc.input, err)
			}
		})
	}
}
