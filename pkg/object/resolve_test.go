package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// collidingPayloads returns two distinct payloads whose blob hashes share
// their first n hex characters.
func collidingPayloads(t *testing.T, n int) ([]byte, []byte) {
	t.Helper()
	seen := make(map[Hash][]byte)
	for i := 0; i < 1<<20; i++ {
		payload := []byte(fmt.Sprintf("collide-%d", i))
		prefix := HashObject(TypeBlob, payload)[:n]
		if other, ok := seen[prefix]; ok {
			return other, payload
		}
		seen[prefix] = payload
	}
	t.Fatalf("no %d-char prefix collision found", n)
	return nil, nil
}

func writeBlobs(t *testing.T, s *Store, payloads ...[]byte) []Hash {
	t.Helper()
	hashes := make([]Hash, 0, len(payloads))
	for _, p := range payloads {
		h, err := s.Write(TypeBlob, p)
		if err != nil {
			t.Fatalf("Write(%q): %v", p, err)
		}
		hashes = append(hashes, h)
	}
	return hashes
}

func TestResolveFullHash(t *testing.T) {
	s := tempStore(t)
	h := writeBlobs(t, s, []byte("full"))[0]

	got, err := s.Resolve(string(h))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != h {
		t.Fatalf("Resolve = %s, want %s", got, h)
	}

	got, err = s.Resolve(strings.ToUpper(string(h)))
	if err != nil {
		t.Fatalf("Resolve(upper): %v", err)
	}
	if got != h {
		t.Fatalf("Resolve(upper) = %s, want %s", got, h)
	}
}

func TestResolveUnknownFullHash(t *testing.T) {
	s := tempStore(t)
	writeBlobs(t, s, []byte("something else"))

	_, err := s.Resolve(strings.Repeat("deadbeef", 5))
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("Resolve error = %v, want ErrObjectNotFound", err)
	}
}

func TestResolveShortPrefixSingleObject(t *testing.T) {
	s := tempStore(t)
	h := writeBlobs(t, s, []byte("only one"))[0]

	for _, q := range []string{"", string(h[:1]), strings.ToUpper(string(h[:1]))} {
		got, err := s.Resolve(q)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", q, err)
		}
		if got != h {
			t.Fatalf("Resolve(%q) = %s, want %s", q, got, h)
		}
	}
}

func TestResolvePrefixBecomesUnique(t *testing.T) {
	s := tempStore(t)
	var payloads [][]byte
	for i := 0; i < 64; i++ {
		payloads = append(payloads, []byte(fmt.Sprintf("object %d", i)))
	}
	a, b := collidingPayloads(t, 3)
	payloads = append(payloads, a, b)
	hashes := writeBlobs(t, s, payloads...)

	for _, h := range hashes {
		unique := uniquePrefixLen(h, hashes)
		for k := 0; k <= HashHexSize; k++ {
			got, err := s.Resolve(string(h[:k]))
			if k < unique {
				if !errors.Is(err, ErrAmbiguousPrefix) {
					t.Fatalf("Resolve(%s) error = %v, want ErrAmbiguousPrefix", h[:k], err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("Resolve(%s): %v", h[:k], err)
			}
			if got != h {
				t.Fatalf("Resolve(%s) = %s, want %s", h[:k], got, h)
			}
		}
	}
}

// uniquePrefixLen is the shortest k for which h[:k] matches h alone.
func uniquePrefixLen(h Hash, all []Hash) int {
	for k := 0; k <= HashHexSize; k++ {
		n := 0
		for _, other := range all {
			if strings.HasPrefix(string(other), string(h[:k])) {
				n++
			}
		}
		if n == 1 {
			return k
		}
	}
	return HashHexSize
}

func TestResolveAmbiguousReportsCandidates(t *testing.T) {
	s := tempStore(t)
	a, b := collidingPayloads(t, 4)
	hashes := writeBlobs(t, s, a, b)
	slices.Sort(hashes)

	for k := 0; k <= 4; k++ {
		_, err := s.Resolve(string(hashes[0][:k]))
		if !errors.Is(err, ErrAmbiguousPrefix) {
			t.Fatalf("Resolve(%s) error = %v, want ErrAmbiguousPrefix", hashes[0][:k], err)
		}
		var ae *AmbiguousPrefixError
		if !errors.As(err, &ae) {
			t.Fatalf("error %T is not *AmbiguousPrefixError", err)
		}
		if !slices.Equal(ae.Candidates, hashes) {
			t.Fatalf("Candidates = %v, want %v", ae.Candidates, hashes)
		}
		if !strings.Contains(ae.Error(), "matches 2 objects") {
			t.Fatalf("Error() = %q, want match count", ae.Error())
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	s := tempStore(t)
	h := writeBlobs(t, s, []byte("present"))[0]

	otherBucket := "00"
	if h[:2] == "00" {
		otherBucket = "ff"
	}
	var mismatch string
	if h[2] == '0' {
		mismatch = string(h[:2]) + "1"
	} else {
		mismatch = string(h[:2]) + "0"
	}

	for _, q := range []string{
		otherBucket,             // missing bucket
		otherBucket + "abc",     // missing bucket, longer prefix
		mismatch,                // bucket exists, no entry matches
		"zz",                    // not hex
		string(h) + "0",         // longer than a hash
		strings.Repeat("g", 40), // full length, not hex
	} {
		if _, err := s.Resolve(q); !errors.Is(err, ErrObjectNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrObjectNotFound", q, err)
		}
	}
}

func TestResolveEmptyStore(t *testing.T) {
	s := tempStore(t)
	for _, q := range []string{"", "a", "ab", "abc"} {
		if _, err := s.Resolve(q); !errors.Is(err, ErrObjectNotFound) {
			t.Errorf("Resolve(%q) on empty store: err = %v, want ErrObjectNotFound", q, err)
		}
	}
}

func TestResolveIgnoresForeignFiles(t *testing.T) {
	s := tempStore(t)
	h := writeBlobs(t, s, []byte("real object"))[0]

	bucket := filepath.Join(s.Root(), string(h[:2]))
	if err := os.WriteFile(filepath.Join(bucket, ".tmp-123456"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(s.Root(), "info"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "README"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"", string(h[:1]), string(h[:2])} {
		got, err := s.Resolve(q)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", q, err)
		}
		if got != h {
			t.Fatalf("Resolve(%q) = %s, want %s", q, got, h)
		}
	}
}
