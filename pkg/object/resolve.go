package object

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const bucketNameLen = 2

// Resolve expands a full or abbreviated hex object name to the one stored
// hash it names. The query is case-insensitive.
//
// Queries shorter than two characters scan every bucket; longer ones only
// the bucket named by their first two characters. A query matching nothing
// fails with ErrObjectNotFound and one matching several objects with an
// *AmbiguousPrefixError; the first match is never picked silently.
func (s *Store) Resolve(query string) (Hash, error) {
	prefix := strings.ToLower(query)

	if len(prefix) == HashHexSize {
		h, err := ParseHash(prefix)
		if err != nil {
			return "", err
		}
		ok, err := s.Has(h)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", &NotFoundError{Name: prefix}
		}
		return h, nil
	}
	if len(prefix) > HashHexSize || !isHexPrefix(prefix) {
		return "", &NotFoundError{Name: query}
	}

	var (
		matches []Hash
		err     error
	)
	if len(prefix) < bucketNameLen {
		matches, err = s.scanAll(prefix)
	} else {
		matches, err = s.scanBucket(prefix[:bucketNameLen], prefix[bucketNameLen:])
	}
	if err != nil {
		return "", err
	}

	s.log.Debug("resolve prefix", zap.String("prefix", prefix), zap.Int("matches", len(matches)))

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: query}
	case 1:
		return matches[0], nil
	default:
		slices.Sort(matches)
		return "", &AmbiguousPrefixError{Prefix: prefix, Candidates: matches}
	}
}

// scanAll matches prefix against every object in every bucket.
func (s *Store) scanAll(prefix string) ([]Hash, error) {
	buckets, err := s.fs.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &IOError{Op: "read objects dir", Path: s.root, Err: err}
	}

	var matches []Hash
	for _, b := range buckets {
		name := b.Name()
		if !b.IsDir() || !isHex(name, bucketNameLen) {
			continue
		}
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		found, err := s.scanBucket(name, "")
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}
	return matches, nil
}

// scanBucket lists the objects in one bucket whose remaining 38 characters
// start with rest. A missing bucket is ErrObjectNotFound.
func (s *Store) scanBucket(bucket, rest string) ([]Hash, error) {
	dir := filepath.Join(s.root, bucket)
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: bucket + rest}
		}
		return nil, &IOError{Op: "read objects bucket", Path: dir, Err: err}
	}

	var matches []Hash
	for _, e := range entries {
		name := e.Name()
		// Skips in-flight temp files and anything else that is not an object.
		if e.IsDir() || !isHex(name, HashHexSize-bucketNameLen) {
			continue
		}
		if strings.HasPrefix(name, rest) {
			matches = append(matches, Hash(bucket+name))
		}
	}
	return matches, nil
}

func isHexPrefix(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
