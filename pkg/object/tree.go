package object

import (
	"bytes"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseTree lazily decodes a tree payload. Each entry has the binary form
//
//	<octal mode> SP <name> NUL <20-byte hash>
//
// and entries are yielded in stored order. The sequence can be ranged over
// any number of times. On malformed input it yields one error and stops.
func ParseTree(data []byte) iter.Seq2[TreeEntry, error] {
	return func(yield func(TreeEntry, error) bool) {
		for i := 0; i < len(data); {
			entry, next, err := parseTreeEntry(data, i)
			if err != nil {
				yield(TreeEntry{}, err)
				return
			}
			if !yield(entry, nil) {
				return
			}
			i = next
		}
	}
}

func parseTreeEntry(data []byte, start int) (TreeEntry, int, error) {
	sp := bytes.IndexByte(data[start:], ' ')
	if sp < 0 {
		return TreeEntry{}, 0, malformed("tree entry at offset %d: missing mode separator", start)
	}
	sp += start
	modeStr := string(data[start:sp])
	if modeStr == "" {
		return TreeEntry{}, 0, malformed("tree entry at offset %d: empty mode", start)
	}
	mode, err := strconv.ParseUint(modeStr, 8, 32)
	if err != nil {
		return TreeEntry{}, 0, &MalformedObjectError{
			Reason: "tree entry mode " + strconv.Quote(modeStr),
			Err:    err,
		}
	}

	nul := bytes.IndexByte(data[sp+1:], 0)
	if nul < 0 {
		return TreeEntry{}, 0, malformed("tree entry at offset %d: missing name terminator", start)
	}
	nul += sp + 1
	name := data[sp+1 : nul]
	if !utf8.Valid(name) {
		return TreeEntry{}, 0, malformed("tree entry at offset %d: name is not valid UTF-8", start)
	}

	end := nul + 1 + hashRawSize
	if end > len(data) {
		return TreeEntry{}, 0, malformed("tree entry %q: truncated hash (%d of %d bytes)", name, len(data)-nul-1, hashRawSize)
	}
	return TreeEntry{
		Mode: FileMode(mode),
		Name: string(name),
		Hash: hashFromRaw(data[nul+1 : end]),
	}, end, nil
}

// DecodeTree decodes every entry of a tree payload.
func DecodeTree(data []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for e, err := range ParseTree(data) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// EncodeTree serializes entries in the given order. Modes are written in
// octal without leading zeros, as Git writes them (40000, 100644).
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		if e.Name == "" || strings.IndexByte(e.Name, 0) >= 0 {
			return nil, malformed("tree entry name %q", e.Name)
		}
		raw, err := e.Hash.raw()
		if err != nil {
			return nil, err
		}
		buf.WriteString(strconv.FormatUint(uint64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}
