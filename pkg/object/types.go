package object

import "fmt"

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

// HashHexSize is the length of a Hash in hex characters.
const HashHexSize = 40

// hashRawSize is the length of a digest in raw bytes, as stored in trees.
const hashRawSize = 20

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// ParseObjectType maps a header tag to an ObjectType.
func ParseObjectType(s string) (ObjectType, error) {
	switch ObjectType(s) {
	case TypeBlob, TypeTree, TypeCommit:
		return ObjectType(s), nil
	default:
		return "", malformed("unknown object type %q", s)
	}
}

// FileMode is a tree entry mode, e.g. 0o100644. The value is the number the
// octal ASCII in the tree payload denotes.
type FileMode uint32

const (
	ModeDir        FileMode = 0o040000
	ModeFile       FileMode = 0o100644
	ModeExecutable FileMode = 0o100755
	ModeSymlink    FileMode = 0o120000
	ModeSubmodule  FileMode = 0o160000

	modeTypeMask FileMode = 0o170000
)

// IsDir reports whether the mode's type bits name a directory.
func (m FileMode) IsDir() bool {
	return m&modeTypeMask == ModeDir
}

// String renders m as six zero-padded octal digits.
func (m FileMode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode FileMode
	Name string
	Hash Hash
}

// Type is the kind of object the entry points at.
func (e TreeEntry) Type() ObjectType {
	if e.Mode.IsDir() {
		return TypeTree
	}
	return TypeBlob
}
