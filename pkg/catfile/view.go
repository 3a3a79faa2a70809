package catfile

import (
	"errors"
	"fmt"

	"github.com/odvcencio/minigit/pkg/object"
)

// ErrInvalidView is returned for a View outside the defined set.
var ErrInvalidView = errors.New("invalid view")

// View selects what Render produces for an object.
type View int

const (
	ViewType   View = iota + 1 // the object's type tag
	ViewSize                   // the payload size in bytes
	ViewPretty                 // payload, or one line per entry for trees
	ViewBlob                   // raw payload, object must be a blob
	ViewTree                   // raw payload, object must be a tree
	ViewCommit                 // raw payload, object must be a commit
)

var viewNames = map[View]string{
	ViewType:   "type",
	ViewSize:   "size",
	ViewPretty: "pretty",
	ViewBlob:   "blob",
	ViewTree:   "tree",
	ViewCommit: "commit",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ParseView maps a view name ("type", "size", "pretty", "blob", "tree",
// "commit") to a View.
func ParseView(s string) (View, error) {
	for v, name := range viewNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidView, s)
}

// exactType returns the object type an exact-kind view demands.
func (v View) exactType() (object.ObjectType, bool) {
	switch v {
	case ViewBlob:
		return object.TypeBlob, true
	case ViewTree:
		return object.TypeTree, true
	case ViewCommit:
		return object.TypeCommit, true
	default:
		return "", false
	}
}
