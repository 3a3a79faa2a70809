// Package catfile renders stored objects for inspection, in the manner of
// git cat-file.
package catfile

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/odvcencio/minigit/pkg/object"
)

// Reader is the part of *object.Store that rendering needs.
type Reader interface {
	Read(h object.Hash) (object.ObjectType, []byte, error)
}

var _ Reader = (*object.Store)(nil)

// Render produces the requested view of the object named by h. Nothing is
// returned unless the whole view could be produced.
func Render(r Reader, h object.Hash, v View) ([]byte, error) {
	if _, ok := viewNames[v]; !ok {
		return nil, fmt.Errorf("%w %s", ErrInvalidView, v)
	}

	objType, data, err := r.Read(h)
	if err != nil {
		return nil, err
	}

	switch v {
	case ViewType:
		return []byte(string(objType) + "\n"), nil
	case ViewSize:
		return append(strconv.AppendInt(nil, int64(len(data)), 10), '\n'), nil
	case ViewPretty:
		return pretty(h, objType, data)
	default:
		want, _ := v.exactType()
		if objType != want {
			return nil, &object.TypeMismatchError{Hash: h, Got: objType, Want: want}
		}
		return data, nil
	}
}

// Write renders the view and copies it to w in a single write.
func Write(w io.Writer, r Reader, h object.Hash, v View) error {
	out, err := Render(r, h, v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func pretty(h object.Hash, objType object.ObjectType, data []byte) ([]byte, error) {
	switch objType {
	case object.TypeBlob, object.TypeCommit:
		return data, nil
	case object.TypeTree:
		// Decode everything first so a malformed tree emits nothing.
		entries, err := object.DecodeTree(data)
		if err != nil {
			return nil, fmt.Errorf("tree %s: %w", h, err)
		}
		var buf bytes.Buffer
		for _, e := range entries {
			fmt.Fprintf(&buf, "%s %s %s\t%s\n", e.Mode, e.Type(), e.Hash, e.Name)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("pretty: unhandled object type %q", objType)
	}
}
