package object

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

func frameHeader(objType ObjectType, size int) []byte {
	header := make([]byte, 0, len(objType)+12)
	header = append(header, string(objType)...)
	header = append(header, ' ')
	header = strconv.AppendInt(header, int64(size), 10)
	return append(header, 0)
}

// Encode frames data as "type len\0content".
func Encode(objType ObjectType, data []byte) []byte {
	header := frameHeader(objType, len(data))
	out := make([]byte, 0, len(header)+len(data))
	out = append(out, header...)
	return append(out, data...)
}

// Decode splits framed bytes into type and content. The declared length must
// match the content length.
func Decode(framed []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(framed, 0)
	if nulIdx < 0 {
		return "", nil, malformed("invalid format (no NUL)")
	}
	header := framed[:nulIdx]
	content := framed[nulIdx+1:]

	typ, size, ok := bytes.Cut(header, []byte{' '})
	if !ok {
		return "", nil, malformed("invalid header %q", header)
	}
	objType, err := ParseObjectType(string(typ))
	if err != nil {
		return "", nil, err
	}
	length, err := parseLength(size)
	if err != nil {
		return "", nil, err
	}
	if len(content) != length {
		return "", nil, malformed("length mismatch (header=%d, actual=%d)", length, len(content))
	}
	return objType, content, nil
}

// parseLength accepts plain decimal digits only: no sign, no spaces.
func parseLength(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, malformed("invalid length %q", b)
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, malformed("invalid length %q", b)
		}
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, &MalformedObjectError{Reason: "invalid length " + strconv.Quote(string(b)), Err: err}
	}
	return n, nil
}

// Compress deflates framed bytes into a zlib stream, the loose object format.
func Compress(framed []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(framed); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// maxHeaderLen bounds the "type len\0" prefix read before the declared
// length is known.
const maxHeaderLen = 64

// Decompress inflates a stored zlib stream back to framed bytes. Inflation
// stops one byte past the length the header declares, so a corrupt stream
// cannot expand beyond what Decode would accept.
func Decompress(stored []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(stored))
	if err != nil {
		return nil, &MalformedObjectError{Reason: "zlib reader", Err: err}
	}
	br := bufio.NewReaderSize(zr, maxHeaderLen)

	line, err := br.ReadSlice(0)
	switch {
	case errors.Is(err, bufio.ErrBufferFull), errors.Is(err, io.EOF):
		_ = zr.Close()
		return nil, malformed("invalid format (no NUL)")
	case err != nil:
		_ = zr.Close()
		return nil, &MalformedObjectError{Reason: "inflate", Err: err}
	}
	header := bytes.Clone(line)

	_, size, ok := bytes.Cut(header[:len(header)-1], []byte{' '})
	if !ok {
		_ = zr.Close()
		return nil, malformed("invalid header %q", header[:len(header)-1])
	}
	length, err := parseLength(size)
	if err != nil {
		_ = zr.Close()
		return nil, err
	}

	content, err := io.ReadAll(io.LimitReader(br, int64(length)+1))
	if err != nil {
		_ = zr.Close()
		return nil, &MalformedObjectError{Reason: "inflate", Err: err}
	}
	if err := zr.Close(); err != nil {
		return nil, &MalformedObjectError{Reason: "close zlib stream", Err: err}
	}
	return append(header, content...), nil
}
