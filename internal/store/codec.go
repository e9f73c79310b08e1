package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Save documents compress well (deeply nested JSON with repeated keys), so
// both backends store them gzipped. Decode accepts plain JSON too, for rows
// written before compression existed.

// EncodeDocument gzips a serialized save document for storage.
func EncodeDocument(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(doc); err != nil {
		return nil, fmt.Errorf("compressing document: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing document: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDocument reverses EncodeDocument. Payloads without the gzip magic
// bytes are returned as-is.
func DecodeDocument(payload []byte) ([]byte, error) {
	if len(payload) < 2 || payload[0] != 0x1f || payload[1] != 0x8b {
		return payload, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decompressing document: %w", err)
	}
	defer r.Close()
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing document: %w", err)
	}
	return doc, nil
}
