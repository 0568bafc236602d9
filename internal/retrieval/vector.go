package retrieval

import (
	"bytes"
	"encoding/binary"
)

// EncodeVector serializes an embedding into the little-endian FLOAT32 blob
// format Redis vector fields expect.
func EncodeVector(vec []float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(vec)*4))
	for _, v := range vec {
		// Write on a bytes.Buffer cannot fail
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}
