package libio

import (
	"encoding/binary"
	"io"
)

// BinaryReader reads fixed size values and remembers the first error.
// Every read after a failure is a no-op returning false, so callers can
// check once at the end or after each step.
type BinaryReader struct {
	Order binary.ByteOrder
	Src   io.Reader
	// byte offset after the last successful read
	Index int
	// byte offset where the last read started
	LastIndex int
	Err       error
}

func NewBinaryReader(src io.Reader, order binary.ByteOrder) *BinaryReader {
	return &BinaryReader{Src: src, Order: order}
}

func (br *BinaryReader) Read(p []byte) (n int, err error) {
	return br.Src.Read(p)
}

// Skip discards n bytes.
func (br *BinaryReader) Skip(n int) (ok bool) {
	if br.Err != nil {
		return false
	}
	br.LastIndex = br.Index
	read, err := io.CopyN(io.Discard, br.Src, int64(n))
	br.Index += int(read)
	if err != nil {
		br.Err = err
		return false
	}
	return true
}

func (br *BinaryReader) ReadUInt32(i *uint32) (ok bool) {
	return br.ReadRef(i)
}

// ReadRef reads into a pointer to a fixed size value or into a slice of them.
func (br *BinaryReader) ReadRef(data any) (ok bool) {
	if br.Err != nil {
		return false
	}
	br.LastIndex = br.Index
	if err := binary.Read(br.Src, br.Order, data); err != nil {
		br.Err = err
		return false
	}
	br.Index += binary.Size(data)
	return true
}

// BinaryWriter is the counterpart of BinaryReader.
type BinaryWriter struct {
	Order binary.ByteOrder
	Dst   io.Writer
	Index int
	Err   error
}

func NewBinaryWriter(dst io.Writer, order binary.ByteOrder) *BinaryWriter {
	return &BinaryWriter{Dst: dst, Order: order}
}

func (bw *BinaryWriter) Write(p []byte) (n int, err error) {
	return bw.Dst.Write(p)
}

func (bw *BinaryWriter) WriteBytes(p []byte) (ok bool) {
	if bw.Err != nil {
		return false
	}
	n, err := bw.Dst.Write(p)
	bw.Index += n
	if err != nil {
		bw.Err = err
		return false
	}
	return true
}

// Pad writes n zero bytes.
func (bw *BinaryWriter) Pad(n int) (ok bool) {
	return bw.WriteBytes(make([]byte, n))
}

func (bw *BinaryWriter) WriteUInt32(i uint32) (ok bool) {
	return bw.WriteRef(i)
}

func (bw *BinaryWriter) WriteRef(data any) (ok bool) {
	if bw.Err != nil {
		return false
	}
	if err := binary.Write(bw.Dst, bw.Order, data); err != nil {
		bw.Err = err
		return false
	}
	bw.Index += binary.Size(data)
	return true
}
