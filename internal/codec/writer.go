package codec

import (
	"encoding/binary"
	"math"
)

// Writer builds Factorio's wire encoding into a growable byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) I8(v int8)   { w.U8(uint8(v)) }
func (w *Writer) I16(v int16) { w.U16(uint16(v)) }
func (w *Writer) I32(v int32) { w.U32(uint32(v)) }
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

// OptU32 writes v as one byte if v < 0xFF, else 0xFF followed by a full u32.
func (w *Writer) OptU32(v uint32) {
	if v < 0xFF {
		w.U8(uint8(v))
		return
	}
	w.U8(0xFF)
	w.U32(v)
}

// OptU16 writes v as one byte if v < 0xFF, else 0xFF followed by a full u16.
func (w *Writer) OptU16(v uint16) {
	if v < 0xFF {
		w.U8(uint8(v))
		return
	}
	w.U8(0xFF)
	w.U16(v)
}

// String writes an opt-u32-length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.OptU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// SimpleString writes an opt-u16-length-prefixed UTF-8 string.
func (w *Writer) SimpleString(s string) {
	w.OptU16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) Fixed32(v Fixed32) {
	w.I32(int32(v))
}

func (w *Writer) MapPosition(p MapPos) {
	w.Fixed32(p.X)
	w.Fixed32(p.Y)
}

func (w *Writer) Direction(d Direction) {
	w.U8(uint8(d))
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}
