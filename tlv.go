package bgpls

import (
	"encoding/binary"
	"math"
)

const (
	tlvHeaderLen = 4

	// range tlv -> binding sid -> binding sub-tlvs
	maxSubTlvDepth = 2
)

/*
	0                   1                   2                   3
	0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|              Type             |            Length             |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                     Value (variable)                        //
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/

// tlvReader walks a sequence of bgp-ls TLVs. It never reads past the slice
// it was created over.
type tlvReader struct {
	b     []byte
	depth int
}

func newTLVReader(b []byte) *tlvReader {
	return &tlvReader{b: b}
}

// more reports whether unread bytes remain.
func (r *tlvReader) more() bool {
	return len(r.b) > 0
}

// next returns the type and value of the next TLV and advances past it.
func (r *tlvReader) next() (uint16, []byte, error) {
	if len(r.b) < tlvHeaderLen {
		return 0, nil, withData(malformedAttrErr(ErrTruncatedTlv, "%d bytes left for tlv header", len(r.b)), r.b)
	}

	t := binary.BigEndian.Uint16(r.b[:2])
	l := int(binary.BigEndian.Uint16(r.b[2:4]))
	if len(r.b)-tlvHeaderLen < l {
		err := malformedAttrErr(ErrTruncatedTlv, "tlv type %d declares length %d with %d bytes remaining", t, l, len(r.b)-tlvHeaderLen)
		return 0, nil, withData(err, r.b)
	}

	v := r.b[tlvHeaderLen : tlvHeaderLen+l]
	r.b = r.b[tlvHeaderLen+l:]

	return t, v, nil
}

// sub returns a reader over the value of a TLV nested one level below r.
func (r *tlvReader) sub(v []byte) (*tlvReader, error) {
	if r.depth+1 > maxSubTlvDepth {
		return nil, malformedAttrErr(ErrSubTlvDepth, "depth %d", r.depth+1)
	}

	return &tlvReader{b: v, depth: r.depth + 1}, nil
}

// scan calls fn for every TLV until the reader is exhausted or fn fails. A
// failure of fn carries the whole TLV as notification data.
func (r *tlvReader) scan(fn func(t uint16, v []byte) error) error {
	for r.more() {
		raw := r.b
		t, v, err := r.next()
		if err != nil {
			return err
		}

		if err := fn(t, v); err != nil {
			return withData(err, raw[:tlvHeaderLen+len(v)])
		}
	}

	return nil
}

// appendTLV writes a TLV with no padding.
func appendTLV(b []byte, t uint16, v []byte) ([]byte, error) {
	if len(v) > math.MaxUint16 {
		return nil, malformedAttrErr(ErrMalformedTlv, "tlv type %d value of %d bytes", t, len(v))
	}

	b = appendUint16(b, t)
	b = appendUint16(b, uint16(len(v)))

	return append(b, v...), nil
}

// tlvWriter accumulates TLVs and remembers the first failure.
type tlvWriter struct {
	b   []byte
	err error
}

func (w *tlvWriter) write(t uint16, v []byte) {
	if w.err != nil {
		return
	}

	w.b, w.err = appendTLV(w.b, t, v)
}

// writeFunc writes the TLV produced by fn.
func (w *tlvWriter) writeFunc(t uint16, fn func() ([]byte, error)) {
	if w.err != nil {
		return
	}

	v, err := fn()
	if err != nil {
		w.err = err
		return
	}

	w.write(t, v)
}

func (w *tlvWriter) bytes() ([]byte, error) {
	return w.b, w.err
}
