package bgpls

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTLVReader(t *testing.T) {
	r := newTLVReader([]byte{0, 1, 0, 2, 0xaa, 0xbb, 0, 2, 0, 0})

	typ, v, err := r.next()
	assert.Nil(t, err)
	assert.Equal(t, uint16(1), typ)
	assert.Equal(t, []byte{0xaa, 0xbb}, v)

	// zero length value
	typ, v, err = r.next()
	assert.Nil(t, err)
	assert.Equal(t, uint16(2), typ)
	assert.Len(t, v, 0)
	assert.False(t, r.more())

	// header past the end
	_, _, err = r.next()
	assert.True(t, errors.Is(err, ErrTruncatedTlv))

	// partial header
	_, _, err = newTLVReader([]byte{0, 1, 0}).next()
	assert.True(t, errors.Is(err, ErrTruncatedTlv))

	// value past the end
	_, _, err = newTLVReader([]byte{0, 1, 0, 3, 0xaa, 0xbb}).next()
	assert.True(t, errors.Is(err, ErrTruncatedTlv))
}

func TestTLVReaderScan(t *testing.T) {
	var seen []uint16
	err := newTLVReader([]byte{0, 1, 0, 0, 0, 2, 0, 1, 0xff}).scan(func(typ uint16, v []byte) error {
		seen = append(seen, typ)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []uint16{1, 2}, seen)

	// callback failure stops the scan
	stop := errors.New("stop")
	seen = nil
	err = newTLVReader([]byte{0, 1, 0, 0, 0, 2, 0, 0}).scan(func(typ uint16, v []byte) error {
		seen = append(seen, typ)
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, []uint16{1}, seen)

	// trailing garbage after a good tlv
	err = newTLVReader([]byte{0, 1, 0, 0, 0xff}).scan(func(typ uint16, v []byte) error {
		return nil
	})
	assert.True(t, errors.Is(err, ErrTruncatedTlv))
}

func TestTLVReaderDepth(t *testing.T) {
	r := newTLVReader(nil)

	sub, err := r.sub([]byte{0, 1, 0, 0})
	require.Nil(t, err)
	assert.Equal(t, 1, sub.depth)

	sub, err = sub.sub(nil)
	require.Nil(t, err)
	assert.Equal(t, maxSubTlvDepth, sub.depth)

	_, err = sub.sub(nil)
	assert.True(t, errors.Is(err, ErrSubTlvDepth))
}

func TestAppendTLV(t *testing.T) {
	b, err := appendTLV([]byte{0xff}, 0x0102, []byte{0xaa})
	assert.Nil(t, err)
	assert.Equal(t, []byte{0xff, 1, 2, 0, 1, 0xaa}, b)

	// value too long for the length field
	_, err = appendTLV(nil, 1, make([]byte, 0x10000))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// the writer keeps the first failure
	w := &tlvWriter{}
	w.write(1, []byte{1})
	w.writeFunc(2, func() ([]byte, error) { return nil, ErrMissingPrefix })
	w.write(3, []byte{3})
	_, err = w.bytes()
	assert.Equal(t, ErrMissingPrefix, err)
}

func TestVarUint(t *testing.T) {
	assert.Equal(t, uint64(0x0a), varUint([]byte{0, 0, 0x0a}))
	assert.Equal(t, []byte{0, 0, 0x0a}, appendVarUint(nil, 0x0a, 3))
	assert.Equal(t, uint64(0x0102030405060708), varUint([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.Equal(t, uint32(0x0fffff), uint24([]byte{0x0f, 0xff, 0xff}))
	assert.Equal(t, []byte{0x0f, 0xff, 0xef}, appendUint24(nil, 0x0fffef))
}
