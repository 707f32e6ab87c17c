package rsvp

import (
	"encoding/hex"
	"errors"
	"math"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.Nil(t, err)
	return b
}

const tspecBodyHex = "00000007" + "01000006" + "7f000005" + "49742400" +
	"47c35000" + "7f800000" + "00000014" + "000005dc"

func TestTspec(t *testing.T) {
	r := NewRegistry()
	b := mustHex(t, tspecBodyHex)

	o, err := r.Parse(ClassSenderTspec, CTypeTspec, b)
	require.Nil(t, err)
	assert.Equal(t, &Tspec{
		TokenBucketRate:    1e6,
		TokenBucketSize:    1e5,
		PeakDataRate:       float32(math.Inf(1)),
		MinimumPolicedUnit: 20,
		MaximumPacketSize:  1500,
	}, o)

	e, err := r.Serialize(o)
	assert.Nil(t, err)
	assert.Equal(t, b, e)

	_, err = r.Parse(ClassSenderTspec, CTypeTspec, b[:28])
	assert.True(t, errors.Is(err, ErrMalformedObject))

	// header fields other than the token bucket layout
	for _, i := range []int{0, 3, 4, 7, 8, 11} {
		c := append([]byte{}, b...)
		c[i] ^= 0x10
		_, err = r.Parse(ClassSenderTspec, CTypeTspec, c)
		assert.True(t, errors.Is(err, ErrMalformedObject), "offset %d", i)
	}
}

func TestAssociation(t *testing.T) {
	r := NewRegistry()

	b := mustHex(t, "00010002"+"0a000001")
	o, err := r.Parse(ClassAssociation, CTypeAssociationIPv4, b)
	require.Nil(t, err)
	assert.Equal(t, &Association{
		Type:   AssociationTypeRecovery,
		ID:     2,
		Source: net.IP{10, 0, 0, 1},
	}, o)
	assert.Equal(t, CTypeAssociationIPv4, o.CType())

	e, err := r.Serialize(o)
	assert.Nil(t, err)
	assert.Equal(t, b, e)

	b = mustHex(t, "00020007"+"20010db8000000000000000000000001")
	o, err = r.Parse(ClassAssociation, CTypeAssociationIPv6, b)
	require.Nil(t, err)
	assert.Equal(t, &Association{
		Type:   AssociationTypeResourceSharing,
		ID:     7,
		Source: net.ParseIP("2001:db8::1"),
	}, o)
	assert.Equal(t, CTypeAssociationIPv6, o.CType())

	e, err = r.Serialize(o)
	assert.Nil(t, err)
	assert.Equal(t, b, e)

	// ipv6 source under the ipv4 c-type
	_, err = r.Parse(ClassAssociation, CTypeAssociationIPv4, b)
	assert.True(t, errors.Is(err, ErrMalformedObject))

	_, err = r.Parse(ClassAssociation, CTypeAssociationIPv4, mustHex(t, "00090002"+"0a000001"))
	assert.True(t, errors.Is(err, ErrUnsupportedAssociationType))

	_, err = r.Serialize(&Association{Type: 9, Source: net.IP{10, 0, 0, 1}})
	assert.True(t, errors.Is(err, ErrUnsupportedAssociationType))

	_, err = r.Serialize(&Association{Type: AssociationTypeRecovery})
	assert.True(t, errors.Is(err, ErrMalformedObject))
}

type opaque struct {
	b []byte
}

func (o *opaque) Class() uint8 { return 250 }
func (o *opaque) CType() uint8 { return 1 }

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Parse(250, 1, []byte{1, 2})
	assert.True(t, errors.Is(err, ErrUnsupportedObject))

	_, err = r.Serialize(&opaque{})
	assert.True(t, errors.Is(err, ErrUnsupportedObject))

	_, err = r.Serialize(nil)
	assert.True(t, errors.Is(err, ErrMalformedObject))

	r.Register(250, 1,
		func(b []byte) (Object, error) {
			return &opaque{b: append([]byte{}, b...)}, nil
		},
		func(o Object) ([]byte, error) {
			return o.(*opaque).b, nil
		},
	)

	o, err := r.Parse(250, 1, []byte{1, 2})
	require.Nil(t, err)
	assert.Equal(t, &opaque{b: []byte{1, 2}}, o)

	b, err := r.Serialize(o)
	assert.Nil(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	// a serializer registered for one class refuses other objects
	r.Register(ClassSenderTspec, CTypeTspec, parseTspec, serializeAssociation)
	_, err = r.Serialize(&Tspec{})
	assert.True(t, errors.Is(err, ErrMalformedObject))
}
