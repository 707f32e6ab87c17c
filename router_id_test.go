package bgpls

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterID(t *testing.T) {
	cases := []struct {
		name string
		id   LinkStateNlriProtocolID
		b    []byte
		want RouterID
	}{
		{
			name: "isis non-pseudonode",
			id:   LinkStateNlriIsIsL1ProtocolID,
			b:    []byte{0, 0, 0, 0, 0, 0x42},
			want: &IgpRouterIDIsIsNonPseudo{IsoNodeID: 0x42},
		},
		{
			name: "isis pseudonode",
			id:   LinkStateNlriIsIsL2ProtocolID,
			b:    []byte{0, 0, 0, 0, 0, 0x39, 5},
			want: &IgpRouterIDIsIsPseudo{IsoNodeID: 0x39, PsnID: 5},
		},
		{
			name: "ospf non-pseudonode",
			id:   LinkStateNlriOSPFv2ProtocolID,
			b:    []byte{10, 0, 0, 1},
			want: &IgpRouterIDOspfNonPseudo{RouterID: net.IP{10, 0, 0, 1}},
		},
		{
			name: "ospfv3 pseudonode",
			id:   LinkStateNlriOSPFv3ProtocolID,
			b:    []byte{10, 0, 0, 1, 10, 0, 0, 2},
			want: &IgpRouterIDOspfPseudo{DrRouterID: net.IP{10, 0, 0, 1}, DrInterfaceToLAN: net.IP{10, 0, 0, 2}},
		},
		{
			name: "direct by length",
			id:   LinkStateNlriDirectProtocolID,
			b:    []byte{0, 0, 0, 0, 0, 0x42},
			want: &IgpRouterIDIsIsNonPseudo{IsoNodeID: 0x42},
		},
		{
			name: "static by length",
			id:   LinkStateNlriStaticProtocolID,
			b:    []byte{10, 0, 0, 1},
			want: &IgpRouterIDOspfNonPseudo{RouterID: net.IP{10, 0, 0, 1}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := deserializeRouterID(c.id, c.b)
			assert.Nil(t, err)
			assert.Equal(t, c.want, r)

			b, err := serializeRouterID(r)
			assert.Nil(t, err)
			assert.Equal(t, c.b, b)
		})
	}
}

func TestRouterIDMalformed(t *testing.T) {
	// ospf length under isis
	_, err := deserializeRouterID(LinkStateNlriIsIsL1ProtocolID, []byte{10, 0, 0, 1})
	assert.True(t, errors.Is(err, ErrMalformedRouterIdentifier))

	// isis length under ospf
	_, err = deserializeRouterID(LinkStateNlriOSPFv2ProtocolID, []byte{0, 0, 0, 0, 0, 1})
	assert.True(t, errors.Is(err, ErrMalformedRouterIdentifier))

	// no form has 5 bytes
	_, err = deserializeRouterID(LinkStateNlriStaticProtocolID, []byte{0, 0, 0, 0, 1})
	assert.True(t, errors.Is(err, ErrMalformedRouterIdentifier))

	_, err = serializeRouterID(nil)
	assert.True(t, errors.Is(err, ErrMissingRouterIdentifier))

	_, err = serializeRouterID(&IgpRouterIDOspfNonPseudo{RouterID: net.ParseIP("2001:db8::1")})
	assert.True(t, errors.Is(err, ErrMalformedRouterIdentifier))

	_, err = serializeRouterID(&IgpRouterIDOspfPseudo{DrRouterID: net.IP{10, 0, 0, 1}})
	assert.True(t, errors.Is(err, ErrMalformedRouterIdentifier))
}
