package bgpls

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nodeNlriHex = []string{
		"00010030",
		"02",
		"0000000000000001",
		"01000023",
		"02000004" + "00000048",
		"02010004" + "28282828",
		"02020004" + "00292929",
		"02030007" + "00000000003905",
	}

	prefixNlriHex = []string{
		"0003002f",
		"03",
		"0000000000000001",
		"01000010",
		"02000004" + "00000048",
		"02030004" + "0a0a0a0a",
		"01070002" + "000f",
		"01080001" + "03",
		"01090003" + "10ffff",
	}

	linkNlriHex = []string{
		"00020067",
		"01",
		"0000000000000000",
		"0100001a",
		"02000004" + "00000048",
		"02010004" + "28282828",
		"02030006" + "000000000042",
		"0101001a",
		"02000004" + "00000048",
		"02010004" + "28282828",
		"02030006" + "000000000043",
		"01020008" + "00000001" + "00000002",
		"01030004" + "c5140a01",
		"01040004" + "c5140a02",
		"01070002" + "0003",
	}

	teLspNlriHex = []string{
		"00050015",
		"08",
		"0000000000000001",
		"0a000001",
		"0001" + "0002",
		"0a000002",
	}
)

func uint32p(v uint32) *uint32 {
	return &v
}

func uint16p(v uint16) *uint16 {
	return &v
}

func TestNlriRegistryNode(t *testing.T) {
	b := fromHex(t, nodeNlriHex...)

	r := NewNlriRegistry()
	ds, err := r.Decode(b)
	require.Nil(t, err)
	require.Len(t, ds, 1)

	d := ds[0]
	assert.Nil(t, d.RouteDistinguisher)
	assert.Equal(t, LinkStateNlriIsIsL2ProtocolID, d.ProtocolID)
	assert.Equal(t, uint64(1), d.Identifier)
	assert.Equal(t, &LinkStateNlriNode{
		LocalNodeDescriptors: &NodeDescriptors{
			ASN:        uint32p(72),
			BgpLsID:    uint32p(0x28282828),
			OspfAreaID: uint32p(0x00292929),
			RouterID:   &IgpRouterIDIsIsPseudo{IsoNodeID: 0x39, PsnID: 5},
		},
	}, d.Object)

	e, err := r.Encode(ds)
	assert.Nil(t, err)
	assert.Equal(t, b, e)
}

func TestNlriRegistryPrefix(t *testing.T) {
	b := fromHex(t, prefixNlriHex...)

	r := NewNlriRegistry()
	ds, err := r.Decode(b)
	require.Nil(t, err)
	require.Len(t, ds, 1)

	d := ds[0]
	assert.Equal(t, LinkStateNlriOSPFv2ProtocolID, d.ProtocolID)

	p, ok := d.Object.(*LinkStateNlriPrefix)
	require.True(t, ok)
	assert.Equal(t, &NodeDescriptors{
		ASN:      uint32p(72),
		RouterID: &IgpRouterIDOspfNonPseudo{RouterID: net.IP{10, 10, 10, 10}},
	}, p.AdvertisingNodeDescriptors)
	assert.Equal(t, &PrefixDescriptors{
		MultiTopologyID: uint16p(15),
		OspfRouteType:   OspfRouteTypeExternal1,
		IPReachability:  &net.IPNet{IP: net.IP{255, 255, 0, 0}, Mask: net.CIDRMask(16, 32)},
	}, p.PrefixDescriptors)

	e, err := r.Encode(ds)
	assert.Nil(t, err)
	assert.Equal(t, b, e)
}

func TestNlriRegistryIPv6Prefix(t *testing.T) {
	d := &Destination{
		ProtocolID: LinkStateNlriIsIsL1ProtocolID,
		Object: &LinkStateNlriPrefix{
			AdvertisingNodeDescriptors: &NodeDescriptors{
				RouterID: &IgpRouterIDIsIsNonPseudo{IsoNodeID: 0x42},
			},
			PrefixDescriptors: &PrefixDescriptors{
				IPReachability: &net.IPNet{IP: net.ParseIP("2001:db8::"), Mask: net.CIDRMask(33, 128)},
			},
		},
	}

	r := NewNlriRegistry()
	b, err := r.EncodeNlri(d)
	require.Nil(t, err)
	assert.Equal(t, fromHex(t,
		"00040021",
		"01",
		"0000000000000000",
		"0100000a",
		"02030006"+"000000000042",
		"01090006"+"21"+"20010db800",
	), b)

	ds, err := r.Decode(b)
	require.Nil(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, d, ds[0])
}

func TestNlriRegistryLink(t *testing.T) {
	b := fromHex(t, linkNlriHex...)

	r := NewNlriRegistry()
	ds, err := r.Decode(b)
	require.Nil(t, err)
	require.Len(t, ds, 1)

	l, ok := ds[0].Object.(*LinkStateNlriLink)
	require.True(t, ok)
	assert.Equal(t, &IgpRouterIDIsIsNonPseudo{IsoNodeID: 0x42}, l.LocalNodeDescriptors.RouterID)
	assert.Equal(t, &IgpRouterIDIsIsNonPseudo{IsoNodeID: 0x43}, l.RemoteNodeDescriptors.RouterID)
	assert.Equal(t, &LinkDescriptors{
		LinkIDs:              &LinkDescriptorLinkIDs{LocalID: 1, RemoteID: 2},
		IPv4InterfaceAddress: net.IP{197, 20, 10, 1},
		IPv4NeighborAddress:  net.IP{197, 20, 10, 2},
		MultiTopologyID:      uint16p(3),
	}, l.LinkDescriptors)

	e, err := r.Encode(ds)
	assert.Nil(t, err)
	assert.Equal(t, b, e)
}

func TestNlriRegistryTeLsp(t *testing.T) {
	b := fromHex(t, teLspNlriHex...)

	r := NewNlriRegistry()
	ds, err := r.Decode(b)
	require.Nil(t, err)
	require.Len(t, ds, 1)

	assert.Equal(t, LinkStateNlriRsvpTeProtocolID, ds[0].ProtocolID)
	assert.Equal(t, &LinkStateNlriTeLsp{
		TunnelSenderAddress:   net.IP{10, 0, 0, 1},
		TunnelID:              1,
		LspID:                 2,
		TunnelEndpointAddress: net.IP{10, 0, 0, 2},
	}, ds[0].Object)

	e, err := r.Encode(ds)
	assert.Nil(t, err)
	assert.Equal(t, b, e)

	// ipv6 form
	v6 := &Destination{
		ProtocolID: LinkStateNlriRsvpTeProtocolID,
		Object: &LinkStateNlriTeLsp{
			TunnelSenderAddress:   net.ParseIP("2001:db8::1"),
			TunnelID:              7,
			LspID:                 8,
			TunnelEndpointAddress: net.ParseIP("2001:db8::2"),
		},
	}
	e, err = r.EncodeNlri(v6)
	require.Nil(t, err)
	assert.Equal(t, fromHex(t, "0006002d"), e[:4])

	d, err := r.DecodeNlri(uint16(LinkStateNlriIpv6TeLspType), e[4:])
	require.Nil(t, err)
	assert.Equal(t, v6, d)

	// endpoint of the other family
	v6.Object.(*LinkStateNlriTeLsp).TunnelEndpointAddress = net.IP{10, 0, 0, 2}
	_, err = r.EncodeNlri(v6)
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// lsp id beyond 2 octets
	_, err = r.EncodeNlri(&Destination{Object: &LinkStateNlriTeLsp{
		TunnelSenderAddress:   net.IP{10, 0, 0, 1},
		LspID:                 0x10000,
		TunnelEndpointAddress: net.IP{10, 0, 0, 2},
	}})
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// ipv4 body under the ipv6 type
	_, err = r.DecodeNlri(uint16(LinkStateNlriIpv6TeLspType), fromHex(t, teLspNlriHex[1:]...))
	assert.True(t, errors.Is(err, ErrMalformedTlv))
}

func TestNlriRegistryPartialFailure(t *testing.T) {
	node := fromHex(t, nodeNlriHex...)
	prefix := fromHex(t, prefixNlriHex...)

	var b []byte
	b = append(b, node...)
	// unsupported type 9
	b = append(b, fromHex(t, "00090002", "0000")...)
	// node without an igp router id
	b = append(b, fromHex(t, "00010015", "02", "0000000000000001", "01000008", "02000004", "00000048")...)
	b = append(b, prefix...)

	r := NewNlriRegistry()
	ds, err := r.Decode(b)
	require.Len(t, ds, 2)
	assert.IsType(t, &LinkStateNlriNode{}, ds[0].Object)
	assert.IsType(t, &LinkStateNlriPrefix{}, ds[1].Object)

	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedNlriType))
	assert.True(t, errors.Is(err, ErrMissingRouterIdentifier))

	code, subcode, _, ok := Notification(err)
	assert.True(t, ok)
	assert.Equal(t, NotifErrCodeUpdateMessage, code)
	assert.Equal(t, NotifErrSubcodeInvalidNetworkField, subcode)

	// a truncated element header ends decoding
	b = append(append([]byte{}, node...), fromHex(t, "00010030", "02")...)
	ds, err = r.Decode(b)
	assert.Len(t, ds, 1)
	assert.True(t, errors.Is(err, ErrTruncatedTlv))
}

func TestNlriRegistryMalformed(t *testing.T) {
	r := NewNlriRegistry()

	// shorter than protocol id and identifier
	_, err := r.DecodeNlri(uint16(LinkStateNlriNodeType), fromHex(t, "0200000000"))
	assert.True(t, errors.Is(err, ErrTruncatedTlv))

	// remote node descriptors where local ones belong
	_, err = r.DecodeNlri(uint16(LinkStateNlriNodeType), fromHex(t, "02", "0000000000000001", "01010008", "02030004", "0a0a0a0a"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// no node descriptors at all
	_, err = r.DecodeNlri(uint16(LinkStateNlriNodeType), fromHex(t, "02", "0000000000000001"))
	assert.True(t, errors.Is(err, ErrTruncatedTlv))

	// link without remote node descriptors
	_, err = r.DecodeNlri(uint16(LinkStateNlriLinkType), fromHex(t, "03", "0000000000000001", "01000008", "02030004", "0a0a0a0a"))
	assert.True(t, errors.Is(err, ErrTruncatedTlv))

	// prefix without ip reachability
	_, err = r.DecodeNlri(uint16(LinkStateNlriIpv4PrefixType), fromHex(t, "03", "0000000000000001", "01000008", "02030004", "0a0a0a0a", "01070002", "000f"))
	assert.True(t, errors.Is(err, ErrMissingPrefix))

	// prefix length longer than an ipv4 address
	_, err = r.DecodeNlri(uint16(LinkStateNlriIpv4PrefixType), fromHex(t, "03", "0000000000000001", "01000008", "02030004", "0a0a0a0a", "01090002", "2100"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// prefix bytes do not match the prefix length
	_, err = r.DecodeNlri(uint16(LinkStateNlriIpv4PrefixType), fromHex(t, "03", "0000000000000001", "01000008", "02030004", "0a0a0a0a", "01090002", "10ff"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// ospf route type out of range
	_, err = r.DecodeNlri(uint16(LinkStateNlriIpv4PrefixType), fromHex(t, "03", "0000000000000001", "01000008", "02030004", "0a0a0a0a", "01080001", "07", "01090001", "00"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// unsupported type
	_, err = r.DecodeNlri(99, fromHex(t, nodeNlriHex[1:]...))
	assert.True(t, errors.Is(err, ErrUnsupportedNlriType))
}

func TestNlriRegistryEncodeErrors(t *testing.T) {
	r := NewNlriRegistry()

	_, err := r.EncodeNlri(nil)
	assert.True(t, errors.Is(err, ErrUnsupportedNlriType))

	_, err = r.EncodeNlri(&Destination{})
	assert.True(t, errors.Is(err, ErrUnsupportedNlriType))

	// node without descriptors
	_, err = r.EncodeNlri(&Destination{Object: &LinkStateNlriNode{}})
	assert.True(t, errors.Is(err, ErrMissingRouterIdentifier))

	// prefix without prefix descriptors
	_, err = r.EncodeNlri(&Destination{Object: &LinkStateNlriPrefix{
		AdvertisingNodeDescriptors: &NodeDescriptors{RouterID: &IgpRouterIDIsIsNonPseudo{}},
	}})
	assert.True(t, errors.Is(err, ErrMissingPrefix))

	// link with a non ipv4 interface address
	_, err = r.EncodeNlri(&Destination{Object: &LinkStateNlriLink{
		LocalNodeDescriptors:  &NodeDescriptors{RouterID: &IgpRouterIDIsIsNonPseudo{}},
		RemoteNodeDescriptors: &NodeDescriptors{RouterID: &IgpRouterIDIsIsNonPseudo{}},
		LinkDescriptors:       &LinkDescriptors{IPv4InterfaceAddress: net.ParseIP("2001:db8::1")},
	}})
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// one bad destination fails the whole sequence
	_, err = r.Encode([]*Destination{
		{Object: &LinkStateNlriNode{LocalNodeDescriptors: &NodeDescriptors{RouterID: &IgpRouterIDIsIsNonPseudo{}}}},
		{Object: &LinkStateNlriNode{}},
	})
	assert.NotNil(t, err)
}

func TestNlriRegistryVPN(t *testing.T) {
	plain := fromHex(t, nodeNlriHex...)
	rd := fromHex(t, "0000fde800000001")

	// same element with the route distinguisher ahead of the protocol id
	b := fromHex(t, "00010038")
	b = append(b, rd...)
	b = append(b, plain[4:]...)

	r := NewNlriRegistry(WithVPN())
	ds, err := r.Decode(b)
	require.Nil(t, err)
	require.Len(t, ds, 1)
	require.NotNil(t, ds[0].RouteDistinguisher)
	assert.Equal(t, rd, ds[0].RouteDistinguisher[:])
	assert.Equal(t, LinkStateNlriIsIsL2ProtocolID, ds[0].ProtocolID)

	e, err := r.Encode(ds)
	assert.Nil(t, err)
	assert.Equal(t, b, e)

	// the plain registry refuses a route distinguisher
	_, err = NewNlriRegistry().Encode(ds)
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// the vpn registry requires one
	ds[0].RouteDistinguisher = nil
	_, err = r.Encode(ds)
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// too short for the route distinguisher
	_, err = r.DecodeNlri(uint16(LinkStateNlriNodeType), rd[:5])
	assert.True(t, errors.Is(err, ErrTruncatedTlv))
}

func TestNodeDescriptors(t *testing.T) {
	// bgp peering nodes are identified by bgp router id and member asn
	b := fromHex(t,
		"02000004"+"00000048",
		"02040004"+"0a000001",
		"02050004"+"0000fde8",
	)

	n, err := deserializeNodeDescriptors(nil, LinkStateNlriBgpProtocolID, b)
	require.Nil(t, err)
	assert.Equal(t, &NodeDescriptors{
		ASN:         uint32p(72),
		BgpRouterID: net.IP{10, 0, 0, 1},
		MemberASN:   uint32p(65000),
	}, n)

	e, err := n.serialize()
	assert.Nil(t, err)
	assert.Equal(t, b, e)

	// other protocols still need an igp router id
	_, err = deserializeNodeDescriptors(nil, LinkStateNlriOSPFv2ProtocolID, b)
	assert.True(t, errors.Is(err, ErrMissingRouterIdentifier))

	// unknown sub-tlvs are skipped, a repeated asn overwrites
	b = fromHex(t,
		"02000004"+"00000048",
		"02500002"+"ffff",
		"02000004"+"00000049",
		"02030004"+"0a0a0a0a",
	)
	n, err = deserializeNodeDescriptors(nil, LinkStateNlriOSPFv2ProtocolID, b)
	require.Nil(t, err)
	assert.Equal(t, uint32p(73), n.ASN)

	// asn of 2 bytes
	_, err = deserializeNodeDescriptors(nil, LinkStateNlriOSPFv2ProtocolID, fromHex(t, "02000002", "0048"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// same subcode as link and prefix descriptors
	_, subcode, _, _ := Notification(err)
	assert.Equal(t, NotifErrSubcodeMalformedAttr, subcode)
	_, err = deserializeLinkDescriptors(nil, fromHex(t, "01020004", "00000001"))
	_, subcode, _, _ = Notification(err)
	assert.Equal(t, NotifErrSubcodeMalformedAttr, subcode)

	// bgp router id of 16 bytes
	_, err = deserializeNodeDescriptors(nil, LinkStateNlriBgpProtocolID, fromHex(t, "02040010", "20010db8000000000000000000000001"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))
}

func TestLinkDescriptors(t *testing.T) {
	b := fromHex(t,
		"01050010"+"20010db8000000000000000000000001",
		"01060010"+"20010db8000000000000000000000002",
		"01990001"+"00",
	)

	l, err := deserializeLinkDescriptors(nil, b)
	require.Nil(t, err)
	assert.Equal(t, net.ParseIP("2001:db8::1"), l.IPv6InterfaceAddress)
	assert.Equal(t, net.ParseIP("2001:db8::2"), l.IPv6NeighborAddress)

	e, err := l.serialize()
	assert.Nil(t, err)
	assert.Equal(t, b[:40], e)

	// link ids of 4 bytes
	_, err = deserializeLinkDescriptors(nil, fromHex(t, "01020004", "00000001"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// ipv4 interface address of 16 bytes
	_, err = deserializeLinkDescriptors(nil, fromHex(t, "01030010", "20010db8000000000000000000000001"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))

	// multi topology id of 1 byte
	_, err = deserializeLinkDescriptors(nil, fromHex(t, "01070001", "03"))
	assert.True(t, errors.Is(err, ErrMalformedTlv))
}

func TestObjectKinds(t *testing.T) {
	assert.Equal(t, ObjectKindNode, (&LinkStateNlriNode{}).Kind())
	assert.Equal(t, ObjectKindLink, (&LinkStateNlriLink{}).Kind())
	assert.Equal(t, ObjectKindPrefix, (&LinkStateNlriPrefix{}).Kind())
	assert.Equal(t, ObjectKindTeLsp, (&LinkStateNlriTeLsp{}).Kind())

	for _, k := range []ObjectKind{ObjectKindNode, ObjectKindLink, ObjectKindPrefix, ObjectKindTeLsp} {
		parsed, err := ParseObjectKind(k.String())
		assert.Nil(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseObjectKind("tunnel")
	assert.NotNil(t, err)

	for id := LinkStateNlriIsIsL1ProtocolID; id <= LinkStateNlriRsvpTeProtocolID; id++ {
		parsed, err := ParseProtocolID(id.String())
		assert.Nil(t, err)
		assert.Equal(t, id, parsed)
	}
	assert.Equal(t, "unknown(42)", LinkStateNlriProtocolID(42).String())
	assert.Equal(t, "ipv6-te-lsp", LinkStateNlriIpv6TeLspType.String())
}
