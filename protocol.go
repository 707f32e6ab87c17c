package bgpls

import "fmt"

// LinkStateNlriProtocolID describes the protocol of the link state nlri.
//
// https://tools.ietf.org/html/rfc7752#section-3.2 table 2
type LinkStateNlriProtocolID uint8

// LinkStateNlriProtocolID values
const (
	_ LinkStateNlriProtocolID = iota
	LinkStateNlriIsIsL1ProtocolID
	LinkStateNlriIsIsL2ProtocolID
	LinkStateNlriOSPFv2ProtocolID
	LinkStateNlriDirectProtocolID
	LinkStateNlriStaticProtocolID
	LinkStateNlriOSPFv3ProtocolID
	LinkStateNlriBgpProtocolID
	LinkStateNlriRsvpTeProtocolID
)

var protocolIDNames = map[LinkStateNlriProtocolID]string{
	LinkStateNlriIsIsL1ProtocolID: "isis-l1",
	LinkStateNlriIsIsL2ProtocolID: "isis-l2",
	LinkStateNlriOSPFv2ProtocolID: "ospf",
	LinkStateNlriDirectProtocolID: "direct",
	LinkStateNlriStaticProtocolID: "static",
	LinkStateNlriOSPFv3ProtocolID: "ospf-v3",
	LinkStateNlriBgpProtocolID:    "bgp",
	LinkStateNlriRsvpTeProtocolID: "rsvp-te",
}

func (p LinkStateNlriProtocolID) String() string {
	if s, ok := protocolIDNames[p]; ok {
		return s
	}

	return fmt.Sprintf("unknown(%d)", uint8(p))
}

// ParseProtocolID returns the LinkStateNlriProtocolID named s.
func ParseProtocolID(s string) (LinkStateNlriProtocolID, error) {
	for id, name := range protocolIDNames {
		if name == s {
			return id, nil
		}
	}

	return 0, fmt.Errorf("unknown protocol %q", s)
}

// IsIsIs reports whether p is either ISIS level.
func (p LinkStateNlriProtocolID) IsIsIs() bool {
	return p == LinkStateNlriIsIsL1ProtocolID || p == LinkStateNlriIsIsL2ProtocolID
}

// IsOspf reports whether p is OSPFv2 or OSPFv3.
func (p LinkStateNlriProtocolID) IsOspf() bool {
	return p == LinkStateNlriOSPFv2ProtocolID || p == LinkStateNlriOSPFv3ProtocolID
}

// LinkStateNlriType describes the type of bgp-ls nlri.
//
// https://tools.ietf.org/html/rfc7752#section-3.2 figure 6
type LinkStateNlriType uint16

// LinkStateNlriType values
const (
	_ LinkStateNlriType = iota
	LinkStateNlriNodeType
	LinkStateNlriLinkType
	LinkStateNlriIpv4PrefixType
	LinkStateNlriIpv6PrefixType
	LinkStateNlriIpv4TeLspType
	LinkStateNlriIpv6TeLspType
)

func (t LinkStateNlriType) String() string {
	switch t {
	case LinkStateNlriNodeType:
		return "node"
	case LinkStateNlriLinkType:
		return "link"
	case LinkStateNlriIpv4PrefixType:
		return "ipv4-prefix"
	case LinkStateNlriIpv6PrefixType:
		return "ipv6-prefix"
	case LinkStateNlriIpv4TeLspType:
		return "ipv4-te-lsp"
	case LinkStateNlriIpv6TeLspType:
		return "ipv6-te-lsp"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(t))
	}
}

// ObjectKind selects which attribute table interprets a bgp-ls attribute.
type ObjectKind uint8

// ObjectKind values
const (
	ObjectKindNode ObjectKind = iota
	ObjectKindLink
	ObjectKindPrefix
	ObjectKindTeLsp
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectKindNode:
		return "node"
	case ObjectKindLink:
		return "link"
	case ObjectKindPrefix:
		return "prefix"
	case ObjectKindTeLsp:
		return "te-lsp"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseObjectKind returns the ObjectKind named s.
func ParseObjectKind(s string) (ObjectKind, error) {
	for k := ObjectKindNode; k <= ObjectKindTeLsp; k++ {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unknown object kind %q", s)
}
