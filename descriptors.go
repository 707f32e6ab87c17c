package bgpls

import (
	"encoding/binary"
	"net"
)

// LinkStateNlriDescriptorCode describes the type of link state nlri.
type LinkStateNlriDescriptorCode uint16

// LinkStateNlriDescriptorCode values
const (
	LinkStateNlriLocalNodeDescriptorsDescriptorCode  LinkStateNlriDescriptorCode = 256
	LinkStateNlriRemoteNodeDescriptorsDescriptorCode LinkStateNlriDescriptorCode = 257
)

// NodeDescriptorCode describes the type of node descriptor.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.1.4
type NodeDescriptorCode uint16

// NodeDescriptorCode values
const (
	NodeDescriptorCodeASN         NodeDescriptorCode = 512
	NodeDescriptorCodeBgpLsID     NodeDescriptorCode = 513
	NodeDescriptorCodeOspfAreaID  NodeDescriptorCode = 514
	NodeDescriptorCodeIgpRouterID NodeDescriptorCode = 515
	NodeDescriptorCodeBgpRouterID NodeDescriptorCode = 516
	NodeDescriptorCodeMemberASN   NodeDescriptorCode = 517
)

// NodeDescriptors identify a node in a bgp-ls nlri. They are used as local,
// remote and advertising node descriptors. Repeated sub-TLVs overwrite
// earlier ones.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.1.2
type NodeDescriptors struct {
	ASN        *uint32
	BgpLsID    *uint32
	OspfAreaID *uint32
	RouterID   RouterID
	// BgpRouterID and MemberASN are only used by bgp peering nlri.
	BgpRouterID net.IP
	MemberASN   *uint32
}

func deserializeUint32Descriptor(name string, b []byte) (*uint32, error) {
	if len(b) != 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid %s node descriptor length %d", name, len(b))
	}

	v := binary.BigEndian.Uint32(b)
	return &v, nil
}

func deserializeNodeDescriptors(o *observer, protocolID LinkStateNlriProtocolID, b []byte) (*NodeDescriptors, error) {
	n := &NodeDescriptors{}

	err := newTLVReader(b).scan(func(t uint16, v []byte) error {
		var err error

		switch NodeDescriptorCode(t) {
		case NodeDescriptorCodeASN:
			n.ASN, err = deserializeUint32Descriptor("ASN", v)
		case NodeDescriptorCodeBgpLsID:
			n.BgpLsID, err = deserializeUint32Descriptor("BGP LS ID", v)
		case NodeDescriptorCodeOspfAreaID:
			n.OspfAreaID, err = deserializeUint32Descriptor("OSPF Area ID", v)
		case NodeDescriptorCodeIgpRouterID:
			n.RouterID, err = deserializeRouterID(protocolID, v)
		case NodeDescriptorCodeBgpRouterID:
			if len(v) != 4 {
				return malformedAttrErr(ErrMalformedTlv, "invalid BGP router ID node descriptor length %d", len(v))
			}
			n.BgpRouterID, _ = bytesToIPAddress(v)
		case NodeDescriptorCodeMemberASN:
			n.MemberASN, err = deserializeUint32Descriptor("member ASN", v)
		default:
			o.skipped("node-descriptor", t, v)
			return nil
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	if n.RouterID == nil && !(protocolID == LinkStateNlriBgpProtocolID && n.BgpRouterID != nil) {
		return nil, malformedAttrErr(ErrMissingRouterIdentifier, "node descriptors for protocol %s", protocolID)
	}

	return n, nil
}

func (n *NodeDescriptors) serialize() ([]byte, error) {
	w := &tlvWriter{}

	if n.ASN != nil {
		w.write(uint16(NodeDescriptorCodeASN), appendUint32(nil, *n.ASN))
	}
	if n.BgpLsID != nil {
		w.write(uint16(NodeDescriptorCodeBgpLsID), appendUint32(nil, *n.BgpLsID))
	}
	if n.OspfAreaID != nil {
		w.write(uint16(NodeDescriptorCodeOspfAreaID), appendUint32(nil, *n.OspfAreaID))
	}
	if n.RouterID != nil {
		w.writeFunc(uint16(NodeDescriptorCodeIgpRouterID), n.RouterID.serialize)
	}
	if n.BgpRouterID != nil {
		w.writeFunc(uint16(NodeDescriptorCodeBgpRouterID), func() ([]byte, error) {
			b, err := ipv4ToBytes(n.BgpRouterID)
			if err != nil {
				return nil, malformedAttrErr(ErrMalformedTlv, "bgp router id: %v", err)
			}
			return b, nil
		})
	}
	if n.MemberASN != nil {
		w.write(uint16(NodeDescriptorCodeMemberASN), appendUint32(nil, *n.MemberASN))
	}

	return w.bytes()
}

// LinkDescriptorCode describes the type of link descriptor.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.2 table 5
type LinkDescriptorCode uint16

// LinkDescriptorCode values
const (
	LinkDescriptorCodeLinkIDs              LinkDescriptorCode = 258
	LinkDescriptorCodeIPv4InterfaceAddress LinkDescriptorCode = 259
	LinkDescriptorCodeIPv4NeighborAddress  LinkDescriptorCode = 260
	LinkDescriptorCodeIPv6InterfaceAddress LinkDescriptorCode = 261
	LinkDescriptorCodeIPv6NeighborAddress  LinkDescriptorCode = 262
	LinkDescriptorCodeMultiTopologyID      LinkDescriptorCode = 263
)

// LinkDescriptorLinkIDs are the link local and remote identifiers.
//
// https://tools.ietf.org/html/rfc5307#section-1.1
type LinkDescriptorLinkIDs struct {
	LocalID  uint32
	RemoteID uint32
}

// LinkDescriptors uniquely identify a link between a pair of anchor routers.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.2
type LinkDescriptors struct {
	LinkIDs              *LinkDescriptorLinkIDs
	IPv4InterfaceAddress net.IP
	IPv4NeighborAddress  net.IP
	IPv6InterfaceAddress net.IP
	IPv6NeighborAddress  net.IP
	MultiTopologyID      *uint16
}

func deserializeAddressDescriptor(name string, size int, b []byte) (net.IP, error) {
	if len(b) != size {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid %s link descriptor length %d", name, len(b))
	}

	return bytesToIPAddress(b)
}

func deserializeMultiTopologyID(b []byte) (*uint16, error) {
	if len(b) != 2 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid multi topology ID descriptor length %d", len(b))
	}

	id := binary.BigEndian.Uint16(b)
	return &id, nil
}

func deserializeLinkDescriptors(o *observer, b []byte) (*LinkDescriptors, error) {
	l := &LinkDescriptors{}

	err := newTLVReader(b).scan(func(t uint16, v []byte) error {
		var err error

		switch LinkDescriptorCode(t) {
		case LinkDescriptorCodeLinkIDs:
			if len(v) != 8 {
				return malformedAttrErr(ErrMalformedTlv, "invalid link IDs link descriptor length %d", len(v))
			}
			l.LinkIDs = &LinkDescriptorLinkIDs{
				LocalID:  binary.BigEndian.Uint32(v[:4]),
				RemoteID: binary.BigEndian.Uint32(v[4:]),
			}
		case LinkDescriptorCodeIPv4InterfaceAddress:
			l.IPv4InterfaceAddress, err = deserializeAddressDescriptor("ipv4 interface address", 4, v)
		case LinkDescriptorCodeIPv4NeighborAddress:
			l.IPv4NeighborAddress, err = deserializeAddressDescriptor("ipv4 neighbor address", 4, v)
		case LinkDescriptorCodeIPv6InterfaceAddress:
			l.IPv6InterfaceAddress, err = deserializeAddressDescriptor("ipv6 interface address", 16, v)
		case LinkDescriptorCodeIPv6NeighborAddress:
			l.IPv6NeighborAddress, err = deserializeAddressDescriptor("ipv6 neighbor address", 16, v)
		case LinkDescriptorCodeMultiTopologyID:
			l.MultiTopologyID, err = deserializeMultiTopologyID(v)
		default:
			o.skipped("link-descriptor", t, v)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

func (l *LinkDescriptors) serialize() ([]byte, error) {
	w := &tlvWriter{}

	if l.LinkIDs != nil {
		v := appendUint32(nil, l.LinkIDs.LocalID)
		w.write(uint16(LinkDescriptorCodeLinkIDs), appendUint32(v, l.LinkIDs.RemoteID))
	}
	if l.IPv4InterfaceAddress != nil {
		w.writeFunc(uint16(LinkDescriptorCodeIPv4InterfaceAddress), addressSerializer(ipv4ToBytes, l.IPv4InterfaceAddress))
	}
	if l.IPv4NeighborAddress != nil {
		w.writeFunc(uint16(LinkDescriptorCodeIPv4NeighborAddress), addressSerializer(ipv4ToBytes, l.IPv4NeighborAddress))
	}
	if l.IPv6InterfaceAddress != nil {
		w.writeFunc(uint16(LinkDescriptorCodeIPv6InterfaceAddress), addressSerializer(ipv6ToBytes, l.IPv6InterfaceAddress))
	}
	if l.IPv6NeighborAddress != nil {
		w.writeFunc(uint16(LinkDescriptorCodeIPv6NeighborAddress), addressSerializer(ipv6ToBytes, l.IPv6NeighborAddress))
	}
	if l.MultiTopologyID != nil {
		w.write(uint16(LinkDescriptorCodeMultiTopologyID), appendUint16(nil, *l.MultiTopologyID))
	}

	return w.bytes()
}

func addressSerializer(conv func(net.IP) ([]byte, error), ip net.IP) func() ([]byte, error) {
	return func() ([]byte, error) {
		b, err := conv(ip)
		if err != nil {
			return nil, malformedAttrErr(ErrMalformedTlv, "%v: %s", err, ip)
		}
		return b, nil
	}
}

// PrefixDescriptorCode describes the type of prefix descriptor.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.3
type PrefixDescriptorCode uint16

// PrefixDescriptorCode values
const (
	PrefixDescriptorCodeMultiTopologyID    PrefixDescriptorCode = 263
	PrefixDescriptorCodeOspfRouteType      PrefixDescriptorCode = 264
	PrefixDescriptorCodeIPReachabilityInfo PrefixDescriptorCode = 265
)

// OspfRouteType describes the type of ospf route.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.3.1
type OspfRouteType uint8

// OspfRouteType values
const (
	_ OspfRouteType = iota
	OspfRouteTypeIntraArea
	OspfRouteTypeInterArea
	OspfRouteTypeExternal1
	OspfRouteTypeExternal2
	OspfRouteTypeNSSA1
	OspfRouteTypeNSSA2
)

// PrefixDescriptors uniquely identify an ipv4 or ipv6 prefix originated by a
// node. OspfRouteType zero means absent.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.3
type PrefixDescriptors struct {
	MultiTopologyID *uint16
	OspfRouteType   OspfRouteType
	IPReachability  *net.IPNet
}

func deserializePrefixDescriptors(o *observer, ipv4 bool, b []byte) (*PrefixDescriptors, error) {
	p := &PrefixDescriptors{}

	err := newTLVReader(b).scan(func(t uint16, v []byte) error {
		var err error

		switch PrefixDescriptorCode(t) {
		case PrefixDescriptorCodeMultiTopologyID:
			p.MultiTopologyID, err = deserializeMultiTopologyID(v)
		case PrefixDescriptorCodeOspfRouteType:
			if len(v) != 1 {
				return malformedAttrErr(ErrMalformedTlv, "invalid ospf route type prefix descriptor length %d", len(v))
			}
			if v[0] < uint8(OspfRouteTypeIntraArea) || v[0] > uint8(OspfRouteTypeNSSA2) {
				return malformedAttrErr(ErrMalformedTlv, "invalid ospf route type prefix descriptor value %d", v[0])
			}
			p.OspfRouteType = OspfRouteType(v[0])
		case PrefixDescriptorCodeIPReachabilityInfo:
			p.IPReachability, err = deserializeIPReachability(ipv4, v)
		default:
			o.skipped("prefix-descriptor", t, v)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	if p.IPReachability == nil {
		return nil, invalidNetworkErr(ErrMissingPrefix, "prefix descriptors without ip reachability")
	}

	return p, nil
}

/*
	+---------------+----------------------+
	| Prefix Length | IP Prefix (variable) |
	+---------------+----------------------+
*/
func deserializeIPReachability(ipv4 bool, b []byte) (*net.IPNet, error) {
	if len(b) < 1 {
		return nil, invalidNetworkErr(ErrMalformedTlv, "empty ip reachability prefix descriptor")
	}

	bits := 128
	if ipv4 {
		bits = 32
	}

	prefixLen := int(b[0])
	if prefixLen > bits {
		return nil, invalidNetworkErr(ErrMalformedTlv, "prefix length %d exceeds %d", prefixLen, bits)
	}

	size := (prefixLen + 7) / 8
	if len(b)-1 != size {
		return nil, invalidNetworkErr(ErrMalformedTlv, "prefix length %d with %d prefix bytes", prefixLen, len(b)-1)
	}

	ip := make(net.IP, bits/8)
	copy(ip, b[1:])

	return &net.IPNet{IP: ip, Mask: net.CIDRMask(prefixLen, bits)}, nil
}

func serializeIPReachability(n *net.IPNet) ([]byte, error) {
	ones, bits := n.Mask.Size()

	var ip net.IP
	switch bits {
	case 32:
		ip = n.IP.To4()
	case 128:
		ip = n.IP.To16()
	}
	if ip == nil {
		return nil, invalidNetworkErr(ErrMalformedTlv, "invalid prefix %s", n)
	}

	b := []byte{uint8(ones)}
	return append(b, ip[:(ones+7)/8]...), nil
}

// ipv4 reports whether the reachability prefix is an ipv4 prefix.
func (p *PrefixDescriptors) ipv4() bool {
	if p.IPReachability == nil {
		return false
	}

	_, bits := p.IPReachability.Mask.Size()
	return bits == 32
}

func (p *PrefixDescriptors) serialize() ([]byte, error) {
	if p.IPReachability == nil {
		return nil, invalidNetworkErr(ErrMissingPrefix, "prefix descriptors without ip reachability")
	}

	w := &tlvWriter{}

	if p.MultiTopologyID != nil {
		w.write(uint16(PrefixDescriptorCodeMultiTopologyID), appendUint16(nil, *p.MultiTopologyID))
	}
	if p.OspfRouteType != 0 {
		w.write(uint16(PrefixDescriptorCodeOspfRouteType), []byte{uint8(p.OspfRouteType)})
	}
	w.writeFunc(uint16(PrefixDescriptorCodeIPReachabilityInfo), func() ([]byte, error) {
		return serializeIPReachability(p.IPReachability)
	})

	return w.bytes()
}
