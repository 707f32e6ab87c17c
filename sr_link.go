package bgpls

import (
	"net"
)

// SrAdjacencySid is the sr adjacency sid link attribute.
//
// https://tools.ietf.org/html/draft-gredler-idr-bgp-ls-segment-routing-ext-03#section-2.2.1
type SrAdjacencySid struct {
	Flags    AdjacencyFlags
	Weight   uint8
	SidLabel SidLabel
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|     Flags     |     Weight    |            Reserved           |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                   SID/Label/Index (variable)                  |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeSrAdjacencySid(id LinkStateNlriProtocolID, b []byte) (*SrAdjacencySid, error) {
	if len(b) < 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "adjacency sid of %d bytes", len(b))
	}

	sid, err := deserializeSidLabel(b[4:])
	if err != nil {
		return nil, err
	}

	return &SrAdjacencySid{
		Flags:    deserializeAdjacencyFlags(id, b[0]),
		Weight:   b[1],
		SidLabel: sid,
	}, nil
}

func (s *SrAdjacencySid) serialize() ([]byte, error) {
	sid, err := serializeSidLabel(s.SidLabel)
	if err != nil {
		return nil, err
	}

	return append([]byte{flagsByte(s.Flags), s.Weight, 0, 0}, sid...), nil
}

// SrLanAdjacencySid is the sr lan adjacency sid link attribute. The neighbor
// is an iso system id for isis and a router id for ospf, exactly one of
// IsoSystemID and NeighborID is set.
//
// https://tools.ietf.org/html/draft-gredler-idr-bgp-ls-segment-routing-ext-03#section-2.2.2
type SrLanAdjacencySid struct {
	Flags       AdjacencyFlags
	Weight      uint8
	IsoSystemID *uint64
	NeighborID  net.IP
	SidLabel    SidLabel
}

const (
	isoSystemIDLen    = 6
	ospfNeighborIDLen = 4
)

// lanNeighborIDLen picks the neighbor id width. Protocols other than isis
// and ospf are resolved by the lengths the sid forms allow.
func lanNeighborIDLen(id LinkStateNlriProtocolID, l int) int {
	switch {
	case id.IsIsIs():
		return isoSystemIDLen
	case id.IsOspf():
		return ospfNeighborIDLen
	}

	switch l - 4 - isoSystemIDLen {
	case 3, 4, net.IPv6len:
		return isoSystemIDLen
	}

	return ospfNeighborIDLen
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|     Flags     |     Weight    |            Reserved           |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|   ISIS System-ID (6 octets) or OSPF Neighbor-ID (4 octets)    |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                   SID/Label/Index (variable)                  |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeSrLanAdjacencySid(id LinkStateNlriProtocolID, b []byte) (*SrLanAdjacencySid, error) {
	nLen := lanNeighborIDLen(id, len(b))
	if len(b) < 4+nLen {
		return nil, malformedAttrErr(ErrMalformedTlv, "lan adjacency sid of %d bytes", len(b))
	}

	s := &SrLanAdjacencySid{
		Flags:  deserializeAdjacencyFlags(id, b[0]),
		Weight: b[1],
	}

	neighbor := b[4 : 4+nLen]
	if nLen == isoSystemIDLen {
		sysID := varUint(neighbor)
		s.IsoSystemID = &sysID
	} else {
		s.NeighborID, _ = bytesToIPAddress(neighbor)
	}

	sid, err := deserializeSidLabel(b[4+nLen:])
	if err != nil {
		return nil, err
	}
	s.SidLabel = sid

	return s, nil
}

func (s *SrLanAdjacencySid) serialize() ([]byte, error) {
	b := []byte{flagsByte(s.Flags), s.Weight, 0, 0}

	switch {
	case s.IsoSystemID != nil:
		b = appendVarUint(b, *s.IsoSystemID, isoSystemIDLen)
	case s.NeighborID != nil:
		nbr, err := ipv4ToBytes(s.NeighborID)
		if err != nil {
			return nil, malformedAttrErr(ErrMalformedTlv, "lan adjacency neighbor id: %v", err)
		}
		b = append(b, nbr...)
	default:
		return nil, malformedAttrErr(ErrMalformedTlv, "lan adjacency sid without neighbor")
	}

	sid, err := serializeSidLabel(s.SidLabel)
	if err != nil {
		return nil, err
	}

	return append(b, sid...), nil
}

// PeerSid is a bgp peering segment link attribute. The same form is used for
// the peer node, peer adjacency and peer set sids.
//
// https://tools.ietf.org/html/draft-ietf-idr-bgpls-segment-routing-epe-05#section-4.3
type PeerSid struct {
	Flags    *PeerSidFlags
	Weight   uint8
	SidLabel SidLabel
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|     Flags     |     Weight    |             Reserved          |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                   SID/Label/Index (variable)                  |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializePeerSid(b []byte) (*PeerSid, error) {
	if len(b) < 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "peer sid of %d bytes", len(b))
	}

	sid, err := deserializeSidLabel(b[4:])
	if err != nil {
		return nil, err
	}

	return &PeerSid{
		Flags:    deserializePeerSidFlags(b[0]),
		Weight:   b[1],
		SidLabel: sid,
	}, nil
}

func (p *PeerSid) serialize() ([]byte, error) {
	sid, err := serializeSidLabel(p.SidLabel)
	if err != nil {
		return nil, err
	}

	var flags uint8
	if p.Flags != nil {
		flags = p.Flags.byte()
	}

	return append([]byte{flags, p.Weight, 0, 0}, sid...), nil
}
