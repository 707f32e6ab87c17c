package bgpls

import (
	"encoding/binary"
	"net"
)

// PrefixAttrCode describes the type of prefix attribute contained in a bgp-ls attribute.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.3
type PrefixAttrCode uint16

// PrefixAttrCode values
const (
	PrefixAttrCodeIgpFlags              PrefixAttrCode = 1152
	PrefixAttrCodeIgpRouteTag           PrefixAttrCode = 1153
	PrefixAttrCodeIgpExtendedRouteTag   PrefixAttrCode = 1154
	PrefixAttrCodePrefixMetric          PrefixAttrCode = 1155
	PrefixAttrCodeOspfForwardingAddress PrefixAttrCode = 1156
	PrefixAttrCodeOpaquePrefixAttribute PrefixAttrCode = 1157
	PrefixAttrCodePrefixSid             PrefixAttrCode = 1158
	PrefixAttrCodeRange                 PrefixAttrCode = 1159
	PrefixAttrCodeBindingSid            PrefixAttrCode = 1160
	PrefixAttrCodeAttributeFlags        PrefixAttrCode = 1170
	PrefixAttrCodeSourceRouterID        PrefixAttrCode = 1171
	PrefixAttrCodeSourceOspfRouterID    PrefixAttrCode = 1174
)

// PrefixAttributes are the attributes of an ipv4 or ipv6 prefix nlri.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.3
type PrefixAttributes struct {
	IgpFlags              *IgpFlags
	RouteTags             []uint32
	ExtendedRouteTags     []uint64
	Metric                *uint32
	OspfForwardingAddress net.IP
	Opaque                []byte
	SrPrefix              *SrPrefix
	SrRange               *SrRange
	BindingSids           []*BindingSid
	AttributeFlags        PrefixAttributeFlags
	SourceRouterID        net.IP
	SourceOspfRouterID    net.IP
}

// Kind returns ObjectKindPrefix.
func (p *PrefixAttributes) Kind() ObjectKind {
	return ObjectKindPrefix
}

// IgpFlags is the igp flags prefix attribute.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.3.1
type IgpFlags struct {
	IsIsDown          bool
	OspfNoUnicast     bool
	OspfLocalAddress  bool
	OspfPropagateNssa bool
	Reserved          uint8
}

/*
	 0 1 2 3 4 5 6 7
	+-+-+-+-+-+-+-+-+
	|D|N|L|P| Resvd.|
	+-+-+-+-+-+-+-+-+
*/
func (f *IgpFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.IsIsDown},
		{0x40, &f.OspfNoUnicast},
		{0x20, &f.OspfLocalAddress},
		{0x10, &f.OspfPropagateNssa},
	}
}

func (f *IgpFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

func deserializeExtendedRouteTags(b []byte) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for extended route tags", len(b))
	}

	tags := make([]uint64, 0, len(b)/8)
	for ; len(b) > 0; b = b[8:] {
		tags = append(tags, binary.BigEndian.Uint64(b[:8]))
	}

	return tags, nil
}

func serializeExtendedRouteTags(tags []uint64) []byte {
	b := make([]byte, 0, 8*len(tags))
	for _, t := range tags {
		b = binary.BigEndian.AppendUint64(b, t)
	}

	return b
}

func deserializeAnyRouterID(name string, b []byte) (net.IP, error) {
	if len(b) != net.IPv4len && len(b) != net.IPv6len {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for %s", len(b), name)
	}

	return bytesToIPAddress(b)
}

func prefixAttrTable() attrTable[PrefixAttributes] {
	return attrTable[PrefixAttributes]{
		uint16(PrefixAttrCodeIgpFlags): func(a *PrefixAttributes, _ *attrContext, v []byte) error {
			if len(v) != 1 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for igp flags", len(v))
			}

			f := &IgpFlags{}
			f.Reserved = readFlagBits(v[0], f.bits())
			a.IgpFlags = f
			return nil
		},
		uint16(PrefixAttrCodeIgpRouteTag): func(a *PrefixAttributes, _ *attrContext, v []byte) (err error) {
			a.RouteTags, err = deserializeUint32List("route tags", v)
			return err
		},
		uint16(PrefixAttrCodeIgpExtendedRouteTag): func(a *PrefixAttributes, _ *attrContext, v []byte) (err error) {
			a.ExtendedRouteTags, err = deserializeExtendedRouteTags(v)
			return err
		},
		uint16(PrefixAttrCodePrefixMetric): func(a *PrefixAttributes, _ *attrContext, v []byte) (err error) {
			a.Metric, err = deserializeUint32Attr("prefix metric", v)
			return err
		},
		uint16(PrefixAttrCodeOspfForwardingAddress): func(a *PrefixAttributes, _ *attrContext, v []byte) (err error) {
			a.OspfForwardingAddress, err = deserializeAnyRouterID("ospf forwarding address", v)
			return err
		},
		uint16(PrefixAttrCodeOpaquePrefixAttribute): func(a *PrefixAttributes, _ *attrContext, v []byte) error {
			a.Opaque = append([]byte{}, v...)
			return nil
		},
		uint16(PrefixAttrCodePrefixSid): func(a *PrefixAttributes, c *attrContext, v []byte) (err error) {
			a.SrPrefix, err = deserializeSrPrefix(c.id, v)
			return err
		},
		uint16(PrefixAttrCodeRange): func(a *PrefixAttributes, c *attrContext, v []byte) (err error) {
			a.SrRange, err = deserializeSrRange(c.o, c.r, c.id, v)
			return err
		},
		uint16(PrefixAttrCodeBindingSid): func(a *PrefixAttributes, c *attrContext, v []byte) error {
			s, err := deserializeBindingSid(c.o, c.r, c.id, v)
			if err != nil {
				return err
			}

			a.BindingSids = append(a.BindingSids, s)
			return nil
		},
		uint16(PrefixAttrCodeAttributeFlags): func(a *PrefixAttributes, c *attrContext, v []byte) error {
			if len(v) != 1 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for prefix attribute flags", len(v))
			}

			a.AttributeFlags = deserializePrefixAttributeFlags(c.id, v[0])
			return nil
		},
		uint16(PrefixAttrCodeSourceRouterID): func(a *PrefixAttributes, _ *attrContext, v []byte) (err error) {
			a.SourceRouterID, err = deserializeAnyRouterID("source router id", v)
			return err
		},
		uint16(PrefixAttrCodeSourceOspfRouterID): func(a *PrefixAttributes, _ *attrContext, v []byte) (err error) {
			a.SourceOspfRouterID, err = deserializeRouterIDAttr("source ospf router id", net.IPv4len, v)
			return err
		},
	}
}

func (p *PrefixAttributes) serialize() ([]byte, error) {
	w := &tlvWriter{}

	if p.IgpFlags != nil {
		w.write(uint16(PrefixAttrCodeIgpFlags), []byte{p.IgpFlags.byte()})
	}
	if p.RouteTags != nil {
		w.write(uint16(PrefixAttrCodeIgpRouteTag), serializeUint32List(p.RouteTags))
	}
	if p.ExtendedRouteTags != nil {
		w.write(uint16(PrefixAttrCodeIgpExtendedRouteTag), serializeExtendedRouteTags(p.ExtendedRouteTags))
	}
	if p.Metric != nil {
		w.write(uint16(PrefixAttrCodePrefixMetric), appendUint32(nil, *p.Metric))
	}
	if p.OspfForwardingAddress != nil {
		w.writeFunc(uint16(PrefixAttrCodeOspfForwardingAddress), addressSerializer(ipAddressToBytes, p.OspfForwardingAddress))
	}
	if p.Opaque != nil {
		w.write(uint16(PrefixAttrCodeOpaquePrefixAttribute), p.Opaque)
	}
	if p.SrPrefix != nil {
		w.writeFunc(uint16(PrefixAttrCodePrefixSid), p.SrPrefix.serialize)
	}
	if p.SrRange != nil {
		w.writeFunc(uint16(PrefixAttrCodeRange), p.SrRange.serialize)
	}
	for _, s := range p.BindingSids {
		w.writeFunc(uint16(PrefixAttrCodeBindingSid), s.serialize)
	}
	if p.AttributeFlags != nil {
		w.write(uint16(PrefixAttrCodeAttributeFlags), []byte{p.AttributeFlags.byte()})
	}
	if p.SourceRouterID != nil {
		w.writeFunc(uint16(PrefixAttrCodeSourceRouterID), addressSerializer(ipAddressToBytes, p.SourceRouterID))
	}
	if p.SourceOspfRouterID != nil {
		w.writeFunc(uint16(PrefixAttrCodeSourceOspfRouterID), addressSerializer(ipv4ToBytes, p.SourceOspfRouterID))
	}

	return w.bytes()
}
