package bgpls

import (
	"encoding/binary"
	"math"
	"net"
)

// LinkAttrCode describes the type of link attribute contained in a bgp-ls attribute.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.2
type LinkAttrCode uint16

// LinkAttrCode values
const (
	LinkAttrCodeLinkMSD                    LinkAttrCode = 267
	LinkAttrCodeLocalIPv4RouterID          LinkAttrCode = 1028
	LinkAttrCodeLocalIPv6RouterID          LinkAttrCode = 1029
	LinkAttrCodeRemoteIPv4RouterID         LinkAttrCode = 1030
	LinkAttrCodeRemoteIPv6RouterID         LinkAttrCode = 1031
	LinkAttrCodeAdminGroup                 LinkAttrCode = 1088
	LinkAttrCodeMaxLinkBandwidth           LinkAttrCode = 1089
	LinkAttrCodeMaxReservableLinkBandwidth LinkAttrCode = 1090
	LinkAttrCodeUnreservedBandwidth        LinkAttrCode = 1091
	LinkAttrCodeTEDefaultMetric            LinkAttrCode = 1092
	LinkAttrCodeLinkProtectionType         LinkAttrCode = 1093
	LinkAttrCodeMplsProtocolMask           LinkAttrCode = 1094
	LinkAttrCodeIgpMetric                  LinkAttrCode = 1095
	LinkAttrCodeSharedRiskLinkGroup        LinkAttrCode = 1096
	LinkAttrCodeOpaqueLinkAttr             LinkAttrCode = 1097
	LinkAttrCodeLinkName                   LinkAttrCode = 1098
	LinkAttrCodeSrAdjacencySid             LinkAttrCode = 1099
	LinkAttrCodeSrLanAdjacencySid          LinkAttrCode = 1100
	LinkAttrCodePeerNodeSid                LinkAttrCode = 1101
	LinkAttrCodePeerAdjSid                 LinkAttrCode = 1102
	LinkAttrCodePeerSetSid                 LinkAttrCode = 1103
	LinkAttrCodeLinkDelay                  LinkAttrCode = 1114
	LinkAttrCodeMinMaxLinkDelay            LinkAttrCode = 1115
	LinkAttrCodeDelayVariation             LinkAttrCode = 1116
	LinkAttrCodeLinkLoss                   LinkAttrCode = 1117
	LinkAttrCodeResidualBandwidth          LinkAttrCode = 1118
	LinkAttrCodeAvailableBandwidth         LinkAttrCode = 1119
	LinkAttrCodeUtilizedBandwidth          LinkAttrCode = 1120
	LinkAttrCodeExtendedAdminGroup         LinkAttrCode = 1173
)

// LinkAttributes are the attributes of a link nlri.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.2
type LinkAttributes struct {
	LocalIPv4RouterID      net.IP
	LocalIPv6RouterID      net.IP
	RemoteIPv4RouterID     net.IP
	RemoteIPv6RouterID     net.IP
	AdminGroup             *uint32
	MaxLinkBandwidth       *Bandwidth
	MaxReservableBandwidth *Bandwidth
	UnreservedBandwidth    *[8]Bandwidth
	TEDefaultMetric        *Metric
	ProtectionType         *LinkProtectionType
	MplsProtocolMask       *MplsProtocolMask
	IgpMetric              *Metric
	SharedRiskLinkGroups   []uint32
	Opaque                 []byte
	Name                   *string
	SrAdjacencySids        []*SrAdjacencySid
	SrLanAdjacencySids     []*SrLanAdjacencySid
	MSDs                   []MSD
	PeerNodeSid            *PeerSid
	PeerAdjSid             *PeerSid
	PeerSetSids            []*PeerSid

	// performance metrics, rfc 8571
	LinkDelay          *uint32
	MinMaxLinkDelay    *MinMaxLinkDelay
	DelayVariation     *uint32
	LinkLoss           *uint32
	ResidualBandwidth  *Bandwidth
	AvailableBandwidth *Bandwidth
	UtilizedBandwidth  *Bandwidth

	ExtendedAdminGroups []uint32
}

// Kind returns ObjectKindLink.
func (l *LinkAttributes) Kind() ObjectKind {
	return ObjectKindLink
}

// Bandwidth is an ieee 754 single precision value in bytes per second,
// kept as it appeared on the wire.
type Bandwidth [4]byte

// NewBandwidth returns the Bandwidth for bytesPerSecond.
func NewBandwidth(bytesPerSecond float32) Bandwidth {
	var b Bandwidth
	binary.BigEndian.PutUint32(b[:], math.Float32bits(bytesPerSecond))
	return b
}

// BytesPerSecond returns the value of b.
func (b Bandwidth) BytesPerSecond() float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b[:]))
}

func deserializeBandwidth(name string, b []byte) (*Bandwidth, error) {
	if len(b) != 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for %s", len(b), name)
	}

	var bw Bandwidth
	copy(bw[:], b)
	return &bw, nil
}

// Metric is an unsigned metric along with the number of octets it occupies
// on the wire. A zero Width encodes with the default width of the attribute.
type Metric struct {
	Value uint64
	Width int
}

func deserializeMetric(name string, minLen, maxLen int, b []byte) (*Metric, error) {
	if len(b) < minLen || len(b) > maxLen {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for %s", len(b), name)
	}

	return &Metric{Value: varUint(b), Width: len(b)}, nil
}

func (m *Metric) serialize(defaultWidth int) []byte {
	width := m.Width
	if width == 0 {
		width = defaultWidth
	}

	return appendVarUint(nil, m.Value, width)
}

// LinkProtectionType is the link protection type link attribute.
//
// https://tools.ietf.org/html/rfc5307#section-1.2
type LinkProtectionType uint16

// LinkProtectionType values
const (
	LinkProtectionTypeExtraTraffic        LinkProtectionType = 0x01
	LinkProtectionTypeUnprotected         LinkProtectionType = 0x02
	LinkProtectionTypeShared              LinkProtectionType = 0x04
	LinkProtectionTypeDedicatedOneToOne   LinkProtectionType = 0x08
	LinkProtectionTypeDedicatedOnePlusOne LinkProtectionType = 0x10
	LinkProtectionTypeEnhanced            LinkProtectionType = 0x20
)

// MplsProtocolMask is the mpls protocol mask link attribute.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.2.2
type MplsProtocolMask struct {
	LDP      bool
	RsvpTE   bool
	Reserved uint8
}

func (m *MplsProtocolMask) bits() []flagBit {
	return []flagBit{
		{0x80, &m.LDP},
		{0x40, &m.RsvpTE},
	}
}

func (m *MplsProtocolMask) byte() uint8 {
	return writeFlagBits(m.Reserved, m.bits())
}

// MinMaxLinkDelay is the min/max unidirectional link delay link attribute.
//
// https://tools.ietf.org/html/rfc8571#section-2.2
type MinMaxLinkDelay struct {
	Min uint32
	Max uint32
}

func deserializeUint32Attr(name string, b []byte) (*uint32, error) {
	if len(b) != 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for %s", len(b), name)
	}

	v := binary.BigEndian.Uint32(b)
	return &v, nil
}

func deserializeUint32List(name string, b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for %s", len(b), name)
	}

	l := make([]uint32, 0, len(b)/4)
	for ; len(b) > 0; b = b[4:] {
		l = append(l, binary.BigEndian.Uint32(b[:4]))
	}

	return l, nil
}

func serializeUint32List(l []uint32) []byte {
	b := make([]byte, 0, 4*len(l))
	for _, v := range l {
		b = appendUint32(b, v)
	}

	return b
}

const (
	teMetricDefaultWidth  = 4
	igpMetricDefaultWidth = 3
)

func linkAttrTable() attrTable[LinkAttributes] {
	return attrTable[LinkAttributes]{
		uint16(LinkAttrCodeLocalIPv4RouterID): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.LocalIPv4RouterID, err = deserializeRouterIDAttr("local ipv4 router id", net.IPv4len, v)
			return err
		},
		uint16(LinkAttrCodeLocalIPv6RouterID): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.LocalIPv6RouterID, err = deserializeRouterIDAttr("local ipv6 router id", net.IPv6len, v)
			return err
		},
		uint16(LinkAttrCodeRemoteIPv4RouterID): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.RemoteIPv4RouterID, err = deserializeRouterIDAttr("remote ipv4 router id", net.IPv4len, v)
			return err
		},
		uint16(LinkAttrCodeRemoteIPv6RouterID): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.RemoteIPv6RouterID, err = deserializeRouterIDAttr("remote ipv6 router id", net.IPv6len, v)
			return err
		},
		uint16(LinkAttrCodeAdminGroup): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.AdminGroup, err = deserializeUint32Attr("admin group", v)
			return err
		},
		uint16(LinkAttrCodeMaxLinkBandwidth): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.MaxLinkBandwidth, err = deserializeBandwidth("max link bandwidth", v)
			return err
		},
		uint16(LinkAttrCodeMaxReservableLinkBandwidth): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.MaxReservableBandwidth, err = deserializeBandwidth("max reservable link bandwidth", v)
			return err
		},
		uint16(LinkAttrCodeUnreservedBandwidth): func(a *LinkAttributes, _ *attrContext, v []byte) error {
			if len(v) != 32 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for unreserved bandwidth", len(v))
			}

			var u [8]Bandwidth
			for i := range u {
				copy(u[i][:], v[i*4:])
			}
			a.UnreservedBandwidth = &u
			return nil
		},
		uint16(LinkAttrCodeTEDefaultMetric): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.TEDefaultMetric, err = deserializeMetric("te default metric", 1, 8, v)
			return err
		},
		uint16(LinkAttrCodeLinkProtectionType): func(a *LinkAttributes, _ *attrContext, v []byte) error {
			if len(v) != 2 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for link protection type", len(v))
			}

			p := LinkProtectionType(binary.BigEndian.Uint16(v))
			a.ProtectionType = &p
			return nil
		},
		uint16(LinkAttrCodeMplsProtocolMask): func(a *LinkAttributes, _ *attrContext, v []byte) error {
			if len(v) != 1 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for mpls protocol mask", len(v))
			}

			m := &MplsProtocolMask{}
			m.Reserved = readFlagBits(v[0], m.bits())
			a.MplsProtocolMask = m
			return nil
		},
		uint16(LinkAttrCodeIgpMetric): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.IgpMetric, err = deserializeMetric("igp metric", 1, 3, v)
			return err
		},
		uint16(LinkAttrCodeSharedRiskLinkGroup): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.SharedRiskLinkGroups, err = deserializeUint32List("shared risk link group", v)
			return err
		},
		uint16(LinkAttrCodeOpaqueLinkAttr): func(a *LinkAttributes, _ *attrContext, v []byte) error {
			a.Opaque = append([]byte{}, v...)
			return nil
		},
		uint16(LinkAttrCodeLinkName): func(a *LinkAttributes, _ *attrContext, v []byte) error {
			name := string(v)
			a.Name = &name
			return nil
		},
		uint16(LinkAttrCodeSrAdjacencySid): func(a *LinkAttributes, c *attrContext, v []byte) error {
			s, err := deserializeSrAdjacencySid(c.id, v)
			if err != nil {
				return err
			}

			a.SrAdjacencySids = append(a.SrAdjacencySids, s)
			return nil
		},
		uint16(LinkAttrCodeSrLanAdjacencySid): func(a *LinkAttributes, c *attrContext, v []byte) error {
			s, err := deserializeSrLanAdjacencySid(c.id, v)
			if err != nil {
				return err
			}

			a.SrLanAdjacencySids = append(a.SrLanAdjacencySids, s)
			return nil
		},
		uint16(LinkAttrCodeLinkMSD): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.MSDs, err = deserializeMSDs(v)
			return err
		},
		uint16(LinkAttrCodePeerNodeSid): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.PeerNodeSid, err = deserializePeerSid(v)
			return err
		},
		uint16(LinkAttrCodePeerAdjSid): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.PeerAdjSid, err = deserializePeerSid(v)
			return err
		},
		uint16(LinkAttrCodePeerSetSid): func(a *LinkAttributes, _ *attrContext, v []byte) error {
			s, err := deserializePeerSid(v)
			if err != nil {
				return err
			}

			a.PeerSetSids = append(a.PeerSetSids, s)
			return nil
		},
		uint16(LinkAttrCodeLinkDelay): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.LinkDelay, err = deserializeUint32Attr("link delay", v)
			return err
		},
		uint16(LinkAttrCodeMinMaxLinkDelay): func(a *LinkAttributes, _ *attrContext, v []byte) error {
			if len(v) != 8 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for min/max link delay", len(v))
			}

			a.MinMaxLinkDelay = &MinMaxLinkDelay{
				Min: binary.BigEndian.Uint32(v[:4]),
				Max: binary.BigEndian.Uint32(v[4:]),
			}
			return nil
		},
		uint16(LinkAttrCodeDelayVariation): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.DelayVariation, err = deserializeUint32Attr("delay variation", v)
			return err
		},
		uint16(LinkAttrCodeLinkLoss): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.LinkLoss, err = deserializeUint32Attr("link loss", v)
			return err
		},
		uint16(LinkAttrCodeResidualBandwidth): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.ResidualBandwidth, err = deserializeBandwidth("residual bandwidth", v)
			return err
		},
		uint16(LinkAttrCodeAvailableBandwidth): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.AvailableBandwidth, err = deserializeBandwidth("available bandwidth", v)
			return err
		},
		uint16(LinkAttrCodeUtilizedBandwidth): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.UtilizedBandwidth, err = deserializeBandwidth("utilized bandwidth", v)
			return err
		},
		uint16(LinkAttrCodeExtendedAdminGroup): func(a *LinkAttributes, _ *attrContext, v []byte) (err error) {
			a.ExtendedAdminGroups, err = deserializeUint32List("extended admin group", v)
			return err
		},
	}
}

func (l *LinkAttributes) serialize() ([]byte, error) {
	w := &tlvWriter{}

	if l.LocalIPv4RouterID != nil {
		w.writeFunc(uint16(LinkAttrCodeLocalIPv4RouterID), addressSerializer(ipv4ToBytes, l.LocalIPv4RouterID))
	}
	if l.LocalIPv6RouterID != nil {
		w.writeFunc(uint16(LinkAttrCodeLocalIPv6RouterID), addressSerializer(ipv6ToBytes, l.LocalIPv6RouterID))
	}
	if l.RemoteIPv4RouterID != nil {
		w.writeFunc(uint16(LinkAttrCodeRemoteIPv4RouterID), addressSerializer(ipv4ToBytes, l.RemoteIPv4RouterID))
	}
	if l.RemoteIPv6RouterID != nil {
		w.writeFunc(uint16(LinkAttrCodeRemoteIPv6RouterID), addressSerializer(ipv6ToBytes, l.RemoteIPv6RouterID))
	}
	if l.AdminGroup != nil {
		w.write(uint16(LinkAttrCodeAdminGroup), appendUint32(nil, *l.AdminGroup))
	}
	if l.MaxLinkBandwidth != nil {
		w.write(uint16(LinkAttrCodeMaxLinkBandwidth), l.MaxLinkBandwidth[:])
	}
	if l.MaxReservableBandwidth != nil {
		w.write(uint16(LinkAttrCodeMaxReservableLinkBandwidth), l.MaxReservableBandwidth[:])
	}
	if l.UnreservedBandwidth != nil {
		v := make([]byte, 0, 32)
		for _, bw := range l.UnreservedBandwidth {
			v = append(v, bw[:]...)
		}
		w.write(uint16(LinkAttrCodeUnreservedBandwidth), v)
	}
	if l.TEDefaultMetric != nil {
		w.write(uint16(LinkAttrCodeTEDefaultMetric), l.TEDefaultMetric.serialize(teMetricDefaultWidth))
	}
	if l.ProtectionType != nil {
		w.write(uint16(LinkAttrCodeLinkProtectionType), appendUint16(nil, uint16(*l.ProtectionType)))
	}
	if l.MplsProtocolMask != nil {
		w.write(uint16(LinkAttrCodeMplsProtocolMask), []byte{l.MplsProtocolMask.byte()})
	}
	if l.IgpMetric != nil {
		w.write(uint16(LinkAttrCodeIgpMetric), l.IgpMetric.serialize(igpMetricDefaultWidth))
	}
	if l.SharedRiskLinkGroups != nil {
		w.write(uint16(LinkAttrCodeSharedRiskLinkGroup), serializeUint32List(l.SharedRiskLinkGroups))
	}
	if l.Opaque != nil {
		w.write(uint16(LinkAttrCodeOpaqueLinkAttr), l.Opaque)
	}
	if l.Name != nil {
		w.write(uint16(LinkAttrCodeLinkName), []byte(*l.Name))
	}
	for _, s := range l.SrAdjacencySids {
		w.writeFunc(uint16(LinkAttrCodeSrAdjacencySid), s.serialize)
	}
	for _, s := range l.SrLanAdjacencySids {
		w.writeFunc(uint16(LinkAttrCodeSrLanAdjacencySid), s.serialize)
	}
	if l.MSDs != nil {
		w.write(uint16(LinkAttrCodeLinkMSD), serializeMSDs(l.MSDs))
	}
	if l.PeerNodeSid != nil {
		w.writeFunc(uint16(LinkAttrCodePeerNodeSid), l.PeerNodeSid.serialize)
	}
	if l.PeerAdjSid != nil {
		w.writeFunc(uint16(LinkAttrCodePeerAdjSid), l.PeerAdjSid.serialize)
	}
	for _, s := range l.PeerSetSids {
		w.writeFunc(uint16(LinkAttrCodePeerSetSid), s.serialize)
	}
	if l.LinkDelay != nil {
		w.write(uint16(LinkAttrCodeLinkDelay), appendUint32(nil, *l.LinkDelay))
	}
	if l.MinMaxLinkDelay != nil {
		v := appendUint32(nil, l.MinMaxLinkDelay.Min)
		w.write(uint16(LinkAttrCodeMinMaxLinkDelay), appendUint32(v, l.MinMaxLinkDelay.Max))
	}
	if l.DelayVariation != nil {
		w.write(uint16(LinkAttrCodeDelayVariation), appendUint32(nil, *l.DelayVariation))
	}
	if l.LinkLoss != nil {
		w.write(uint16(LinkAttrCodeLinkLoss), appendUint32(nil, *l.LinkLoss))
	}
	if l.ResidualBandwidth != nil {
		w.write(uint16(LinkAttrCodeResidualBandwidth), l.ResidualBandwidth[:])
	}
	if l.AvailableBandwidth != nil {
		w.write(uint16(LinkAttrCodeAvailableBandwidth), l.AvailableBandwidth[:])
	}
	if l.UtilizedBandwidth != nil {
		w.write(uint16(LinkAttrCodeUtilizedBandwidth), l.UtilizedBandwidth[:])
	}
	if l.ExtendedAdminGroups != nil {
		w.write(uint16(LinkAttrCodeExtendedAdminGroup), serializeUint32List(l.ExtendedAdminGroups))
	}

	return w.bytes()
}
