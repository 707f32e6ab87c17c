package bgpls

// Segment routing flags octets are interpreted by the protocol that
// originated the object. Every decoder below takes the protocol id and
// returns the isis form, the ospf form or RawFlags for other protocols.
// Bits without a meaning in the chosen form are kept in Reserved so the octet
// re-encodes unchanged.

// RawFlags is a flags octet with no protocol specific interpretation.
type RawFlags uint8

func (f RawFlags) byte() uint8 {
	return uint8(f)
}

// flagBit pairs a flag mask with the field it sets.
type flagBit struct {
	mask uint8
	v    *bool
}

func readFlagBits(b uint8, bits []flagBit) (reserved uint8) {
	reserved = b
	for _, f := range bits {
		*f.v = bitSet(b, f.mask)
		reserved &^= f.mask
	}

	return reserved
}

func writeFlagBits(reserved uint8, bits []flagBit) uint8 {
	b := reserved
	for _, f := range bits {
		setBit(&b, f.mask, *f.v)
	}

	return b
}

// AdjacencyFlags is the flags octet of an adjacency sid. It is one of
// *IsIsAdjacencyFlags, *OspfAdjacencyFlags or RawFlags.
type AdjacencyFlags interface {
	byte() uint8
}

// IsIsAdjacencyFlags are the isis adjacency sid flags.
//
// https://tools.ietf.org/html/draft-ietf-isis-segment-routing-extensions-13#section-2.2.1
type IsIsAdjacencyFlags struct {
	AddressFamily bool
	Backup        bool
	Value         bool
	Local         bool
	Set           bool
	Persistent    bool
	Reserved      uint8
}

func (f *IsIsAdjacencyFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.AddressFamily},
		{0x40, &f.Backup},
		{0x20, &f.Value},
		{0x10, &f.Local},
		{0x08, &f.Set},
		{0x04, &f.Persistent},
	}
}

func (f *IsIsAdjacencyFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

// OspfAdjacencyFlags are the ospf adjacency sid flags.
//
// https://tools.ietf.org/html/draft-ietf-ospf-segment-routing-extensions-16#section-7.1
type OspfAdjacencyFlags struct {
	Backup     bool
	Value      bool
	Local      bool
	Group      bool
	Persistent bool
	Reserved   uint8
}

func (f *OspfAdjacencyFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.Backup},
		{0x40, &f.Value},
		{0x20, &f.Local},
		{0x10, &f.Group},
		{0x08, &f.Persistent},
	}
}

func (f *OspfAdjacencyFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

func deserializeAdjacencyFlags(id LinkStateNlriProtocolID, b uint8) AdjacencyFlags {
	switch {
	case id.IsIsIs():
		f := &IsIsAdjacencyFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	case id.IsOspf():
		f := &OspfAdjacencyFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	default:
		return RawFlags(b)
	}
}

// PrefixSidFlags is the flags octet of a prefix sid. It is one of
// *IsIsPrefixSidFlags, *OspfPrefixSidFlags or RawFlags.
type PrefixSidFlags interface {
	byte() uint8
}

// IsIsPrefixSidFlags are the isis prefix sid flags.
//
// https://tools.ietf.org/html/draft-ietf-isis-segment-routing-extensions-13#section-2.1.1
type IsIsPrefixSidFlags struct {
	Readvertisement bool
	NodeSid         bool
	NoPhp           bool
	ExplicitNull    bool
	Value           bool
	Local           bool
	Reserved        uint8
}

func (f *IsIsPrefixSidFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.Readvertisement},
		{0x40, &f.NodeSid},
		{0x20, &f.NoPhp},
		{0x10, &f.ExplicitNull},
		{0x08, &f.Value},
		{0x04, &f.Local},
	}
}

func (f *IsIsPrefixSidFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

// OspfPrefixSidFlags are the ospf prefix sid flags.
//
// https://tools.ietf.org/html/draft-ietf-ospf-segment-routing-extensions-16#section-5
type OspfPrefixSidFlags struct {
	NoPhp         bool
	MappingServer bool
	ExplicitNull  bool
	Value         bool
	Local         bool
	Reserved      uint8
}

func (f *OspfPrefixSidFlags) bits() []flagBit {
	return []flagBit{
		{0x40, &f.NoPhp},
		{0x20, &f.MappingServer},
		{0x10, &f.ExplicitNull},
		{0x08, &f.Value},
		{0x04, &f.Local},
	}
}

func (f *OspfPrefixSidFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

func deserializePrefixSidFlags(id LinkStateNlriProtocolID, b uint8) PrefixSidFlags {
	switch {
	case id.IsIsIs():
		f := &IsIsPrefixSidFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	case id.IsOspf():
		f := &OspfPrefixSidFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	default:
		return RawFlags(b)
	}
}

// SrCapabilitiesFlags is the flags octet of the sr capabilities tlv. It is
// *IsIsSrCapabilitiesFlags for isis and RawFlags otherwise, ospf defines no
// capability flags.
type SrCapabilitiesFlags interface {
	byte() uint8
}

// IsIsSrCapabilitiesFlags are the isis router capability sr flags.
//
// https://tools.ietf.org/html/draft-ietf-isis-segment-routing-extensions-13#section-3.1
type IsIsSrCapabilitiesFlags struct {
	MplsIPv4 bool
	MplsIPv6 bool
	Reserved uint8
}

func (f *IsIsSrCapabilitiesFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.MplsIPv4},
		{0x40, &f.MplsIPv6},
	}
}

func (f *IsIsSrCapabilitiesFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

func deserializeSrCapabilitiesFlags(id LinkStateNlriProtocolID, b uint8) SrCapabilitiesFlags {
	if id.IsIsIs() {
		f := &IsIsSrCapabilitiesFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	}

	return RawFlags(b)
}

// BindingSidFlags is the flags octet of a binding sid. It is one of
// *IsIsBindingSidFlags, *OspfBindingSidFlags or RawFlags.
type BindingSidFlags interface {
	byte() uint8
}

// IsIsBindingSidFlags are the isis sid/label binding flags.
//
// https://tools.ietf.org/html/draft-ietf-isis-segment-routing-extensions-13#section-2.4.1
type IsIsBindingSidFlags struct {
	AddressFamily bool
	MirrorContext bool
	SpreadTlv     bool
	LeakedFromL2  bool
	AttachedFlag  bool
	Reserved      uint8
}

func (f *IsIsBindingSidFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.AddressFamily},
		{0x40, &f.MirrorContext},
		{0x20, &f.SpreadTlv},
		{0x10, &f.LeakedFromL2},
		{0x08, &f.AttachedFlag},
	}
}

func (f *IsIsBindingSidFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

// OspfBindingSidFlags are the ospf extended prefix range flags.
type OspfBindingSidFlags struct {
	Mirroring bool
	Reserved  uint8
}

func (f *OspfBindingSidFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.Mirroring},
	}
}

func (f *OspfBindingSidFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

func deserializeBindingSidFlags(id LinkStateNlriProtocolID, b uint8) BindingSidFlags {
	switch {
	case id.IsIsIs():
		f := &IsIsBindingSidFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	case id.IsOspf():
		f := &OspfBindingSidFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	default:
		return RawFlags(b)
	}
}

// PrefixAttributeFlags is the value of the prefix attribute flags tlv. It is
// one of *IsIsPrefixAttributeFlags, *OspfPrefixAttributeFlags,
// *Ospfv3PrefixAttributeFlags or RawFlags.
type PrefixAttributeFlags interface {
	byte() uint8
}

// IsIsPrefixAttributeFlags are the isis extended reachability attribute flags.
//
// https://tools.ietf.org/html/rfc7794#section-2.1
type IsIsPrefixAttributeFlags struct {
	External        bool
	Readvertisement bool
	NodeSid         bool
	Reserved        uint8
}

func (f *IsIsPrefixAttributeFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.External},
		{0x40, &f.Readvertisement},
		{0x20, &f.NodeSid},
	}
}

func (f *IsIsPrefixAttributeFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

// OspfPrefixAttributeFlags are the ospfv2 extended prefix flags.
//
// https://tools.ietf.org/html/rfc7684#section-2.1
type OspfPrefixAttributeFlags struct {
	Attach   bool
	Node     bool
	Reserved uint8
}

func (f *OspfPrefixAttributeFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.Attach},
		{0x40, &f.Node},
	}
}

func (f *OspfPrefixAttributeFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

// Ospfv3PrefixAttributeFlags are the ospfv3 prefix options.
//
// https://tools.ietf.org/html/rfc5340#appendix-A.4.1.1
type Ospfv3PrefixAttributeFlags struct {
	NodeSid      bool
	DnBit        bool
	Propagate    bool
	LocalAddress bool
	NoUnicast    bool
	Reserved     uint8
}

func (f *Ospfv3PrefixAttributeFlags) bits() []flagBit {
	return []flagBit{
		{0x20, &f.NodeSid},
		{0x10, &f.DnBit},
		{0x08, &f.Propagate},
		{0x02, &f.LocalAddress},
		{0x01, &f.NoUnicast},
	}
}

func (f *Ospfv3PrefixAttributeFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

func deserializePrefixAttributeFlags(id LinkStateNlriProtocolID, b uint8) PrefixAttributeFlags {
	switch id {
	case LinkStateNlriIsIsL1ProtocolID, LinkStateNlriIsIsL2ProtocolID:
		f := &IsIsPrefixAttributeFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	case LinkStateNlriOSPFv2ProtocolID:
		f := &OspfPrefixAttributeFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	case LinkStateNlriOSPFv3ProtocolID:
		f := &Ospfv3PrefixAttributeFlags{}
		f.Reserved = readFlagBits(b, f.bits())
		return f
	default:
		return RawFlags(b)
	}
}

// PeerSidFlags are the flags of the bgp peering segment tlvs.
//
// https://tools.ietf.org/html/draft-ietf-idr-bgpls-segment-routing-epe-05#section-4.3
type PeerSidFlags struct {
	Value    bool
	Local    bool
	Reserved uint8
}

func (f *PeerSidFlags) bits() []flagBit {
	return []flagBit{
		{0x80, &f.Value},
		{0x40, &f.Local},
	}
}

func (f *PeerSidFlags) byte() uint8 {
	return writeFlagBits(f.Reserved, f.bits())
}

func deserializePeerSidFlags(b uint8) *PeerSidFlags {
	f := &PeerSidFlags{}
	f.Reserved = readFlagBits(b, f.bits())
	return f
}

func flagsByte(f interface{ byte() uint8 }) uint8 {
	if f == nil {
		return 0
	}

	return f.byte()
}
