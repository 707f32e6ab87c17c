package bgpls

import (
	"encoding/binary"
	"net"
)

// SrPrefix is the prefix sid prefix attribute. It also appears as a range
// and binding sub-tlv.
//
// https://tools.ietf.org/html/draft-gredler-idr-bgp-ls-segment-routing-ext-03#section-2.3.1
type SrPrefix struct {
	Flags     PrefixSidFlags
	Algorithm SrAlgorithm
	SidLabel  SidLabel
}

func (p *SrPrefix) code() SrSubTlvCode {
	return SrSubTlvCodePrefixSid
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|     Flags     |  Algorithm    |           Reserved            |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                   SID/Index/Label (variable)                  |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeSrPrefix(id LinkStateNlriProtocolID, b []byte) (*SrPrefix, error) {
	if len(b) < 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "prefix sid of %d bytes", len(b))
	}

	sid, err := deserializeSidLabel(b[4:])
	if err != nil {
		return nil, err
	}

	return &SrPrefix{
		Flags:     deserializePrefixSidFlags(id, b[0]),
		Algorithm: SrAlgorithm(b[1]),
		SidLabel:  sid,
	}, nil
}

func (p *SrPrefix) serialize() ([]byte, error) {
	sid, err := serializeSidLabel(p.SidLabel)
	if err != nil {
		return nil, err
	}

	return append([]byte{flagsByte(p.Flags), uint8(p.Algorithm), 0, 0}, sid...), nil
}

// RangeSubTlv is a sub-tlv of SrRange. It is one of *SidLabelTlv, *SrPrefix
// or *BindingSid.
type RangeSubTlv interface {
	code() SrSubTlvCode
	serialize() ([]byte, error)
	rangeSubTlv()
}

func (s *SidLabelTlv) rangeSubTlv() {}
func (p *SrPrefix) rangeSubTlv()    {}
func (b *BindingSid) rangeSubTlv()  {}

// BindingSubTlv is a sub-tlv of BindingSid. It is one of *SidLabelTlv,
// *SrPrefix, EroMetric, *IPv4Ero, *IPv6Ero or *UnnumberedEro.
type BindingSubTlv interface {
	code() SrSubTlvCode
	serialize() ([]byte, error)
	bindingSubTlv()
}

func (s *SidLabelTlv) bindingSubTlv()   {}
func (p *SrPrefix) bindingSubTlv()      {}
func (m EroMetric) bindingSubTlv()      {}
func (e *IPv4Ero) bindingSubTlv()       {}
func (e *IPv6Ero) bindingSubTlv()       {}
func (e *UnnumberedEro) bindingSubTlv() {}

const srRangeInterAreaFlag = 0x80

// SrRange is the range prefix attribute.
//
// https://tools.ietf.org/html/draft-gredler-idr-bgp-ls-segment-routing-ext-03#section-2.3.5
type SrRange struct {
	InterArea bool
	RangeSize uint16
	SubTlvs   []RangeSubTlv
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|     Flags     |  RESERVED     |           Range Size          |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//                       Sub-TLVs (variable)                   //
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeSrRange(o *observer, parent *tlvReader, id LinkStateNlriProtocolID, b []byte) (*SrRange, error) {
	if len(b) < 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "range of %d bytes", len(b))
	}

	s := &SrRange{
		InterArea: bitSet(b[0], srRangeInterAreaFlag),
		RangeSize: binary.BigEndian.Uint16(b[2:4]),
	}

	r, err := parent.sub(b[4:])
	if err != nil {
		return nil, err
	}

	err = r.scan(func(t uint16, v []byte) error {
		var sub RangeSubTlv

		switch SrSubTlvCode(t) {
		case SrSubTlvCodeSidLabel:
			sid, err := deserializeSidLabel(v)
			if err != nil {
				return err
			}
			sub = &SidLabelTlv{SidLabel: sid}
		case SrSubTlvCodePrefixSid:
			prefix, err := deserializeSrPrefix(id, v)
			if err != nil {
				return err
			}
			sub = prefix
		case SrSubTlvCodeBindingSid:
			binding, err := deserializeBindingSid(o, r, id, v)
			if err != nil {
				return err
			}
			sub = binding
		default:
			o.skipped("range-sub-tlv", t, v)
			return nil
		}

		s.SubTlvs = append(s.SubTlvs, sub)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SrRange) serialize() ([]byte, error) {
	var flags uint8
	setBit(&flags, srRangeInterAreaFlag, s.InterArea)

	b := []byte{flags, 0}
	b = appendUint16(b, s.RangeSize)

	for _, sub := range s.SubTlvs {
		v, err := sub.serialize()
		if err != nil {
			return nil, err
		}

		b, err = appendTLV(b, uint16(sub.code()), v)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

// BindingSid is the binding sid prefix attribute and range sub-tlv.
//
// https://tools.ietf.org/html/draft-gredler-idr-bgp-ls-segment-routing-ext-03#section-2.3.6
type BindingSid struct {
	Weight  uint8
	Flags   BindingSidFlags
	SubTlvs []BindingSubTlv
}

func (b *BindingSid) code() SrSubTlvCode {
	return SrSubTlvCodeBindingSid
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|    Weight     |     Flags     |            RESERVED           |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|              Binding Sub-TLVs (variable)                      |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeBindingSid(o *observer, parent *tlvReader, id LinkStateNlriProtocolID, b []byte) (*BindingSid, error) {
	if len(b) < 4 {
		return nil, malformedAttrErr(ErrMalformedTlv, "binding sid of %d bytes", len(b))
	}

	s := &BindingSid{
		Weight: b[0],
		Flags:  deserializeBindingSidFlags(id, b[1]),
	}

	r, err := parent.sub(b[4:])
	if err != nil {
		return nil, err
	}

	err = r.scan(func(t uint16, v []byte) error {
		var (
			sub BindingSubTlv
			err error
		)

		switch SrSubTlvCode(t) {
		case SrSubTlvCodeSidLabel:
			var sid SidLabel
			sid, err = deserializeSidLabel(v)
			sub = &SidLabelTlv{SidLabel: sid}
		case SrSubTlvCodePrefixSid:
			sub, err = deserializeSrPrefix(id, v)
		case SrSubTlvCodeEroMetric:
			if len(v) != 4 {
				return malformedAttrErr(ErrMalformedTlv, "ero metric of %d bytes", len(v))
			}
			sub = EroMetric(binary.BigEndian.Uint32(v))
		case SrSubTlvCodeIPv4Ero, SrSubTlvCodeIPv4EroBackup:
			sub, err = deserializeIPv4Ero(SrSubTlvCode(t) == SrSubTlvCodeIPv4EroBackup, v)
		case SrSubTlvCodeIPv6Ero, SrSubTlvCodeIPv6EroBackup:
			sub, err = deserializeIPv6Ero(SrSubTlvCode(t) == SrSubTlvCodeIPv6EroBackup, v)
		case SrSubTlvCodeUnnumberedEro, SrSubTlvCodeUnnumberedEroBackup:
			sub, err = deserializeUnnumberedEro(SrSubTlvCode(t) == SrSubTlvCodeUnnumberedEroBackup, v)
		default:
			o.skipped("binding-sub-tlv", t, v)
			return nil
		}
		if err != nil {
			return err
		}

		s.SubTlvs = append(s.SubTlvs, sub)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (b *BindingSid) serialize() ([]byte, error) {
	out := []byte{b.Weight, flagsByte(b.Flags), 0, 0}

	for _, sub := range b.SubTlvs {
		v, err := sub.serialize()
		if err != nil {
			return nil, err
		}

		out, err = appendTLV(out, uint16(sub.code()), v)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// EroMetric is the ero metric binding sub-tlv.
type EroMetric uint32

func (m EroMetric) code() SrSubTlvCode {
	return SrSubTlvCodeEroMetric
}

func (m EroMetric) serialize() ([]byte, error) {
	return appendUint32(nil, uint32(m)), nil
}

const (
	eroLooseFlag  = 0x80
	eroHeaderSize = 4
)

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|L|  Reserved   |                 Reserved                      |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|              Address / Router-ID + Interface-ID               |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func eroHeader(loose bool) []byte {
	b := make([]byte, eroHeaderSize)
	setBit(&b[0], eroLooseFlag, loose)
	return b
}

// IPv4Ero is an ipv4 ero binding sub-tlv, or its backup form.
type IPv4Ero struct {
	Backup  bool
	Loose   bool
	Address net.IP
}

func deserializeIPv4Ero(backup bool, b []byte) (*IPv4Ero, error) {
	if len(b) != eroHeaderSize+net.IPv4len {
		return nil, malformedAttrErr(ErrMalformedTlv, "ipv4 ero of %d bytes", len(b))
	}

	addr, _ := bytesToIPAddress(b[eroHeaderSize:])
	return &IPv4Ero{
		Backup:  backup,
		Loose:   bitSet(b[0], eroLooseFlag),
		Address: addr,
	}, nil
}

func (e *IPv4Ero) code() SrSubTlvCode {
	if e.Backup {
		return SrSubTlvCodeIPv4EroBackup
	}

	return SrSubTlvCodeIPv4Ero
}

func (e *IPv4Ero) serialize() ([]byte, error) {
	addr, err := ipv4ToBytes(e.Address)
	if err != nil {
		return nil, malformedAttrErr(ErrMalformedTlv, "ipv4 ero: %v", err)
	}

	return append(eroHeader(e.Loose), addr...), nil
}

// IPv6Ero is an ipv6 ero binding sub-tlv, or its backup form.
type IPv6Ero struct {
	Backup  bool
	Loose   bool
	Address net.IP
}

func deserializeIPv6Ero(backup bool, b []byte) (*IPv6Ero, error) {
	if len(b) != eroHeaderSize+net.IPv6len {
		return nil, malformedAttrErr(ErrMalformedTlv, "ipv6 ero of %d bytes", len(b))
	}

	addr, _ := bytesToIPAddress(b[eroHeaderSize:])
	return &IPv6Ero{
		Backup:  backup,
		Loose:   bitSet(b[0], eroLooseFlag),
		Address: addr,
	}, nil
}

func (e *IPv6Ero) code() SrSubTlvCode {
	if e.Backup {
		return SrSubTlvCodeIPv6EroBackup
	}

	return SrSubTlvCodeIPv6Ero
}

func (e *IPv6Ero) serialize() ([]byte, error) {
	addr, err := ipv6ToBytes(e.Address)
	if err != nil {
		return nil, malformedAttrErr(ErrMalformedTlv, "ipv6 ero: %v", err)
	}

	return append(eroHeader(e.Loose), addr...), nil
}

// UnnumberedEro is an unnumbered interface id ero binding sub-tlv, or its
// backup form.
type UnnumberedEro struct {
	Backup      bool
	Loose       bool
	RouterID    uint32
	InterfaceID uint32
}

func deserializeUnnumberedEro(backup bool, b []byte) (*UnnumberedEro, error) {
	if len(b) != eroHeaderSize+8 {
		return nil, malformedAttrErr(ErrMalformedTlv, "unnumbered ero of %d bytes", len(b))
	}

	return &UnnumberedEro{
		Backup:      backup,
		Loose:       bitSet(b[0], eroLooseFlag),
		RouterID:    binary.BigEndian.Uint32(b[4:8]),
		InterfaceID: binary.BigEndian.Uint32(b[8:12]),
	}, nil
}

func (e *UnnumberedEro) code() SrSubTlvCode {
	if e.Backup {
		return SrSubTlvCodeUnnumberedEroBackup
	}

	return SrSubTlvCodeUnnumberedEro
}

func (e *UnnumberedEro) serialize() ([]byte, error) {
	b := appendUint32(eroHeader(e.Loose), e.RouterID)
	return appendUint32(b, e.InterfaceID), nil
}
