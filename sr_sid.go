package bgpls

import (
	"encoding/binary"
	"net"
)

// SrSubTlvCode describes the type of a segment routing sub-tlv.
type SrSubTlvCode uint16

// SrSubTlvCode values
const (
	SrSubTlvCodePrefixSid           SrSubTlvCode = 1158
	SrSubTlvCodeBindingSid          SrSubTlvCode = 1160
	SrSubTlvCodeSidLabel            SrSubTlvCode = 1161
	SrSubTlvCodeEroMetric           SrSubTlvCode = 1162
	SrSubTlvCodeIPv4Ero             SrSubTlvCode = 1163
	SrSubTlvCodeIPv6Ero             SrSubTlvCode = 1164
	SrSubTlvCodeUnnumberedEro       SrSubTlvCode = 1165
	SrSubTlvCodeIPv4EroBackup       SrSubTlvCode = 1166
	SrSubTlvCodeIPv6EroBackup       SrSubTlvCode = 1167
	SrSubTlvCodeUnnumberedEroBackup SrSubTlvCode = 1168
)

const labelMask = 0xfffff

// SidLabel is a segment identifier. Its form follows from its encoded length:
// LocalLabel (3 octets), SidIndex (4 octets) or SidIPv6Address (16 octets).
type SidLabel interface {
	serializeSid() []byte
}

// LocalLabel is a 20 bit mpls label.
type LocalLabel uint32

func (l LocalLabel) serializeSid() []byte {
	return appendUint24(nil, uint32(l)&labelMask)
}

// SidIndex is an index into a sid/label range.
type SidIndex uint32

func (s SidIndex) serializeSid() []byte {
	return appendUint32(nil, uint32(s))
}

// SidIPv6Address is an srv6 sid.
type SidIPv6Address net.IP

func (s SidIPv6Address) serializeSid() []byte {
	return append([]byte{}, net.IP(s).To16()...)
}

func deserializeSidLabel(b []byte) (SidLabel, error) {
	switch len(b) {
	case 3:
		return LocalLabel(uint24(b) & labelMask), nil
	case 4:
		return SidIndex(binary.BigEndian.Uint32(b)), nil
	case net.IPv6len:
		ip, _ := bytesToIPAddress(b)
		return SidIPv6Address(ip), nil
	default:
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid sid/label length %d", len(b))
	}
}

func serializeSidLabel(s SidLabel) ([]byte, error) {
	if s == nil {
		return nil, malformedAttrErr(ErrMalformedTlv, "missing sid/label")
	}

	b := s.serializeSid()
	if len(b) != 3 && len(b) != 4 && len(b) != net.IPv6len {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid sid/label")
	}

	return b, nil
}

// SidLabelTlv is the sid/label sub-tlv (1161).
//
// https://tools.ietf.org/html/draft-gredler-idr-bgp-ls-segment-routing-ext-03#section-2.3.7.2
type SidLabelTlv struct {
	SidLabel SidLabel
}

func (s *SidLabelTlv) code() SrSubTlvCode {
	return SrSubTlvCodeSidLabel
}

func (s *SidLabelTlv) serialize() ([]byte, error) {
	return serializeSidLabel(s.SidLabel)
}

// expectSidLabelTlv decodes b as exactly one sid/label sub-tlv.
func expectSidLabelTlv(b []byte) (SidLabel, error) {
	r := newTLVReader(b)

	t, v, err := r.next()
	if err != nil {
		return nil, err
	}

	if t != uint16(SrSubTlvCodeSidLabel) {
		return nil, malformedAttrErr(ErrMalformedTlv, "expected sid/label sub-tlv, got %d", t)
	}
	if r.more() {
		return nil, malformedAttrErr(ErrMalformedTlv, "%d trailing bytes after sid/label sub-tlv", len(r.b))
	}

	return deserializeSidLabel(v)
}

func appendSidLabelTlv(b []byte, s SidLabel) ([]byte, error) {
	v, err := serializeSidLabel(s)
	if err != nil {
		return nil, err
	}

	return appendTLV(b, uint16(SrSubTlvCodeSidLabel), v)
}
