package bgpls

import (
	"encoding/binary"
	"errors"
	"net"
)

func bytesToIPAddress(b []byte) (net.IP, error) {
	l := len(b)
	if l != 4 && l != 16 {
		return nil, errors.New("invalid byte length")
	}

	addr := make(net.IP, l)
	copy(addr, b)

	return addr, nil
}

// ipAddressToBytes returns the 4 byte form of an IPv4 address and the 16 byte
// form of anything else.
func ipAddressToBytes(ip net.IP) ([]byte, error) {
	if v4 := ip.To4(); v4 != nil {
		return []byte(v4), nil
	}
	if v6 := ip.To16(); v6 != nil {
		return []byte(v6), nil
	}

	return nil, errors.New("invalid ip address")
}

func ipv4ToBytes(ip net.IP) ([]byte, error) {
	v4 := ip.To4()
	if v4 == nil {
		return nil, errors.New("not an ipv4 address")
	}

	return []byte(v4), nil
}

func ipv6ToBytes(ip net.IP) ([]byte, error) {
	if ip.To4() != nil || ip.To16() == nil {
		return nil, errors.New("not an ipv6 address")
	}

	return []byte(ip.To16()), nil
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func appendUint24(b []byte, v uint32) []byte {
	return append(b, byte(v>>16), byte(v>>8), byte(v))
}

func appendUint16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

func appendUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

// varUint reads a big endian unsigned integer of 1 to 8 bytes.
func varUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}

// appendVarUint writes the low width bytes of v big endian.
func appendVarUint(b []byte, v uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		b = append(b, byte(v>>(8*uint(i))))
	}

	return b
}

// flag bit helpers over a single flags octet, masks are msb first.

func bitSet(b, mask uint8) bool {
	return b&mask != 0
}

func setBit(b *uint8, mask uint8, v bool) {
	if v {
		*b |= mask
	} else {
		*b &^= mask
	}
}
