package rsvp

import (
	"encoding/binary"
	"fmt"
	"net"
)

// AssociationType identifies the kind of lsp association.
type AssociationType uint16

// AssociationType values
const (
	AssociationTypeRecovery        AssociationType = 1
	AssociationTypeResourceSharing AssociationType = 2
)

func (a AssociationType) known() bool {
	return a == AssociationTypeRecovery || a == AssociationTypeResourceSharing
}

// Association is the association object. Source is an ipv4 address for c-type
// 1 and an ipv6 address for c-type 2.
//
// https://tools.ietf.org/html/rfc4872#section-16
type Association struct {
	Type   AssociationType
	ID     uint16
	Source net.IP
}

// Class returns ClassAssociation.
func (a *Association) Class() uint8 {
	return ClassAssociation
}

// CType returns CTypeAssociationIPv4 or CTypeAssociationIPv6 depending on
// the source address.
func (a *Association) CType() uint8 {
	if a.Source.To4() != nil {
		return CTypeAssociationIPv4
	}

	return CTypeAssociationIPv6
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|       Association Type        |       Association ID          |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                  Association Source (4 or 16 bytes)           |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func parseAssociation(addrLen int, b []byte) (Object, error) {
	if len(b) != 4+addrLen {
		return nil, fmt.Errorf("%w: association of %d bytes", ErrMalformedObject, len(b))
	}

	t := AssociationType(binary.BigEndian.Uint16(b[:2]))
	if !t.known() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAssociationType, t)
	}

	source := make(net.IP, addrLen)
	copy(source, b[4:])

	return &Association{
		Type:   t,
		ID:     binary.BigEndian.Uint16(b[2:4]),
		Source: source,
	}, nil
}

func parseAssociationIPv4(b []byte) (Object, error) {
	return parseAssociation(net.IPv4len, b)
}

func parseAssociationIPv6(b []byte) (Object, error) {
	return parseAssociation(net.IPv6len, b)
}

func serializeAssociation(o Object) ([]byte, error) {
	a, ok := o.(*Association)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an association", ErrMalformedObject, o)
	}

	if !a.Type.known() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAssociationType, a.Type)
	}

	source := a.Source.To4()
	if source == nil {
		source = a.Source.To16()
	}
	if source == nil {
		return nil, fmt.Errorf("%w: invalid association source %v", ErrMalformedObject, a.Source)
	}

	b := make([]byte, 0, 4+len(source))
	b = binary.BigEndian.AppendUint16(b, uint16(a.Type))
	b = binary.BigEndian.AppendUint16(b, a.ID)

	return append(b, source...), nil
}
