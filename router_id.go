package bgpls

import (
	"encoding/binary"
	"net"
)

// RouterID is the igp router id carried in node descriptor sub-TLV 515. It is
// one of *IgpRouterIDIsIsNonPseudo, *IgpRouterIDIsIsPseudo,
// *IgpRouterIDOspfNonPseudo or *IgpRouterIDOspfPseudo.
//
// https://tools.ietf.org/html/rfc7752#section-3.2.1.4
type RouterID interface {
	serialize() ([]byte, error)
}

// IgpRouterIDIsIsNonPseudo is a 6 byte iso system id.
type IgpRouterIDIsIsNonPseudo struct {
	IsoNodeID uint64
}

func (r *IgpRouterIDIsIsNonPseudo) serialize() ([]byte, error) {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, r.IsoNodeID)
	return b[2:], nil
}

// IgpRouterIDIsIsPseudo is a 6 byte iso system id followed by the pseudonode
// number.
type IgpRouterIDIsIsPseudo struct {
	IsoNodeID uint64
	PsnID     uint8
}

func (r *IgpRouterIDIsIsPseudo) serialize() ([]byte, error) {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, r.IsoNodeID)
	return append(b[2:], r.PsnID), nil
}

// IgpRouterIDOspfNonPseudo is a 4 byte ospf router id.
type IgpRouterIDOspfNonPseudo struct {
	RouterID net.IP
}

func (r *IgpRouterIDOspfNonPseudo) serialize() ([]byte, error) {
	b, err := ipv4ToBytes(r.RouterID)
	if err != nil {
		return nil, malformedAttrErr(ErrMalformedRouterIdentifier, "ospf router id: %v", err)
	}

	return b, nil
}

// IgpRouterIDOspfPseudo is the designated router id followed by its interface
// address on the lan.
type IgpRouterIDOspfPseudo struct {
	DrRouterID       net.IP
	DrInterfaceToLAN net.IP
}

func (r *IgpRouterIDOspfPseudo) serialize() ([]byte, error) {
	id, err := ipv4ToBytes(r.DrRouterID)
	if err != nil {
		return nil, malformedAttrErr(ErrMalformedRouterIdentifier, "ospf dr router id: %v", err)
	}

	lan, err := ipv4ToBytes(r.DrInterfaceToLAN)
	if err != nil {
		return nil, malformedAttrErr(ErrMalformedRouterIdentifier, "ospf dr lan interface: %v", err)
	}

	return append(append([]byte{}, id...), lan...), nil
}

/*
	ISIS non-pseudonode:  ISO Node-ID (6 octets)
	ISIS pseudonode:      ISO Node-ID (6 octets) + PSN (1 octet)
	OSPF non-pseudonode:  Router-ID (4 octets)
	OSPF pseudonode:      Router-ID (4 octets) + DR interface address (4 octets)
*/
func deserializeRouterID(id LinkStateNlriProtocolID, b []byte) (RouterID, error) {
	switch {
	case id.IsIsIs():
		switch len(b) {
		case 6:
			return deserializeIsIsNonPseudo(b), nil
		case 7:
			return deserializeIsIsPseudo(b), nil
		}
	case id.IsOspf():
		switch len(b) {
		case 4:
			return deserializeOspfNonPseudo(b), nil
		case 8:
			return deserializeOspfPseudo(b), nil
		}
	default:
		// other protocols do not constrain the router id form
		switch len(b) {
		case 4:
			return deserializeOspfNonPseudo(b), nil
		case 6:
			return deserializeIsIsNonPseudo(b), nil
		case 7:
			return deserializeIsIsPseudo(b), nil
		case 8:
			return deserializeOspfPseudo(b), nil
		}
	}

	return nil, malformedAttrErr(ErrMalformedRouterIdentifier, "%d byte router id for protocol %s", len(b), id)
}

func deserializeIsIsNonPseudo(b []byte) *IgpRouterIDIsIsNonPseudo {
	return &IgpRouterIDIsIsNonPseudo{
		IsoNodeID: varUint(b[:6]),
	}
}

func deserializeIsIsPseudo(b []byte) *IgpRouterIDIsIsPseudo {
	return &IgpRouterIDIsIsPseudo{
		IsoNodeID: varUint(b[:6]),
		PsnID:     b[6],
	}
}

func deserializeOspfNonPseudo(b []byte) *IgpRouterIDOspfNonPseudo {
	routerID, _ := bytesToIPAddress(b[:4])
	return &IgpRouterIDOspfNonPseudo{
		RouterID: routerID,
	}
}

func deserializeOspfPseudo(b []byte) *IgpRouterIDOspfPseudo {
	drRouterID, _ := bytesToIPAddress(b[:4])
	drInterfaceToLAN, _ := bytesToIPAddress(b[4:8])
	return &IgpRouterIDOspfPseudo{
		DrRouterID:       drRouterID,
		DrInterfaceToLAN: drInterfaceToLAN,
	}
}

func serializeRouterID(r RouterID) ([]byte, error) {
	if r == nil {
		return nil, malformedAttrErr(ErrMissingRouterIdentifier, "nil router id")
	}

	return r.serialize()
}
