package bgpls

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
)

// MultiprotoAFI identifies the address family of a multiprotocol attribute.
type MultiprotoAFI uint16

// MultiprotoSAFI identifies the subsequent address family of a multiprotocol
// attribute.
type MultiprotoSAFI uint8

// bgp-ls address family values
const (
	BgpLsAFI     MultiprotoAFI  = 16388
	BgpLsSAFI    MultiprotoSAFI = 71
	BgpLsVpnSAFI MultiprotoSAFI = 72
)

// MpReach is the body of an mp reach path attribute carrying bgp-ls nlri.
//
// https://tools.ietf.org/html/rfc4760#section-3
type MpReach struct {
	SAFI         MultiprotoSAFI
	NextHop      []byte
	Destinations []*Destination
}

// MpUnreach is the body of an mp unreach path attribute carrying bgp-ls nlri.
//
// https://tools.ietf.org/html/rfc4760#section-4
type MpUnreach struct {
	SAFI         MultiprotoSAFI
	Destinations []*Destination
}

// Route is a destination paired with the bgp-ls attribute of its update.
type Route struct {
	Destination *Destination
	Attribute   Attribute
}

// UpdateCodec decodes and encodes the bgp-ls content of update messages. It
// selects the plain or vpn nlri registry from the safi.
type UpdateCodec struct {
	plain  *NlriRegistry
	vpn    *NlriRegistry
	attrs  *AttributeRegistry
	logger *logrus.Entry
}

// NewUpdateCodec returns an UpdateCodec. WithVPN is ignored, the safi decides.
func NewUpdateCodec(opts ...Option) *UpdateCodec {
	o := newOptions(opts)

	return &UpdateCodec{
		plain:  NewNlriRegistry(append(opts[:len(opts):len(opts)], withoutVPN())...),
		vpn:    NewNlriRegistry(append(opts[:len(opts):len(opts)], WithVPN())...),
		attrs:  NewAttributeRegistry(opts...),
		logger: o.logger,
	}
}

// Attributes returns the attribute registry used by c.
func (c *UpdateCodec) Attributes() *AttributeRegistry {
	return c.attrs
}

func (c *UpdateCodec) registry(afi MultiprotoAFI, safi MultiprotoSAFI) (*NlriRegistry, error) {
	if afi != BgpLsAFI {
		return nil, optionalAttrErr(ErrUnsupportedAddressFamily, "afi %d", afi)
	}

	switch safi {
	case BgpLsSAFI:
		return c.plain, nil
	case BgpLsVpnSAFI:
		return c.vpn, nil
	default:
		return nil, optionalAttrErr(ErrUnsupportedAddressFamily, "safi %d", safi)
	}
}

/*
	+---------------------------------------------------------+
	| Address Family Identifier (2 octets)                    |
	+---------------------------------------------------------+
	| Subsequent Address Family Identifier (1 octet)          |
	+---------------------------------------------------------+
	| Length of Next Hop Network Address (1 octet)            |
	+---------------------------------------------------------+
	| Network Address of Next Hop (variable)                  |
	+---------------------------------------------------------+
	| Reserved (1 octet)                                      |
	+---------------------------------------------------------+
	| Network Layer Reachability Information (variable)       |
	+---------------------------------------------------------+
*/

// DecodeMpReach decodes the body of an mp reach path attribute. When some nlri
// elements fail to decode the result holds the remaining destinations and
// the error joins the failures.
func (c *UpdateCodec) DecodeMpReach(b []byte) (*MpReach, error) {
	if len(b) < 5 {
		return nil, malformedAttrErr(ErrTruncatedTlv, "mp reach path attribute too short")
	}

	afi := MultiprotoAFI(binary.BigEndian.Uint16(b[:2]))
	safi := MultiprotoSAFI(b[2])
	nhLen := int(b[3])
	b = b[4:]
	if len(b) < nhLen+1 {
		return nil, malformedAttrErr(ErrTruncatedTlv, "mp reach path attribute too short")
	}

	r, err := c.registry(afi, safi)
	if err != nil {
		return nil, err
	}

	m := &MpReach{
		SAFI:    safi,
		NextHop: append([]byte{}, b[:nhLen]...),
	}

	m.Destinations, err = r.Decode(b[nhLen+1:])
	return m, err
}

// EncodeMpReach encodes m as the body of an mp reach path attribute.
func (c *UpdateCodec) EncodeMpReach(m *MpReach) ([]byte, error) {
	r, err := c.registry(BgpLsAFI, m.SAFI)
	if err != nil {
		return nil, err
	}
	if len(m.NextHop) > math.MaxUint8 {
		return nil, malformedAttrErr(ErrMalformedTlv, "next hop of %d bytes", len(m.NextHop))
	}

	nlri, err := r.Encode(m.Destinations)
	if err != nil {
		return nil, err
	}

	b := appendUint16(nil, uint16(BgpLsAFI))
	b = append(b, uint8(m.SAFI), uint8(len(m.NextHop)))
	b = append(b, m.NextHop...)
	b = append(b, 0)

	return append(b, nlri...), nil
}

/*
	+---------------------------------------------------------+
	| Address Family Identifier (2 octets)                    |
	+---------------------------------------------------------+
	| Subsequent Address Family Identifier (1 octet)          |
	+---------------------------------------------------------+
	| Withdrawn Routes (variable)                             |
	+---------------------------------------------------------+
*/

// DecodeMpUnreach decodes the body of an mp unreach path attribute. Partial
// failures are reported as for DecodeMpReach.
func (c *UpdateCodec) DecodeMpUnreach(b []byte) (*MpUnreach, error) {
	if len(b) < 3 {
		return nil, malformedAttrErr(ErrTruncatedTlv, "mp unreach path attribute too short")
	}

	afi := MultiprotoAFI(binary.BigEndian.Uint16(b[:2]))
	safi := MultiprotoSAFI(b[2])

	r, err := c.registry(afi, safi)
	if err != nil {
		return nil, err
	}

	m := &MpUnreach{SAFI: safi}
	m.Destinations, err = r.Decode(b[3:])
	return m, err
}

// EncodeMpUnreach encodes m as the body of an mp unreach path attribute.
func (c *UpdateCodec) EncodeMpUnreach(m *MpUnreach) ([]byte, error) {
	r, err := c.registry(BgpLsAFI, m.SAFI)
	if err != nil {
		return nil, err
	}

	nlri, err := r.Encode(m.Destinations)
	if err != nil {
		return nil, err
	}

	b := appendUint16(nil, uint16(BgpLsAFI))
	b = append(b, uint8(m.SAFI))

	return append(b, nlri...), nil
}

type attrCacheKey struct {
	kind ObjectKind
	id   LinkStateNlriProtocolID
}

// Pair decodes attr once for every object kind and protocol among ds and
// pairs each destination with its interpretation. Destinations whose
// attribute fails to decode are left out and the failures joined.
func (c *UpdateCodec) Pair(ds []*Destination, attr []byte) ([]Route, error) {
	var (
		routes []Route
		errs   []error
	)

	cache := make(map[attrCacheKey]Attribute)
	failed := make(map[attrCacheKey]bool)

	for _, d := range ds {
		if d == nil || d.Object == nil {
			continue
		}

		k := attrCacheKey{kind: d.Object.Kind(), id: d.ProtocolID}
		if failed[k] {
			continue
		}

		a, ok := cache[k]
		if !ok {
			var err error
			a, err = c.attrs.DecodeFor(d, attr)
			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"object":         k.kind,
					"protocol":       k.id,
					loggerErrorField: err,
				}).Debug("discarding bgp-ls attribute")
				failed[k] = true
				errs = append(errs, err)
				continue
			}
			cache[k] = a
		}

		routes = append(routes, Route{Destination: d, Attribute: a})
	}

	return routes, errors.Join(errs...)
}
