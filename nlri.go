package bgpls

import (
	"encoding/binary"
	"errors"
	"net"

	"github.com/sirupsen/logrus"
)

const (
	routeDistinguisherLen = 8
	// protocol id (1 octet) + identifier (8 octets)
	nlriCommonLen = 9
)

// RouteDistinguisher is the 8 byte route distinguisher leading a vpn nlri.
type RouteDistinguisher [routeDistinguisherLen]byte

// Destination is a single decoded link state nlri.
//
// https://tools.ietf.org/html/rfc7752#section-3.2
type Destination struct {
	// RouteDistinguisher is set for vpn nlri only.
	RouteDistinguisher *RouteDistinguisher
	ProtocolID         LinkStateNlriProtocolID
	Identifier         uint64
	Object             Object
}

// Object is the type specific content of a Destination. It is one of
// *LinkStateNlriNode, *LinkStateNlriLink, *LinkStateNlriPrefix or
// *LinkStateNlriTeLsp.
type Object interface {
	Kind() ObjectKind
	nlriType() (LinkStateNlriType, error)
	serialize() ([]byte, error)
}

// LinkStateNlriNode is a link state NLRI.
//
// https://tools.ietf.org/html/rfc7752#section-3.2 figure 7
type LinkStateNlriNode struct {
	LocalNodeDescriptors *NodeDescriptors
}

// Kind returns ObjectKindNode.
func (n *LinkStateNlriNode) Kind() ObjectKind {
	return ObjectKindNode
}

func (n *LinkStateNlriNode) nlriType() (LinkStateNlriType, error) {
	return LinkStateNlriNodeType, nil
}

func (n *LinkStateNlriNode) serialize() ([]byte, error) {
	return serializeNodeDescriptorsTLV(LinkStateNlriLocalNodeDescriptorsDescriptorCode, n.LocalNodeDescriptors)
}

// LinkStateNlriLink is a link state NLRI.
//
// https://tools.ietf.org/html/rfc7752#section-3.2 figure 8
type LinkStateNlriLink struct {
	LocalNodeDescriptors  *NodeDescriptors
	RemoteNodeDescriptors *NodeDescriptors
	LinkDescriptors       *LinkDescriptors
}

// Kind returns ObjectKindLink.
func (l *LinkStateNlriLink) Kind() ObjectKind {
	return ObjectKindLink
}

func (l *LinkStateNlriLink) nlriType() (LinkStateNlriType, error) {
	return LinkStateNlriLinkType, nil
}

func (l *LinkStateNlriLink) serialize() ([]byte, error) {
	b, err := serializeNodeDescriptorsTLV(LinkStateNlriLocalNodeDescriptorsDescriptorCode, l.LocalNodeDescriptors)
	if err != nil {
		return nil, err
	}

	remote, err := serializeNodeDescriptorsTLV(LinkStateNlriRemoteNodeDescriptorsDescriptorCode, l.RemoteNodeDescriptors)
	if err != nil {
		return nil, err
	}
	b = append(b, remote...)

	if l.LinkDescriptors != nil {
		descriptors, err := l.LinkDescriptors.serialize()
		if err != nil {
			return nil, err
		}
		b = append(b, descriptors...)
	}

	return b, nil
}

// LinkStateNlriPrefix is a link state NLRI.
//
// https://tools.ietf.org/html/rfc7752#section-3.2 figure 9
type LinkStateNlriPrefix struct {
	AdvertisingNodeDescriptors *NodeDescriptors
	PrefixDescriptors          *PrefixDescriptors
}

// Kind returns ObjectKindPrefix.
func (p *LinkStateNlriPrefix) Kind() ObjectKind {
	return ObjectKindPrefix
}

func (p *LinkStateNlriPrefix) nlriType() (LinkStateNlriType, error) {
	if p.PrefixDescriptors == nil {
		return 0, invalidNetworkErr(ErrMissingPrefix, "prefix nlri without prefix descriptors")
	}

	if p.PrefixDescriptors.ipv4() {
		return LinkStateNlriIpv4PrefixType, nil
	}

	return LinkStateNlriIpv6PrefixType, nil
}

func (p *LinkStateNlriPrefix) serialize() ([]byte, error) {
	b, err := serializeNodeDescriptorsTLV(LinkStateNlriLocalNodeDescriptorsDescriptorCode, p.AdvertisingNodeDescriptors)
	if err != nil {
		return nil, err
	}

	if p.PrefixDescriptors == nil {
		return nil, invalidNetworkErr(ErrMissingPrefix, "prefix nlri without prefix descriptors")
	}

	descriptors, err := p.PrefixDescriptors.serialize()
	if err != nil {
		return nil, err
	}

	return append(b, descriptors...), nil
}

// LinkStateNlriTeLsp is a te-lsp NLRI. Sender and endpoint addresses are both
// ipv4 or both ipv6.
//
// https://tools.ietf.org/html/draft-ietf-idr-te-lsp-distribution-03#section-2.1
type LinkStateNlriTeLsp struct {
	TunnelSenderAddress   net.IP
	TunnelID              uint16
	LspID                 uint32
	TunnelEndpointAddress net.IP
}

// Kind returns ObjectKindTeLsp.
func (t *LinkStateNlriTeLsp) Kind() ObjectKind {
	return ObjectKindTeLsp
}

func (t *LinkStateNlriTeLsp) nlriType() (LinkStateNlriType, error) {
	if t.TunnelSenderAddress.To4() != nil {
		return LinkStateNlriIpv4TeLspType, nil
	}
	if t.TunnelSenderAddress.To16() != nil {
		return LinkStateNlriIpv6TeLspType, nil
	}

	return 0, invalidNetworkErr(ErrMalformedTlv, "invalid te-lsp tunnel sender address")
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|           IPv4/IPv6 Tunnel Sender Address (4/16 octets)       |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|          Tunnel ID            |            LSP ID             |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|          IPv4/IPv6 Tunnel End-point Address (4/16 octets)     |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeTeLsp(ipv4 bool, b []byte) (*LinkStateNlriTeLsp, error) {
	addrLen := net.IPv6len
	if ipv4 {
		addrLen = net.IPv4len
	}

	if len(b) != 2*addrLen+4 {
		return nil, invalidNetworkErr(ErrMalformedTlv, "invalid te-lsp nlri length %d", len(b))
	}

	sender, _ := bytesToIPAddress(b[:addrLen])
	b = b[addrLen:]
	t := &LinkStateNlriTeLsp{
		TunnelSenderAddress: sender,
		TunnelID:            binary.BigEndian.Uint16(b[:2]),
		LspID:               uint32(binary.BigEndian.Uint16(b[2:4])),
	}
	t.TunnelEndpointAddress, _ = bytesToIPAddress(b[4:])

	return t, nil
}

func (t *LinkStateNlriTeLsp) serialize() ([]byte, error) {
	if t.LspID > 0xffff {
		return nil, invalidNetworkErr(ErrMalformedTlv, "lsp id %d does not fit 2 octets", t.LspID)
	}

	typ, err := t.nlriType()
	if err != nil {
		return nil, err
	}

	conv := ipv6ToBytes
	if typ == LinkStateNlriIpv4TeLspType {
		conv = ipv4ToBytes
	}

	sender, err := conv(t.TunnelSenderAddress)
	if err != nil {
		return nil, invalidNetworkErr(ErrMalformedTlv, "tunnel sender address: %v", err)
	}
	endpoint, err := conv(t.TunnelEndpointAddress)
	if err != nil {
		return nil, invalidNetworkErr(ErrMalformedTlv, "tunnel endpoint address: %v", err)
	}

	b := append([]byte{}, sender...)
	b = appendUint16(b, t.TunnelID)
	b = appendUint16(b, uint16(t.LspID))

	return append(b, endpoint...), nil
}

func serializeNodeDescriptorsTLV(code LinkStateNlriDescriptorCode, n *NodeDescriptors) ([]byte, error) {
	if n == nil {
		return nil, malformedAttrErr(ErrMissingRouterIdentifier, "missing node descriptors tlv %d", code)
	}

	v, err := n.serialize()
	if err != nil {
		return nil, err
	}

	return appendTLV(nil, uint16(code), v)
}

// expectNodeDescriptors reads the next tlv from r and decodes it as the node
// descriptors container code.
func expectNodeDescriptors(o *observer, r *tlvReader, code LinkStateNlriDescriptorCode, id LinkStateNlriProtocolID) (*NodeDescriptors, error) {
	t, v, err := r.next()
	if err != nil {
		return nil, err
	}

	if t != uint16(code) {
		return nil, malformedAttrErr(ErrMalformedTlv, "expected node descriptors tlv %d, got %d", code, t)
	}

	return deserializeNodeDescriptors(o, id, v)
}

type nlriDecoder func(o *observer, id LinkStateNlriProtocolID, b []byte) (Object, error)

func decodeNodeNlri(o *observer, id LinkStateNlriProtocolID, b []byte) (Object, error) {
	r := newTLVReader(b)

	local, err := expectNodeDescriptors(o, r, LinkStateNlriLocalNodeDescriptorsDescriptorCode, id)
	if err != nil {
		return nil, err
	}

	err = r.scan(func(t uint16, v []byte) error {
		o.skipped("node-nlri", t, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LinkStateNlriNode{LocalNodeDescriptors: local}, nil
}

func decodeLinkNlri(o *observer, id LinkStateNlriProtocolID, b []byte) (Object, error) {
	r := newTLVReader(b)

	local, err := expectNodeDescriptors(o, r, LinkStateNlriLocalNodeDescriptorsDescriptorCode, id)
	if err != nil {
		return nil, err
	}

	remote, err := expectNodeDescriptors(o, r, LinkStateNlriRemoteNodeDescriptorsDescriptorCode, id)
	if err != nil {
		return nil, err
	}

	link, err := deserializeLinkDescriptors(o, r.b)
	if err != nil {
		return nil, err
	}

	return &LinkStateNlriLink{
		LocalNodeDescriptors:  local,
		RemoteNodeDescriptors: remote,
		LinkDescriptors:       link,
	}, nil
}

func prefixNlriDecoder(ipv4 bool) nlriDecoder {
	return func(o *observer, id LinkStateNlriProtocolID, b []byte) (Object, error) {
		r := newTLVReader(b)

		advertising, err := expectNodeDescriptors(o, r, LinkStateNlriLocalNodeDescriptorsDescriptorCode, id)
		if err != nil {
			return nil, err
		}

		prefix, err := deserializePrefixDescriptors(o, ipv4, r.b)
		if err != nil {
			return nil, err
		}

		return &LinkStateNlriPrefix{
			AdvertisingNodeDescriptors: advertising,
			PrefixDescriptors:          prefix,
		}, nil
	}
}

func teLspNlriDecoder(ipv4 bool) nlriDecoder {
	return func(o *observer, id LinkStateNlriProtocolID, b []byte) (Object, error) {
		return deserializeTeLsp(ipv4, b)
	}
}

// NlriRegistry decodes and encodes link state nlri. Its dispatch table is
// fixed at construction and it is safe for concurrent use.
type NlriRegistry struct {
	opts     *options
	decoders map[LinkStateNlriType]nlriDecoder
}

// NewNlriRegistry returns a NlriRegistry for node, link, prefix and te-lsp nlri.
func NewNlriRegistry(opts ...Option) *NlriRegistry {
	return &NlriRegistry{
		opts: newOptions(opts),
		decoders: map[LinkStateNlriType]nlriDecoder{
			LinkStateNlriNodeType:       decodeNodeNlri,
			LinkStateNlriLinkType:       decodeLinkNlri,
			LinkStateNlriIpv4PrefixType: prefixNlriDecoder(true),
			LinkStateNlriIpv6PrefixType: prefixNlriDecoder(false),
			LinkStateNlriIpv4TeLspType:  teLspNlriDecoder(true),
			LinkStateNlriIpv6TeLspType:  teLspNlriDecoder(false),
		},
	}
}

/*
	0                   1                   2                   3
	0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|            NLRI Type          |     Total NLRI Length         |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                                                               |
	+                       Route Distinguisher                     +
	|                                                               |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|  Protocol-ID  |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                           Identifier                          |
	|                            (64 bits)                          |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|               Type specific content (variable)               //
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/

// DecodeNlri decodes the body of a single nlri element of type nlriType.
func (r *NlriRegistry) DecodeNlri(nlriType uint16, body []byte) (*Destination, error) {
	o := r.opts.observer()

	d, err := r.decodeNlri(o, LinkStateNlriType(nlriType), body)
	if err != nil {
		r.opts.metrics.err(err)
		return nil, err
	}

	r.opts.metrics.nlri(LinkStateNlriType(nlriType))
	return d, nil
}

func (r *NlriRegistry) decodeNlri(o *observer, t LinkStateNlriType, b []byte) (*Destination, error) {
	decoder, ok := r.decoders[t]
	if !ok {
		return nil, invalidNetworkErr(ErrUnsupportedNlriType, "nlri type %d", uint16(t))
	}

	d := &Destination{}

	if r.opts.vpn {
		if len(b) < routeDistinguisherLen {
			return nil, invalidNetworkErr(ErrTruncatedTlv, "%s nlri too short for route distinguisher", t)
		}
		rd := RouteDistinguisher{}
		copy(rd[:], b[:routeDistinguisherLen])
		d.RouteDistinguisher = &rd
		b = b[routeDistinguisherLen:]
	}

	if len(b) < nlriCommonLen {
		return nil, invalidNetworkErr(ErrTruncatedTlv, "%s nlri too short", t)
	}

	d.ProtocolID = LinkStateNlriProtocolID(b[0])
	d.Identifier = binary.BigEndian.Uint64(b[1:nlriCommonLen])

	obj, err := decoder(o, d.ProtocolID, b[nlriCommonLen:])
	if err != nil {
		return nil, err
	}
	d.Object = obj

	return d, nil
}

// Decode decodes a sequence of nlri elements as carried in the nlri field of
// an mp reach or mp unreach attribute. An element that fails to decode does
// not prevent its siblings from decoding; the failures are joined into the
// returned error. A truncated element header ends decoding.
func (r *NlriRegistry) Decode(b []byte) ([]*Destination, error) {
	var (
		dests []*Destination
		errs  []error
	)

	o := r.opts.observer()
	reader := newTLVReader(b)

	for reader.more() {
		raw := reader.b
		t, v, err := reader.next()
		if err != nil {
			r.opts.metrics.err(err)
			errs = append(errs, err)
			break
		}

		d, err := r.decodeNlri(o, LinkStateNlriType(t), v)
		if err != nil {
			err = withData(err, raw[:tlvHeaderLen+len(v)])
			r.opts.metrics.err(err)
			r.opts.logger.WithFields(logrus.Fields{
				"type":           LinkStateNlriType(t),
				loggerErrorField: err,
			}).Debug("discarding nlri")
			errs = append(errs, err)
			continue
		}

		r.opts.metrics.nlri(LinkStateNlriType(t))
		dests = append(dests, d)
	}

	return dests, errors.Join(errs...)
}

// EncodeNlri encodes d, including the nlri type and length header.
func (r *NlriRegistry) EncodeNlri(d *Destination) ([]byte, error) {
	if d == nil || d.Object == nil {
		return nil, invalidNetworkErr(ErrUnsupportedNlriType, "destination without object")
	}

	t, err := d.Object.nlriType()
	if err != nil {
		return nil, err
	}

	var b []byte
	if r.opts.vpn {
		if d.RouteDistinguisher == nil {
			return nil, invalidNetworkErr(ErrMalformedTlv, "vpn destination without route distinguisher")
		}
		b = append(b, d.RouteDistinguisher[:]...)
	} else if d.RouteDistinguisher != nil {
		return nil, invalidNetworkErr(ErrMalformedTlv, "route distinguisher on non-vpn destination")
	}

	b = append(b, uint8(d.ProtocolID))
	b = binary.BigEndian.AppendUint64(b, d.Identifier)

	body, err := d.Object.serialize()
	if err != nil {
		return nil, err
	}

	return appendTLV(nil, uint16(t), append(b, body...))
}

// Encode encodes ds back to back.
func (r *NlriRegistry) Encode(ds []*Destination) ([]byte, error) {
	var b []byte

	for _, d := range ds {
		e, err := r.EncodeNlri(d)
		if err != nil {
			return nil, err
		}
		b = append(b, e...)
	}

	return b, nil
}
