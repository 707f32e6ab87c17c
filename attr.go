package bgpls

import (
	"github.com/opendaylight/bgpcep-sub008/rsvp"
)

// Attribute is the content of a bgp-ls attribute as interpreted for one kind
// of nlri. It is one of *NodeAttributes, *LinkAttributes, *PrefixAttributes
// or *TeLspAttributes.
//
// https://tools.ietf.org/html/rfc7752#section-3.3
type Attribute interface {
	Kind() ObjectKind
	serialize() ([]byte, error)
}

// attrContext is the state shared by the setters of a single decode call.
type attrContext struct {
	o    *observer
	r    *tlvReader
	id   LinkStateNlriProtocolID
	rsvp rsvp.Registry
}

type attrSetter[T any] func(a *T, c *attrContext, v []byte) error

// attrTable maps a tlv type to the setter for one attribute kind.
type attrTable[T any] map[uint16]attrSetter[T]

func decodeAttrs[T any](table attrTable[T], context string, c *attrContext, b []byte) (*T, error) {
	a := new(T)
	c.r = newTLVReader(b)

	err := c.r.scan(func(t uint16, v []byte) error {
		set, ok := table[t]
		if !ok {
			c.o.skipped(context, t, v)
			return nil
		}

		if err := set(a, c, v); err != nil {
			return err
		}

		c.o.decoded(context)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// AttributeRegistry decodes and encodes bgp-ls attributes. The same tlv type
// means different things for node, link, prefix and te-lsp nlri, so it keeps
// one table per ObjectKind. Tables are fixed at construction and the
// registry is safe for concurrent use.
type AttributeRegistry struct {
	opts   *options
	node   attrTable[NodeAttributes]
	link   attrTable[LinkAttributes]
	prefix attrTable[PrefixAttributes]
	teLsp  attrTable[TeLspAttributes]
}

// NewAttributeRegistry returns an AttributeRegistry.
func NewAttributeRegistry(opts ...Option) *AttributeRegistry {
	return &AttributeRegistry{
		opts:   newOptions(opts),
		node:   nodeAttrTable(),
		link:   linkAttrTable(),
		prefix: prefixAttrTable(),
		teLsp:  teLspAttrTable(),
	}
}

// Decode decodes the value of a bgp-ls attribute accompanying nlri of the
// given kind, originated by protocol id. Unknown tlvs are logged and
// skipped.
func (r *AttributeRegistry) Decode(kind ObjectKind, id LinkStateNlriProtocolID, b []byte) (Attribute, error) {
	a, err := r.decode(kind, id, b)
	if err != nil {
		r.opts.metrics.err(err)
		return nil, err
	}

	return a, nil
}

func (r *AttributeRegistry) decode(kind ObjectKind, id LinkStateNlriProtocolID, b []byte) (Attribute, error) {
	c := &attrContext{
		o:    r.opts.observer(),
		id:   id,
		rsvp: r.opts.rsvp,
	}

	switch kind {
	case ObjectKindNode:
		return decodeAttrs(r.node, "node-attribute", c, b)
	case ObjectKindLink:
		return decodeAttrs(r.link, "link-attribute", c, b)
	case ObjectKindPrefix:
		return decodeAttrs(r.prefix, "prefix-attribute", c, b)
	case ObjectKindTeLsp:
		return decodeAttrs(r.teLsp, "te-lsp-attribute", c, b)
	default:
		return nil, malformedAttrErr(ErrUnsupportedAttributeContext, "object kind %s", kind)
	}
}

// DecodeFor decodes the bgp-ls attribute paired with d.
func (r *AttributeRegistry) DecodeFor(d *Destination, b []byte) (Attribute, error) {
	if d == nil || d.Object == nil {
		return nil, malformedAttrErr(ErrUnsupportedAttributeContext, "destination without object")
	}

	return r.Decode(d.Object.Kind(), d.ProtocolID, b)
}

// Encode encodes a as the value of a bgp-ls attribute accompanying nlri of
// the given kind. Tlvs that were skipped while decoding are not reproduced.
func (r *AttributeRegistry) Encode(kind ObjectKind, a Attribute) ([]byte, error) {
	if a == nil || a.Kind() != kind {
		return nil, malformedAttrErr(ErrUnsupportedAttributeContext, "attribute does not match object kind %s", kind)
	}

	if t, ok := a.(*TeLspAttributes); ok {
		return t.serializeWith(r.opts.rsvp)
	}

	return a.serialize()
}
