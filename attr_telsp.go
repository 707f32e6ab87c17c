package bgpls

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/opendaylight/bgpcep-sub008/rsvp"
)

// TeLspAttrCode describes the type of te-lsp attribute contained in a bgp-ls attribute.
type TeLspAttrCode uint16

// TeLspAttrCode values
const (
	TeLspAttrCodeRsvpObjects TeLspAttrCode = 99
)

const rsvpObjectHeaderLen = 4

// TeLspAttributes are the attributes of a te-lsp nlri, a sequence of rsvp
// objects.
//
// https://tools.ietf.org/html/draft-ietf-idr-te-lsp-distribution-08#section-2.2
type TeLspAttributes struct {
	Objects []rsvp.Object
}

// Kind returns ObjectKindTeLsp.
func (t *TeLspAttributes) Kind() ObjectKind {
	return ObjectKindTeLsp
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|       Length (body)           |   Class-Num   |    C-Type     |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//                     Object Body (variable)                  //
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeRsvpObjects(c *attrContext, b []byte) ([]rsvp.Object, error) {
	objects := make([]rsvp.Object, 0)

	for len(b) > 0 {
		if len(b) < rsvpObjectHeaderLen {
			return nil, malformedAttrErr(ErrTruncatedTlv, "%d bytes left for rsvp object header", len(b))
		}

		l := int(binary.BigEndian.Uint16(b[:2]))
		class, ctype := b[2], b[3]
		if len(b)-rsvpObjectHeaderLen < l {
			return nil, malformedAttrErr(ErrTruncatedTlv, "rsvp object class %d declares length %d with %d bytes remaining", class, l, len(b)-rsvpObjectHeaderLen)
		}

		body := b[rsvpObjectHeaderLen : rsvpObjectHeaderLen+l]
		b = b[rsvpObjectHeaderLen+l:]

		obj, err := c.rsvp.Parse(class, ctype, body)
		switch {
		case errors.Is(err, rsvp.ErrUnsupportedObject), errors.Is(err, rsvp.ErrUnsupportedAssociationType):
			c.o.unsupported("rsvp-object", err)
			continue
		case err != nil:
			return nil, malformedAttrErr(ErrMalformedTlv, "rsvp object class %d c-type %d: %v", class, ctype, err)
		}

		objects = append(objects, obj)
	}

	return objects, nil
}

func teLspAttrTable() attrTable[TeLspAttributes] {
	return attrTable[TeLspAttributes]{
		uint16(TeLspAttrCodeRsvpObjects): func(a *TeLspAttributes, c *attrContext, v []byte) error {
			objects, err := deserializeRsvpObjects(c, v)
			if err != nil {
				return err
			}

			a.Objects = append(a.Objects, objects...)
			if a.Objects == nil {
				a.Objects = []rsvp.Object{}
			}
			return nil
		},
	}
}

func (t *TeLspAttributes) serialize() ([]byte, error) {
	return t.serializeWith(rsvp.NewRegistry())
}

// serializeWith writes the objects as a single rsvp objects tlv. A nil
// Objects writes nothing, an empty one writes an empty tlv.
func (t *TeLspAttributes) serializeWith(r rsvp.Registry) ([]byte, error) {
	if t.Objects == nil {
		return nil, nil
	}

	var v []byte
	for _, obj := range t.Objects {
		body, err := r.Serialize(obj)
		if err != nil {
			return nil, malformedAttrErr(ErrMalformedTlv, "rsvp object: %v", err)
		}
		if len(body) > math.MaxUint16 {
			return nil, malformedAttrErr(ErrMalformedTlv, "rsvp object body of %d bytes", len(body))
		}

		v = appendUint16(v, uint16(len(body)))
		v = append(v, obj.Class(), obj.CType())
		v = append(v, body...)
	}

	return appendTLV(nil, uint16(TeLspAttrCodeRsvpObjects), v)
}
