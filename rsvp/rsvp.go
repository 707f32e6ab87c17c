// Package rsvp decodes and encodes the bodies of the rsvp objects carried in
// bgp-ls te-lsp attributes.
//
// https://tools.ietf.org/html/draft-ietf-idr-te-lsp-distribution-08#section-2.2
package rsvp

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnsupportedObject is returned for an object class and c-type pair
	// that has no parser.
	ErrUnsupportedObject = errors.New("unsupported rsvp object")

	// ErrUnsupportedAssociationType is returned for an association object
	// of unknown association type.
	ErrUnsupportedAssociationType = errors.New("unsupported association type")

	// ErrMalformedObject is returned when an object body does not match the
	// layout of its class and c-type.
	ErrMalformedObject = errors.New("malformed rsvp object")
)

// Object is a decoded rsvp object.
type Object interface {
	Class() uint8
	CType() uint8
}

// Parser decodes the body of an rsvp object.
type Parser func(b []byte) (Object, error)

// Serializer encodes the body of an rsvp object.
type Serializer func(o Object) ([]byte, error)

// Registry decodes and encodes rsvp object bodies by class and c-type.
type Registry interface {
	Parse(class, ctype uint8, b []byte) (Object, error)
	Serialize(o Object) ([]byte, error)
}

type objectKey struct {
	class uint8
	ctype uint8
}

// MapRegistry is a Registry backed by parsers and serializers registered per
// class and c-type.
type MapRegistry struct {
	mu          sync.RWMutex
	parsers     map[objectKey]Parser
	serializers map[objectKey]Serializer
}

// NewRegistry returns a MapRegistry that knows the sender tspec and
// association objects.
func NewRegistry() *MapRegistry {
	r := &MapRegistry{
		parsers:     make(map[objectKey]Parser),
		serializers: make(map[objectKey]Serializer),
	}

	r.Register(ClassSenderTspec, CTypeTspec, parseTspec, serializeTspec)
	r.Register(ClassAssociation, CTypeAssociationIPv4, parseAssociationIPv4, serializeAssociation)
	r.Register(ClassAssociation, CTypeAssociationIPv6, parseAssociationIPv6, serializeAssociation)

	return r
}

// Register adds or replaces the parser and serializer for class and ctype.
func (r *MapRegistry) Register(class, ctype uint8, p Parser, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := objectKey{class: class, ctype: ctype}
	r.parsers[k] = p
	r.serializers[k] = s
}

// Parse decodes b as the body of an object of class and ctype.
func (r *MapRegistry) Parse(class, ctype uint8, b []byte) (Object, error) {
	r.mu.RLock()
	p, ok := r.parsers[objectKey{class: class, ctype: ctype}]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: class %d c-type %d", ErrUnsupportedObject, class, ctype)
	}

	return p(b)
}

// Serialize encodes the body of o.
func (r *MapRegistry) Serialize(o Object) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil object", ErrMalformedObject)
	}

	r.mu.RLock()
	s, ok := r.serializers[objectKey{class: o.Class(), ctype: o.CType()}]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: class %d c-type %d", ErrUnsupportedObject, o.Class(), o.CType())
	}

	return s(o)
}
