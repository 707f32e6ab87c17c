package rsvp

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Object classes and c-types
const (
	ClassSenderTspec     uint8 = 12
	CTypeTspec           uint8 = 2
	ClassAssociation     uint8 = 199
	CTypeAssociationIPv4 uint8 = 1
	CTypeAssociationIPv6 uint8 = 2
)

const (
	tspecLen = 32

	tspecOverallLength = 7
	tspecServiceNumber = 1
	tspecServiceLength = 6
	tspecTokenBucketID = 127
	tspecParamLength   = 5
)

// Tspec is the intserv sender tspec object.
//
// https://tools.ietf.org/html/rfc2210#section-3.1
type Tspec struct {
	TokenBucketRate    float32
	TokenBucketSize    float32
	PeakDataRate       float32
	MinimumPolicedUnit uint32
	MaximumPacketSize  uint32
}

// Class returns ClassSenderTspec.
func (t *Tspec) Class() uint8 {
	return ClassSenderTspec
}

// CType returns CTypeTspec.
func (t *Tspec) CType() uint8 {
	return CTypeTspec
}

/*
	+-------------+-------------+-------------+-------------+
	| 0 (a) |    reserved       |             7 (b)         |
	+-------------+-------------+-------------+-------------+
	|    1 (c)    |0| reserved  |             6 (d)         |
	+-------------+-------------+-------------+-------------+
	|   127 (e)   |    0 (f)    |             5 (g)         |
	+-------------+-------------+-------------+-------------+
	|  Token Bucket Rate [r] (32-bit IEEE floating point number)  |
	+-------------+-------------+-------------+-------------+
	|  Token Bucket Size [b] (32-bit IEEE floating point number)  |
	+-------------+-------------+-------------+-------------+
	|  Peak Data Rate [p] (32-bit IEEE floating point number)     |
	+-------------+-------------+-------------+-------------+
	|  Minimum Policed Unit [m] (32-bit integer)              |
	+-------------+-------------+-------------+-------------+
	|  Maximum Packet Size [M]  (32-bit integer)              |
	+-------------+-------------+-------------+-------------+
*/
func parseTspec(b []byte) (Object, error) {
	if len(b) != tspecLen {
		return nil, fmt.Errorf("%w: tspec of %d bytes", ErrMalformedObject, len(b))
	}

	// only the canonical token bucket layout is understood
	if b[0]>>4 != 0 || binary.BigEndian.Uint16(b[2:4]) != tspecOverallLength ||
		b[4] != tspecServiceNumber || binary.BigEndian.Uint16(b[6:8]) != tspecServiceLength ||
		b[8] != tspecTokenBucketID || binary.BigEndian.Uint16(b[10:12]) != tspecParamLength {
		return nil, fmt.Errorf("%w: tspec header %x", ErrMalformedObject, b[:12])
	}

	return &Tspec{
		TokenBucketRate:    math.Float32frombits(binary.BigEndian.Uint32(b[12:16])),
		TokenBucketSize:    math.Float32frombits(binary.BigEndian.Uint32(b[16:20])),
		PeakDataRate:       math.Float32frombits(binary.BigEndian.Uint32(b[20:24])),
		MinimumPolicedUnit: binary.BigEndian.Uint32(b[24:28]),
		MaximumPacketSize:  binary.BigEndian.Uint32(b[28:32]),
	}, nil
}

func serializeTspec(o Object) ([]byte, error) {
	t, ok := o.(*Tspec)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a tspec", ErrMalformedObject, o)
	}

	b := make([]byte, 0, tspecLen)
	b = binary.BigEndian.AppendUint32(b, tspecOverallLength)
	b = append(b, tspecServiceNumber, 0)
	b = binary.BigEndian.AppendUint16(b, tspecServiceLength)
	b = append(b, tspecTokenBucketID, 0)
	b = binary.BigEndian.AppendUint16(b, tspecParamLength)
	b = binary.BigEndian.AppendUint32(b, math.Float32bits(t.TokenBucketRate))
	b = binary.BigEndian.AppendUint32(b, math.Float32bits(t.TokenBucketSize))
	b = binary.BigEndian.AppendUint32(b, math.Float32bits(t.PeakDataRate))
	b = binary.BigEndian.AppendUint32(b, t.MinimumPolicedUnit)
	b = binary.BigEndian.AppendUint32(b, t.MaximumPacketSize)

	return b, nil
}
