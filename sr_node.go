package bgpls

// SrCapabilities is the sr capabilities node attribute.
//
// https://tools.ietf.org/html/draft-gredler-idr-bgp-ls-segment-routing-ext-03#section-2.1.2
type SrCapabilities struct {
	Flags     SrCapabilitiesFlags
	RangeSize uint32
	SidLabel  SidLabel
}

/*
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|     Flags     |  RESERVED     |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	|                  Range Size                   |
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//                SID/Label Sub-TLV (variable)                 //
	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/
func deserializeSrRangeHeader(b []byte) (flags uint8, rangeSize uint32, sid SidLabel, err error) {
	if len(b) < 5 {
		return 0, 0, nil, malformedAttrErr(ErrMalformedTlv, "sr range of %d bytes", len(b))
	}

	flags = b[0]
	rangeSize = uint24(b[2:5])
	sid, err = expectSidLabelTlv(b[5:])

	return flags, rangeSize, sid, err
}

func serializeSrRangeHeader(flags uint8, rangeSize uint32, sid SidLabel) ([]byte, error) {
	if rangeSize > 0xffffff {
		return nil, malformedAttrErr(ErrMalformedTlv, "range size %d does not fit 3 octets", rangeSize)
	}

	b := []byte{flags, 0}
	b = appendUint24(b, rangeSize)

	return appendSidLabelTlv(b, sid)
}

func deserializeSrCapabilities(id LinkStateNlriProtocolID, b []byte) (*SrCapabilities, error) {
	flags, rangeSize, sid, err := deserializeSrRangeHeader(b)
	if err != nil {
		return nil, err
	}

	return &SrCapabilities{
		Flags:     deserializeSrCapabilitiesFlags(id, flags),
		RangeSize: rangeSize,
		SidLabel:  sid,
	}, nil
}

func (s *SrCapabilities) serialize() ([]byte, error) {
	return serializeSrRangeHeader(flagsByte(s.Flags), s.RangeSize, s.SidLabel)
}

// SrLocalBlock is the sr local block node attribute. Its flags carry no
// defined meaning.
//
// https://tools.ietf.org/html/draft-ietf-idr-bgp-ls-segment-routing-ext-08#section-2.1.4
type SrLocalBlock struct {
	Flags     uint8
	RangeSize uint32
	SidLabel  SidLabel
}

func deserializeSrLocalBlock(b []byte) (*SrLocalBlock, error) {
	flags, rangeSize, sid, err := deserializeSrRangeHeader(b)
	if err != nil {
		return nil, err
	}

	return &SrLocalBlock{
		Flags:     flags,
		RangeSize: rangeSize,
		SidLabel:  sid,
	}, nil
}

func (s *SrLocalBlock) serialize() ([]byte, error) {
	return serializeSrRangeHeader(s.Flags, s.RangeSize, s.SidLabel)
}

// SrAlgorithm identifies a path computation algorithm.
type SrAlgorithm uint8

// SrAlgorithm values
const (
	SrAlgorithmShortestPathFirst       SrAlgorithm = 0
	SrAlgorithmStrictShortestPathFirst SrAlgorithm = 1
)

func deserializeSrAlgorithms(b []byte) []SrAlgorithm {
	algorithms := make([]SrAlgorithm, 0, len(b))
	for _, a := range b {
		algorithms = append(algorithms, SrAlgorithm(a))
	}

	return algorithms
}

func serializeSrAlgorithms(algorithms []SrAlgorithm) []byte {
	b := make([]byte, 0, len(algorithms))
	for _, a := range algorithms {
		b = append(b, uint8(a))
	}

	return b
}

// MSD is a maximum sid depth entry.
//
// https://tools.ietf.org/html/rfc8814#section-3
type MSD struct {
	Type  uint8
	Value uint8
}

func deserializeMSDs(b []byte) ([]MSD, error) {
	if len(b)%2 != 0 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid msd length %d", len(b))
	}

	msds := make([]MSD, 0, len(b)/2)
	for ; len(b) > 0; b = b[2:] {
		msds = append(msds, MSD{Type: b[0], Value: b[1]})
	}

	return msds, nil
}

func serializeMSDs(msds []MSD) []byte {
	b := make([]byte, 0, 2*len(msds))
	for _, m := range msds {
		b = append(b, m.Type, m.Value)
	}

	return b
}
