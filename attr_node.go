package bgpls

import (
	"encoding/binary"
	"net"
)

// NodeAttrCode describes the type of node attribute contained in a bgp-ls attribute
//
// https://tools.ietf.org/html/rfc7752#section-3.3.1
type NodeAttrCode uint16

// NodeAttrCode values
const (
	NodeAttrCodeMultiTopologyID   NodeAttrCode = 263
	NodeAttrCodeNodeMSD           NodeAttrCode = 266
	NodeAttrCodeNodeFlagBits      NodeAttrCode = 1024
	NodeAttrCodeOpaqueNodeAttr    NodeAttrCode = 1025
	NodeAttrCodeNodeName          NodeAttrCode = 1026
	NodeAttrCodeIsIsAreaID        NodeAttrCode = 1027
	NodeAttrCodeLocalIPv4RouterID NodeAttrCode = 1028
	NodeAttrCodeLocalIPv6RouterID NodeAttrCode = 1029
	NodeAttrCodeSrCapabilities    NodeAttrCode = 1034
	NodeAttrCodeSrAlgorithm       NodeAttrCode = 1035
	NodeAttrCodeSrLocalBlock      NodeAttrCode = 1036
	NodeAttrCodeSrmsPreference    NodeAttrCode = 1037
)

// NodeAttributes are the attributes of a node nlri.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.1
type NodeAttributes struct {
	MultiTopologyIDs []uint16
	Flags            *NodeFlagBits
	Opaque           []byte
	Name             *string
	IsIsAreaIDs      [][]byte
	IPv4RouterID     net.IP
	IPv6RouterID     net.IP
	SrCapabilities   *SrCapabilities
	SrAlgorithms     []SrAlgorithm
	SrLocalBlock     *SrLocalBlock
	MSDs             []MSD
	SrmsPreference   *uint8
}

// Kind returns ObjectKindNode.
func (n *NodeAttributes) Kind() ObjectKind {
	return ObjectKindNode
}

// NodeFlagBits is the node flag bits node attribute.
//
// https://tools.ietf.org/html/rfc7752#section-3.3.1.1
type NodeFlagBits struct {
	Overload bool
	Attached bool
	External bool
	ABR      bool
	Router   bool
	V6       bool
	Reserved uint8
}

func (n *NodeFlagBits) bits() []flagBit {
	return []flagBit{
		{0x80, &n.Overload},
		{0x40, &n.Attached},
		{0x20, &n.External},
		{0x10, &n.ABR},
		{0x08, &n.Router},
		{0x04, &n.V6},
	}
}

func (n *NodeFlagBits) byte() uint8 {
	return writeFlagBits(n.Reserved, n.bits())
}

func deserializeMultiTopologyIDs(b []byte) ([]uint16, error) {
	if len(b)%2 != 0 {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for multi-topology ids", len(b))
	}

	ids := make([]uint16, 0, len(b)/2)
	for ; len(b) > 0; b = b[2:] {
		ids = append(ids, binary.BigEndian.Uint16(b[:2]))
	}

	return ids, nil
}

func serializeMultiTopologyIDs(ids []uint16) []byte {
	b := make([]byte, 0, 2*len(ids))
	for _, id := range ids {
		b = appendUint16(b, id)
	}

	return b
}

// deserializeRouterIDAttr reads an ipv4 or ipv6 router id attribute of
// exactly size bytes.
func deserializeRouterIDAttr(name string, size int, b []byte) (net.IP, error) {
	if len(b) != size {
		return nil, malformedAttrErr(ErrMalformedTlv, "invalid length %d for %s", len(b), name)
	}

	return bytesToIPAddress(b)
}

func nodeAttrTable() attrTable[NodeAttributes] {
	return attrTable[NodeAttributes]{
		uint16(NodeAttrCodeMultiTopologyID): func(a *NodeAttributes, _ *attrContext, v []byte) error {
			ids, err := deserializeMultiTopologyIDs(v)
			a.MultiTopologyIDs = ids
			return err
		},
		uint16(NodeAttrCodeNodeFlagBits): func(a *NodeAttributes, _ *attrContext, v []byte) error {
			if len(v) != 1 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for node flag bits", len(v))
			}

			f := &NodeFlagBits{}
			f.Reserved = readFlagBits(v[0], f.bits())
			a.Flags = f
			return nil
		},
		uint16(NodeAttrCodeOpaqueNodeAttr): func(a *NodeAttributes, _ *attrContext, v []byte) error {
			a.Opaque = append([]byte{}, v...)
			return nil
		},
		uint16(NodeAttrCodeNodeName): func(a *NodeAttributes, _ *attrContext, v []byte) error {
			name := string(v)
			a.Name = &name
			return nil
		},
		uint16(NodeAttrCodeIsIsAreaID): func(a *NodeAttributes, _ *attrContext, v []byte) error {
			if len(v) == 0 || len(v) > 13 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for isis area id", len(v))
			}

			a.IsIsAreaIDs = append(a.IsIsAreaIDs, append([]byte{}, v...))
			return nil
		},
		uint16(NodeAttrCodeLocalIPv4RouterID): func(a *NodeAttributes, _ *attrContext, v []byte) (err error) {
			a.IPv4RouterID, err = deserializeRouterIDAttr("local ipv4 router id", net.IPv4len, v)
			return err
		},
		uint16(NodeAttrCodeLocalIPv6RouterID): func(a *NodeAttributes, _ *attrContext, v []byte) (err error) {
			a.IPv6RouterID, err = deserializeRouterIDAttr("local ipv6 router id", net.IPv6len, v)
			return err
		},
		uint16(NodeAttrCodeSrCapabilities): func(a *NodeAttributes, c *attrContext, v []byte) (err error) {
			a.SrCapabilities, err = deserializeSrCapabilities(c.id, v)
			return err
		},
		uint16(NodeAttrCodeSrAlgorithm): func(a *NodeAttributes, _ *attrContext, v []byte) error {
			a.SrAlgorithms = deserializeSrAlgorithms(v)
			return nil
		},
		uint16(NodeAttrCodeSrLocalBlock): func(a *NodeAttributes, _ *attrContext, v []byte) (err error) {
			a.SrLocalBlock, err = deserializeSrLocalBlock(v)
			return err
		},
		uint16(NodeAttrCodeNodeMSD): func(a *NodeAttributes, _ *attrContext, v []byte) (err error) {
			a.MSDs, err = deserializeMSDs(v)
			return err
		},
		uint16(NodeAttrCodeSrmsPreference): func(a *NodeAttributes, _ *attrContext, v []byte) error {
			if len(v) != 1 {
				return malformedAttrErr(ErrMalformedTlv, "invalid length %d for srms preference", len(v))
			}

			pref := v[0]
			a.SrmsPreference = &pref
			return nil
		},
	}
}

func (n *NodeAttributes) serialize() ([]byte, error) {
	w := &tlvWriter{}

	if n.MultiTopologyIDs != nil {
		w.write(uint16(NodeAttrCodeMultiTopologyID), serializeMultiTopologyIDs(n.MultiTopologyIDs))
	}
	if n.Flags != nil {
		w.write(uint16(NodeAttrCodeNodeFlagBits), []byte{n.Flags.byte()})
	}
	if n.Opaque != nil {
		w.write(uint16(NodeAttrCodeOpaqueNodeAttr), n.Opaque)
	}
	if n.Name != nil {
		w.write(uint16(NodeAttrCodeNodeName), []byte(*n.Name))
	}
	for _, area := range n.IsIsAreaIDs {
		w.write(uint16(NodeAttrCodeIsIsAreaID), area)
	}
	if n.IPv4RouterID != nil {
		w.writeFunc(uint16(NodeAttrCodeLocalIPv4RouterID), addressSerializer(ipv4ToBytes, n.IPv4RouterID))
	}
	if n.IPv6RouterID != nil {
		w.writeFunc(uint16(NodeAttrCodeLocalIPv6RouterID), addressSerializer(ipv6ToBytes, n.IPv6RouterID))
	}
	if n.SrCapabilities != nil {
		w.writeFunc(uint16(NodeAttrCodeSrCapabilities), n.SrCapabilities.serialize)
	}
	if n.SrAlgorithms != nil {
		w.write(uint16(NodeAttrCodeSrAlgorithm), serializeSrAlgorithms(n.SrAlgorithms))
	}
	if n.SrLocalBlock != nil {
		w.writeFunc(uint16(NodeAttrCodeSrLocalBlock), n.SrLocalBlock.serialize)
	}
	if n.MSDs != nil {
		w.write(uint16(NodeAttrCodeNodeMSD), serializeMSDs(n.MSDs))
	}
	if n.SrmsPreference != nil {
		w.write(uint16(NodeAttrCodeSrmsPreference), []byte{*n.SrmsPreference})
	}

	return w.bytes()
}
