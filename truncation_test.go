package bgpls

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tlvBoundaries returns the offsets in b at which a top level tlv ends.
func tlvBoundaries(b []byte) map[int]bool {
	ends := make(map[int]bool)
	for i := 0; i+tlvHeaderLen <= len(b); {
		i += tlvHeaderLen + int(binary.BigEndian.Uint16(b[i+2:i+4]))
		ends[i] = true
	}
	return ends
}

func TestTruncatedFixtures(t *testing.T) {
	attrs := NewAttributeRegistry()
	nlri := NewNlriRegistry()

	attrDecoder := func(kind ObjectKind, id LinkStateNlriProtocolID) func([]byte) (interface{}, error) {
		return func(b []byte) (interface{}, error) {
			return attrs.Decode(kind, id, b)
		}
	}
	nlriDecoder := func(b []byte) (interface{}, error) {
		return nlri.Decode(b)
	}

	teLsp := fromHex(t, tspecObjectHex, association4ObjectHex, association6ObjectHex)
	teLspAttr := append([]byte{0, 0x63, 0, uint8(len(teLsp))}, teLsp...)

	cases := []struct {
		name   string
		b      []byte
		decode func([]byte) (interface{}, error)
	}{
		{"link attribute", fromHex(t, linkAttrHex...), attrDecoder(ObjectKindLink, LinkStateNlriIsIsL1ProtocolID)},
		{"node attribute", fromHex(t, nodeAttrHex...), attrDecoder(ObjectKindNode, LinkStateNlriIsIsL1ProtocolID)},
		{"node sr attribute", fromHex(t, nodeAttrSrHex...), attrDecoder(ObjectKindNode, LinkStateNlriIsIsL1ProtocolID)},
		{"prefix attribute isis", fromHex(t, prefixAttrHex...), attrDecoder(ObjectKindPrefix, LinkStateNlriIsIsL1ProtocolID)},
		{"prefix attribute ospf", fromHex(t, prefixAttrHex...), attrDecoder(ObjectKindPrefix, LinkStateNlriOSPFv2ProtocolID)},
		{"te-lsp attribute", teLspAttr, attrDecoder(ObjectKindTeLsp, LinkStateNlriRsvpTeProtocolID)},
		{"node nlri", fromHex(t, nodeNlriHex...), nlriDecoder},
		{"link nlri", fromHex(t, linkNlriHex...), nlriDecoder},
		{"prefix nlri", fromHex(t, prefixNlriHex...), nlriDecoder},
		{"te-lsp nlri", fromHex(t, teLspNlriHex...), nlriDecoder},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// decoding is repeatable
			first, err := c.decode(c.b)
			require.Nil(t, err)
			second, err := c.decode(c.b)
			require.Nil(t, err)
			assert.Equal(t, first, second)

			ends := tlvBoundaries(c.b)
			for i := 1; i < len(c.b); i++ {
				if ends[i] {
					continue
				}

				cut := append([]byte{}, c.b[:i]...)
				assert.NotPanics(t, func() {
					_, err = c.decode(cut)
				})
				assert.True(t, errors.Is(err, ErrTruncatedTlv), "cut at %d: %v", i, err)
			}
		})
	}
}
