package bgpls_test

import (
	"encoding/hex"
	"fmt"
	"log"

	bgpls "github.com/opendaylight/bgpcep-sub008"
)

func ExampleUpdateCodec() {
	// mp reach body with a single ospf node nlri
	reach, _ := hex.DecodeString("400447040a00000100" +
		"0001001d" + "03" + "0000000000000000" +
		"01000010" + "020000040000fde8" + "020300040a000001")

	// bgp-ls attribute with node name and router id
	attr, _ := hex.DecodeString("040200027231" + "040400040a000001")

	codec := bgpls.NewUpdateCodec()

	m, err := codec.DecodeMpReach(reach)
	if err != nil {
		log.Fatal(err)
	}

	routes, err := codec.Pair(m.Destinations, attr)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range routes {
		n := r.Destination.Object.(*bgpls.LinkStateNlriNode)
		a := r.Attribute.(*bgpls.NodeAttributes)
		fmt.Println(r.Destination.ProtocolID, *n.LocalNodeDescriptors.ASN, *a.Name, a.IPv4RouterID)
	}
	// Output: ospf 65000 r1 10.0.0.1
}
