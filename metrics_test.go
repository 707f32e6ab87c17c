package bgpls

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.Nil(t, err)

	// registering twice collides
	_, err = NewMetrics(reg)
	assert.NotNil(t, err)

	r := NewNlriRegistry(WithMetrics(m))
	b := fromHex(t, nodeNlriHex...)
	b = append(b, fromHex(t, prefixNlriHex...)...)
	b = append(b, fromHex(t, "00090002", "0000")...)

	_, err = r.Decode(b)
	assert.NotNil(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.nlriDecoded.WithLabelValues("node")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.nlriDecoded.WithLabelValues("ipv4-prefix")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.decodeErrors.WithLabelValues("unsupported_nlri_type")))

	a := NewAttributeRegistry(WithMetrics(m))
	_, err = a.Decode(ObjectKindLink, LinkStateNlriIsIsL1ProtocolID, fromHex(t, append(linkAttrHex, linkAttrUnknownHex)...))
	assert.Nil(t, err)

	assert.Equal(t, float64(len(linkAttrHex)), testutil.ToFloat64(m.tlvDecoded.WithLabelValues("link-attribute")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.tlvSkipped.WithLabelValues("link-attribute")))

	_, err = a.Decode(ObjectKindLink, LinkStateNlriIsIsL1ProtocolID, fromHex(t, "044000"))
	assert.NotNil(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.decodeErrors.WithLabelValues("truncated_tlv")))

	assert.Equal(t, 4, testutil.CollectAndCount(m.decodeErrors)+testutil.CollectAndCount(m.nlriDecoded))
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics

	// a nil *Metrics records nothing and does not panic
	m.nlri(LinkStateNlriNodeType)
	m.tlv("node-attribute")
	m.skip("node-attribute")
	m.err(ErrMalformedTlv)

	m, err := NewMetrics(nil)
	require.Nil(t, err)
	m.err(nil)
	assert.Equal(t, 0, testutil.CollectAndCount(m.decodeErrors))
}

func TestObserverLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.JSONFormatter{})

	a := NewAttributeRegistry(WithLogger(l.WithField("test", "observer")))
	_, err := a.Decode(ObjectKindNode, LinkStateNlriIsIsL1ProtocolID, fromHex(t, "0fff0001", "00"))
	assert.Nil(t, err)

	assert.Contains(t, buf.String(), `"msg":"skipping unknown tlv"`)
	assert.Contains(t, buf.String(), `"context":"node-attribute"`)
	assert.Contains(t, buf.String(), `"type":4095`)
	assert.Contains(t, buf.String(), `"test":"observer"`)

	// unsupported rsvp objects are warnings
	buf.Reset()
	l.SetLevel(logrus.WarnLevel)
	_, err = a.Decode(ObjectKindTeLsp, LinkStateNlriRsvpTeProtocolID, fromHex(t, "00630008", "0004c501", "00000000"))
	assert.Nil(t, err)
	assert.Contains(t, buf.String(), `"msg":"unsupported object"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}
