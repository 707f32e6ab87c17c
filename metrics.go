package bgpls

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts codec activity. A nil *Metrics records nothing.
type Metrics struct {
	nlriDecoded  *prometheus.CounterVec
	tlvDecoded   *prometheus.CounterVec
	tlvSkipped   *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
}

// NewMetrics creates the codec counters and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		nlriDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bgpls",
			Name:      "nlri_decoded_total",
			Help:      "Link state nlri elements decoded, by nlri type.",
		}, []string{"type"}),
		tlvDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bgpls",
			Name:      "tlv_decoded_total",
			Help:      "Recognized attribute tlvs decoded, by object context.",
		}, []string{"context"}),
		tlvSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bgpls",
			Name:      "tlv_skipped_total",
			Help:      "Unrecognized tlvs skipped, by context.",
		}, []string{"context"}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bgpls",
			Name:      "decode_errors_total",
			Help:      "Decode failures, by error.",
		}, []string{"error"}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.nlriDecoded, m.tlvDecoded, m.tlvSkipped, m.decodeErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) nlri(t LinkStateNlriType) {
	if m == nil {
		return
	}
	m.nlriDecoded.WithLabelValues(t.String()).Inc()
}

func (m *Metrics) tlv(context string) {
	if m == nil {
		return
	}
	m.tlvDecoded.WithLabelValues(context).Inc()
}

func (m *Metrics) skip(context string) {
	if m == nil {
		return
	}
	m.tlvSkipped.WithLabelValues(context).Inc()
}

func (m *Metrics) err(err error) {
	if m == nil || err == nil {
		return
	}
	m.decodeErrors.WithLabelValues(errorLabel(err)).Inc()
}
