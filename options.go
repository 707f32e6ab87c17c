package bgpls

import (
	"github.com/sirupsen/logrus"

	"github.com/opendaylight/bgpcep-sub008/rsvp"
)

const (
	loggerErrorField = "error"
)

type options struct {
	logger  *logrus.Entry
	metrics *Metrics
	vpn     bool
	rsvp    rsvp.Registry
}

// Option configures a NlriRegistry or AttributeRegistry.
type Option func(*options)

// WithLogger sets the logger unknown tlvs and unsupported objects are
// reported to.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records decode activity into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithVPN makes a NlriRegistry expect an 8 byte route distinguisher ahead of
// every nlri element.
func WithVPN() Option {
	return func(o *options) {
		o.vpn = true
	}
}

func withoutVPN() Option {
	return func(o *options) {
		o.vpn = false
	}
}

// WithRsvpRegistry replaces the registry te-lsp rsvp objects are delegated to.
func WithRsvpRegistry(r rsvp.Registry) Option {
	return func(o *options) {
		o.rsvp = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: logrus.WithField("codec", "bgpls"),
		rsvp:   rsvp.NewRegistry(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func (o *options) observer() *observer {
	return &observer{logger: o.logger, metrics: o.metrics}
}

// observer reports skipped and decoded tlvs while walking a tlv tree.
type observer struct {
	logger  *logrus.Entry
	metrics *Metrics
}

func (o *observer) skipped(context string, t uint16, v []byte) {
	if o == nil {
		return
	}

	o.logger.WithFields(logrus.Fields{
		"context": context,
		"type":    t,
		"length":  len(v),
	}).Debug("skipping unknown tlv")
	o.metrics.skip(context)
}

func (o *observer) decoded(context string) {
	if o == nil {
		return
	}

	o.metrics.tlv(context)
}

func (o *observer) unsupported(context string, err error) {
	if o == nil {
		return
	}

	o.logger.WithField("context", context).WithField(loggerErrorField, err).Warn("unsupported object")
	o.metrics.err(err)
}
