package bgpls

import (
	"errors"
	"fmt"

	"github.com/opendaylight/bgpcep-sub008/rsvp"
)

// NotifErrCode is a notifcation message error code
type NotifErrCode uint8

// NotifErrCode values
const (
	_ NotifErrCode = iota
	NotifErrCodeMessageHeader
	NotifErrCodeOpenMessage
	NotifErrCodeUpdateMessage
	NotifErrCodeHoldTimerExpired
	NotifErrCodeFsmError
	NotifErrCodeCease
)

// NotifErrSubcode is a notification message error subcode
type NotifErrSubcode uint8

// update message subcodes
const (
	_ NotifErrSubcode = iota
	NotifErrSubcodeMalformedAttr
	NotifErrSubcodeUnrecognizedWellKnownAttr
	NotifErrSubcodeMissingWellKnownAttr
	NotifErrSubcodeAttrFlagsError
	NotifErrSubcodeAttrLenError
	NotifErrSubcodeInvalidOrigin
	_
	NotifErrSubcodeInvalidNextHop
	NotifErrSubcodeOptionalAttrError
	NotifErrSubcodeInvalidNetworkField
	NotifErrSubcodeMalformedAsPath
)

// Codec errors. Every error returned by a decoder or encoder wraps exactly one
// of these and can be matched with errors.Is.
var (
	ErrTruncatedTlv                = errors.New("truncated tlv")
	ErrMalformedTlv                = errors.New("malformed tlv")
	ErrUnsupportedNlriType         = errors.New("unsupported nlri type")
	ErrUnsupportedAttributeContext = errors.New("unsupported attribute context")
	ErrMalformedRouterIdentifier   = errors.New("malformed router identifier")
	ErrMissingRouterIdentifier     = errors.New("missing router identifier")
	ErrMissingPrefix               = errors.New("missing prefix")
	ErrSubTlvDepth                 = errors.New("sub-tlv nesting too deep")
	ErrUnsupportedAddressFamily    = errors.New("unsupported address family")

	ErrUnsupportedAssociationType = rsvp.ErrUnsupportedAssociationType
	ErrUnsupportedObject          = rsvp.ErrUnsupportedObject
)

type errWithNotification struct {
	error
	code    NotifErrCode
	subcode NotifErrSubcode
	data    []byte
}

func (e *errWithNotification) Unwrap() error {
	return e.error
}

func malformedAttrErr(sentinel error, format string, args ...interface{}) error {
	return &errWithNotification{
		error:   fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
		code:    NotifErrCodeUpdateMessage,
		subcode: NotifErrSubcodeMalformedAttr,
	}
}

func optionalAttrErr(sentinel error, format string, args ...interface{}) error {
	return &errWithNotification{
		error:   fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
		code:    NotifErrCodeUpdateMessage,
		subcode: NotifErrSubcodeOptionalAttrError,
	}
}

func invalidNetworkErr(sentinel error, format string, args ...interface{}) error {
	return &errWithNotification{
		error:   fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
		code:    NotifErrCodeUpdateMessage,
		subcode: NotifErrSubcodeInvalidNetworkField,
	}
}

// withData attaches b as notification data to err unless a deeper decoder
// already attached the offending bytes.
func withData(err error, b []byte) error {
	var n *errWithNotification
	if errors.As(err, &n) && n.data == nil {
		n.data = append([]byte{}, b...)
	}

	return err
}

// Notification returns the notification message error code, subcode and data
// a bgp speaker would send for err. data holds the tlv or nlri element that
// failed to decode. ok is false when err did not originate in a decoder.
func Notification(err error) (code NotifErrCode, subcode NotifErrSubcode, data []byte, ok bool) {
	var n *errWithNotification
	if !errors.As(err, &n) {
		return 0, 0, nil, false
	}

	return n.code, n.subcode, n.data, true
}

// errorLabel maps err onto a short stable name used for metric labels.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, ErrTruncatedTlv):
		return "truncated_tlv"
	case errors.Is(err, ErrMalformedTlv):
		return "malformed_tlv"
	case errors.Is(err, ErrUnsupportedNlriType):
		return "unsupported_nlri_type"
	case errors.Is(err, ErrUnsupportedAttributeContext):
		return "unsupported_attribute_context"
	case errors.Is(err, ErrMalformedRouterIdentifier):
		return "malformed_router_identifier"
	case errors.Is(err, ErrMissingRouterIdentifier):
		return "missing_router_identifier"
	case errors.Is(err, ErrMissingPrefix):
		return "missing_prefix"
	case errors.Is(err, ErrSubTlvDepth):
		return "sub_tlv_depth"
	case errors.Is(err, ErrUnsupportedAddressFamily):
		return "unsupported_address_family"
	case errors.Is(err, ErrUnsupportedAssociationType):
		return "unsupported_association_type"
	case errors.Is(err, ErrUnsupportedObject):
		return "unsupported_object"
	default:
		return "other"
	}
}
