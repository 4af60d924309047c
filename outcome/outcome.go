// Package outcome defines the single result vocabulary every channel must
// converge to: a tagged variant of Success, Cancel, Fail or QRCode, plus
// the closed failure taxonomy and the refund-status set.
package outcome

import "fmt"

// Code is the machine-readable failure classification. The set is closed;
// every failure anywhere in the SDK resolves to exactly one of these.
type Code string

const (
	// CodeException marks an internal or configuration fault, e.g. a
	// signer failure or an uninitialised vendor handle.
	CodeException Code = "EXCEPTION"
	// CodeInvalidParams marks caller-supplied data that failed validation,
	// or an unrecognised channel reaching dispatch.
	CodeInvalidParams Code = "INVALID_PARAMS"
	// CodeNetworkIssue marks a transport failure, non-200 status or an
	// unparsable response body.
	CodeNetworkIssue Code = "NETWORK_ISSUE"
	// CodeServerError marks an explicit backend rejection (nonzero
	// result_code); message and detail pass through verbatim.
	CodeServerError Code = "ERR_FROM_SERVER"
	// CodeChannelError marks a failure reported by the vendor channel
	// itself, distinct from user cancellation.
	CodeChannelError Code = "ERR_FROM_CHANNEL"
)

// Message returns the fixed human-readable description for the code.
func (c Code) Message() string {
	switch c {
	case CodeException:
		return "internal or configuration fault"
	case CodeInvalidParams:
		return "invalid request parameters"
	case CodeNetworkIssue:
		return "network error talking to the payment backend"
	case CodeServerError:
		return "payment backend rejected the request"
	case CodeChannelError:
		return "payment channel reported a failure"
	default:
		return "unknown failure"
	}
}

// Status tags the variant an Outcome carries.
type Status int

const (
	// StatusSuccess means the channel reported a completed payment.
	StatusSuccess Status = iota
	// StatusCancel means the user abandoned the vendor flow.
	StatusCancel
	// StatusFail carries a Failure from the closed taxonomy.
	StatusFail
	// StatusQR carries generated QR content; QR requests have no
	// success/cancel/fail distinction.
	StatusQR
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCancel:
		return "cancel"
	case StatusFail:
		return "fail"
	case StatusQR:
		return "qrcode"
	default:
		return "unknown"
	}
}

// Failure describes one resolved failure.
type Failure struct {
	Code    Code
	Message string
	// Detail carries pass-through context such as the backend's
	// err_detail or the raw vendor result string.
	Detail string
}

func (f Failure) String() string {
	if f.Detail == "" {
		return fmt.Sprintf("%s: %s", f.Code, f.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", f.Code, f.Message, f.Detail)
}

// DefaultQRSize is the rendered QR edge length in pixels when the caller
// does not supply one.
const DefaultQRSize = 360

// QRResult carries generated QR content and, when requested, the rendered
// PNG image.
type QRResult struct {
	Content string
	Width   int
	Height  int
	// PNG is nil unless the caller asked for a rendered image.
	PNG []byte
	// EmbeddedHTML is populated for the in-page Alipay QR variant only.
	EmbeddedHTML string
}

// Outcome is the one terminal result type delivered for every request.
// Exactly one of the variants is populated, selected by Status.
type Outcome struct {
	status Status
	fail   Failure
	qr     QRResult
}

// Success builds a success outcome.
func Success() Outcome {
	return Outcome{status: StatusSuccess}
}

// Cancel builds a user-cancelled outcome.
func Cancel() Outcome {
	return Outcome{status: StatusCancel}
}

// Fail builds a failure outcome for the given code. An empty message is
// replaced by the code's fixed description.
func Fail(code Code, message, detail string) Outcome {
	if message == "" {
		message = code.Message()
	}
	return Outcome{status: StatusFail, fail: Failure{Code: code, Message: message, Detail: detail}}
}

// QR builds a QR-content outcome.
func QR(res QRResult) Outcome {
	if res.Width <= 0 {
		res.Width = DefaultQRSize
	}
	if res.Height <= 0 {
		res.Height = DefaultQRSize
	}
	return Outcome{status: StatusQR, qr: res}
}

// Status reports which variant the outcome carries.
func (o Outcome) Status() Status { return o.status }

// Failure returns the failure payload; ok is false unless StatusFail.
func (o Outcome) Failure() (Failure, bool) {
	return o.fail, o.status == StatusFail
}

// QRCode returns the QR payload; ok is false unless StatusQR.
func (o Outcome) QRCode() (QRResult, bool) {
	return o.qr, o.status == StatusQR
}

func (o Outcome) String() string {
	switch o.status {
	case StatusFail:
		return o.fail.String()
	case StatusQR:
		return fmt.Sprintf("qrcode %dx%d", o.qr.Width, o.qr.Height)
	default:
		return o.status.String()
	}
}
