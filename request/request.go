// Package request validates raw payment parameters and assembles the
// signed key/value payload posted to the backend.
package request

import (
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/paychan/channel"
)

// TitleMaxBytes bounds the UTF-8 encoded bill title.
const TitleMaxBytes = 32

// QR display modes accepted by the in-page Alipay QR variant.
const (
	QRPayModeFront     = "0"
	QRPayModeLead      = "1"
	QRPayModeMiniFront = "3"
)

// PaymentRequest is a caller-supplied payment or QR request. It is
// immutable once validated; the dispatcher never mutates it.
type PaymentRequest struct {
	Channel channel.Channel `validate:"required"`
	// Title describes the bill, at most 32 UTF-8 bytes.
	Title string `validate:"required"`
	// TotalFee is the amount in the minor currency unit; positive.
	TotalFee int64 `validate:"required"`
	// BillNum is the merchant order id, unique per caller.
	BillNum string `validate:"required"`
	// Optional is echoed back by the backend verbatim and never
	// interpreted here.
	Optional map[string]string

	// RenderImage asks the QR coordinator to render a PNG.
	RenderImage bool
	// QRSize overrides the rendered QR edge length; zero means default.
	QRSize int
	// QRPayMode selects the embedded display mode for ALI_QRCODE.
	QRPayMode string
	// ReturnURL is the synchronous-return page, required for ALI_QRCODE.
	ReturnURL string
}

// ValidationError describes rejected caller input. Malformed input is an
// expected, reportable condition, never a panic.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request: invalid %s: %s", e.Field, e.Reason)
}

var validate = validator.New()

// Validate checks the request for well-formedness before any network
// activity. A nil return means the request may be dispatched.
func Validate(req PaymentRequest) *ValidationError {
	if !req.Channel.Valid() {
		return &ValidationError{Field: "channel", Reason: fmt.Sprintf("unknown channel %q", string(req.Channel))}
	}
	if err := validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return &ValidationError{Field: strings.ToLower(errs[0].Field()), Reason: "required"}
		}
		return &ValidationError{Field: "request", Reason: err.Error()}
	}
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if len(req.Title) > TitleMaxBytes {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("longer than %d bytes", TitleMaxBytes)}
	}
	if strings.TrimSpace(req.BillNum) == "" {
		return &ValidationError{Field: "billNum", Reason: "must not be blank"}
	}
	if req.TotalFee <= 0 {
		return &ValidationError{Field: "totalFee", Reason: "must be a positive amount in the minor currency unit"}
	}
	if req.Channel == channel.AlipayQR {
		if !validReturnURL(req.ReturnURL) {
			return &ValidationError{Field: "returnUrl", Reason: "required for ALI_QRCODE and must start with http:// or https://"}
		}
		switch req.QRPayMode {
		case "", QRPayModeFront, QRPayModeLead, QRPayModeMiniFront:
		default:
			return &ValidationError{Field: "qrPayMode", Reason: fmt.Sprintf("unsupported display mode %q", req.QRPayMode)}
		}
	}
	return nil
}

func validReturnURL(raw string) bool {
	u := strings.TrimSpace(raw)
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
