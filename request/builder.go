package request

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/paychan/channel"
	"github.com/noah-isme/paychan/sign"
)

// Signed is a validated request plus the application identity triple.
// The signature covers exactly the fields serialised by Form; extras are
// only present for their applicable channel.
type Signed struct {
	PaymentRequest
	Token sign.Token
}

// Build invokes the signer and attaches the identity triple. A signer
// failure is a configuration fault, distinct from validation and network
// errors, and is reported as a wrapped error.
func Build(ctx context.Context, signer sign.Signer, req PaymentRequest) (Signed, error) {
	if signer == nil {
		return Signed{}, fmt.Errorf("request: build: %w", sign.ErrMissingCredentials)
	}
	tok, err := signer.Sign(ctx)
	if err != nil {
		return Signed{}, fmt.Errorf("request: sign: %w", err)
	}
	return Signed{PaymentRequest: req, Token: tok}, nil
}

// Form serialises the signed request into the backend's key/value
// contract.
func (s Signed) Form() map[string]any {
	form := map[string]any{
		"app_id":    s.Token.AppID,
		"timestamp": s.Token.Timestamp,
		"app_sign":  s.Token.Signature,
		"channel":   string(s.Channel),
		"total_fee": s.TotalFee,
		"bill_no":   s.BillNum,
		"title":     s.Title,
	}
	if len(s.Optional) > 0 {
		form["optional"] = s.Optional
	}
	if s.Channel == channel.AlipayQR {
		form["return_url"] = strings.TrimSpace(s.ReturnURL)
		if s.QRPayMode != "" {
			form["qr_pay_mode"] = s.QRPayMode
		}
	}
	return form
}

// RefundQueryForm serialises a refund-status query envelope. It reuses
// the signed identity triple with the merchant refund number.
func RefundQueryForm(tok sign.Token, refundNum string) map[string]any {
	return map[string]any{
		"app_id":    tok.AppID,
		"timestamp": tok.Timestamp,
		"app_sign":  tok.Signature,
		"refund_no": strings.TrimSpace(refundNum),
	}
}
