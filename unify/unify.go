// Package unify maps each channel's heterogeneous completion vocabulary
// (numeric vendor codes, delimiter-embedded statuses and backend result
// codes) onto the one outcome type all channels converge to.
package unify

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/noah-isme/paychan/outcome"
)

// ServerResponse is the parsed backend envelope: a result code (0 means
// accepted) plus a channel-specific payload map. Consumed once, never
// persisted.
type ServerResponse struct {
	ResultCode int
	Message    string
	Detail     string
	Payload    map[string]any
}

// ParseServerResponse decodes a raw backend body. An unparsable body or a
// missing result_code is a network-level failure, not a server rejection.
func ParseServerResponse(body []byte) (ServerResponse, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ServerResponse{}, fmt.Errorf("unify: unparsable response body: %w", err)
	}
	code, ok := raw["result_code"].(float64)
	if !ok {
		return ServerResponse{}, fmt.Errorf("unify: response missing result_code")
	}
	resp := ServerResponse{ResultCode: int(code), Payload: raw}
	if msg, ok := raw["result_msg"].(string); ok {
		resp.Message = msg
	}
	if detail, ok := raw["err_detail"].(string); ok {
		resp.Detail = detail
	}
	return resp, nil
}

// Accepted reports whether the backend accepted the request.
func (r ServerResponse) Accepted() bool { return r.ResultCode == 0 }

// Str returns the payload field as a string, empty when absent or not a
// string.
func (r ServerResponse) Str(key string) string {
	v, _ := r.Payload[key].(string)
	return v
}

// ServerReject maps a nonzero-result response onto the outcome taxonomy,
// passing the backend's message and detail through verbatim.
func ServerReject(resp ServerResponse) outcome.Outcome {
	return outcome.Fail(outcome.CodeServerError, resp.Message, resp.Detail)
}

// payResultPattern is the fixed grammar the blocking pay call's result
// status is embedded in. Extraction happens only through this delimiter,
// never by any other heuristic.
var payResultPattern = regexp.MustCompile(`resultStatus=\{(\d+?)\}`)

// ExtractPayStatus locates the delimited digit run inside a raw vendor
// pay result. ok is false when the grammar does not match; callers map
// that to a channel failure, never to a silent empty default.
func ExtractPayStatus(raw string) (string, bool) {
	m := payResultPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// BlockingPayOutcome maps the raw result of the in-app blocking pay call
// onto the outcome vocabulary. The table is total: 8000 and 9000 are
// success, 6001 is user cancellation, and everything else, including an
// unparsable result, is a channel failure carrying the raw string.
func BlockingPayOutcome(raw string) outcome.Outcome {
	status, ok := ExtractPayStatus(raw)
	if !ok {
		return outcome.Fail(outcome.CodeChannelError, "unparsable vendor pay result", raw)
	}
	switch status {
	case "8000", "9000":
		return outcome.Success()
	case "6001":
		return outcome.Cancel()
	default:
		return outcome.Fail(outcome.CodeChannelError, fmt.Sprintf("vendor reported status %s", status), raw)
	}
}

// AppInvokeOutcome maps the vendor status injected after a Wechat in-app
// invocation onto the outcome vocabulary: 0 is success, -2 is user
// cancellation, anything else is a channel failure.
func AppInvokeOutcome(vendorStatus int, detail string) outcome.Outcome {
	switch vendorStatus {
	case 0:
		return outcome.Success()
	case -2:
		return outcome.Cancel()
	default:
		return outcome.Fail(outcome.CodeChannelError, fmt.Sprintf("vendor reported status %d", vendorStatus), detail)
	}
}

// RefundStatusResult extracts the refund status from an accepted query
// response. Absence of the field signals "no matching record", distinct
// from a server rejection; an out-of-set value is a channel failure.
func RefundStatusResult(resp ServerResponse) (outcome.RefundQuery, error) {
	raw, ok := resp.Payload["refund_status"].(string)
	if !ok || raw == "" {
		return outcome.RefundQuery{Found: false}, nil
	}
	status, err := outcome.ParseRefundStatus(raw)
	if err != nil {
		return outcome.RefundQuery{}, err
	}
	return outcome.RefundQuery{Found: true, Status: status}, nil
}
