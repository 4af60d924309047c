package dispatch

import "context"

// AppInvocation carries the seven vendor-required fields extracted from
// an accepted Wechat app payment response, forwarded verbatim.
type AppInvocation struct {
	AppID     string
	PartnerID string
	PrepayID  string
	Package   string
	NonceStr  string
	Timestamp string
	PaySign   string
}

// AppInvoker hands an invocation to the installed Wechat vendor
// application. The user-facing flow completes out-of-band: the host must
// eventually resolve the request id through the client with the vendor's
// status. A nil invoker means the vendor handle was never initialised.
type AppInvoker interface {
	Invoke(ctx context.Context, requestID string, inv AppInvocation) error
}

// BlockingPayer runs the Alipay vendor pay call. It blocks the worker
// until the user completes or cancels in the vendor UI and returns the
// raw vendor result string.
type BlockingPayer interface {
	Pay(ctx context.Context, orderString string) (string, error)
}

// RedirectStarter opens the external screen owning the UnionPay redirect
// flow. Completion arrives later carrying the same request id.
type RedirectStarter interface {
	Start(ctx context.Context, requestID, token string) error
}
