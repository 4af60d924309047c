// Package dispatch drives a payment or QR request from validated
// parameters through server negotiation to channel-specific invocation,
// as an explicit state machine run on a bounded worker pool.
package dispatch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/paychan/channel"
	"github.com/noah-isme/paychan/obs"
	"github.com/noah-isme/paychan/outcome"
	"github.com/noah-isme/paychan/qr"
	"github.com/noah-isme/paychan/registry"
	"github.com/noah-isme/paychan/request"
	"github.com/noah-isme/paychan/sign"
	"github.com/noah-isme/paychan/transport"
	"github.com/noah-isme/paychan/unify"
)

// Dispatcher coordinates a request across the signer, the transport
// gateway, the vendor collaborators and the callback registry. Exactly
// one terminal outcome is delivered per submitted request.
type Dispatcher struct {
	Signer   sign.Signer
	Gateway  transport.Gateway
	Registry *registry.Registry
	Invoker  AppInvoker
	Payer    BlockingPayer
	Redirect RedirectStarter
	QR       qr.Coordinator
	Pool     *Pool
	Logger   zerolog.Logger
	Metrics  *obs.PayMetrics

	PayURL    string
	QRURL     string
	RefundURL string
}

// Submit queues a payment or QR request and returns its correlation id.
// A nil handler makes the call a logged no-op: there is no meaningful
// outcome to deliver, so nothing is dispatched.
func (d *Dispatcher) Submit(req request.PaymentRequest, h registry.Handler) string {
	if h == nil {
		d.Logger.Warn().
			Str("channel", req.Channel.String()).
			Str("bill_no", req.BillNum).
			Msg("nil completion handler, request not dispatched")
		return ""
	}
	id := uuid.NewString()
	if err := d.Registry.Register(id, h); err != nil {
		d.Logger.Error().Str("request_id", id).Err(err).Msg("handler registration failed")
		return ""
	}
	pool := d.Pool
	if pool == nil {
		pool = NewPool(1)
		d.Pool = pool
	}
	r := &run{d: d, id: id, req: req, state: StateIdle, start: time.Now()}
	pool.Go(r.do)
	return id
}

// Resolve feeds an externally produced completion, a vendor framework
// injection or the redirect screen's result, back into the registry
// under the originating correlation id. It reports false when the id is
// unknown or the outcome was already delivered.
func (d *Dispatcher) Resolve(id string, out outcome.Outcome) bool {
	delivered := d.Registry.Deliver(id, out)
	if delivered {
		d.Metrics.ObserveOutcome("external", out.Status().String())
		d.Logger.Info().Str("request_id", id).Stringer("outcome", out).Msg("external_outcome_delivered")
	} else {
		d.Logger.Warn().Str("request_id", id).Msg("external outcome for unknown or completed request")
	}
	return delivered
}

// run is one request's pass through the state machine. It lives on a
// single pool worker from start to terminal state.
type run struct {
	d     *Dispatcher
	id    string
	req   request.PaymentRequest
	state State
	start time.Time
}

func (r *run) to(next State) {
	r.d.Logger.Debug().
		Str("request_id", r.id).
		Str("channel", r.req.Channel.String()).
		Str("from_state", r.state.String()).
		Str("to_state", next.String()).
		Msg("dispatch_transition")
	r.state = next
}

// deliver hands the single terminal outcome to the registry and records
// the delivery.
func (r *run) deliver(out outcome.Outcome) {
	r.to(StateDelivered)
	if !r.d.Registry.Deliver(r.id, out) {
		r.d.Logger.Error().Str("request_id", r.id).Msg("terminal outcome had no pending handler")
		return
	}
	r.d.Metrics.ObserveOutcome(r.req.Channel.String(), out.Status().String())
	r.d.Metrics.ObserveDuration(r.req.Channel.String(), r.req.Channel.Kind().String(), time.Since(r.start))
	r.d.Logger.Info().
		Str("request_id", r.id).
		Str("channel", r.req.Channel.String()).
		Stringer("outcome", out).
		Msg("outcome_delivered")
}

func (r *run) do() {
	// Detached from the caller: once submitted there is no cancellation
	// mid-flight; the request runs to a terminal state.
	ctx := context.Background()
	done := r.d.Metrics.TrackInFlight()
	defer done()

	r.to(StateValidating)
	if verr := request.Validate(r.req); verr != nil {
		r.deliver(outcome.Fail(outcome.CodeInvalidParams, verr.Error(), ""))
		return
	}

	r.to(StateBuildingRequest)
	signed, err := request.Build(ctx, r.d.Signer, r.req)
	if err != nil {
		r.deliver(outcome.Fail(outcome.CodeException, "request signing failed", err.Error()))
		return
	}

	r.to(StateAwaitingServer)
	url := r.d.PayURL
	if r.req.Channel.Kind() == channel.KindQR {
		url = r.d.QRURL
	}
	resp, err := r.d.Gateway.Post(ctx, url, signed.Form())
	if err != nil {
		r.to(StateNetworkFailed)
		r.deliver(outcome.Fail(outcome.CodeNetworkIssue, "network error", err.Error()))
		return
	}
	if resp.StatusCode != http.StatusOK {
		r.to(StateNetworkFailed)
		r.deliver(outcome.Fail(outcome.CodeNetworkIssue, "network error", http.StatusText(resp.StatusCode)))
		return
	}
	server, err := unify.ParseServerResponse(resp.Body)
	if err != nil {
		r.to(StateNetworkFailed)
		r.deliver(outcome.Fail(outcome.CodeNetworkIssue, "invalid response", err.Error()))
		return
	}
	if !server.Accepted() {
		r.to(StateServerRejected)
		r.deliver(unify.ServerReject(server))
		return
	}

	if r.req.Channel.Kind() == channel.KindQR {
		r.to(StateQRReady)
		out := r.d.QR.Resolve(r.req.Channel, server, qr.Options{
			RenderImage: r.req.RenderImage,
			Size:        r.req.QRSize,
		})
		r.deliver(out)
		return
	}

	r.to(StateChannelInvoke)
	r.invoke(ctx, server)
}

// invoke branches on the payment channel. An enumeration value that
// reaches this point without matching a known channel is an
// INVALID_PARAMS failure; there is no default vendor path.
func (r *run) invoke(ctx context.Context, server unify.ServerResponse) {
	switch r.req.Channel {
	case channel.WechatApp:
		if r.d.Invoker == nil {
			r.deliver(outcome.Fail(outcome.CodeException, "vendor handle not initialised", ""))
			return
		}
		inv := AppInvocation{
			AppID:     server.Str("app_id"),
			PartnerID: server.Str("partner_id"),
			PrepayID:  server.Str("prepay_id"),
			Package:   server.Str("package"),
			NonceStr:  server.Str("nonce_str"),
			Timestamp: server.Str("timestamp"),
			PaySign:   server.Str("pay_sign"),
		}
		if err := r.d.Invoker.Invoke(ctx, r.id, inv); err != nil {
			r.deliver(outcome.Fail(outcome.CodeException, "vendor invocation failed", err.Error()))
			return
		}
		// Completion is injected later through Resolve with this id.
		r.d.Logger.Info().Str("request_id", r.id).Msg("vendor_invocation_started")

	case channel.AlipayApp:
		if r.d.Payer == nil {
			r.deliver(outcome.Fail(outcome.CodeException, "vendor handle not initialised", ""))
			return
		}
		raw, err := r.d.Payer.Pay(ctx, server.Str("order_string"))
		if err != nil {
			r.deliver(outcome.Fail(outcome.CodeChannelError, "vendor pay call failed", err.Error()))
			return
		}
		r.deliver(unify.BlockingPayOutcome(raw))

	case channel.UnionApp:
		if r.d.Redirect == nil {
			r.deliver(outcome.Fail(outcome.CodeException, "redirect screen not configured", ""))
			return
		}
		if err := r.d.Redirect.Start(ctx, r.id, server.Str("tn")); err != nil {
			r.deliver(outcome.Fail(outcome.CodeException, "redirect start failed", err.Error()))
			return
		}
		// Completion arrives later through Resolve with this id.
		r.d.Logger.Info().Str("request_id", r.id).Msg("redirect_started")

	default:
		r.deliver(outcome.Fail(outcome.CodeInvalidParams, "channel has no vendor invocation path", string(r.req.Channel)))
	}
}

// FailError is a taxonomy-coded error returned by the synchronous query
// paths.
type FailError struct {
	F outcome.Failure
}

func (e *FailError) Error() string { return e.F.String() }

// AsFailure extracts the taxonomy failure from an error produced by this
// package.
func AsFailure(err error) (outcome.Failure, bool) {
	var fe *FailError
	if errors.As(err, &fe) {
		return fe.F, true
	}
	return outcome.Failure{}, false
}

func failErr(code outcome.Code, message, detail string) *FailError {
	if message == "" {
		message = code.Message()
	}
	return &FailError{F: outcome.Failure{Code: code, Message: message, Detail: detail}}
}

// QueryRefundStatus runs the refund-status query through the same signed
// envelope and unification machinery as payments. It is synchronous; the
// caller's context bounds the call.
func (d *Dispatcher) QueryRefundStatus(ctx context.Context, refundNum string) (outcome.RefundQuery, error) {
	if refundNum == "" {
		return outcome.RefundQuery{}, failErr(outcome.CodeInvalidParams, "refund number is required", "")
	}
	tok, err := d.Signer.Sign(ctx)
	if err != nil {
		return outcome.RefundQuery{}, failErr(outcome.CodeException, "request signing failed", err.Error())
	}
	resp, err := d.Gateway.Post(ctx, d.RefundURL, request.RefundQueryForm(tok, refundNum))
	if err != nil {
		return outcome.RefundQuery{}, failErr(outcome.CodeNetworkIssue, "network error", err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return outcome.RefundQuery{}, failErr(outcome.CodeNetworkIssue, "network error", http.StatusText(resp.StatusCode))
	}
	server, err := unify.ParseServerResponse(resp.Body)
	if err != nil {
		return outcome.RefundQuery{}, failErr(outcome.CodeNetworkIssue, "invalid response", err.Error())
	}
	if !server.Accepted() {
		return outcome.RefundQuery{}, failErr(outcome.CodeServerError, server.Message, server.Detail)
	}
	query, err := unify.RefundStatusResult(server)
	if err != nil {
		return outcome.RefundQuery{}, failErr(outcome.CodeChannelError, "unrecognised refund status", err.Error())
	}
	return query, nil
}
