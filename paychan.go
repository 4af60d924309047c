// Package paychan is a client SDK for a hosted payment gateway. It
// submits payment and QR requests over six channels, unifies the wildly
// different vendor result conventions into one outcome vocabulary and
// delivers exactly one completion per request.
package paychan

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/paychan/channel"
	"github.com/noah-isme/paychan/config"
	"github.com/noah-isme/paychan/dispatch"
	"github.com/noah-isme/paychan/obs"
	"github.com/noah-isme/paychan/outcome"
	"github.com/noah-isme/paychan/qr"
	"github.com/noah-isme/paychan/registry"
	"github.com/noah-isme/paychan/request"
	"github.com/noah-isme/paychan/sign"
	"github.com/noah-isme/paychan/transport"
)

// Backend REST paths relative to the configured base URL.
const (
	payPath    = "/rest/bill"
	qrPath     = "/rest/qrcode"
	refundPath = "/rest/refund/status"
)

// Handler receives the single terminal outcome of a submitted request.
type Handler = registry.Handler

// Client is the SDK entry point. Construct it once with New and share it;
// all methods are safe for concurrent use.
type Client struct {
	cfg *config.Config
	d   *dispatch.Dispatcher
	log zerolog.Logger
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.log = logger; c.d.Logger = logger }
}

// WithAppInvoker installs the in-app invocation collaborator for the
// Wechat app channel. Without one, Wechat app payments fail with an
// EXCEPTION outcome.
func WithAppInvoker(inv dispatch.AppInvoker) Option {
	return func(c *Client) { c.d.Invoker = inv }
}

// WithBlockingPayer installs the blocking pay collaborator for the
// Alipay app channel.
func WithBlockingPayer(p dispatch.BlockingPayer) Option {
	return func(c *Client) { c.d.Payer = p }
}

// WithRedirectStarter installs the redirect collaborator for the
// UnionPay app channel.
func WithRedirectStarter(r dispatch.RedirectStarter) Option {
	return func(c *Client) { c.d.Redirect = r }
}

// WithGateway replaces the HTTP gateway, mainly for tests.
func WithGateway(g transport.Gateway) Option {
	return func(c *Client) { c.d.Gateway = g }
}

// WithMetrics installs Prometheus collectors for outcome and latency
// observation.
func WithMetrics(m *obs.PayMetrics) Option {
	return func(c *Client) { c.d.Metrics = m }
}

// WithQRRenderer replaces the PNG renderer used when a request asks for
// a rendered image.
func WithQRRenderer(r qr.Renderer) Option {
	return func(c *Client) { c.d.QR = qr.Coordinator{Renderer: r} }
}

// New builds a Client from the configuration. The configuration must
// carry non-empty credentials; everything else has defaults.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.AppID) == "" || strings.TrimSpace(cfg.AppSecret) == "" {
		return nil, sign.ErrMissingCredentials
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	breaker := transport.NewBreaker(cfg.BreakerMinRequests, cfg.BreakerFailureRatio, cfg.BreakerOpenFor).
		WithLogger(logger)

	c := &Client{
		cfg: cfg,
		log: logger,
		d: &dispatch.Dispatcher{
			Signer: sign.AppSigner{AppID: cfg.AppID, AppSecret: cfg.AppSecret},
			Gateway: transport.HTTPGateway{
				Breaker: breaker,
				Timeout: cfg.HTTPTimeout,
				Logger:  logger,
			},
			Registry:  registry.New(),
			Pool:      dispatch.NewPool(cfg.PoolSize),
			Logger:    logger,
			PayURL:    endpoint(cfg.APIBaseURL, payPath),
			QRURL:     endpoint(cfg.APIBaseURL, qrPath),
			RefundURL: endpoint(cfg.APIBaseURL, refundPath),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit dispatches an arbitrary payment or QR request and returns its
// correlation id. The handler receives exactly one outcome; a nil
// handler makes the call a no-op.
func (c *Client) Submit(req request.PaymentRequest, h Handler) string {
	if req.QRSize == 0 {
		req.QRSize = c.cfg.QRSize
	}
	return c.d.Submit(req, h)
}

// Resolve injects an externally produced completion, such as the vendor
// framework's callback for a Wechat app payment or the redirect screen's
// result, under the correlation id returned by Submit.
func (c *Client) Resolve(id string, out outcome.Outcome) bool {
	return c.d.Resolve(id, out)
}

// QueryRefundStatus asks the backend for the state of a previously filed
// refund. The returned query distinguishes "no matching record" from the
// recognised refund states.
func (c *Client) QueryRefundStatus(ctx context.Context, refundNum string) (outcome.RefundQuery, error) {
	return c.d.QueryRefundStatus(ctx, refundNum)
}

// RequestWechatPayment starts an in-app Wechat payment.
func (c *Client) RequestWechatPayment(title string, totalFee int64, billNum string, optional map[string]string, h Handler) string {
	return c.Submit(request.PaymentRequest{
		Channel: channel.WechatApp, Title: title, TotalFee: totalFee, BillNum: billNum, Optional: optional,
	}, h)
}

// RequestAlipayPayment starts an in-app Alipay payment.
func (c *Client) RequestAlipayPayment(title string, totalFee int64, billNum string, optional map[string]string, h Handler) string {
	return c.Submit(request.PaymentRequest{
		Channel: channel.AlipayApp, Title: title, TotalFee: totalFee, BillNum: billNum, Optional: optional,
	}, h)
}

// RequestUnionPayment starts a UnionPay payment through the redirect
// screen.
func (c *Client) RequestUnionPayment(title string, totalFee int64, billNum string, optional map[string]string, h Handler) string {
	return c.Submit(request.PaymentRequest{
		Channel: channel.UnionApp, Title: title, TotalFee: totalFee, BillNum: billNum, Optional: optional,
	}, h)
}

// RequestWechatQRCode requests a Wechat native QR payment. With
// renderImage set the outcome carries a PNG of the given size.
func (c *Client) RequestWechatQRCode(title string, totalFee int64, billNum string, optional map[string]string, renderImage bool, size int, h Handler) string {
	return c.Submit(request.PaymentRequest{
		Channel: channel.WechatNative, Title: title, TotalFee: totalFee, BillNum: billNum,
		Optional: optional, RenderImage: renderImage, QRSize: size,
	}, h)
}

// RequestAlipayQRCode requests an in-page Alipay QR payment. returnURL is
// mandatory for this channel and qrPayMode selects the display mode.
func (c *Client) RequestAlipayQRCode(title string, totalFee int64, billNum string, optional map[string]string, returnURL, qrPayMode string, h Handler) string {
	return c.Submit(request.PaymentRequest{
		Channel: channel.AlipayQR, Title: title, TotalFee: totalFee, BillNum: billNum,
		Optional: optional, ReturnURL: returnURL, QRPayMode: qrPayMode,
	}, h)
}

// RequestAlipayOfflineQRCode requests an offline Alipay QR payment.
func (c *Client) RequestAlipayOfflineQRCode(title string, totalFee int64, billNum string, optional map[string]string, renderImage bool, size int, h Handler) string {
	return c.Submit(request.PaymentRequest{
		Channel: channel.AlipayOfflineQR, Title: title, TotalFee: totalFee, BillNum: billNum,
		Optional: optional, RenderImage: renderImage, QRSize: size,
	}, h)
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
