// Command paydemo exercises the payment client against a configured
// backend with stub vendor collaborators. It submits one request per
// supported channel kind and prints the delivered outcomes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/paychan"
	"github.com/noah-isme/paychan/config"
	"github.com/noah-isme/paychan/dispatch"
	"github.com/noah-isme/paychan/obs"
	"github.com/noah-isme/paychan/outcome"
	"github.com/noah-isme/paychan/unify"
)

type stubPayer struct{}

func (stubPayer) Pay(_ context.Context, orderString string) (string, error) {
	fmt.Printf("vendor pay call with order string %q\n", orderString)
	return `resultStatus={9000}`, nil
}

type stubInvoker struct{ client *paychan.Client }

func (s stubInvoker) Invoke(_ context.Context, requestID string, inv dispatch.AppInvocation) error {
	fmt.Printf("vendor app invocation for %s (prepay %s)\n", requestID, inv.PrepayID)
	// A real integration resolves from the vendor framework's callback.
	go s.client.Resolve(requestID, unify.AppInvokeOutcome(0, ""))
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	metrics := obs.NewPayMetrics("paychan", nil, prometheus.NewRegistry())

	client, err := paychan.New(cfg,
		paychan.WithLogger(logger),
		paychan.WithBlockingPayer(stubPayer{}),
		paychan.WithMetrics(metrics),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "client:", err)
		os.Exit(1)
	}
	paychan.WithAppInvoker(stubInvoker{client: client})(client)

	results := make(chan string, 3)
	report := func(label string) paychan.Handler {
		return func(out outcome.Outcome) {
			if f, ok := out.Failure(); ok {
				results <- fmt.Sprintf("%s: %s", label, f)
				return
			}
			results <- fmt.Sprintf("%s: %s", label, out)
		}
	}

	client.RequestAlipayPayment("demo bill", 1, "DEMO-ALI-1", nil, report("alipay"))
	client.RequestWechatPayment("demo bill", 1, "DEMO-WX-1", nil, report("wechat"))
	client.RequestWechatQRCode("demo bill", 1, "DEMO-QR-1", nil, true, 0, report("wechat qr"))

	for i := 0; i < 3; i++ {
		select {
		case line := <-results:
			fmt.Println(line)
		case <-time.After(15 * time.Second):
			fmt.Println("timed out waiting for outcomes")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if q, err := client.QueryRefundStatus(ctx, "DEMO-REFUND-1"); err != nil {
		fmt.Println("refund query:", err)
	} else {
		fmt.Println("refund query:", q.Explanation())
	}
}
