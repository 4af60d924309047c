// Package channel defines the closed set of payment channels the SDK can
// drive and how each channel is reached (in-app invocation, redirect, or
// QR content generation).
package channel

import (
	"fmt"
	"strings"
)

// Channel identifies one supported payment backend. The set is closed:
// values outside it are rejected during validation and never reach a
// vendor invocation.
type Channel string

const (
	// WechatApp hands control to the installed Wechat application.
	WechatApp Channel = "WX_APP"
	// AlipayApp invokes the Alipay SDK's blocking pay call.
	AlipayApp Channel = "ALI_APP"
	// UnionApp sends the user to an external screen; the result returns
	// out-of-band with the originating correlation id.
	UnionApp Channel = "UN_APP"
	// WechatNative produces Wechat "native" QR content.
	WechatNative Channel = "WX_NATIVE"
	// AlipayQR produces an in-page Alipay QR (URL plus embedded HTML).
	AlipayQR Channel = "ALI_QRCODE"
	// AlipayOfflineQR produces an offline Alipay QR code string.
	AlipayOfflineQR Channel = "ALI_OFFLINE_QRCODE"
)

// Kind distinguishes the backend endpoint a request goes to. The endpoint
// is chosen by kind, never by channel.
type Kind int

const (
	// KindPay requests a payment bill.
	KindPay Kind = iota
	// KindQR requests QR content.
	KindQR
)

func (k Kind) String() string {
	if k == KindQR {
		return "qrcode"
	}
	return "pay"
}

var known = map[Channel]Kind{
	WechatApp:       KindPay,
	AlipayApp:       KindPay,
	UnionApp:        KindPay,
	WechatNative:    KindQR,
	AlipayQR:        KindQR,
	AlipayOfflineQR: KindQR,
}

// Parse converts a raw channel string into a Channel, rejecting values
// outside the closed set.
func Parse(raw string) (Channel, error) {
	c := Channel(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := known[c]; !ok {
		return "", fmt.Errorf("channel: unknown channel %q", raw)
	}
	return c, nil
}

// Valid reports whether the channel belongs to the closed set.
func (c Channel) Valid() bool {
	_, ok := known[c]
	return ok
}

// Kind returns the request kind the channel maps to. Unknown channels
// report KindPay; callers must check Valid first.
func (c Channel) Kind() Kind {
	return known[c]
}

// QR reports whether the channel is one of the three QR variants.
func (c Channel) QR() bool {
	return c.Valid() && known[c] == KindQR
}

func (c Channel) String() string {
	return string(c)
}
