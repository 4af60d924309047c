package request_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paychan/channel"
	"github.com/noah-isme/paychan/request"
	"github.com/noah-isme/paychan/sign"
)

func validRequest() request.PaymentRequest {
	return request.PaymentRequest{
		Channel:  channel.WechatApp,
		Title:    "T-shirt",
		TotalFee: 100,
		BillNum:  "ORD1",
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	require.Nil(t, request.Validate(validRequest()))
}

func TestValidateRejectsBlankTitleAndBillNum(t *testing.T) {
	for _, title := range []string{"", "   "} {
		req := validRequest()
		req.Title = title
		require.NotNil(t, request.Validate(req), "title=%q", title)
	}
	for _, bill := range []string{"", "\t"} {
		req := validRequest()
		req.BillNum = bill
		require.NotNil(t, request.Validate(req), "billNum=%q", bill)
	}
}

func TestValidateRejectsNonPositiveFee(t *testing.T) {
	for _, fee := range []int64{0, -1, -100} {
		req := validRequest()
		req.TotalFee = fee
		require.NotNil(t, request.Validate(req), "fee=%d", fee)
	}
}

func TestValidateRejectsOverlongTitle(t *testing.T) {
	req := validRequest()
	req.Title = strings.Repeat("x", 33)
	require.NotNil(t, request.Validate(req))
}

func TestValidateRejectsUnknownChannel(t *testing.T) {
	req := validRequest()
	req.Channel = channel.Channel("SOMETHING_ELSE")
	verr := request.Validate(req)
	require.NotNil(t, verr)
	require.Equal(t, "channel", verr.Field)
}

func TestAlipayQRRequiresHTTPReturnURL(t *testing.T) {
	for _, url := range []string{"", "ftp://shop.example", "shop.example", "httpx://a"} {
		req := validRequest()
		req.Channel = channel.AlipayQR
		req.ReturnURL = url
		verr := request.Validate(req)
		require.NotNil(t, verr, "url=%q", url)
		require.Equal(t, "returnUrl", verr.Field)
	}
	for _, url := range []string{"http://shop.example/done", "https://shop.example/done"} {
		req := validRequest()
		req.Channel = channel.AlipayQR
		req.ReturnURL = url
		require.Nil(t, request.Validate(req), "url=%q", url)
	}
}

func TestAlipayQRPayModeClosedSet(t *testing.T) {
	req := validRequest()
	req.Channel = channel.AlipayQR
	req.ReturnURL = "https://shop.example/done"
	for _, mode := range []string{"", "0", "1", "3"} {
		req.QRPayMode = mode
		require.Nil(t, request.Validate(req), "mode=%q", mode)
	}
	req.QRPayMode = "2"
	require.NotNil(t, request.Validate(req))
}

func TestReturnURLIgnoredForOtherChannels(t *testing.T) {
	req := validRequest()
	req.ReturnURL = "not-a-url"
	require.Nil(t, request.Validate(req))
}

func TestBuildFormSerialisesExactKeySet(t *testing.T) {
	signer := sign.AppSigner{AppID: "app", AppSecret: "secret", Now: func() time.Time { return time.UnixMilli(1000) }}
	signed, err := request.Build(context.Background(), signer, validRequest())
	require.NoError(t, err)

	form := signed.Form()
	require.Equal(t, "app", form["app_id"])
	require.Equal(t, int64(1000), form["timestamp"])
	require.NotEmpty(t, form["app_sign"])
	require.Equal(t, "WX_APP", form["channel"])
	require.Equal(t, int64(100), form["total_fee"])
	require.Equal(t, "ORD1", form["bill_no"])
	require.Equal(t, "T-shirt", form["title"])
	require.NotContains(t, form, "optional")
	require.NotContains(t, form, "return_url")
	require.NotContains(t, form, "qr_pay_mode")
}

func TestBuildFormIncludesExtrasOnlyForTheirChannel(t *testing.T) {
	signer := sign.AppSigner{AppID: "app", AppSecret: "secret"}
	req := validRequest()
	req.Channel = channel.AlipayQR
	req.ReturnURL = "https://shop.example/done"
	req.QRPayMode = "1"
	req.Optional = map[string]string{"color": "red"}

	signed, err := request.Build(context.Background(), signer, req)
	require.NoError(t, err)
	form := signed.Form()
	require.Equal(t, "https://shop.example/done", form["return_url"])
	require.Equal(t, "1", form["qr_pay_mode"])
	require.Equal(t, map[string]string{"color": "red"}, form["optional"])
}

func TestBuildSurfacesSignerFailureDistinctly(t *testing.T) {
	_, err := request.Build(context.Background(), sign.AppSigner{}, validRequest())
	require.ErrorIs(t, err, sign.ErrMissingCredentials)

	_, err = request.Build(context.Background(), nil, validRequest())
	require.Error(t, err)
	require.True(t, errors.Is(err, sign.ErrMissingCredentials))
}

func TestRefundQueryForm(t *testing.T) {
	form := request.RefundQueryForm(sign.Token{AppID: "app", Timestamp: 7, Signature: "sig"}, " R-1 ")
	require.Equal(t, "app", form["app_id"])
	require.Equal(t, int64(7), form["timestamp"])
	require.Equal(t, "sig", form["app_sign"])
	require.Equal(t, "R-1", form["refund_no"])
}
