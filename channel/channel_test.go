package channel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paychan/channel"
)

func TestParseAcceptsClosedSet(t *testing.T) {
	for _, raw := range []string{"WX_APP", "ALI_APP", "UN_APP", "WX_NATIVE", "ALI_QRCODE", "ALI_OFFLINE_QRCODE"} {
		c, err := channel.Parse(raw)
		require.NoError(t, err)
		require.True(t, c.Valid())
	}
}

func TestParseNormalisesCaseAndSpace(t *testing.T) {
	c, err := channel.Parse("  wx_app ")
	require.NoError(t, err)
	require.Equal(t, channel.WechatApp, c)
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "PAYPAL", "WX", "wx-app"} {
		_, err := channel.Parse(raw)
		require.Error(t, err, "raw=%q", raw)
	}
}

func TestKindFollowsVariant(t *testing.T) {
	cases := map[channel.Channel]channel.Kind{
		channel.WechatApp:       channel.KindPay,
		channel.AlipayApp:       channel.KindPay,
		channel.UnionApp:        channel.KindPay,
		channel.WechatNative:    channel.KindQR,
		channel.AlipayQR:        channel.KindQR,
		channel.AlipayOfflineQR: channel.KindQR,
	}
	for c, want := range cases {
		require.Equal(t, want, c.Kind(), "channel=%s", c)
		require.Equal(t, want == channel.KindQR, c.QR())
	}
}

func TestInvalidChannelNeverQR(t *testing.T) {
	require.False(t, channel.Channel("BOGUS").QR())
	require.False(t, channel.Channel("BOGUS").Valid())
}
