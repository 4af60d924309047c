package sign_test

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paychan/sign"
)

func TestSignIsDeterministicForFixedClock(t *testing.T) {
	at := time.UnixMilli(1438765800000)
	s := sign.AppSigner{AppID: "app", AppSecret: "secret", Now: func() time.Time { return at }}

	tok, err := s.Sign(context.Background())
	require.NoError(t, err)
	require.Equal(t, "app", tok.AppID)
	require.Equal(t, int64(1438765800000), tok.Timestamp)

	sum := md5.Sum([]byte("appsecret1438765800000"))
	require.Equal(t, hex.EncodeToString(sum[:]), tok.Signature)
}

func TestSignRejectsMissingCredentials(t *testing.T) {
	cases := []sign.AppSigner{
		{},
		{AppID: "app"},
		{AppSecret: "secret"},
		{AppID: "  ", AppSecret: "secret"},
	}
	for _, s := range cases {
		_, err := s.Sign(context.Background())
		require.ErrorIs(t, err, sign.ErrMissingCredentials)
	}
}
