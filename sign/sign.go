// Package sign produces the application identity triple attached to every
// backend request: application id, timestamp and request signature.
package sign

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredentials marks a signer that was constructed without a
// usable application id or secret. It indicates a configuration fault,
// not bad caller input.
var ErrMissingCredentials = errors.New("sign: application credentials not configured")

// Token is the signed identity attached to a request payload.
type Token struct {
	AppID string
	// Timestamp is milliseconds since the Unix epoch, matching the
	// backend's app_sign contract.
	Timestamp int64
	Signature string
}

// Signer computes a Token for the current moment. Implementations fail
// with a credential or configuration error, never with input errors.
type Signer interface {
	Sign(ctx context.Context) (Token, error)
}

// AppSigner signs requests with a static application id and secret. The
// signature is the lowercase hex MD5 of appID + appSecret + timestamp.
type AppSigner struct {
	AppID     string
	AppSecret string
	// Now overrides the clock, used by tests. Nil means time.Now.
	Now func() time.Time
}

// Sign implements Signer.
func (s AppSigner) Sign(_ context.Context) (Token, error) {
	appID := strings.TrimSpace(s.AppID)
	secret := strings.TrimSpace(s.AppSecret)
	if appID == "" || secret == "" {
		return Token{}, ErrMissingCredentials
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	ts := now().UnixMilli()
	sum := md5.Sum([]byte(appID + secret + strconv.FormatInt(ts, 10)))
	return Token{
		AppID:     appID,
		Timestamp: ts,
		Signature: hex.EncodeToString(sum[:]),
	}, nil
}
