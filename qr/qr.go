// Package qr turns an accepted QR-kind server response into QR content
// and, when asked, a rendered PNG image.
package qr

import (
	"bytes"
	"fmt"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/noah-isme/paychan/channel"
	"github.com/noah-isme/paychan/outcome"
	"github.com/noah-isme/paychan/unify"
)

// Renderer rasterises QR content into an image. Rendering is delegated so
// hosts can swap in their own bitmap pipeline.
type Renderer interface {
	Render(content string, size int) ([]byte, error)
}

// PNGRenderer renders QR content as a PNG using go-qrcode.
type PNGRenderer struct {
	Level qrcode.RecoveryLevel
}

// Render implements Renderer.
func (r PNGRenderer) Render(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = outcome.DefaultQRSize
	}
	code, err := qrcode.New(content, r.Level)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, code.Image(size)); err != nil {
		return nil, fmt.Errorf("qr: render png: %w", err)
	}
	return buf.Bytes(), nil
}

// Options control content resolution for one request.
type Options struct {
	RenderImage bool
	Size        int
}

// Coordinator extracts the channel-specific content field from an
// accepted server response and produces the terminal QR outcome.
type Coordinator struct {
	Renderer Renderer
}

// Resolve maps the response payload for the given QR variant. An
// unrecognised channel is an INVALID_PARAMS failure, never a default
// vendor path; a renderer failure is reported, not dropped.
func (c Coordinator) Resolve(ch channel.Channel, resp unify.ServerResponse, opts Options) outcome.Outcome {
	var content, embeddedHTML string
	switch ch {
	case channel.WechatNative:
		content = resp.Str("code_url")
	case channel.AlipayQR:
		content = resp.Str("url")
		embeddedHTML = resp.Str("html")
	case channel.AlipayOfflineQR:
		content = resp.Str("qr_code")
	default:
		return outcome.Fail(outcome.CodeInvalidParams, fmt.Sprintf("channel %q is not a QR variant", string(ch)), "")
	}

	size := opts.Size
	if size <= 0 {
		size = outcome.DefaultQRSize
	}
	res := outcome.QRResult{
		Content:      content,
		Width:        size,
		Height:       size,
		EmbeddedHTML: embeddedHTML,
	}

	if opts.RenderImage && content != "" {
		renderer := c.Renderer
		if renderer == nil {
			renderer = PNGRenderer{Level: qrcode.Medium}
		}
		img, err := renderer.Render(content, size)
		if err != nil {
			return outcome.Fail(outcome.CodeException, "qr rendering failed", err.Error())
		}
		res.PNG = img
	}
	return outcome.QR(res)
}
