// Package encoding decodes raw statement bytes into text.
//
// Provider exports are nominally UTF-8, but older ones are Shift-JIS. The
// loader does not guess: the caller decodes as UTF-8 first, runs format
// detection, and only retries under Shift-JIS when detection fails. No other
// encodings are attempted.
package encoding

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"golang-ledger-import-service/pkg/logger"
)

// Encoding names a supported character encoding.
type Encoding string

const (
	UTF8     Encoding = "UTF-8"
	ShiftJIS Encoding = "Shift-JIS"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode interprets data under the given encoding and returns the text.
// UTF-8 decoding is lenient: invalid byte sequences survive as replacement
// runes so that detection can still fail cleanly on the result, mirroring how
// a text reader behaves. Shift-JIS decoding reports hard errors.
func Decode(data []byte, enc Encoding) (string, error) {
	switch enc {
	case UTF8:
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	case ShiftJIS:
		decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
		if err != nil {
			logger.GetGlobalLogger().WithComponent("encoding").
				WithError(err).Debug("Shift-JIS decode failed")
			return "", fmt.Errorf("shift-jis decode: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s", enc)
	}
}
