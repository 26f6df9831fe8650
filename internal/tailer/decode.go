package tailer

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ResolveEncoding maps a named text encoding (utf-8, shift_jis, euc-jp,
// windows-1252, ...) to a codec. Unknown or empty names resolve to UTF-8 and
// report false.
func ResolveEncoding(name string) (encoding.Encoding, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, false
	}
	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		return unicode.UTF8, false
	}
	return enc, true
}

// decodeText converts raw bytes to valid UTF-8. Undecodable input falls back
// to the raw bytes; invalid sequences become U+FFFD either way.
func decodeText(enc encoding.Encoding, data []byte) string {
	if enc == nil || enc == unicode.UTF8 {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return strings.ToValidUTF8(string(out), "\uFFFD")
}
