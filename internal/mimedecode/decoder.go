// Package mimedecode decodes RFC 2047 encoded words found in mail headers.
package mimedecode

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// maxPasses bounds FullyDecodeMime on pathological nesting
const maxPasses = 5

var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// charsetReader resolves charsets the standard decoder does not know about
// (it handles utf-8, iso-8859-1 and us-ascii itself)
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// DecodeMimeWord decodes every =?charset?Q|B?data?= token in text. Adjacent
// encoded words are joined without the whitespace between them and plain
// spans pass through unchanged. On any decoding failure the original text is
// returned.
func DecodeMimeWord(text string) string {
	if !strings.Contains(text, "=?") {
		return text
	}
	decoded, err := wordDecoder.DecodeHeader(text)
	if err != nil {
		return text
	}
	return decoded
}

// FullyDecodeMime decodes repeatedly until no encoded-word markers remain or
// the text stops changing, which unwraps doubly encoded headers.
func FullyDecodeMime(text string) string {
	if text == "" {
		return ""
	}
	current := text
	for i := 0; i < maxPasses; i++ {
		if !strings.Contains(current, "=?") {
			break
		}
		next := DecodeMimeWord(current)
		if next == current {
			break
		}
		current = next
	}
	return current
}
