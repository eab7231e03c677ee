package lexer

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 byte order mark, stripped before normalization.
const bomUTF8 = "\xEF\xBB\xBF"

// Normalize strips a leading UTF-8 BOM and applies Unicode NFC
// normalization to src, so that source written with combining-mark
// sequences (NFD) and source written with precomposed codepoints (NFC)
// produce byte-identical identifier and string-literal text.
//
// IsNormalString avoids an allocation in the common case where src is
// already NFC.
func Normalize(src string) string {
	src = strings.TrimPrefix(src, bomUTF8)
	if norm.NFC.IsNormalString(src) {
		return src
	}
	return norm.NFC.String(src)
}
