package encoding

import (
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// NoRune marks a code with no mapping in the active encoding.
const NoRune = '�'

// IsPDFDocEncoded reports whether s is entirely representable in
// PDFDocEncoding, the 8-bit encoding used for text strings outside
// content streams.
func IsPDFDocEncoded(s string) bool {
	if IsUTF16(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if pdfDocEncoding[s[i]] == NoRune {
			return false
		}
	}
	return true
}

// PDFDocDecode decodes a PDFDocEncoded string to UTF-8.
func PDFDocDecode(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 || pdfDocEncoding[s[i]] != rune(s[i]) {
			goto Decode
		}
	}
	return s

Decode:
	r := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		r[i] = pdfDocEncoding[s[i]]
	}
	return string(r)
}

// IsUTF16 reports whether s carries the big-endian UTF-16 byte order
// mark that distinguishes Unicode text strings.
func IsUTF16(s string) bool {
	return len(s) >= 2 && s[0] == 0xfe && s[1] == 0xff && len(s)%2 == 0
}

// UTF16Decode decodes big-endian UTF-16 (without the BOM) to
// NFKC-normalized UTF-8.
func UTF16Decode(s string) string {
	var u []uint16
	for i := 0; i+1 < len(s); i += 2 {
		u = append(u, uint16(s[i])<<8|uint16(s[i+1]))
	}
	return norm.NFKC.String(string(utf16.Decode(u)))
}

// pdfDocEncoding maps PDFDocEncoding bytes to runes. The table is
// ASCII plus Latin-1 with the 0x18-0x1F and 0x80-0xA0 ranges replaced
// by typographic characters, per ISO 32000-1 annex D.2.
var pdfDocEncoding [256]rune

func init() {
	for i := range pdfDocEncoding {
		pdfDocEncoding[i] = NoRune
	}
	for _, b := range []byte{'\t', '\n', '\r'} {
		pdfDocEncoding[b] = rune(b)
	}
	for i := 0x20; i <= 0x7e; i++ {
		pdfDocEncoding[i] = rune(i)
	}
	for i := 0xa1; i <= 0xff; i++ {
		pdfDocEncoding[i] = rune(i)
	}
	for b, r := range map[byte]rune{
		0x18: '˘', 0x19: 'ˇ', 0x1a: 'ˆ', 0x1b: '˙', 0x1c: '˝', 0x1d: '˛', 0x1e: '˚', 0x1f: '˜',
		0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…', 0x84: '—', 0x85: '–',
		0x86: 'ƒ', 0x87: '⁄', 0x88: '‹', 0x89: '›', 0x8a: '−', 0x8b: '‰',
		0x8c: '„', 0x8d: '“', 0x8e: '”', 0x8f: '‘', 0x90: '’', 0x91: '‚',
		0x92: '™', 0x93: 'ﬁ', 0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
		0x98: 'Ÿ', 0x99: 'Ž', 0x9a: 'ı', 0x9b: 'ł', 0x9c: 'œ', 0x9d: 'š',
		0x9e: 'ž', 0xa0: '€',
	} {
		pdfDocEncoding[b] = r
	}
}
