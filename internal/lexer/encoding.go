package lexer

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	textnorm "golang.org/x/text/unicode/norm"
)

// DecodeSource turns raw file bytes into UTF-8 source text, detecting a
// leading byte-order mark and decoding UTF-16 LE/BE accordingly. Files
// without a BOM are assumed to already be UTF-8, matching the teacher's
// internal/interp.detectAndDecodeFile.
func DecodeSource(data []byte) (string, error) {
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return string(data[3:]), nil
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return decodeUTF16(data, unicode.LittleEndian)
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return decodeUTF16(data, unicode.BigEndian)
	default:
		return string(data), nil
	}
}

func decodeUTF16(data []byte, endian unicode.Endianness) (string, error) {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// normalizeIdentifier applies Unicode NFC normalization to an identifier
// lexeme before keyword lookup and before it reaches the resolver's scope
// maps. Two source files that spell the same identifier with different
// combining-character sequences (e.g. precomposed "é" vs "e" + combining
// acute) must bind to the same variable; NFC normalization is the standard
// way to guarantee that, the same concern the teacher addresses with
// golang.org/x/text/unicode/norm in string_helpers.go, applied here to
// identifiers instead of string-literal comparison.
func normalizeIdentifier(s string) string {
	if textnorm.NFC.IsNormalString(s) {
		return s
	}
	return textnorm.NFC.String(s)
}
