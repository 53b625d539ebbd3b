package stream

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// appendJavaFloat formats f the way java.lang.Double.toString (bitSize 64)
// and java.lang.Float.toString (bitSize 32) do: plain decimal with at least
// one fractional digit for magnitudes in [1e-3, 1e7), computerized
// scientific notation otherwise.
func appendJavaFloat(dst []byte, f float64, bitSize int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...)
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...)
	case f == 0:
		if math.Signbit(f) {
			return append(dst, "-0.0"...)
		}
		return append(dst, "0.0"...)
	}

	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		start := len(dst)
		dst = strconv.AppendFloat(dst, f, 'f', -1, bitSize)
		if !strings.Contains(string(dst[start:]), ".") {
			dst = append(dst, ".0"...)
		}
		return dst
	}

	// strconv gives "d.dddE+xx"; Java writes "d.dddEx".
	var tmp [32]byte
	s := strconv.AppendFloat(tmp[:0], f, 'E', -1, bitSize)
	mant, exp, _ := strings.Cut(string(s), "E")
	dst = append(dst, mant...)
	if !strings.Contains(mant, ".") {
		dst = append(dst, ".0"...)
	}
	dst = append(dst, 'E')
	if exp[0] == '-' {
		dst = append(dst, '-')
	}
	exp = strings.TrimLeft(exp[1:], "0")
	return append(dst, exp...)
}

// appendUnits encodes UTF-16 code units as UTF-8. Unpaired surrogates
// become '?', as the JVM's default encoder does.
func appendUnits(dst []byte, units []uint16) []byte {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < utf8.RuneSelf:
			dst = append(dst, byte(u))
		case utf16.IsSurrogate(rune(u)):
			if u < 0xdc00 && i+1 < len(units) {
				if r := utf16.DecodeRune(rune(u), rune(units[i+1])); r != utf8.RuneError {
					dst = utf8.AppendRune(dst, r)
					i++
					continue
				}
			}
			dst = append(dst, '?')
		default:
			dst = utf8.AppendRune(dst, rune(u))
		}
	}
	return dst
}
