package lang

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/jbi-runtime/errors"
)

// DefaultCharset is used by ToBytes and FromBytes when no charset is named.
const DefaultCharset = "UTF-8"

// FromNativeBytes converts a host byte string, such as a process argument,
// to a String. Only 7-bit ASCII is accepted; each byte becomes one code
// unit. Any byte with the high bit set yields UnsupportedEncoding.
func FromNativeBytes(b []byte) (*String, error) {
	units := make([]uint16, len(b)+1)
	for i, c := range b {
		if c >= 0x80 {
			return nil, errors.New(errors.PhaseString, errors.KindUnsupportedEncoding).
				Path("native").
				Type("native").
				Value(i).
				Detail("non-ASCII byte 0x%02x at offset %d", c, i).
				Build()
		}
		units[i] = uint16(c)
	}
	return &String{units: units}, nil
}

// ToBytes encodes the string in the named IANA charset. Characters the
// charset cannot represent are replaced with the charset's substitute.
func (s *String) ToBytes(charset string) ([]byte, error) {
	enc, name, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	// UTF-16 charsets get the code units directly; the UTF-8 round trip
	// would replace unpaired surrogates.
	if name == "UTF-16BE" || name == "UTF-16LE" {
		return encodeUnits(s.Units(), name == "UTF-16BE"), nil
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s.String()))
	if err != nil {
		return nil, errors.New(errors.PhaseString, errors.KindUnsupportedEncoding).
			Type(name).
			Cause(err).
			Detail("encode").
			Build()
	}
	return out, nil
}

// FromBytes decodes b from the named IANA charset.
func FromBytes(b []byte, charset string) (*String, error) {
	enc, name, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, errors.New(errors.PhaseString, errors.KindUnsupportedEncoding).
			Type(name).
			Cause(err).
			Detail("decode").
			Build()
	}
	return FromGoString(string(out)), nil
}

func lookup(charset string) (encoding.Encoding, string, error) {
	if strings.TrimSpace(charset) == "" {
		charset = DefaultCharset
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, "", errors.UnsupportedEncoding(errors.PhaseString, charset, "unknown or unsupported charset")
	}
	name, err := ianaindex.IANA.Name(enc)
	if err != nil {
		name = strings.ToUpper(charset)
	}
	if name == "UTF-16" {
		// Java encodes UTF-16 big-endian with a byte order mark.
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), name, nil
	}
	return enc, name, nil
}

func encodeUnits(units []uint16, bigEndian bool) []byte {
	out := make([]byte, 0, 2*len(units))
	for _, u := range units {
		if bigEndian {
			out = append(out, byte(u>>8), byte(u))
		} else {
			out = append(out, byte(u), byte(u>>8))
		}
	}
	return out
}
