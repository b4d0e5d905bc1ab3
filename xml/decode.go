package xml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type DecodeError struct {
	Value   string
	Message string
}

func createDecodeError(value, msg string) error {
	return DecodeError{
		Value:   value,
		Message: msg,
	}
}

func (d DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %s", d.Value, d.Message)
}

var entities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": `"`,
}

// Decode expands the predefined entities and the character references found
// in str and checks that the result is valid UTF-8.
func Decode(str string) (string, error) {
	if _, err := DecodeRaw(str); err != nil {
		return "", err
	}
	if strings.IndexByte(str, ampersand) < 0 {
		return str, nil
	}
	var (
		buf  strings.Builder
		rest = str
	)
	for {
		ix := strings.IndexByte(rest, ampersand)
		if ix < 0 {
			buf.WriteString(rest)
			break
		}
		buf.WriteString(rest[:ix])
		rest = rest[ix+1:]

		ix = strings.IndexByte(rest, semicolon)
		if ix < 0 {
			return "", createDecodeError(str, "entity reference not terminated")
		}
		repl, err := unescapeEntity(rest[:ix])
		if err != nil {
			return "", createDecodeError(str, err.Error())
		}
		buf.WriteString(repl)
		rest = rest[ix+1:]
	}
	return buf.String(), nil
}

// DecodeRaw returns str unchanged when it is valid UTF-8.
func DecodeRaw(str string) (string, error) {
	if !utf8.ValidString(str) {
		return "", createDecodeError(str, "invalid utf-8 sequence")
	}
	return str, nil
}

func unescapeEntity(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty entity reference")
	}
	if name[0] != hash {
		str, ok := entities[name]
		if !ok {
			return "", fmt.Errorf("&%s;: unknown entity", name)
		}
		return str, nil
	}
	var (
		digits = name[1:]
		base   = 10
	)
	if strings.HasPrefix(digits, "x") {
		digits, base = digits[1:], 16
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || digits == "" {
		return "", fmt.Errorf("&%s;: invalid character reference", name)
	}
	char := rune(n)
	if char == 0 || !utf8.ValidRune(char) {
		return "", fmt.Errorf("&%s;: invalid code point", name)
	}
	return string(char), nil
}
