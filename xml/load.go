package xml

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

const prologStart = "<?xml"

// Load reads a whole document and returns it as UTF-8 text. Documents
// declaring another encoding in their prolog are converted.
func Load(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, []byte(bom))

	label := sniffEncoding(data)
	if label == "" || isUTF8(label) {
		return string(data), nil
	}
	rs, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}
	data, err = io.ReadAll(rs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func LoadFile(file string) (string, error) {
	r, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return Load(r)
}

func sniffEncoding(data []byte) string {
	if !bytes.HasPrefix(data, []byte(prologStart)) {
		return ""
	}
	ix := bytes.Index(data, []byte("?>"))
	if ix < 0 {
		return ""
	}
	ev, err := NewReader(string(data[:ix+2])).Read()
	if err != nil {
		return ""
	}
	decl, ok := ev.(Decl)
	if !ok {
		return ""
	}
	return strings.TrimSpace(decl.Encoding)
}

func isUTF8(label string) bool {
	label = strings.ToLower(label)
	return label == "utf-8" || label == "utf8"
}
