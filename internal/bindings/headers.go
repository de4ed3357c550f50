package bindings

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
)

// HeaderList is the ordered list of header paths, relative to the staged root,
// that bindings are generated from.
type HeaderList []string

// LoadHeaderList reads a newline-separated header list. Every line, once
// trimmed, must be non-empty; a blank line is a configuration error.
func LoadHeaderList(path string) (HeaderList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.CategoryConfiguration, "read header list").
			WithContext("file", path)
	}
	return ParseHeaderList(path, data)
}

// ParseHeaderList parses header list content; name is used in errors only.
func ParseHeaderList(name string, data []byte) (HeaderList, error) {
	var out HeaderList
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		entry := strings.TrimSpace(sc.Text())
		if entry == "" {
			return nil, ferrors.BlankHeaderEntry(name, line)
		}
		out = append(out, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, ferrors.Wrap(err, ferrors.CategoryConfiguration, "scan header list").
			WithContext("file", name)
	}
	return out, nil
}

// Resolve joins every header onto root and checks it exists. All missing
// headers are collected and reported together; a stale declaration must never
// produce partial bindings.
func Resolve(root string, headers HeaderList) ([]string, error) {
	resolved := make([]string, 0, len(headers))
	var missing []string
	for _, h := range headers {
		p := filepath.Join(root, h)
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
			continue
		}
		resolved = append(resolved, p)
	}
	if len(missing) > 0 {
		return nil, ferrors.MissingHeaders(missing)
	}
	return resolved, nil
}

// wrapperSource renders a header including every resolved header in order.
func wrapperSource(resolved []string) []byte {
	var b bytes.Buffer
	b.WriteString("/* generated by ffbuild; do not edit */\n")
	for _, p := range resolved {
		fmt.Fprintf(&b, "#include \"%s\"\n", p)
	}
	return b.Bytes()
}
