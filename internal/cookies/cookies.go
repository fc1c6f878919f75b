// Package cookies loads browser-exported cookie files in the Netscape
// tab-separated format.
package cookies

import (
	"bufio"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Netscape column layout: domain, include-subdomains, path, secure, expiry, name, value.
const (
	nameField  = 5
	valueField = 6
	minFields  = 7
)

// Set maps cookie names to values.
type Set map[string]string

// Load reads the cookie file at path. A missing file yields an error that
// wraps fs.ErrNotExist.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cookies: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	set, err := Parse(f)
	if err != nil {
		return nil, eris.Wrapf(err, "cookies: read %s", path)
	}
	return set, nil
}

// Parse reads cookie lines from r. Comment lines, blank lines and lines with
// fewer than seven tab-separated fields are skipped. A later line with the
// same name replaces an earlier one.
func Parse(r io.Reader) (Set, error) {
	set := make(Set)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), "\t")
		if len(parts) < minFields {
			continue
		}
		set[parts[nameField]] = parts[valueField]
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "cookies: scan")
	}
	return set, nil
}

// Names returns the cookie names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HTTPCookies converts the set to request cookies, ordered by name.
func (s Set) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s))
	for _, name := range s.Names() {
		out = append(out, &http.Cookie{Name: name, Value: s[name]})
	}
	return out
}
