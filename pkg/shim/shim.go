// Package shim rewrites the target of every outgoing call so that references
// to the legacy rsacrack.com domain become same-origin relative paths.
//
// The rewrite is a decorator over [fetch.Fetcher]: wrap the real transport
// once at startup and hand the result to every caller.
package shim

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/germanamz/rsacrack/pkg/fetch"
)

var (
	// legacyInsecure matches http:// references to the legacy domain.
	legacyInsecure = regexp.MustCompile(`(?i)^http://(?:www\.)?rsacrack\.com([/?#]|$)`)

	// legacyAbsolute captures the path, query and fragment of an absolute
	// reference to the legacy domain.
	legacyAbsolute = regexp.MustCompile(`(?i)^https?://(?:www\.)?rsacrack\.com((?:[/?#].*)?)$`)

	// scheme matches a leading URL scheme ("https:", "mailto:").
	scheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
)

// Normalizer rewrites call targets. Protocol is the page's protocol including
// the trailing colon ("https:"); it is used to complete protocol-relative
// references and defaults to "https:".
type Normalizer struct {
	Protocol string
}

// Normalize returns the rewritten form of target. Strings and *http.Request
// values are rewritten; anything else is returned unchanged. Normalize never
// fails: if processing goes wrong the original target is returned.
func (n Normalizer) Normalize(target any) (out any) {
	defer func() {
		if recover() != nil {
			out = target
		}
	}()

	switch t := target.(type) {
	case *http.Request:
		return n.request(t)
	case string:
		return n.String(t)
	default:
		return target
	}
}

// String applies the rewrite rules to a single URL string.
func (n Normalizer) String(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "//") {
		s = n.protocol() + s
	}

	s = legacyInsecure.ReplaceAllString(s, "https://rsacrack.com$1")

	if m := legacyAbsolute.FindStringSubmatch(s); m != nil {
		s = m[1]
		if s == "" {
			s = "/"
		}
	}

	if !strings.HasPrefix(s, "/") && !scheme.MatchString(s) {
		s = "/" + s
	}

	return s
}

// request rebuilds r with its URL normalized. Method, headers, body and
// context are preserved.
func (n Normalizer) request(r *http.Request) *http.Request {
	raw := r.URL.String()

	nu := n.String(raw)
	if nu == raw {
		return r
	}

	u, err := url.Parse(nu)
	if err != nil {
		return r
	}

	out := r.Clone(r.Context())
	out.URL = u
	out.Host = u.Host
	out.RequestURI = ""

	return out
}

func (n Normalizer) protocol() string {
	if n.Protocol == "" {
		return "https:"
	}
	return n.Protocol
}

// Fetcher is a fetch.Fetcher that normalizes the target before delegating.
type Fetcher struct {
	next fetch.Fetcher
	norm Normalizer
}

// Wrap decorates next with n. Wrapping a fetcher that is already a
// *Fetcher returns it unchanged, so targets are never normalized twice.
func Wrap(next fetch.Fetcher, n Normalizer) *Fetcher {
	if f, ok := next.(*Fetcher); ok {
		return f
	}

	return &Fetcher{next: next, norm: n}
}

// Fetch normalizes target and forwards the call with init unchanged.
func (f *Fetcher) Fetch(ctx context.Context, target any, init *fetch.Init) (*http.Response, error) {
	return f.next.Fetch(ctx, f.norm.Normalize(target), init)
}

// Unwrap returns the decorated fetcher.
func (f *Fetcher) Unwrap() fetch.Fetcher { return f.next }

var (
	installOnce sync.Once
	installed   *Fetcher
)

// Install wraps next and records the result as the process-wide fetcher.
// Only the first call has an effect; later calls return the fetcher from the
// first call and ignore their arguments.
func Install(next fetch.Fetcher, n Normalizer) *Fetcher {
	installOnce.Do(func() {
		installed = Wrap(next, n)
	})

	return installed
}

// Installed returns the process-wide fetcher, or nil before [Install].
func Installed() *Fetcher { return installed }
