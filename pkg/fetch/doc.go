// Package fetch defines the network-call capability shared by every part of
// the client.
//
// It contains:
//   - [Fetcher] interface and [FetcherFunc] adapter, the single primitive all outgoing calls go through
//   - [Client], the HTTP implementation that resolves same-origin targets against a configured page origin
//   - [DecodeJSON], the response body decoder that keeps arbitrary-precision numerals intact
//
// Target rewriting is not done here; [github.com/germanamz/rsacrack/pkg/shim]
// decorates a Fetcher with the legacy domain normalization.
package fetch
