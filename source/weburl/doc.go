// Package weburl detects, validates, and enriches URLs captured from the
// clipboard.
//
// # Overview
//
// This package classifies clipboard text that consists of a single URL,
// extracts URLs embedded in free text, and validates URLs against SSRF
// (Server-Side Request Forgery) criteria before any enrichment fetch.
//
// # URL Detection
//
// IsURLOnly reports whether clipboard text is exactly one bare URL, which
// the clipboard watcher records with content type "url" instead of "text".
// ExtractURLs finds every URL embedded in a larger text.
//
// # URL Validation
//
// The ValidateURL function checks URLs against multiple security criteria:
//
//   - Requires an HTTP or HTTPS scheme
//   - Blocks localhost variants (localhost, 127.0.0.1, ::1)
//   - Blocks local domains (.local, .internal)
//   - Blocks private IP ranges (RFC 1918, CGNAT, link-local)
//
// # IP Address Handling
//
// The IsPrivateIP function detects private/reserved IP addresses including:
//
//   - IPv4 private ranges (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16)
//   - IPv4 loopback (127.0.0.0/8)
//   - IPv4 link-local (169.254.0.0/16)
//   - CGNAT range (100.64.0.0/10)
//   - IPv6 loopback (::1)
//   - IPv6 unique local (fc00::/7)
//   - IPv6 link-local (fe80::/10)
//   - IPv6-mapped IPv4 addresses (::ffff:x.x.x.x)
//
// CIDRs are pre-compiled at package initialization for efficiency.
//
// # Enrichment
//
// Enricher fetches a captured URL and extracts its readable title and
// excerpt. Fetches honor a bounded timeout, cap the response body size,
// and run only after ValidateURL passes.
//
// # Usage
//
//	import "github.com/c360studio/memoryos/source/weburl"
//
//	if weburl.IsURLOnly(text) {
//	    info, err := weburl.NewEnricher(0).Fetch(ctx, text)
//	    ...
//	}
package weburl
