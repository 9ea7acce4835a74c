// Package http bridges incoming HTTP requests to the envelope core:
// multi-segment header reassembly and context construction.
package http

import (
	"fmt"
	"net/http"
	"strings"

	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
)

// HeaderValue reassembles a logical header that may be split across multiple
// physical headers: name, name-1, name-2, and so on, joined in numeric suffix
// order with no separator.
//
// Reassembly stops at the first missing suffix; a name-2 without a name-1 is
// never reached. Senders that skip suffixes truncate their own payload, which
// then fails envelope decoding rather than decoding out of order.
//
// Returns "" when the primary header is absent.
func HeaderValue(h http.Header, name string) string {
	first := h.Get(name)
	if first == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(first)
	for i := 1; ; i++ {
		part := h.Get(fmt.Sprintf("%s-%d", name, i))
		if part == "" {
			break
		}
		b.WriteString(part)
	}

	return b.String()
}

// FromRequest builds the context of the given kind from a request's headers.
//
// An absent header is not an error: it returns (nil, nil) and callers treat
// the context as simply not provided. A present header is reassembled per
// HeaderValue and handed to the context service, which decides between the
// encryption-aware and plain-only decode paths based on the configured
// decrypt sources.
func FromRequest(svc *envelopeService.ContextService, h http.Header, kind envelopeDomain.Kind) (*envelopeService.Context, error) {
	raw := HeaderValue(h, kind.Header())
	if raw == "" {
		return nil, nil
	}

	return svc.FromHeader(raw, kind)
}
