package gateway

import "strings"

// NormalizeFunc maps a raw gateway JID to the canonical sender identity
// used as the session key. The heuristic is deployment-specific (country
// codes and trunk prefixes vary), so callers may swap it out.
type NormalizeFunc func(jid string) string

// DefaultNormalize strips the transport suffix and any non-digit
// characters. It keeps the country code: dropping it merges distinct
// international senders, which is worse than the occasional duplicate
// session for a sender who switches formats.
func DefaultNormalize(jid string) string {
	number := strings.TrimSuffix(strings.TrimSpace(jid), userJIDSuffix)
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
