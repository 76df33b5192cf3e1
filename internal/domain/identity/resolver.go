package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TeamKey is the stable internal identifier a raw source name resolves to.
type TeamKey string

// Source identifies which upstream supplied a raw name. Each source has its
// own spelling convention, so alias tables are kept per source.
type Source int

const (
	SourceOfficialAPI Source = iota
	SourceOfficialSite
	SourceThirdParty
)

func (s Source) String() string {
	switch s {
	case SourceOfficialAPI:
		return "official_api"
	case SourceOfficialSite:
		return "official_site"
	case SourceThirdParty:
		return "third_party"
	default:
		return "unknown"
	}
}

// Resolver canonicalizes raw team names into TeamKeys. The tables are fixed at
// construction; a naming-convention change upstream is a data change here, not
// a code change.
type Resolver struct {
	aliases Aliases
}

func NewResolver(aliases Aliases) *Resolver {
	return &Resolver{aliases: aliases}
}

// Resolve maps a raw source spelling to a canonical key. Resolution order:
// source alias table on the exact raw spelling, then an exception-adjusted
// normalized lookup against the canonical table. A miss returns ok=false; the
// caller must log it rather than drop the record silently.
func (r *Resolver) Resolve(rawName string, source Source) (TeamKey, bool) {
	raw := strings.TrimSpace(rawName)
	if raw == "" {
		return "", false
	}

	if table, ok := r.aliases.BySource[source]; ok {
		if key, ok := table[raw]; ok {
			return key, true
		}
	}

	normalized := NormalizeTeamName(raw)
	if replacement, ok := r.aliases.Exceptions[normalized]; ok {
		normalized = replacement
	}
	if key, ok := r.aliases.Canonical[normalized]; ok {
		return key, true
	}

	return "", false
}

var suffixTokens = []string{"saf", "s.a.f.", "s.a.f", "ec", "fc"}

// NormalizeTeamName collapses a club spelling to its lookup form: diacritics
// stripped, lowercased, corporate/initialism suffix tokens removed,
// punctuation removed, whitespace dropped.
func NormalizeTeamName(raw string) string {
	value := strings.ToLower(stripDiacritics(strings.TrimSpace(raw)))

	fields := strings.Fields(value)
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if !isSuffixToken(last) {
			break
		}
		fields = fields[:len(fields)-1]
	}
	value = strings.Join(fields, " ")

	var out strings.Builder
	out.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// NormalizePlayerName is the player variant: no suffix stripping, since player
// names carry no club designations.
func NormalizePlayerName(raw string) string {
	value := strings.ToLower(stripDiacritics(strings.TrimSpace(raw)))

	var out strings.Builder
	out.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isSuffixToken(token string) bool {
	for _, candidate := range suffixTokens {
		if token == candidate {
			return true
		}
	}
	return false
}

var diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(value string) string {
	out, _, err := transform.String(diacriticsStripper, value)
	if err != nil {
		return value
	}
	return out
}
