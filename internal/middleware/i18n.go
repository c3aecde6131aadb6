package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Supported response locales.
const (
	LocaleES = "es"
	LocaleEN = "en"
)

type i18nKey int

const (
	localeKey i18nKey = iota
	countryKey
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// countryHeaders are set by CDNs and proxies in front of the API.
var countryHeaders = []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}

var spanishSpeaking = map[string]struct{}{
	"AR": {}, "BO": {}, "CL": {}, "CO": {}, "CR": {}, "CU": {}, "DO": {},
	"EC": {}, "ES": {}, "GQ": {}, "GT": {}, "HN": {}, "MX": {}, "NI": {},
	"PA": {}, "PE": {}, "PR": {}, "PY": {}, "SV": {}, "UY": {}, "VE": {},
}

// I18N stores the request locale and, when known, the client country in the
// request context.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			ctx := WithLocale(r.Context(), detectLocale(r, defaultLocale, country))
			if country != "" {
				ctx = WithCountry(ctx, country)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// detectLocale prefers an explicit X-Locale, then Accept-Language, then the
// language of the client country.
func detectLocale(r *http.Request, fallback, country string) string {
	for _, header := range []string{"X-Locale", "Accept-Language"} {
		if lang, _ := firstTag(r.Header.Get(header)); lang != "" {
			return normalizeLocale(lang)
		}
	}
	if country != "" {
		if _, ok := spanishSpeaking[strings.ToUpper(country)]; ok {
			return LocaleES
		}
		return LocaleEN
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return LocaleEN
}

// normalizeLocale maps a language onto a supported locale.
func normalizeLocale(lang string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), LocaleES) {
		return LocaleES
	}
	return LocaleEN
}

// firstTag splits the first entry of a language list such as
// "es-MX,en;q=0.8" into its language and upper-case region.
func firstTag(header string) (lang, region string) {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		lang, region, _ = strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
		return strings.ToLower(lang), strings.ToUpper(region)
	}
	return "", ""
}

// ResolveCountry returns a best-effort upper-case ISO country code: proxy
// headers first, then the region of the locale headers, then lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, header := range countryHeaders {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			return strings.ToUpper(v)
		}
	}
	for _, header := range []string{"X-Locale", "Accept-Language"} {
		if _, region := firstTag(r.Header.Get(header)); region != "" {
			return region
		}
	}
	if lookup == nil {
		return ""
	}
	ip := ClientIP(r)
	if ip == "" {
		return ""
	}
	country, err := lookup(ip)
	if err != nil {
		return ""
	}
	return strings.ToUpper(country)
}

// ClientIP returns the host of RemoteAddr. Forwarding headers are ignored
// here; behind a trusted proxy chi's RealIP rewrites RemoteAddr first.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

func WithCountry(ctx context.Context, country string) context.Context {
	return context.WithValue(ctx, countryKey, strings.ToUpper(country))
}

// LocaleFromContext returns the request locale, "en" when unset.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey).(string); ok {
		return v
	}
	return LocaleEN
}

// CountryFromContext returns the ISO country code of the client, or "".
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}
