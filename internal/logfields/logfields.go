package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyEndpoint    = "endpoint"
	KeyCacheKey    = "cache_key"
	KeyCacheResult = "cache_result"
	KeyRoute       = "route"
	KeySlug        = "slug"
	KeyPostType    = "post_type"
	KeyTaxonomy    = "taxonomy"
	KeyPage        = "page"
	KeyStatus      = "status"
	KeyMethod      = "method"
	KeyPath        = "path"
	KeyRequestID   = "request_id"
	KeyUserAgent   = "user_agent"
	KeyRemoteAddr  = "remote_addr"
	KeyDurationMS  = "duration_ms"
	KeyAttempt     = "attempt"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Endpoint(e string) slog.Attr      { return slog.String(KeyEndpoint, e) }
func CacheKey(k string) slog.Attr      { return slog.String(KeyCacheKey, k) }
func CacheResult(r string) slog.Attr   { return slog.String(KeyCacheResult, r) }
func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func PostType(t string) slog.Attr      { return slog.String(KeyPostType, t) }
func Taxonomy(t string) slog.Attr      { return slog.String(KeyTaxonomy, t) }
func Page(p int) slog.Attr             { return slog.Int(KeyPage, p) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Attempt(n int) slog.Attr          { return slog.Int(KeyAttempt, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
