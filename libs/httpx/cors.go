package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy configures WithCORS. An empty AllowedOrigins disables CORS
// handling entirely; "*" admits any origin.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

type corsHeaders struct {
	anyOrigin bool
	origins   map[string]struct{}
	methods   string
	headers   string
	exposed   string
	maxAge    string
	creds     bool
}

func WithCORS(cfg CORSPolicy) Middleware {
	origins := trimmed(cfg.AllowedOrigins)
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	ch := corsHeaders{
		origins: make(map[string]struct{}, len(origins)),
		methods: strings.Join(trimmed(cfg.AllowedMethods), ", "),
		headers: strings.Join(trimmed(cfg.AllowedHeaders), ", "),
		exposed: strings.Join(trimmed(cfg.ExposedHeaders), ", "),
		creds:   cfg.AllowCredentials,
	}
	for _, o := range origins {
		if o == "*" {
			ch.anyOrigin = true
			continue
		}
		ch.origins[strings.ToLower(o)] = struct{}{}
	}
	if secs := int(cfg.MaxAge.Seconds()); secs > 0 {
		ch.maxAge = strconv.Itoa(secs)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allow, ok := ch.allowOrigin(origin)
			if origin == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			ch.write(w.Header(), allow)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allowOrigin echoes the caller's origin unless a bare wildcard is allowed
// without credentials.
func (c corsHeaders) allowOrigin(origin string) (string, bool) {
	if _, ok := c.origins[strings.ToLower(origin)]; ok {
		return origin, true
	}
	if !c.anyOrigin {
		return "", false
	}
	if c.creds {
		return origin, true
	}
	return "*", true
}

func (c corsHeaders) write(h http.Header, allow string) {
	h.Set("Access-Control-Allow-Origin", allow)
	if c.creds {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	setIfNotEmpty(h, "Access-Control-Allow-Methods", c.methods)
	setIfNotEmpty(h, "Access-Control-Allow-Headers", c.headers)
	setIfNotEmpty(h, "Access-Control-Expose-Headers", c.exposed)
	setIfNotEmpty(h, "Access-Control-Max-Age", c.maxAge)
	h.Add("Vary", "Origin")
}

func setIfNotEmpty(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
