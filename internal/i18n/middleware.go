package i18n

import (
	"context"
	"net/http"
)

type contextKey struct{}

// ContextWithLocale stores the negotiated locale on the context.
func ContextWithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, contextKey{}, locale)
}

// LocaleFromContext returns the request locale, defaulting when absent.
func LocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(contextKey{}).(string); ok && locale != "" {
		return locale
	}
	return DefaultLocale
}

// Middleware negotiates the locale from Accept-Language and advertises the
// chosen one via Content-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := ResolveLocale(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", locale)
		next.ServeHTTP(w, r.WithContext(ContextWithLocale(r.Context(), locale)))
	})
}
