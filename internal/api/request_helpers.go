package api

import (
	"math"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
)

// maxQueryInt caps numeric query parameters.
const maxQueryInt = math.MaxInt32

// parseIntParam reads a leading base-10 integer from raw the way lenient
// query parsers do: leading whitespace and a sign are accepted, parsing stops
// at the first non-digit, and "3.5" or "2abc" yield their integer prefix.
// It returns 0 when raw has no leading digits, which callers treat as
// "use the default". Magnitudes are capped at maxQueryInt.
func parseIntParam(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n < maxQueryInt {
			n = n*10 + int(s[i]-'0')
		}
	}
	if n > maxQueryInt {
		n = maxQueryInt
	}
	if negative {
		return -n
	}
	return n
}

// queryParam returns the first non-empty value among keys.
func queryParam(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// pathID returns the {id} URL parameter.
func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
