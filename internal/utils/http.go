package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams retrieves a path parameter from the request context and
// removes a trailing ".json" or ".svg" extension.
func ExtractIDFromParams(r *http.Request, paramName string) string {
	id, _ := SplitExtension(httprouter.ParamsFromContext(r.Context()).ByName(paramName))
	return id
}

// SplitExtension separates a known response extension from a path segment.
// Unknown extensions are left in place.
func SplitExtension(raw string) (name, ext string) {
	for _, known := range []string{".json", ".svg"} {
		if strings.HasSuffix(raw, known) {
			return strings.TrimSuffix(raw, known), strings.TrimPrefix(known, ".")
		}
	}
	return raw, ""
}
