package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

// ParseIntParam retrieves an int from the query parameters. An absent key
// yields 0; an unparsable value yields 0 and a field error.
func ParseIntParam(params url.Values, key string, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, fieldErrors
	}
	return n, fieldErrors
}
