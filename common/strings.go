package common

import (
	"bytes"
	"strings"
)

func StringReader(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}

// FirstNonBlank returns the first value that is not blank after trimming.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
