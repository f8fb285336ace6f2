package errors

import (
	"fmt"
	"sort"
	"strings"
)

// FormatUser renders an error as a short message suitable for the
// interactive layer. SeekErrors print their message and details;
// anything else prints verbatim.
func FormatUser(err error) string {
	if err == nil {
		return ""
	}

	se, ok := err.(*SeekError)
	if !ok {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(se.Message)

	if len(se.Details) > 0 {
		keys := make([]string, 0, len(se.Details))
		for k := range se.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " (%s: %s)", k, se.Details[k])
		}
	}

	return b.String()
}

// FormatLog renders an error with its code for structured logs.
func FormatLog(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := err.(*SeekError); ok {
		return fmt.Sprintf("%s: %s", se.Code, se.Message)
	}
	return err.Error()
}
