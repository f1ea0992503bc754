// Package numbering issues document numbers and rendered bytes through
// the DocumentGenerator capability. Two backends exist: Local renders
// in-process and owns the company counters; Qonto delegates both
// numbering and rendering to the provider.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var placeholderRe = regexp.MustCompile(`\{(.*?)\}`)

// Format expands a numbering template. `{0}` is the year-month of the
// given date (e.g. 202504), `{1}` the zero-padded sequence (e.g. 003).
// Unrecognized placeholder indices render empty.
func Format(template string, date time.Time, number int) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		value := strings.TrimSuffix(strings.TrimPrefix(match, "{"), "}")
		idx, err := strconv.Atoi(strings.SplitN(value, ":", 2)[0])
		if err != nil {
			return ""
		}
		switch idx {
		case 0:
			return date.Format("200601")
		case 1:
			return fmt.Sprintf("%03d", number)
		default:
			return ""
		}
	})
}
