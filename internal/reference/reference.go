// Package reference builds and recognizes the RFP reference IDs carried in
// outbound email subjects and echoed back in vendor replies.
package reference

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var referencePattern = regexp.MustCompile(`RFP-(\d+)-\d+`)

// MakeReferenceID returns "RFP-<rfpID>-<unix millis>".
func MakeReferenceID(rfpID int64, at time.Time) string {
	return fmt.Sprintf("RFP-%d-%d", rfpID, at.UnixMilli())
}

// ParseReferenceID finds the first reference ID anywhere in subject and returns
// its RFP id. Prefixes such as "Re:" or "Fwd:" are irrelevant.
func ParseReferenceID(subject string) (int64, bool) {
	match := referencePattern.FindStringSubmatch(subject)
	if match == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
