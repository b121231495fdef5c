package history

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FilterTopics keeps the records whose topic matches a glob pattern such
// as "*cell*" or "{photo,chloro}*". Matching ignores case. An empty
// pattern keeps everything.
func FilterTopics(records []Record, pattern string) ([]Record, error) {
	if pattern == "" {
		return records, nil
	}
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid topic pattern %q", pattern)
	}
	var out []Record
	for _, rec := range records {
		ok, err := doublestar.Match(pattern, strings.ToLower(rec.Topic))
		if err != nil {
			return nil, fmt.Errorf("matching topic pattern: %w", err)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
