package utils

import "strings"

// SplitTags parses a comma separated tag list, dropping blanks and duplicates.
func SplitTags(raw string) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}
	return tags
}
