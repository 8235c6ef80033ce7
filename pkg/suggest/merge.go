package suggest

import (
	"strings"

	"golang.org/x/text/collate"
)

// merge reconciles the server's candidates with the session's unsaved
// values: duplicates collapse by exact string match, empties drop out,
// only prefix matches of the input survive (case-insensitively), and the
// result comes back in collation order. The collator is not safe for
// concurrent use; the engine serializes calls under its lock.
func merge(server, unsaved []string, input string, col *collate.Collator) []string {
	prefix := strings.ToLower(input)

	seen := make(map[string]struct{}, len(server)+len(unsaved))
	out := make([]string, 0, len(server)+len(unsaved))
	for _, list := range [][]string{server, unsaved} {
		for _, v := range list {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			if !strings.HasPrefix(strings.ToLower(v), prefix) {
				continue
			}
			out = append(out, v)
		}
	}

	col.SortStrings(out)
	return out
}
