package lint

import (
	"fmt"
	"path"
	"strings"

	"github.com/sahilm/fuzzy"
)

// nearestPath suggests a close existing path for a target that did not
// resolve. An exact case-insensitive basename match wins; otherwise the
// best fuzzy match against known basenames is offered.
func nearestPath(target string, candidates []string) string {
	base := path.Base(target)
	if base == "" || base == "." || len(candidates) == 0 {
		return ""
	}

	lower := strings.ToLower(base)
	for _, cand := range candidates {
		if strings.ToLower(path.Base(cand)) == lower {
			return didYouMean(cand)
		}
	}

	names := make([]string, len(candidates))
	for i, cand := range candidates {
		names[i] = path.Base(cand)
	}

	matches := fuzzy.Find(base, names)
	if len(matches) == 0 {
		return ""
	}
	return didYouMean(candidates[matches[0].Index])
}

func didYouMean(rel string) string {
	return fmt.Sprintf("did you mean %q?", rel)
}
