package view

import "strconv"

// FindPrimaryHTTPPort guesses which published port hosts a web UI.
// Hints are scanned in priority order and, for each hint, the full port
// list is scanned in its original order; the first match at the highest
// priority wins. When no hint matches, the first published port is the
// fallback. Returns nil only for an empty port list.
//
// The hint-outer, ports-inner order is observable (a lower-priority
// hint earlier in the port list must lose) and must stay as is.
func FindPrimaryHTTPPort(ports []PortBinding, hints []string) *PortBinding {
	if len(ports) == 0 {
		return nil
	}

	var candidates []PortBinding
	for _, hint := range hints {
		for _, p := range ports {
			if strconv.Itoa(p.Port) == hint {
				candidates = append(candidates, p)
			}
		}
	}

	if len(candidates) > 0 {
		first := candidates[0]
		return &first
	}

	first := ports[0]
	return &first
}
