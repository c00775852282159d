package validate

import "record-validate/internal/engine"

// ErrorMap is the normalized result of a run: one representative message
// per failing field. A nil ErrorMap is the "no errors" sentinel; a run
// never returns an empty non-nil map.
type ErrorMap map[string]string

// NormalizeErrors collapses the engine's raw multi-message output to one
// message per field. When several rules fail for a field the last message
// wins, so later-registered rules take precedence.
func NormalizeErrors(raw engine.RawErrors) ErrorMap {
	if len(raw) == 0 {
		return nil
	}
	out := make(ErrorMap, len(raw))
	for field, msgs := range raw {
		if len(msgs) == 0 {
			continue
		}
		out[field] = msgs[len(msgs)-1]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
