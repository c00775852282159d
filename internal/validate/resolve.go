package validate

import (
	"fmt"

	"dario.cat/mergo"

	"record-validate/internal/ruledef"
)

// Resolve produces the effective rule set for one run: a copy of the
// store's unconditional rules with each conditional rule's matching
// branch merged in, walked in registration order. The merge accumulates
// per field (rule lists concatenate, never replace), so a later branch
// can only add to a field's rules. Identical rules are not deduplicated;
// registering the same rule through two matching branches yields two
// entries. Same store, same values: same result.
func Resolve(store *ruledef.Store, ctx *Context) (ruledef.RuleSet, error) {
	result := store.Base()

	for _, cr := range store.Conditionals() {
		matched, err := evalConditional(cr, ctx.Values)
		if err != nil {
			return nil, fmt.Errorf("conditional rule %s: %w", cr.ID, err)
		}

		branch := cr.Then
		if !matched {
			branch = cr.Else
		}
		if len(branch) == 0 {
			continue
		}
		if err := mergo.Merge(&result, branch.Clone(), mergo.WithAppendSlice); err != nil {
			return nil, fmt.Errorf("merge conditional rule %s: %w", cr.ID, err)
		}
	}
	return result, nil
}
