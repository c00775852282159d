package validate

import (
	"fmt"
	"sync"

	"record-validate/internal/engine"
	"record-validate/internal/ruledef"
)

// regState is the process-wide record of which locale the engine's custom
// checks were last registered for. Registration is idempotent but not
// free, so runs skip it while the locale is unchanged. The mutex
// serializes the check-then-register sequence across concurrent runs.
var regState struct {
	mu     sync.Mutex
	done   bool
	locale string
}

// Runner bridges a resolved rule set and a value snapshot to the
// validation engine.
type Runner struct {
	factory engine.Factory
}

func NewRunner(factory engine.Factory) *Runner {
	return &Runner{factory: factory}
}

// Locale returns the engine's active locale.
func (r *Runner) Locale() string {
	return r.factory.Locale()
}

// Run evaluates rules against the snapshot in ctx. A passing run returns
// (nil, nil); failures come back as the engine's raw per-field output.
func (r *Runner) Run(rules ruledef.RuleSet, ctx *Context) (engine.RawErrors, error) {
	if err := r.ensureRegistered(); err != nil {
		return nil, err
	}

	eng := r.factory.New(ctx.Values)
	eng.SetRules(rules)
	if eng.Evaluate() {
		return nil, nil
	}
	return eng.Errors(), nil
}

// ensureRegistered re-registers the custom rule types when the engine's
// locale differs from the one they were last registered for, and on the
// first run. Otherwise it is a no-op.
func (r *Runner) ensureRegistered() error {
	regState.mu.Lock()
	defer regState.mu.Unlock()

	locale := r.factory.Locale()
	if regState.done && regState.locale == locale {
		return nil
	}
	if err := engine.RegisterAll(locale, r.factory); err != nil {
		return fmt.Errorf("locale %s: %w", locale, err)
	}
	regState.done = true
	regState.locale = locale
	return nil
}
