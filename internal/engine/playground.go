package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"record-validate/internal/ruledef"
)

// Playground is the default Factory, adapting go-playground/validator.
// One Playground is shared process-wide; each run gets its own Engine
// over that run's value snapshot. Built-in checks (required, email, min,
// max, ...) come from the underlying library; custom checks arrive via
// Register.
type Playground struct {
	mu        sync.RWMutex
	validate  *validator.Validate
	locale    string
	templates map[string]string
}

func NewPlayground(locale string) *Playground {
	return &Playground{
		validate:  validator.New(),
		locale:    locale,
		templates: make(map[string]string),
	}
}

// Locale returns the active message locale.
func (p *Playground) Locale() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.locale
}

// SetLocale switches the active message locale. The next run detects the
// change and re-registers custom checks with the new locale's messages.
func (p *Playground) SetLocale(locale string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locale = locale
}

// Register installs a custom check and its failure-message template.
// Re-registering a name replaces both.
func (p *Playground) Register(name string, fn CheckFunc, message string) error {
	err := p.validate.RegisterValidation(name, func(fl validator.FieldLevel) bool {
		var params []string
		if raw := fl.Param(); raw != "" {
			params = strings.Fields(raw)
		}
		return fn(fl.Field().Interface(), params)
	})
	if err != nil {
		return fmt.Errorf("register check %s: %w", name, err)
	}
	p.mu.Lock()
	p.templates[name] = message
	p.mu.Unlock()
	return nil
}

// New constructs an Engine over a field-value snapshot.
func (p *Playground) New(values map[string]any) Engine {
	return &playgroundRun{parent: p, values: values}
}

type playgroundRun struct {
	parent *Playground
	values map[string]any
	rules  ruledef.RuleSet
	errs   RawErrors
}

func (r *playgroundRun) SetRules(rules ruledef.RuleSet) {
	r.rules = rules
}

// Evaluate checks every rule of every field against the snapshot. Fields
// are walked in name order so raw output is stable; within a field, rules
// run in their resolved order.
func (r *playgroundRun) Evaluate() bool {
	r.errs = nil

	fields := make([]string, 0, len(r.rules))
	for field := range r.rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := r.values[field]
		for _, spec := range r.rules[field] {
			// Absent fields only fail "required"; other checks are
			// skipped, the same way field rules ignore missing values.
			if value == nil && spec.Name != "required" {
				continue
			}
			failed, panicked := r.check(value, tagFor(spec))
			if panicked != "" {
				if strings.Contains(panicked, "Undefined validation") {
					r.addError(field, fmt.Sprintf("unknown rule %q for field %s", spec.Name, field))
				} else {
					r.addError(field, fmt.Sprintf("invalid parameters for rule %q on field %s", spec.Name, field))
				}
				continue
			}
			if failed {
				r.addError(field, r.messageFor(spec, field))
			}
		}
	}
	return len(r.errs) == 0
}

// check runs one tag. The underlying library panics both on tags it has
// no check for ("Undefined validation ...") and on parameters it cannot
// parse (e.g. min=abc against a number); either is captured here so the
// caller can report it as a per-field failure instead of the run dying.
func (r *playgroundRun) check(value any, tag string) (failed bool, panicked string) {
	defer func() {
		if p := recover(); p != nil {
			failed = true
			panicked = fmt.Sprint(p)
		}
	}()
	return r.parent.validate.Var(value, tag) != nil, ""
}

func (r *playgroundRun) addError(field, msg string) {
	if r.errs == nil {
		r.errs = RawErrors{}
	}
	r.errs[field] = append(r.errs[field], msg)
}

func (r *playgroundRun) Errors() RawErrors {
	return r.errs
}

func (r *playgroundRun) messageFor(spec ruledef.RuleSpec, field string) string {
	if spec.Message != "" {
		return spec.Message
	}
	r.parent.mu.RLock()
	template, ok := r.parent.templates[spec.Name]
	locale := r.parent.locale
	r.parent.mu.RUnlock()
	if ok && template != "" {
		return fmt.Sprintf(template, field)
	}
	return DefaultMessage(locale, spec.Name, field)
}

// tagFor renders a RuleSpec in the library's tag syntax, e.g.
// {min [3]} -> "min=3".
func tagFor(spec ruledef.RuleSpec) string {
	if len(spec.Params) == 0 {
		return spec.Name
	}
	return spec.Name + "=" + strings.Join(spec.Params, " ")
}
