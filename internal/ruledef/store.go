package ruledef

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store holds the rules registered for one record type: an unconditional
// base RuleSet plus an ordered list of conditional rules. Rules only
// accumulate; there is no removal, matching the one-validator-per-record
// lifecycle. A Store may be read by concurrent runs, so all access goes
// through the mutex.
type Store struct {
	mu           sync.RWMutex
	base         RuleSet
	conditionals []*ConditionalRule
}

func NewStore() *Store {
	return &Store{base: RuleSet{}}
}

// AddRule normalizes expr and appends it to the field's existing rules.
// Repeated identical calls accumulate duplicate rules; deduplication is
// the caller's responsibility.
func (s *Store) AddRule(field string, expr any) {
	rules := Normalize(expr)
	if len(rules) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base[field] = append(s.base[field], rules...)
}

// AddRules registers every entry of a field→rule-expression map. Fields
// are registered in sorted name order so repeated loads produce the same
// store.
func (s *Store) AddRules(rules map[string]any) {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		s.AddRule(field, rules[field])
	}
}

// If appends a conditional rule: when cond holds against the record's
// current values, the then rules apply, otherwise the else rules. els may
// be nil.
func (s *Store) If(cond Condition, then, els map[string]any) *ConditionalRule {
	return s.appendConditional(&ConditionalRule{
		Condition: cond,
		Then:      NormalizeMap(then),
		Else:      NormalizeMap(els),
	})
}

// IfExpr is the expression form of If: expression must evaluate to a
// boolean against an environment containing the record snapshot. The
// expression is compiled here, once; a compile failure is recorded on the
// rule and surfaces as a fatal error on the next run.
func (s *Store) IfExpr(expression string, then, els map[string]any) *ConditionalRule {
	return s.appendConditional(&ConditionalRule{
		Expr: expression,
		Then: NormalizeMap(then),
		Else: NormalizeMap(els),
	})
}

func (s *Store) appendConditional(cr *ConditionalRule) *ConditionalRule {
	cr.ID = uuid.NewString()
	if cr.Expr != "" {
		cr.Compiled, cr.CompileErr = compileCondition(cr.Expr)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conditionals = append(s.conditionals, cr)
	return cr
}

// Base returns a deep copy of the unconditional rule set.
func (s *Store) Base() RuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.Clone()
}

// Conditionals returns the conditional rules in registration order. The
// returned slice is a copy; the rules themselves are shared and must not
// be mutated.
func (s *Store) Conditionals() []*ConditionalRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ConditionalRule, len(s.conditionals))
	copy(out, s.conditionals)
	return out
}
