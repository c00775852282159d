package ruledef

import "testing"

func TestApplyDefinition_FieldKind(t *testing.T) {
	s := NewStore()
	def := []byte(`{"field": "email", "rules": ["required", ["email"]]}`)
	if err := applyDefinition(s, "field", def); err != nil {
		t.Fatalf("apply field definition: %v", err)
	}

	rules := s.Base()["email"]
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Name != "required" || rules[1].Name != "email" {
		t.Fatalf("unexpected rules: %v", rules)
	}
}

func TestApplyDefinition_ConditionalKind(t *testing.T) {
	s := NewStore()
	def := []byte(`{"if": {"country": "US"}, "then": {"zip": ["required"]}}`)
	if err := applyDefinition(s, "conditional", def); err != nil {
		t.Fatalf("apply conditional definition: %v", err)
	}

	conds := s.Conditionals()
	if len(conds) != 1 {
		t.Fatalf("expected 1 conditional, got %d", len(conds))
	}
	if conds[0].Condition["country"] != "US" {
		t.Fatalf("condition not decoded: %v", conds[0].Condition)
	}
	if len(conds[0].Then["zip"]) != 1 {
		t.Fatalf("then branch not decoded: %v", conds[0].Then)
	}
}

func TestApplyDefinition_ExpressionConditional(t *testing.T) {
	s := NewStore()
	def := []byte(`{"if_expr": "record.total > 100", "then": {"approver": ["required"]}}`)
	if err := applyDefinition(s, "conditional", def); err != nil {
		t.Fatalf("apply expression conditional: %v", err)
	}
	if s.Conditionals()[0].Expr != "record.total > 100" {
		t.Fatalf("expression not kept: %v", s.Conditionals()[0])
	}
}

func TestApplyDefinition_Invalid(t *testing.T) {
	s := NewStore()

	if err := applyDefinition(s, "field", []byte(`{"rules": ["required"]}`)); err == nil {
		t.Fatal("expected error for field definition without field name")
	}
	if err := applyDefinition(s, "conditional", []byte(`{"then": {"x": ["required"]}}`)); err == nil {
		t.Fatal("expected error for conditional without condition")
	}
	if err := applyDefinition(s, "banana", []byte(`{}`)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := applyDefinition(s, "field", []byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestApplyDefinition_BadShapeIsErrorNotPanic(t *testing.T) {
	s := NewStore()

	// Valid JSON, wrong shape: rules as an object.
	if err := applyDefinition(s, "field", []byte(`{"field": "x", "rules": {"min": 2}}`)); err == nil {
		t.Fatal("expected error for object-shaped rules")
	}
	// Message map in a non-trailing list position.
	if err := applyDefinition(s, "field",
		[]byte(`{"field": "x", "rules": ["required", {"message": "m"}, "email"]}`)); err == nil {
		t.Fatal("expected error for mid-list message map")
	}
	// Bad shape inside a conditional branch.
	if err := applyDefinition(s, "conditional",
		[]byte(`{"if": {"a": 1}, "then": {"x": {"min": 2}}}`)); err == nil {
		t.Fatal("expected error for object-shaped then rules")
	}
	// Nothing from the bad rows may have been registered.
	if len(s.Base()) != 0 || len(s.Conditionals()) != 0 {
		t.Fatalf("bad rows leaked into store: base=%v conditionals=%d", s.Base(), len(s.Conditionals()))
	}
}

func TestApplyDefinition_BadExpressionSkipsRow(t *testing.T) {
	s := NewStore()
	def := []byte(`{"if_expr": "record.total +", "then": {"x": ["required"]}}`)
	if err := applyDefinition(s, "conditional", def); err == nil {
		t.Fatal("expected error for malformed condition expression")
	}
	if len(s.Conditionals()) != 0 {
		t.Fatal("unparseable conditional must not be registered")
	}
}
