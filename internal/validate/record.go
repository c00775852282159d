package validate

// MapRecord is a Record over a plain field-value map. It is what the
// HTTP surface binds request bodies to, and the simplest host for tests.
type MapRecord struct {
	values map[string]any
	hooks  []Hook
}

func NewMapRecord(values map[string]any) *MapRecord {
	if values == nil {
		values = map[string]any{}
	}
	return &MapRecord{values: values}
}

// Fields returns a copy of the current values, so hooks see a stable
// snapshot even if the record changes mid-run.
func (m *MapRecord) Fields() map[string]any {
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Set updates one field value.
func (m *MapRecord) Set(field string, value any) {
	m.values[field] = value
}

// OnValidate registers a hook.
func (m *MapRecord) OnValidate(hook Hook) {
	m.hooks = append(m.hooks, hook)
}

// Validate triggers the registered hooks in order and returns the first
// failing result, or the nil sentinel if every hook passes.
func (m *MapRecord) Validate(intent string) (ErrorMap, error) {
	for _, hook := range m.hooks {
		errs, err := hook(intent)
		if err != nil {
			return nil, err
		}
		if errs != nil {
			return errs, nil
		}
	}
	return nil, nil
}
