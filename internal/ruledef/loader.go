package ruledef

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// fieldDefinition is the JSONB content of a kind="field" row.
type fieldDefinition struct {
	Field string          `json:"field"`
	Rules json.RawMessage `json:"rules"`
}

// conditionalDefinition is the JSONB content of a kind="conditional" row.
type conditionalDefinition struct {
	If     Condition      `json:"if,omitempty"`
	IfExpr string         `json:"if_expr,omitempty"`
	Then   map[string]any `json:"then"`
	Else   map[string]any `json:"else,omitempty"`
}

// LoadAll reads all active rule rows and builds one Store per record type.
// Rows with invalid JSON are skipped with a warning rather than failing
// the whole load, so one bad declaration cannot take the service down.
func LoadAll(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) (map[string]*Store, error) {
	rows, err := pool.Query(ctx,
		"SELECT id, record_type, kind, definition FROM _validation_rules WHERE active ORDER BY record_type, position, id")
	if err != nil {
		return nil, fmt.Errorf("query validation rules: %w", err)
	}
	defer rows.Close()

	stores := make(map[string]*Store)
	count := 0
	for rows.Next() {
		var id, recordType, kind string
		var defJSON []byte
		if err := rows.Scan(&id, &recordType, &kind, &defJSON); err != nil {
			return nil, fmt.Errorf("scan rule row: %w", err)
		}

		store, ok := stores[recordType]
		if !ok {
			store = NewStore()
			stores[recordType] = store
		}

		if err := applyDefinition(store, kind, defJSON); err != nil {
			log.Warn().Str("rule_id", id).Str("record_type", recordType).Err(err).
				Msg("skipping invalid rule definition")
			continue
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rule rows: %w", err)
	}

	log.Info().Int("rules", count).Int("record_types", len(stores)).
		Msg("validation rules loaded")
	return stores, nil
}

// applyDefinition decodes one rule row's JSONB definition and registers it
// on the store.
func applyDefinition(store *Store, kind string, defJSON []byte) error {
	switch kind {
	case "field":
		var def fieldDefinition
		if err := json.Unmarshal(defJSON, &def); err != nil {
			return fmt.Errorf("decode field definition: %w", err)
		}
		if def.Field == "" {
			return fmt.Errorf("field definition missing %q key", "field")
		}
		var expr any
		if err := json.Unmarshal(def.Rules, &expr); err != nil {
			return fmt.Errorf("decode rule expression: %w", err)
		}
		// Checked normalization: JSON is data, a bad shape must come back
		// as an error for the warn-and-skip path, not a panic.
		rules, err := normalize(expr)
		if err != nil {
			return fmt.Errorf("invalid rule expression: %w", err)
		}
		store.AddRule(def.Field, rules)
		return nil

	case "conditional":
		var def conditionalDefinition
		if err := json.Unmarshal(defJSON, &def); err != nil {
			return fmt.Errorf("decode conditional definition: %w", err)
		}
		if len(def.If) == 0 && def.IfExpr == "" {
			return fmt.Errorf("conditional definition needs %q or %q", "if", "if_expr")
		}
		// Validate both branches and the expression before touching the
		// store, so a bad row is skipped without registering anything.
		if _, err := normalizeMap(def.Then); err != nil {
			return fmt.Errorf("invalid then rules: %w", err)
		}
		if _, err := normalizeMap(def.Else); err != nil {
			return fmt.Errorf("invalid else rules: %w", err)
		}
		if def.IfExpr != "" {
			if _, err := compileCondition(def.IfExpr); err != nil {
				return err
			}
			store.IfExpr(def.IfExpr, def.Then, def.Else)
		} else {
			store.If(def.If, def.Then, def.Else)
		}
		return nil

	default:
		return fmt.Errorf("unknown rule kind %q", kind)
	}
}
