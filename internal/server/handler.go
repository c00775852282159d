// Package server exposes the validation pipeline over HTTP: one endpoint
// validating a JSON record body against the loaded rule stores, and an
// admin endpoint re-reading rule declarations.
package server

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"record-validate/internal/ruledef"
	"record-validate/internal/store"
	"record-validate/internal/validate"
)

type Handler struct {
	mu     sync.RWMutex
	stores map[string]*ruledef.Store
	runner *validate.Runner
	db     *store.Store
	log    zerolog.Logger
}

func NewHandler(db *store.Store, stores map[string]*ruledef.Store, runner *validate.Runner, log zerolog.Logger) *Handler {
	if stores == nil {
		stores = map[string]*ruledef.Store{}
	}
	return &Handler{stores: stores, runner: runner, db: db, log: log}
}

func (h *Handler) storeFor(recordType string) *ruledef.Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stores[recordType]
}

// Validate runs the rules of a record type against the posted field
// values. 200 on pass, 422 with the per-field error map on failure.
func (h *Handler) Validate(c *fiber.Ctx) error {
	recordType := c.Params("type")
	rules := h.storeFor(recordType)
	if rules == nil {
		return UnknownRecordTypeError(recordType)
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return BadRequestError("Request body must be a JSON object")
	}

	record := validate.NewMapRecord(body)
	validate.New(record, rules, h.runner)

	errs, err := record.Validate(c.Query("intent", "save"))
	if err != nil {
		return err
	}
	if errs != nil {
		return ValidationFailed(errs)
	}
	return c.JSON(fiber.Map{"valid": true})
}

// Reload re-reads the rule declarations from the database and swaps the
// stores in place.
func (h *Handler) Reload(c *fiber.Ctx) error {
	stores, err := ruledef.LoadAll(c.Context(), h.db.Pool, h.log)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.stores = stores
	h.mu.Unlock()

	h.log.Info().Int("record_types", len(stores)).Msg("rule stores reloaded")
	return c.JSON(fiber.Map{"record_types": len(stores)})
}
