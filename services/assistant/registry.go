package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"dulai/models"
	"dulai/services/booking"
)

// ExtractFieldsName is the function whose results are merged into session
// fields at the dispatch layer instead of being handed back through the
// generic invoke path.
const ExtractFieldsName = "extract_fields"

// HandlerFunc executes one advertised function against its parsed arguments.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Registry maps function names to their schema/handler pairs. The schemas are
// advertised to the model verbatim; the handlers serve dispatch.
type Registry struct {
	schemas  []FunctionSchema
	handlers map[string]HandlerFunc
}

// advertisedFunctions is the capability surface offered to the model.
var advertisedFunctions = []FunctionSchema{
	{
		Name:        "get_estimate",
		Description: "Return a rough dollar estimate for the service.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"service_type": map[string]any{"type": "string"},
				"tree_count":   map[string]any{"type": "integer"},
				"height_ft":    map[string]any{"type": "integer"},
				"emergency":    map[string]any{"type": "boolean"},
				"zip":          map[string]any{"type": "string"},
			},
			"required": []string{"service_type", "tree_count", "height_ft", "emergency", "zip"},
		},
	},
	{
		Name:        "find_open_slots",
		Description: "Return up to 5 free two-hour crew blocks.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"preferred_date_range": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"start_date": map[string]any{"type": "string"},
						"end_date":   map[string]any{"type": "string"},
					},
					"required": []string{"start_date", "end_date"},
				},
				"preferred_times_of_day": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"crew_size": map[string]any{"type": "integer"},
				"max_slots": map[string]any{"type": "integer"},
			},
			"required": []string{"preferred_date_range", "preferred_times_of_day"},
		},
	},
	{
		Name:        "book_job",
		Description: "Reserve the selected slot and create an appointment.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"slot_id":     map[string]any{"type": "string"},
				"job_payload": map[string]any{"type": "object"},
			},
			"required": []string{"slot_id", "job_payload"},
		},
	},
	{
		Name:        ExtractFieldsName,
		Description: "Record booking details mentioned by the customer. Pass any subset of the known fields.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_name": map[string]any{"type": "string"},
				"phone":         map[string]any{"type": "string"},
				"address":       map[string]any{"type": "string"},
				"zip":           map[string]any{"type": "string"},
				"service_type":  map[string]any{"type": "string"},
				"tree_count":    map[string]any{"type": "integer"},
				"height_ft":     map[string]any{"type": "integer"},
				"emergency":     map[string]any{"type": "boolean"},
			},
		},
	},
}

// NewRegistry builds the registry for the booking service and verifies that
// every advertised schema has a handler and vice versa, so drift between the
// advertised capabilities and the implemented ones fails at startup.
func NewRegistry(bookingSvc booking.Service) (*Registry, error) {
	handlers := map[string]HandlerFunc{
		"get_estimate": func(ctx context.Context, args map[string]any) (any, error) {
			if err := requireKeys(args, "service_type", "tree_count", "height_ft", "emergency", "zip"); err != nil {
				return nil, err
			}
			var in models.EstimateInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return bookingSvc.Estimate(in)
		},
		"find_open_slots": func(ctx context.Context, args map[string]any) (any, error) {
			if err := requireKeys(args, "preferred_date_range", "preferred_times_of_day"); err != nil {
				return nil, err
			}
			var q models.SlotQuery
			if err := decodeArgs(args, &q); err != nil {
				return nil, err
			}
			return bookingSvc.FindOpenSlots(ctx, q)
		},
		"book_job": func(ctx context.Context, args map[string]any) (any, error) {
			if err := requireKeys(args, "slot_id", "job_payload"); err != nil {
				return nil, err
			}
			var in struct {
				SlotID     string         `json:"slot_id"`
				JobPayload map[string]any `json:"job_payload"`
			}
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return bookingSvc.BookJob(ctx, in.SlotID, in.JobPayload)
		},
		// Identity: the aggregator merges the parsed object into session
		// fields before this handler would ever run; keeping it here keeps
		// the schema/handler pairing complete.
		ExtractFieldsName: func(ctx context.Context, args map[string]any) (any, error) {
			return args, nil
		},
	}

	for _, schema := range advertisedFunctions {
		if _, ok := handlers[schema.Name]; !ok {
			return nil, fmt.Errorf("advertised function %q has no handler", schema.Name)
		}
	}
	for name := range handlers {
		found := false
		for _, schema := range advertisedFunctions {
			if schema.Name == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("handler %q has no advertised schema", name)
		}
	}

	return &Registry{schemas: advertisedFunctions, handlers: handlers}, nil
}

// Schemas returns the function schemas to advertise to the model.
func (r *Registry) Schemas() []FunctionSchema {
	return r.schemas
}

// Invoke dispatches a completed call. Handler panics are captured and
// reported as dispatch errors so a bad call never takes down the stream.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (result any, err error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("function %q panicked: %v", name, rec)
		}
	}()
	return handler(ctx, args)
}

// decodeArgs maps a parsed argument object onto a typed input, rejecting
// keys the function does not accept.
func decodeArgs(args map[string]any, out any) error {
	b, err := json.Marshal(args)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func requireKeys(args map[string]any, keys ...string) error {
	for _, k := range keys {
		if _, ok := args[k]; !ok {
			return fmt.Errorf("missing required argument %q", k)
		}
	}
	return nil
}
