package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/germanamz/rsacrack/pkg/tools/toolbox"
)

// field is a form value that may arrive as a JSON string or number.
type field string

func (f *field) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = field(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = field(n.String())
	return nil
}

type toolInput struct {
	N           field `json:"n"`
	TimeoutMS   field `json:"timeout_ms"`
	MaxBits     field `json:"max_bits"`
	BudgetMS    field `json:"budget_ms"`
	RhoRestarts field `json:"rho_restarts"`
	Schedule    field `json:"schedule"`
}

func (in toolInput) form() Form {
	return Form{
		N:           string(in.N),
		TimeoutMS:   string(in.TimeoutMS),
		MaxBits:     string(in.MaxBits),
		N64:         string(in.N),
		BudgetMS:    string(in.BudgetMS),
		RhoRestarts: string(in.RhoRestarts),
		Schedule:    string(in.Schedule),
	}
}

const (
	factorSchema = `{"type":"object","properties":{` +
		`"n":{"type":"string","description":"Integer to factor, as a decimal numeral"},` +
		`"timeout_ms":{"type":"string","description":"Server-side time limit in milliseconds"},` +
		`"max_bits":{"type":"string","description":"Largest input size the server should attempt"}},` +
		`"required":["n"]}`
	classifySchema = `{"type":"object","properties":{` +
		`"n":{"type":"string","description":"Integer to classify, as a decimal numeral"}},` +
		`"required":["n"]}`
	lottoSchema = `{"type":"object","properties":{` +
		`"n":{"type":"string","description":"Integer to factor, as a decimal numeral"},` +
		`"budget_ms":{"type":"number","description":"Overall time budget in milliseconds"},` +
		`"rho_restarts":{"type":"number","description":"Pollard rho restarts per ticket"},` +
		`"schedule":{"type":"string","description":"Restart schedule, default luby"}}}`
)

// Tools returns the dispatcher's actions as a toolbox. Every tool goes
// through the same build and execute path as the interactive actions.
func (d *Dispatcher) Tools() *toolbox.ToolBox {
	return toolbox.New(
		toolbox.Tool{
			Name:        "health",
			Description: "Probe the factoring service. Returns ok, degraded or unreachable.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler: func(ctx context.Context, _ json.RawMessage) (string, error) {
				return d.Health(ctx).Text(), nil
			},
		},
		d.actionTool(Classic, "factor", "Factor n with the deterministic pipeline.", factorSchema),
		d.actionTool(Classify, "classify", "Classify n (prime, composite, smooth, ...).", classifySchema),
		d.actionTool(Lotto, "lotto_factor", "Factor n with randomized rho restarts on a restart schedule.", lottoSchema),
	)
}

func (d *Dispatcher) actionTool(a Action, name, desc, schema string) toolbox.Tool {
	return toolbox.Tool{
		Name:        name,
		Description: desc,
		InputSchema: json.RawMessage(schema),
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in toolInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("%s: invalid input: %w", name, err)
			}

			c, now, ok := d.Prepare(a, in.form())
			if !ok {
				return "", fmt.Errorf("%s: %s", name, strings.TrimSpace(now.Text()))
			}

			out := d.Execute(ctx, c)
			if out.Err != nil {
				return "", out.Err
			}
			return out.Text(), nil
		},
	}
}
