package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/germanamz/rsacrack/pkg/display"
	"github.com/germanamz/rsacrack/pkg/fetch"
)

// Health probe results.
const (
	HealthOK          = "ok"
	HealthDegraded    = "degraded"
	HealthUnreachable = "unreachable"
)

// Outcome is what one invocation writes to its output region: either a
// value or an error, never both.
type Outcome struct {
	Target display.Target
	Value  any
	Err    error
}

// Text returns the rendered form of the outcome.
func (o Outcome) Text() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return display.Format(o.Value)
}

// Render writes the outcome to its region of d.
func (o Outcome) Render(d display.Display) {
	if o.Err != nil {
		d.Set(o.Target, o.Err.Error())
		return
	}
	d.Set(o.Target, o.Value)
}

// Dispatcher turns actions into calls on a fetcher and their responses into
// outcomes.
type Dispatcher struct {
	fetcher fetch.Fetcher
	log     *slog.Logger
}

// New creates a Dispatcher that sends every call through f. A nil logger
// discards log output.
func New(f fetch.Fetcher, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{fetcher: f, log: log}
}

// Prepare runs the synchronous half of an action. When the form is invalid it
// returns the prompt outcome and ok=false, and no call must be made.
// Otherwise it returns the call and the placeholder outcome to show until the
// call settles.
func (d *Dispatcher) Prepare(a Action, f Form) (c Call, now Outcome, ok bool) {
	c, err := Build(a, f)
	if err != nil {
		return Call{}, Outcome{Target: a.Target(), Value: err.Error()}, false
	}
	return c, Outcome{Target: a.Target(), Value: Placeholder}, true
}

// Execute sends c and decodes the JSON response. It blocks until the call
// settles and never fails: any error, including a panic in the fetcher,
// becomes the outcome's Err.
func (d *Dispatcher) Execute(ctx context.Context, c Call) (out Outcome) {
	out.Target = c.Action.Target()

	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Target: c.Action.Target(), Err: fmt.Errorf("dispatch: %s: %v", c.Action, r)}
		}
	}()

	header := c.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	id := uuid.NewString()
	header.Set(fetch.RequestIDHeader, id)

	log := d.log.With("action", c.Action.String(), "request_id", id)
	log.Debug("dispatch: call", "method", c.Method, "url", c.URL)
	start := time.Now()

	resp, err := d.fetcher.Fetch(ctx, c.URL, &fetch.Init{Method: c.Method, Header: header, Body: c.Body})
	if err != nil {
		log.Debug("dispatch: call failed", "err", err, "duration", time.Since(start))
		out.Err = err
		return out
	}

	v, err := fetch.DecodeJSON(resp)
	if err != nil {
		log.Debug("dispatch: bad response", "status", resp.StatusCode, "err", err, "duration", time.Since(start))
		out.Err = err
		return out
	}

	log.Debug("dispatch: call settled", "status", resp.StatusCode, "duration", time.Since(start))
	out.Value = v
	return out
}

// Dispatch runs action a against the form: it writes the prompt or the
// placeholder to disp right away, then, if a call was made, writes its
// outcome once it settles. The final outcome is also returned.
func (d *Dispatcher) Dispatch(ctx context.Context, a Action, f Form, disp display.Display) Outcome {
	c, now, ok := d.Prepare(a, f)
	now.Render(disp)
	if !ok {
		return now
	}

	out := d.Execute(ctx, c)
	out.Render(disp)
	return out
}

// Health probes the service once. The result is always one of HealthOK,
// HealthDegraded or HealthUnreachable.
func (d *Dispatcher) Health(ctx context.Context) (out Outcome) {
	out = Outcome{Target: display.Health, Value: HealthUnreachable}

	defer func() {
		if recover() != nil {
			out = Outcome{Target: display.Health, Value: HealthUnreachable}
		}
	}()

	resp, err := d.fetcher.Fetch(ctx, HealthPath, nil)
	if err != nil {
		d.log.Debug("dispatch: health unreachable", "err", err)
		return out
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil || !gjson.ValidBytes(body) {
		d.log.Debug("dispatch: health body unreadable", "status", resp.StatusCode)
		return out
	}

	doc := gjson.ParseBytes(body)
	if doc.Type == gjson.Null {
		return out
	}

	if truthy(doc.Get("ok")) {
		out.Value = HealthOK
	} else {
		out.Value = HealthDegraded
	}
	return out
}

// truthy reports whether a JSON value counts as a true "ok" flag.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		if b, err := strconv.ParseBool(r.Str); err == nil {
			return b
		}
		return r.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// Batch runs the lotto action once per numeral, at most workers at a time,
// using tmpl for every other field. Outcomes are returned in input order.
func (d *Dispatcher) Batch(ctx context.Context, numerals []string, tmpl Form, workers int) []Outcome {
	out := make([]Outcome, len(numerals))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, n := range numerals {
		g.Go(func() error {
			f := tmpl
			f.N64 = n

			c, err := Build(Lotto, f)
			if err != nil {
				out[i] = Outcome{Target: display.Lotto, Err: err}
				return nil
			}

			out[i] = d.Execute(ctx, c)
			return nil
		})
	}

	_ = g.Wait()
	return out
}
