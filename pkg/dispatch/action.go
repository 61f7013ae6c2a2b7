package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/germanamz/rsacrack/pkg/display"
)

// Endpoint paths, relative to the page origin.
const (
	HealthPath   = "/api/health"
	FactorPath   = "/api/factor"
	ClassifyPath = "/api/classify"
	LottoPath    = "/api/lotto_factor"
)

// Fixed status texts.
const (
	Prompt      = "Provide n"
	Placeholder = "Running…"

	DefaultSchedule = "luby"
)

// ErrMissingN is returned when an action that requires n gets an empty one.
var ErrMissingN = errors.New(Prompt)

// Action is one of the user-triggered job kinds.
type Action int

const (
	Classic Action = iota
	Classify
	Lotto
)

var actionNames = [...]string{
	Classic:  "factor",
	Classify: "classify",
	Lotto:    "lotto",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Target returns the output region the action renders into.
func (a Action) Target() display.Target {
	switch a {
	case Classic:
		return display.Classic
	case Classify:
		return display.Classify
	default:
		return display.Lotto
	}
}

// ParseAction maps a name ("factor", "classify", "lotto") to an Action.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if strings.EqualFold(n, name) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("dispatch: unknown action %q", name)
}

// Form holds the current values of the input controls. The classic and
// classify actions share N; the lotto action has its own N64.
type Form struct {
	N           string
	TimeoutMS   string
	MaxBits     string
	N64         string
	BudgetMS    string
	RhoRestarts string
	Schedule    string
}

// Descriptor is the logical parameter set of one job, built fresh from the
// form for every action.
type Descriptor struct {
	N           string
	TimeoutMS   string   // Empty means not sent.
	MaxBits     string   // Empty means not sent.
	BudgetMS    float64  // Never negative.
	RhoRestarts *float64 // Nil means not sent.
	Schedule    string
}

// LottoBody is the JSON body of a lotto factor request.
type LottoBody struct {
	N           string   `json:"n"`
	BudgetMS    float64  `json:"budget_ms"`
	RhoRestarts *float64 `json:"rho_restarts,omitempty"`
	Schedule    string   `json:"schedule"`
}

// Call is a fully serialized request, ready to hand to a fetcher.
type Call struct {
	Action Action
	Method string
	URL    string // Relative to the page origin.
	Header http.Header
	Body   []byte
}

// Describe builds the Descriptor for action a from the form. Classic and
// classify fail with ErrMissingN when n is blank; lotto never fails and
// leaves input validation to the server.
func Describe(a Action, f Form) (Descriptor, error) {
	switch a {
	case Classic, Classify:
		n := strings.TrimSpace(f.N)
		if n == "" {
			return Descriptor{}, ErrMissingN
		}

		d := Descriptor{N: n}
		if a == Classic {
			d.TimeoutMS = strings.TrimSpace(f.TimeoutMS)
			d.MaxBits = strings.TrimSpace(f.MaxBits)
		}
		return d, nil

	case Lotto:
		d := Descriptor{
			N:        strings.TrimSpace(f.N64),
			BudgetMS: max(parseNumber(f.BudgetMS), 0),
			Schedule: strings.TrimSpace(f.Schedule),
		}
		if d.Schedule == "" {
			d.Schedule = DefaultSchedule
		}
		if r := parseNumber(f.RhoRestarts); r > 0 {
			d.RhoRestarts = &r
		}
		return d, nil
	}

	return Descriptor{}, fmt.Errorf("dispatch: unknown action %d", int(a))
}

// Build describes and serializes action a in one step.
func Build(a Action, f Form) (Call, error) {
	d, err := Describe(a, f)
	if err != nil {
		return Call{}, err
	}
	return d.Call(a)
}

// Call serializes the descriptor into the request for action a.
func (d Descriptor) Call(a Action) (Call, error) {
	switch a {
	case Classic:
		q := query{}
		q.add("n", d.N)
		q.add("timeout_ms", d.TimeoutMS)
		q.add("max_bits", d.MaxBits)
		return Call{Action: a, Method: http.MethodGet, URL: FactorPath + "?" + q.String()}, nil

	case Classify:
		q := query{}
		q.add("n", d.N)
		return Call{Action: a, Method: http.MethodGet, URL: ClassifyPath + "?" + q.String()}, nil

	case Lotto:
		body, err := json.Marshal(LottoBody{
			N:           d.N,
			BudgetMS:    d.BudgetMS,
			RhoRestarts: d.RhoRestarts,
			Schedule:    d.Schedule,
		})
		if err != nil {
			return Call{}, fmt.Errorf("dispatch: marshal lotto body: %w", err)
		}

		h := make(http.Header)
		h.Set("Content-Type", "application/json")
		return Call{Action: a, Method: http.MethodPost, URL: LottoPath, Header: h, Body: body}, nil
	}

	return Call{}, fmt.Errorf("dispatch: unknown action %d", int(a))
}

// query is an insertion-ordered query string. Empty values are skipped.
type query []string

func (q *query) add(key, value string) {
	if value == "" {
		return
	}
	*q = append(*q, url.QueryEscape(key)+"="+url.QueryEscape(value))
}

func (q query) String() string { return strings.Join(q, "&") }

// parseNumber reads a decimal number the way a numeric form field does:
// surrounding blanks are ignored and anything unparseable is 0.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
