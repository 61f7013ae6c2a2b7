package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tidwall/gjson"

	"github.com/germanamz/rsacrack/pkg/dispatch"
)

const prettyWidth = 100

// exitCode is returned by commands that already reported their failure on
// stdout or stderr.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// actionFlags are the flags of the one-shot action commands.
type actionFlags struct {
	options
	pretty      bool
	timeoutMS   string
	maxBits     string
	budgetMS    string
	rhoRestarts string
	schedule    string
	workers     int
}

func newActionFlagSet(name string, f *actionFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	f.register(fs)
	fs.BoolVar(&f.pretty, "pretty", false, "render JSON results for the terminal")

	switch name {
	case "factor":
		fs.Usage = usage(fs, "rsacrack factor [flags] <n>", "Factor n with the deterministic pipeline.")
		fs.StringVar(&f.timeoutMS, "timeout-ms", "", "server-side time limit in milliseconds")
		fs.StringVar(&f.maxBits, "max-bits", "", "largest input size the server should attempt")
	case "classify":
		fs.Usage = usage(fs, "rsacrack classify [flags] <n>", "Classify n.")
	case "lotto":
		fs.Usage = usage(fs, "rsacrack lotto [flags] [n...]",
			"Lotto factor every numeral. With no numerals, one numeral per stdin line is read\nand results are printed tab-separated in input order.")
		fs.StringVar(&f.budgetMS, "budget-ms", "", "overall time budget in milliseconds")
		fs.StringVar(&f.rhoRestarts, "rho-restarts", "", "Pollard rho restarts per ticket")
		fs.StringVar(&f.schedule, "schedule", "", "restart schedule (default luby)")
		fs.IntVar(&f.workers, "workers", 0, "concurrent requests in batch mode (default from config)")
	case "health":
		fs.Usage = usage(fs, "rsacrack health [flags]", "Probe the service. Prints ok, degraded or unreachable.")
	}

	return fs
}

func usage(fs *flag.FlagSet, synopsis, about string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s\n\n%s\n\nFlags:\n", synopsis, about)
		fs.PrintDefaults()
	}
}

// applyFlags overrides the form with every action flag set on the command
// line.
func applyFlags(fs *flag.FlagSet, f actionFlags, form *dispatch.Form) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "timeout-ms":
			form.TimeoutMS = f.timeoutMS
		case "max-bits":
			form.MaxBits = f.maxBits
		case "budget-ms":
			form.BudgetMS = f.budgetMS
		case "rho-restarts":
			form.RhoRestarts = f.rhoRestarts
		case "schedule":
			form.Schedule = f.schedule
		}
	})
}

func runAction(name string, args []string) error {
	var f actionFlags
	fs := newActionFlagSet(name, &f)
	_ = fs.Parse(args)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(f.options, true)
	if err != nil {
		return err
	}
	defer a.close()

	form := a.cfg.Defaults.Form()
	applyFlags(fs, f, &form)

	h := headless{disp: a.disp, out: os.Stdout, errOut: os.Stderr, pretty: f.pretty}

	if name == "health" {
		return h.health(ctx)
	}

	action, err := dispatch.ParseAction(name)
	if err != nil {
		return err
	}

	if action != dispatch.Lotto {
		form.N = fs.Arg(0)
		return h.single(ctx, action, form)
	}

	if fs.NArg() == 1 {
		form.N64 = fs.Arg(0)
		return h.single(ctx, action, form)
	}

	workers := f.workers
	if workers <= 0 {
		workers = a.cfg.BatchWorkers
	}

	numerals := fs.Args()
	if len(numerals) == 0 {
		return h.batchReader(ctx, os.Stdin, form, workers)
	}
	return h.batch(ctx, numerals, 0, form, workers)
}

// headless runs actions without the TUI and prints region text.
type headless struct {
	disp   *dispatch.Dispatcher
	out    io.Writer
	errOut io.Writer
	pretty bool
}

func (h headless) print(out dispatch.Outcome) {
	text := out.Text()
	if h.pretty {
		text = renderPretty(text, prettyWidth)
	}
	_, _ = fmt.Fprintln(h.out, text)
}

func (h headless) health(ctx context.Context) error {
	out := h.disp.Health(ctx)
	h.print(out)

	if out.Value != dispatch.HealthOK {
		return exitCode(1)
	}
	return nil
}

func (h headless) single(ctx context.Context, a dispatch.Action, form dispatch.Form) error {
	c, now, ok := h.disp.Prepare(a, form)
	if !ok {
		h.print(now)
		return exitCode(2)
	}

	out := h.disp.Execute(ctx, c)
	h.print(out)

	if out.Err != nil {
		return exitCode(1)
	}
	return nil
}

func (h headless) batchReader(ctx context.Context, r io.Reader, form dispatch.Form, workers int) error {
	numerals, skipped, err := readNumerals(r, h.errOut)
	if err != nil {
		return err
	}
	return h.batch(ctx, numerals, skipped, form, workers)
}

func (h headless) batch(ctx context.Context, numerals []string, skipped int, form dispatch.Form, workers int) error {
	outs := h.disp.Batch(ctx, numerals, form, workers)

	failed := skipped > 0
	for i, out := range outs {
		line, ok := batchLine(numerals[i], out)
		_, _ = fmt.Fprintln(h.out, line)
		failed = failed || !ok
	}

	if failed {
		return exitCode(1)
	}
	return nil
}

// readNumerals reads one decimal numeral per line. Blank lines are ignored;
// anything else that is not an integer is reported on errOut and counted.
func readNumerals(r io.Reader, errOut io.Writer) (numerals []string, skipped int, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if _, ok := new(big.Int).SetString(line, 10); !ok {
			_, _ = fmt.Fprintf(errOut, "# skip: %s\n", line)
			skipped++
			continue
		}

		numerals = append(numerals, line)
	}

	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read numerals: %w", err)
	}

	return numerals, skipped, nil
}

// batchLine renders one lotto outcome as a tab-separated line. ok is false
// when the numeral produced an error or no factorization.
func batchLine(n string, out dispatch.Outcome) (line string, ok bool) {
	if out.Err != nil {
		return n + "\terror\t" + strings.ReplaceAll(out.Err.Error(), "\n", " "), false
	}

	data, err := json.Marshal(out.Value)
	if err != nil {
		return n + "\terror\t" + err.Error(), false
	}

	doc := gjson.ParseBytes(data)
	switch doc.Get("result").String() {
	case "none":
		return n + "\tnone", false
	case "prime":
		return n + "\tprime\t" + doc.Get("p").String(), true
	case "factors":
		return n + "\tfactors\t" + doc.Get("p").String() + "\t" + doc.Get("q").String(), true
	}

	if msg := doc.Get("error"); msg.Exists() {
		return n + "\terror\t" + msg.String(), false
	}

	return n + "\t" + string(data), true
}
