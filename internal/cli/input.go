// Package cli handles cmd line input for DBG and testing the engines interactively
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/skmtlab/hiroi/pkg/calc"
	"github.com/skmtlab/hiroi/pkg/dict"
	"github.com/skmtlab/hiroi/pkg/field"
	"github.com/skmtlab/hiroi/pkg/suggest"
)

// dictSource answers suggestion queries from an in-process dictionary,
// so the REPL works without a running service. The query endpoint is
// the field name.
type dictSource struct {
	dict *dict.Dict
}

func (s dictSource) Fetch(_ context.Context, q suggest.Query) ([]string, error) {
	scope := dict.ScopeFromParams(q.Params)
	return s.dict.Search(q.Endpoint, scope, q.Text, q.Limit), nil
}

// InputHandler processes user commands from stdin, driving the
// calculation, validation and suggestion engines.
type InputHandler struct {
	table        *field.Table
	dict         *dict.Dict
	source       suggest.Source
	debounce     time.Duration
	suggestLimit int
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(table *field.Table, d *dict.Dict, debounce time.Duration, limit int) *InputHandler {
	return &InputHandler{
		table:        table,
		dict:         d,
		source:       dictSource{dict: d},
		debounce:     debounce,
		suggestLimit: limit,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleCommand() for processing.
// Loop terminates on quit or when reading from stdin fails.
func (h *InputHandler) Start() error {
	log.Print("hiroi CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a command and press Enter (help lists them, Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !h.handleCommand(line) {
			return nil
		}
	}
}

// handleCommand dispatches a single command line. It returns false when
// the loop should stop.
func (h *InputHandler) handleCommand(line string) bool {
	h.requestCount++
	if h.requestCount%50 == 0 {
		log.Debugf("Served %d commands, dictionary stats: %v", h.requestCount, h.dict.Stats())
	}

	args := strings.Fields(line)
	switch args[0] {
	case "quit", "exit":
		return false
	case "help":
		h.printHelp()
	case "calc":
		h.handleCalc(args[1:])
	case "width":
		h.handleWidth(args[1:])
	case "check":
		h.handleCheck(args[1:])
	case "suggest":
		h.handleSuggest(args[1:])
	default:
		log.Errorf("Unknown command: %s", args[0])
		h.printHelp()
	}
	return true
}

func (h *InputHandler) printHelp() {
	log.Print("calc <standard|area|pitch> key=value...  run a calculation")
	log.Print("width <field> <text>                     display width and remaining budget")
	log.Print("check <field> <value>                    validate a cell value")
	log.Print("suggest <field> <prefix>                 fetch suggestions")
	log.Print("quit                                     exit")
}

// handleCalc builds a calculation input from key=value arguments and
// prints every stage of the result.
func (h *InputHandler) handleCalc(args []string) {
	if len(args) < 1 {
		log.Error("Usage: calc <standard|area|pitch> key=value...")
		return
	}

	in := calc.Input{
		AdjustmentFactor: calc.DefaultAdjustmentFactor,
		RoundingUnit:     calc.DefaultRoundingUnit,
	}
	switch args[0] {
	case "standard", "std":
		in.Method = calc.MethodStandard
	case "area", "volume":
		in.Method = calc.MethodAreaVolume
	case "pitch":
		in.Method = calc.MethodPitch
	default:
		log.Errorf("Unknown method: %s", args[0])
		return
	}

	for _, kv := range args[1:] {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok {
			log.Errorf("Expected key=value, got %q", kv)
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Errorf("Value of %s is not numeric: %v", key, err)
			return
		}
		switch key {
		case "q", "quantity":
			in.Quantity = calc.Float64(v)
		case "width":
			in.AreaVolume.Width = calc.Float64(v)
		case "depth":
			in.AreaVolume.Depth = calc.Float64(v)
		case "height":
			in.AreaVolume.Height = calc.Float64(v)
		case "weight":
			in.AreaVolume.Weight = calc.Float64(v)
			in.Pitch.Weight = calc.Float64(v)
		case "range":
			in.Pitch.RangeLength = calc.Float64(v)
		case "end1":
			in.Pitch.EndLength1 = calc.Float64(v)
		case "end2":
			in.Pitch.EndLength2 = calc.Float64(v)
		case "pitch":
			in.Pitch.PitchLength = calc.Float64(v)
		case "length":
			in.Pitch.Length = calc.Float64(v)
		case "factor":
			in.AdjustmentFactor = v
		case "unit":
			in.RoundingUnit = v
		default:
			log.Errorf("Unknown parameter: %s", key)
			return
		}
	}

	start := time.Now()
	res, err := calc.Calculate(in)
	if err != nil {
		log.Errorf("Calculation failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ]", time.Since(start))
	log.Printf("formula:  %s", res.Formula)
	log.Printf("raw:      %s", field.FormatDecimal2(res.RawValue))
	log.Printf("adjusted: %s", field.FormatDecimal2(res.AdjustedValue))
	log.Printf("final:    %s", field.FormatDecimal2(res.FinalValue))
}

// handleWidth reports the display width of a value against a field's budget.
func (h *InputHandler) handleWidth(args []string) {
	if len(args) < 2 {
		log.Error("Usage: width <field> <text>")
		return
	}
	name := field.Name(args[0])
	text := strings.Join(args[1:], " ")

	w := field.StringWidth(text)
	remaining := h.table.RemainingWidth(text, name)
	log.Printf("%q is %d columns wide, %d remaining for %s", text, w, remaining, field.Label(name))
	if check := h.table.ValidateTextLength(text, name); !check.Valid {
		log.Warnf("%s", check.Error)
	}
}

// handleCheck runs the semantic validators for a single cell value.
func (h *InputHandler) handleCheck(args []string) {
	if len(args) < 1 {
		log.Error("Usage: check <field> [value]")
		return
	}
	name := field.Name(args[0])
	raw := strings.Join(args[1:], " ")

	switch name {
	case field.Quantity, field.AdjustmentFactor, field.RoundingUnit:
		h.checkNumeric(name, raw)
	default:
		if check := h.table.ValidateTextLength(raw, name); !check.Valid {
			log.Warnf("%s", check.Error)
			return
		}
		log.Print("ok")
	}
}

func (h *InputHandler) checkNumeric(name field.Name, raw string) {
	var v calc.Verdict
	switch name {
	case field.Quantity:
		v = calc.CheckQuantity(raw)
	case field.AdjustmentFactor:
		v = calc.CheckAdjustmentFactor(raw)
	case field.RoundingUnit:
		v = calc.CheckRoundingUnit(raw)
	}
	for _, msg := range v.Errors {
		log.Errorf("%s", msg)
	}
	for _, msg := range v.Warnings {
		log.Warnf("%s", msg)
	}
	if !v.Valid {
		return
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		if check := h.table.ValidateNumericRange(n, name); !check.Valid {
			log.Warnf("%s", check.Error)
			return
		}
	}
	if len(v.Warnings) == 0 {
		log.Print("ok")
	}
}

// handleSuggest runs one debounced query through a throwaway engine and
// prints the merged list.
func (h *InputHandler) handleSuggest(args []string) {
	if len(args) < 2 {
		log.Error("Usage: suggest <field> <prefix>")
		return
	}
	name := args[0]
	prefix := strings.Join(args[1:], " ")

	states := make(chan suggest.State, 8)
	eng := suggest.NewEngine(h.source, suggest.Options{
		Endpoint: name,
		Debounce: h.debounce,
		Limit:    h.suggestLimit,
		OnChange: func(st suggest.State) { states <- st },
	})
	defer eng.Close()

	start := time.Now()
	eng.SetInput(prefix)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-states:
			if st.Loading {
				continue
			}
			if st.Err != nil {
				log.Errorf("Fetching suggestions: %v", st.Err)
				return
			}
			log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)
			if len(st.Suggestions) == 0 {
				log.Warnf("No suggestions found for prefix: '%s'", prefix)
				return
			}
			log.Printf("Found %d suggestions for prefix '%s':", len(st.Suggestions), prefix)
			for i, s := range st.Suggestions {
				log.Printf("%2d. \033[38;5;75m%s\033[0m", i+1, s)
			}
			return
		case <-deadline:
			log.Warn("Timed out waiting for suggestions")
			return
		}
	}
}

// Suggest is the one-shot form of the suggest command, exercised by tests
// and scripts. It returns the merged list for a prefix.
func (h *InputHandler) Suggest(name, prefix string) ([]string, error) {
	terms, err := h.source.Fetch(context.Background(), suggest.Query{
		Endpoint: name,
		Text:     prefix,
		Limit:    h.suggestLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("cli: fetching suggestions: %w", err)
	}
	return terms, nil
}
