package dmiparser

import (
	"fmt"
	"sort"
	"strings"
)

// Severity represents the severity level of a validation diagnostic.
type Severity int

const (
	// Error means the metadata should be rejected by the caller.
	Error Severity = iota
	// Warning means the metadata parsed but a consumer may misbehave.
	Warning
	// Info is an informational note.
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Rule     string   // rule identifier (e.g., "delay_length")
	Severity Severity // ERROR, WARNING, or INFO
	Message  string   // human-readable description
	State    string   // related state name (optional)
	Fix      string   // suggested fix (optional)
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", d.Severity, d.Rule, d.Message)
	if d.State != "" {
		fmt.Fprintf(&b, " (state: %q)", d.State)
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, " -- fix: %s", d.Fix)
	}
	return b.String()
}

// LintRule is the interface for a single validation rule.
type LintRule interface {
	Name() string
	Apply(m *Metadata) []Diagnostic
}

// ValidationError is returned by ValidateOrError when error-severity
// diagnostics exist.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n  %s", len(e.Diagnostics), strings.Join(msgs, "\n  "))
}

// Validate runs all built-in rules (and any extra rules) against parsed
// metadata. The parser itself accepts everything these rules flag; this
// pass exists so callers can opt into stricter checking. Returns all
// diagnostics regardless of severity.
func Validate(m *Metadata, extraRules ...LintRule) []Diagnostic {
	rules := builtInRules()
	rules = append(rules, extraRules...)

	var diagnostics []Diagnostic
	for _, rule := range rules {
		diagnostics = append(diagnostics, rule.Apply(m)...)
	}
	return diagnostics
}

// ValidateOrError runs Validate and returns an error if any error-severity
// diagnostics are found. Non-error diagnostics are still returned.
// No built-in rule reports at Error severity; this exists for callers
// registering stricter custom rules.
func ValidateOrError(m *Metadata, extraRules ...LintRule) ([]Diagnostic, error) {
	diagnostics := Validate(m, extraRules...)

	var errors []Diagnostic
	for _, d := range diagnostics {
		if d.Severity == Error {
			errors = append(errors, d)
		}
	}
	if len(errors) > 0 {
		return diagnostics, &ValidationError{Diagnostics: errors}
	}
	return diagnostics, nil
}

func builtInRules() []LintRule {
	return []LintRule{
		delayLengthRule{},
		canvasDimensionsRule{},
		framesPositiveRule{},
		flagValueRule{},
		duplicateStateNameRule{},
		hotspotBoundsRule{},
		unknownKeysRule{},
	}
}

// delay_length: a state's delay list should have one entry per frame.
type delayLengthRule struct{}

func (delayLengthRule) Name() string { return "delay_length" }

func (delayLengthRule) Apply(m *Metadata) []Diagnostic {
	var diags []Diagnostic
	for _, s := range m.States {
		if s.Delays == nil {
			continue
		}
		if len(s.Delays) != s.Frames {
			diags = append(diags, Diagnostic{
				Rule:     "delay_length",
				Severity: Warning,
				Message:  fmt.Sprintf("state has %d delay value(s) but %d frame(s)", len(s.Delays), s.Frames),
				State:    s.Name,
				Fix:      "make the delay list length match frames",
			})
		}
	}
	return diags
}

// canvas_dimensions: a zero-sized canvas holds no sprites.
type canvasDimensionsRule struct{}

func (canvasDimensionsRule) Name() string { return "canvas_dimensions" }

func (canvasDimensionsRule) Apply(m *Metadata) []Diagnostic {
	var diags []Diagnostic
	if m.Header.Width == 0 {
		diags = append(diags, Diagnostic{
			Rule:     "canvas_dimensions",
			Severity: Warning,
			Message:  "canvas width is 0",
			Fix:      "set width to the sprite width in pixels",
		})
	}
	if m.Header.Height == 0 {
		diags = append(diags, Diagnostic{
			Rule:     "canvas_dimensions",
			Severity: Warning,
			Message:  "canvas height is 0",
			Fix:      "set height to the sprite height in pixels",
		})
	}
	return diags
}

// frames_positive: a state with zero frames has nothing to draw.
type framesPositiveRule struct{}

func (framesPositiveRule) Name() string { return "frames_positive" }

func (framesPositiveRule) Apply(m *Metadata) []Diagnostic {
	var diags []Diagnostic
	for _, s := range m.States {
		if s.Frames == 0 {
			diags = append(diags, Diagnostic{
				Rule:     "frames_positive",
				Severity: Warning,
				Message:  "state declares 0 frames",
				State:    s.Name,
				Fix:      "remove the frames key or set it to at least 1",
			})
		}
	}
	return diags
}

// flag_value: rewind and movement are boolean flags encoded as 0 or 1.
type flagValueRule struct{}

func (flagValueRule) Name() string { return "flag_value" }

func (flagValueRule) Apply(m *Metadata) []Diagnostic {
	var diags []Diagnostic
	for _, s := range m.States {
		for _, flag := range []struct {
			name  string
			value *int
		}{
			{"rewind", s.Rewind},
			{"movement", s.Movement},
		} {
			if flag.value == nil || *flag.value == 0 || *flag.value == 1 {
				continue
			}
			diags = append(diags, Diagnostic{
				Rule:     "flag_value",
				Severity: Warning,
				Message:  fmt.Sprintf("%s has value %d, expected 0 or 1", flag.name, *flag.value),
				State:    s.Name,
				Fix:      fmt.Sprintf("set %s to 0 or 1", flag.name),
			})
		}
	}
	return diags
}

// duplicate_state_name: duplicates are legal and preserved positionally,
// but consumers that look up states by name will only see the first.
type duplicateStateNameRule struct{}

func (duplicateStateNameRule) Name() string { return "duplicate_state_name" }

func (duplicateStateNameRule) Apply(m *Metadata) []Diagnostic {
	seen := make(map[string]int)
	for _, s := range m.States {
		seen[s.Name]++
	}

	var diags []Diagnostic
	for _, s := range m.States {
		if seen[s.Name] > 1 {
			diags = append(diags, Diagnostic{
				Rule:     "duplicate_state_name",
				Severity: Info,
				Message:  fmt.Sprintf("state name appears %d times", seen[s.Name]),
				State:    s.Name,
			})
			seen[s.Name] = 1 // report once per name
		}
	}
	return diags
}

// hotspot_bounds: a hotspot anchored outside the canvas cannot align.
type hotspotBoundsRule struct{}

func (hotspotBoundsRule) Name() string { return "hotspot_bounds" }

func (hotspotBoundsRule) Apply(m *Metadata) []Diagnostic {
	var diags []Diagnostic
	for _, s := range m.States {
		if s.Hotspot == nil {
			continue
		}
		x, y := s.Hotspot[0], s.Hotspot[1]
		if x < 0 || x > float64(m.Header.Width) || y < 0 || y > float64(m.Header.Height) {
			diags = append(diags, Diagnostic{
				Rule:     "hotspot_bounds",
				Severity: Warning,
				Message:  fmt.Sprintf("hotspot (%g, %g) is outside the %dx%d canvas", x, y, m.Header.Width, m.Header.Height),
				State:    s.Name,
				Fix:      "move the hotspot inside the canvas",
			})
		}
	}
	return diags
}

// unknown_keys: unrecognized keys are retained for forward compatibility;
// note them so encoder drift is visible.
type unknownKeysRule struct{}

func (unknownKeysRule) Name() string { return "unknown_keys" }

func (unknownKeysRule) Apply(m *Metadata) []Diagnostic {
	var diags []Diagnostic
	if names := sortedKeys(m.Header.Unknown); len(names) > 0 {
		diags = append(diags, Diagnostic{
			Rule:     "unknown_keys",
			Severity: Info,
			Message:  fmt.Sprintf("header carries unrecognized key(s): %s", strings.Join(names, ", ")),
		})
	}
	for _, s := range m.States {
		if names := sortedKeys(s.Unknown); len(names) > 0 {
			diags = append(diags, Diagnostic{
				Rule:     "unknown_keys",
				Severity: Info,
				Message:  fmt.Sprintf("state carries unrecognized key(s): %s", strings.Join(names, ", ")),
				State:    s.Name,
			})
		}
	}
	return diags
}

func sortedKeys(m map[string]Value) []string {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
