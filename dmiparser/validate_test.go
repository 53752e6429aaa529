package dmiparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseValid(t *testing.T, src string) *Metadata {
	t.Helper()
	meta, err := Parse([]byte(src))
	require.NoError(t, err)
	return meta
}

func diagnosticsForRule(diags []Diagnostic, rule string) []Diagnostic {
	var result []Diagnostic
	for _, d := range diags {
		if d.Rule == rule {
			result = append(result, d)
		}
	}
	return result
}

func TestValidateCleanMetadata(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
state = "walk"
    dirs = 4
    frames = 2
    delay = 1,1
# END DMI
`)
	diags := Validate(meta)
	assert.Empty(t, diags)

	_, err := ValidateOrError(meta)
	require.NoError(t, err)
}

func TestValidateDelayLength(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
state = "drift"
    dirs = 1
    frames = 2
    delay = 1,2,3
# END DMI
`)
	diags := diagnosticsForRule(Validate(meta), "delay_length")
	require.Len(t, diags, 1)
	assert.Equal(t, Warning, diags[0].Severity)
	assert.Equal(t, "drift", diags[0].State)
	assert.Contains(t, diags[0].Message, "3 delay value(s)")
	assert.Contains(t, diags[0].Message, "2 frame(s)")
}

func TestValidateCanvasDimensions(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 0
    height = 32
# END DMI
`)
	diags := diagnosticsForRule(Validate(meta), "canvas_dimensions")
	require.Len(t, diags, 1)
	assert.Equal(t, Warning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "width")
}

func TestValidateFramesPositive(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
state = "empty"
    dirs = 1
    frames = 0
# END DMI
`)
	diags := diagnosticsForRule(Validate(meta), "frames_positive")
	require.Len(t, diags, 1)
	assert.Equal(t, "empty", diags[0].State)
}

func TestValidateFlagValue(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
state = "odd"
    dirs = 1
    rewind = 2
    movement = 1
# END DMI
`)
	diags := diagnosticsForRule(Validate(meta), "flag_value")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "rewind")
}

func TestValidateDuplicateStateName(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
state = "dup"
    dirs = 1
state = "dup"
    dirs = 1
state = "solo"
    dirs = 1
# END DMI
`)
	diags := diagnosticsForRule(Validate(meta), "duplicate_state_name")
	require.Len(t, diags, 1)
	assert.Equal(t, Info, diags[0].Severity)
	assert.Equal(t, "dup", diags[0].State)
	assert.Contains(t, diags[0].Message, "2 times")
}

func TestValidateHotspotBounds(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
state = "out"
    dirs = 1
    hotspot = 40,12,0
state = "in"
    dirs = 1
    hotspot = 12,13,0
# END DMI
`)
	diags := diagnosticsForRule(Validate(meta), "hotspot_bounds")
	require.Len(t, diags, 1)
	assert.Equal(t, "out", diags[0].State)
}

func TestValidateUnknownKeys(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
    paletted = 1
state = "x"
    dirs = 1
    future = "lmao"
    legacy = 0
# END DMI
`)
	diags := diagnosticsForRule(Validate(meta), "unknown_keys")
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Message, "paletted")
	assert.Contains(t, diags[1].Message, "future, legacy")
}

func TestValidateOrErrorWithCustomRule(t *testing.T) {
	meta := parseValid(t, `# BEGIN DMI
version = 4.0
    width = 32
    height = 32
state = "x"
    dirs = 1
# END DMI
`)
	diags, err := ValidateOrError(meta, requireHotspotRule{})
	require.Error(t, err)
	assert.NotEmpty(t, diags)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Diagnostics, 1)
	assert.Equal(t, "require_hotspot", verr.Diagnostics[0].Rule)
}

// requireHotspotRule is a stricter-than-default rule used to exercise the
// custom rule hook.
type requireHotspotRule struct{}

func (requireHotspotRule) Name() string { return "require_hotspot" }

func (requireHotspotRule) Apply(m *Metadata) []Diagnostic {
	var diags []Diagnostic
	for _, s := range m.States {
		if s.Hotspot == nil {
			diags = append(diags, Diagnostic{
				Rule:     "require_hotspot",
				Severity: Error,
				Message:  "state has no hotspot",
				State:    s.Name,
			})
		}
	}
	return diags
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Rule:     "delay_length",
		Severity: Warning,
		Message:  "state has 3 delay value(s) but 2 frame(s)",
		State:    "drift",
		Fix:      "make the delay list length match frames",
	}
	s := d.String()
	assert.Contains(t, s, "[WARNING]")
	assert.Contains(t, s, "delay_length")
	assert.Contains(t, s, `(state: "drift")`)
	assert.Contains(t, s, "-- fix:")
}
