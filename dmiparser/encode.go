package dmiparser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	beginMarker = "# BEGIN DMI"
	endMarker   = "# END DMI"
	indent      = "    "
)

// Encode renders a Metadata back into the canonical text form. Parsing
// the result yields a value equal to the original in all typed fields.
func Encode(m *Metadata) []byte {
	var b strings.Builder

	b.WriteString(beginMarker)
	b.WriteByte('\n')

	fmt.Fprintf(&b, "version = %s\n", formatVersion(m.Header.Version))
	fmt.Fprintf(&b, "%swidth = %d\n", indent, m.Header.Width)
	fmt.Fprintf(&b, "%sheight = %d\n", indent, m.Header.Height)
	writeUnknown(&b, m.Header.Unknown)

	for _, s := range m.States {
		fmt.Fprintf(&b, "state = %q\n", s.Name)
		fmt.Fprintf(&b, "%sdirs = %d\n", indent, int(s.Dirs))
		fmt.Fprintf(&b, "%sframes = %d\n", indent, s.Frames)
		if s.Delays != nil {
			fmt.Fprintf(&b, "%sdelay = %s\n", indent, formatFloats(s.Delays))
		}
		if s.Loop != nil {
			fmt.Fprintf(&b, "%sloop = %d\n", indent, *s.Loop)
		}
		if s.Rewind != nil {
			fmt.Fprintf(&b, "%srewind = %d\n", indent, *s.Rewind)
		}
		if s.Movement != nil {
			fmt.Fprintf(&b, "%smovement = %d\n", indent, *s.Movement)
		}
		if s.Hotspot != nil {
			fmt.Fprintf(&b, "%shotspot = %s\n", indent, formatFloats(s.Hotspot[:]))
		}
		writeUnknown(&b, s.Unknown)
	}

	b.WriteString(endMarker)
	b.WriteByte('\n')

	return []byte(b.String())
}

// String renders the metadata in canonical text form.
func (m *Metadata) String() string { return string(Encode(m)) }

// writeUnknown emits unrecognized keys sorted by name for determinism;
// their input order was never meaningful.
func writeUnknown(b *strings.Builder, unknown map[string]Value) {
	if len(unknown) == 0 {
		return
	}
	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "%s%s = %s\n", indent, name, formatValue(unknown[name]))
	}
}

func formatValue(v Value) string {
	switch v.Kind {
	case ValueString:
		return `"` + v.Str + `"`
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return formatFloat(v.Float)
	case ValueList:
		return formatFloats(v.List)
	default:
		return v.Raw
	}
}

// formatVersion always keeps a fractional part so the value re-lexes as a
// float ("4.0", never "4").
func formatVersion(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, ",")
}
