package dmiparser

// Position tracks a source location for error messages.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset into source
}

// ValueKind discriminates the Value tagged union.
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueInt    ValueKind = "int"
	ValueFloat  ValueKind = "float"
	ValueList   ValueKind = "list"
)

// Value is a parsed right-hand-side literal. Kind determines which typed
// field is populated. Values survive past parsing only inside the Unknown
// maps of Header and State; known keys are coerced to concrete fields.
type Value struct {
	Kind  ValueKind
	Str   string    // populated when Kind == ValueString
	Int   int64     // populated when Kind == ValueInt
	Float float64   // populated when Kind == ValueFloat
	List  []float64 // populated when Kind == ValueList, always length >= 2
	Raw   string    // original text representation, always set
}

// String returns the original text representation of the value.
func (v Value) String() string { return v.Raw }

// DirectionCount is the number of facing directions a state's frames are
// split into. Only 1, 4, and 8 are legal.
type DirectionCount int

const (
	DirOne   DirectionCount = 1
	DirFour  DirectionCount = 4
	DirEight DirectionCount = 8
)

// directionCount maps an integer onto the closed DirectionCount set.
func directionCount(n int64) (DirectionCount, bool) {
	switch n {
	case 1:
		return DirOne, true
	case 4:
		return DirFour, true
	case 8:
		return DirEight, true
	default:
		return 0, false
	}
}

// Header is the document-level metadata block preceding all states.
type Header struct {
	Version float64          // always exactly 4.0
	Width   int              // canvas width in pixels
	Height  int              // canvas height in pixels
	Unknown map[string]Value // unrecognized keys, nil when none appeared
}

// State is one named animation sequence within the sprite sheet.
// Name need not be unique; duplicate states are legal and kept in order.
type State struct {
	Name     string
	Dirs     DirectionCount
	Frames   int         // defaults to 1 when the key is absent
	Delays   []float64   // per-frame delays, nil when absent
	Loop     *int        // loop count, nil when absent
	Rewind   *int        // rewind flag, nil when absent
	Movement *int        // movement-state flag, nil when absent
	Hotspot  *[3]float64 // (x, y, layer) anchor, nil when absent
	Unknown  map[string]Value
}

// Metadata is the complete parsed representation of a DMI metadata block.
type Metadata struct {
	Header Header
	States []*State // in input order
}

// StateByName returns the first state with the given name, or nil.
func (m *Metadata) StateByName(name string) *State {
	for _, s := range m.States {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// StatesNamed returns all states with the given name, in input order.
func (m *Metadata) StatesNamed(name string) []*State {
	var result []*State
	for _, s := range m.States {
		if s.Name == name {
			result = append(result, s)
		}
	}
	return result
}
