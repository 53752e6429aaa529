package dmiparser

import "fmt"

// Key identifies a metadata key. Known keys form a closed set; anything
// else maps to KeyUnknown and is carried through for forward compatibility.
type Key int

const (
	KeyVersion Key = iota
	KeyWidth
	KeyHeight
	KeyState
	KeyDirs
	KeyFrames
	KeyDelay
	KeyLoop
	KeyRewind
	KeyMovement
	KeyHotspot
	KeyUnknown
)

var keyNames = map[Key]string{
	KeyVersion:  "version",
	KeyWidth:    "width",
	KeyHeight:   "height",
	KeyState:    "state",
	KeyDirs:     "dirs",
	KeyFrames:   "frames",
	KeyDelay:    "delay",
	KeyLoop:     "loop",
	KeyRewind:   "rewind",
	KeyMovement: "movement",
	KeyHotspot:  "hotspot",
	KeyUnknown:  "unknown",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// keysByName maps key text to its Key. Lookup is case-sensitive; the
// encoder emits lowercase keys only.
var keysByName = map[string]Key{
	"version":  KeyVersion,
	"width":    KeyWidth,
	"height":   KeyHeight,
	"state":    KeyState,
	"dirs":     KeyDirs,
	"frames":   KeyFrames,
	"delay":    KeyDelay,
	"loop":     KeyLoop,
	"rewind":   KeyRewind,
	"movement": KeyMovement,
	"hotspot":  KeyHotspot,
}

func keyFor(name string) Key {
	if k, ok := keysByName[name]; ok {
		return k
	}
	return KeyUnknown
}

// KeyValue is one recognized key = value pair after type coercion. Key
// determines which typed field is populated.
type KeyValue struct {
	Key    Key
	Name   string         // key text as it appeared in the input
	Str    string         // KeyState
	Int    int            // KeyWidth, KeyHeight, KeyFrames, KeyLoop, KeyRewind, KeyMovement
	Float  float64        // KeyVersion
	Dirs   DirectionCount // KeyDirs
	Floats []float64      // KeyDelay, KeyHotspot
	Raw    Value          // KeyUnknown
	Pos    Position
}

// newKeyValue coerces a raw (name, value) pair to its typed KeyValue form,
// applying the one acceptable value shape for each known key. Unknown keys
// accept any value unconditionally.
func newKeyValue(name string, v Value, pos Position) (KeyValue, error) {
	key := keyFor(name)
	kv := KeyValue{Key: key, Name: name, Pos: pos}

	switch key {
	case KeyVersion:
		if v.Kind != ValueFloat {
			return KeyValue{}, shapeError(name, v, pos)
		}
		kv.Float = v.Float

	case KeyWidth, KeyHeight, KeyFrames, KeyLoop, KeyRewind, KeyMovement:
		if v.Kind != ValueInt {
			return KeyValue{}, shapeError(name, v, pos)
		}
		if v.Int < 0 {
			return KeyValue{}, &ValueError{ParseError{
				Message: fmt.Sprintf("key %q requires a non-negative integer, got %s", name, v.Raw),
				Pos:     pos,
			}}
		}
		kv.Int = int(v.Int)

	case KeyState:
		if v.Kind != ValueString {
			return KeyValue{}, shapeError(name, v, pos)
		}
		kv.Str = v.Str

	case KeyDirs:
		if v.Kind != ValueInt {
			return KeyValue{}, shapeError(name, v, pos)
		}
		d, ok := directionCount(v.Int)
		if !ok {
			return KeyValue{}, &ValueError{ParseError{
				Message: fmt.Sprintf("invalid value %d for dirs: must be 1, 4, or 8", v.Int),
				Pos:     pos,
			}}
		}
		kv.Dirs = d

	case KeyDelay, KeyHotspot:
		if v.Kind != ValueList {
			return KeyValue{}, shapeError(name, v, pos)
		}
		kv.Floats = v.List

	case KeyUnknown:
		kv.Raw = v
	}

	return kv, nil
}

func shapeError(name string, v Value, pos Position) error {
	return &ValueError{ParseError{
		Message: fmt.Sprintf("cannot use %s value %q for key %q", v.Kind, v.Raw, name),
		Pos:     pos,
	}}
}
