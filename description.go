package scryptlib

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
)

// CurrentDescriptionVersion is the description format version this package writes.
const CurrentDescriptionVersion = 8

// ParamEntity is a named, typed parameter or field as it appears in a description.
type ParamEntity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// StructEntity is a struct declaration as it appears in a description.
type StructEntity struct {
	Name   string        `json:"name"`
	Params []ParamEntity `json:"params"`
}

// ABIEntityType distinguishes the constructor from public functions.
type ABIEntityType string

const (
	FUNCTION    ABIEntityType = "function"
	CONSTRUCTOR ABIEntityType = "constructor"
)

// UnmarshalJSON accepts the entity type in any letter case.
func (t *ABIEntityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case string(FUNCTION):
		*t = FUNCTION
	case string(CONSTRUCTOR):
		*t = CONSTRUCTOR
	default:
		return fmt.Errorf("%w: unknown abi entity type %q", ErrInvalidDescription, s)
	}
	return nil
}

// ABIEntity is one entry of a description's abi list. Name and Index are
// absent for the constructor.
type ABIEntity struct {
	Type   ABIEntityType `json:"type"`
	Name   string        `json:"name,omitempty"`
	Index  *int          `json:"index,omitempty"`
	Params []ParamEntity `json:"params"`
}

// SourcePos locates a span inside one of the description's sources.
type SourcePos struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	EndLine   int    `json:"endLine"`
	Column    int    `json:"column"`
	EndColumn int    `json:"endColumn"`
}

// AutoTypedVar is a variable whose type the compiler inferred. It is
// informational only and never type-checked.
type AutoTypedVar struct {
	Name string     `json:"name"`
	Type string     `json:"type"`
	Pos  *SourcePos `json:"pos,omitempty"`
}

// Description is the machine-readable output of compiling a contract.
type Description struct {
	Version         int            `json:"version"`
	CompilerVersion string         `json:"compilerVersion"`
	Contract        string         `json:"contract"`
	MD5             string         `json:"md5,omitempty"`
	StateProps      []ParamEntity  `json:"stateProps"`
	Structs         []StructEntity `json:"structs"`
	ABI             []ABIEntity    `json:"abi"`
	File            string         `json:"file"`
	Sources         []string       `json:"sources"`
	Hex             string         `json:"hex"`
	Asm             string         `json:"asm,omitempty"`
	AutoTypedVars   []AutoTypedVar `json:"autoTypedVars,omitempty"`
	BuildType       string         `json:"buildType,omitempty"`
}

// ParseDescription parses a JSON contract description.
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	return &desc, nil
}

// MustParseDescription is like ParseDescription but panics on error.
func MustParseDescription(data []byte) *Description {
	desc, err := ParseDescription(data)
	if err != nil {
		panic(err)
	}
	return desc
}

// LoadDescription reads and parses a description file.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDescription(data)
}

// EntrySource returns the path of the directly compiled file: File when set,
// otherwise the last source. Sources[0] is always the standard library and
// is never the entry.
func (d *Description) EntrySource() string {
	if d.File != "" {
		return d.File
	}
	for i := len(d.Sources) - 1; i > 0; i-- {
		if d.Sources[i] != stdSource {
			return d.Sources[i]
		}
	}
	return ""
}

const stdSource = "std"

// Clone returns a deep copy of the description.
func (d *Description) Clone() *Description {
	out := *d
	out.StateProps = slices.Clone(d.StateProps)
	out.Sources = slices.Clone(d.Sources)
	if d.Structs != nil {
		out.Structs = make([]StructEntity, len(d.Structs))
		for i, st := range d.Structs {
			out.Structs[i] = StructEntity{Name: st.Name, Params: slices.Clone(st.Params)}
		}
	}
	if d.ABI != nil {
		out.ABI = make([]ABIEntity, len(d.ABI))
		for i, e := range d.ABI {
			e.Params = slices.Clone(e.Params)
			if e.Index != nil {
				idx := *e.Index
				e.Index = &idx
			}
			out.ABI[i] = e
		}
	}
	out.AutoTypedVars = cloneAutoTypedVars(d.AutoTypedVars)
	return &out
}

func cloneAutoTypedVars(vars []AutoTypedVar) []AutoTypedVar {
	if vars == nil {
		return nil
	}
	out := make([]AutoTypedVar, len(vars))
	for i, v := range vars {
		if v.Pos != nil {
			pos := *v.Pos
			v.Pos = &pos
		}
		out[i] = v
	}
	return out
}

// JSON returns the indented JSON form of the description.
func (d *Description) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
