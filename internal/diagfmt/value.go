package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"parens/internal/vm"

	"github.com/fatih/color"
)

// FormatValue prints a runtime value: integers in decimal, builtins as #<builtin name>.
func FormatValue(w io.Writer, v vm.Value, colored bool) error {
	paint := painter(colored, color.FgGreen)
	if v.Kind == vm.VKBuiltin {
		paint = painter(colored, color.FgMagenta)
	}
	_, err := fmt.Fprintln(w, paint("%s", v))
	return err
}

type ValueOutput struct {
	Kind  string `json:"kind"`
	Int   *int32 `json:"int,omitempty"`
	Name  string `json:"name,omitempty"`
	Print string `json:"print"`
}

// BuildValueOutput converts v into its JSON shape.
func BuildValueOutput(v vm.Value) ValueOutput {
	out := ValueOutput{Kind: v.Kind.String(), Print: v.String()}
	switch v.Kind {
	case vm.VKInt:
		n := v.Int
		out.Int = &n
	case vm.VKBuiltin:
		if v.Builtin != nil {
			out.Name = v.Builtin.Name
		}
	}
	return out
}

// FormatValueJSON writes the value as one JSON object.
func FormatValueJSON(w io.Writer, v vm.Value) error {
	return json.NewEncoder(w).Encode(BuildValueOutput(v))
}
