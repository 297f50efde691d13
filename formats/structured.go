package formats

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/taskboard/types"
	"gopkg.in/yaml.v3"
)

// JSON writes the task list as an indented array, the same shape bulk import
// accepts
var JSON = &OutputFormat{
	Name: "json",
	Write: func(w io.Writer, snap types.Snapshot) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

// YAML writes the task list as a sequence
var YAML = &OutputFormat{
	Name: "yaml",
	Write: func(w io.Writer, snap types.Snapshot) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	mustRegister(JSON)
	mustRegister(YAML)
}
