package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/notion-mapper/pkg/emap"
)

// Output formats accepted by --format.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatEmap = "emap"
)

func writeOutput(w io.Writer, format string, body any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(body), "write json")
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(body); err != nil {
			return eris.Wrap(err, "write yaml")
		}
		return eris.Wrap(enc.Close(), "close yaml")
	case formatEmap:
		s, err := emap.Encode(body)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return eris.Wrap(err, "write emap")
	}
	return eris.Errorf("unknown output format %q (want json, yaml or emap)", format)
}
