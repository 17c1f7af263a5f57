package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/layout-inspector/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
	FormatTree Format = "tree"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatYAML, FormatJSON, FormatCBOR, FormatTree}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s (want yaml, json, cbor or tree)", s)
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// SnapshotResult is the top-level output of the `snapshot` command and the
// reply to GetSnapshot.
type SnapshotResult struct {
	Root            string         `yaml:"root,omitempty"             json:"root,omitempty"`
	TS              int64          `yaml:"ts"                         json:"ts"`
	Fingerprint     string         `yaml:"fingerprint,omitempty"      json:"fingerprint,omitempty"`
	ObservableRoots []model.NodeID `yaml:"observable_roots,omitempty" json:"observableRoots,omitempty"`
	Tree            *Element       `yaml:"tree"                       json:"tree"`
}

// FlatResult is the top-level output when --flat is used.
type FlatResult struct {
	Root  string           `yaml:"root,omitempty" json:"root,omitempty"`
	TS    int64            `yaml:"ts"             json:"ts"`
	Nodes []model.FlatNode `yaml:"nodes"          json:"nodes"`
}

// NewSnapshotResult wraps s for output under the given root name.
func NewSnapshotResult(root string, s *model.Snapshot) SnapshotResult {
	return SnapshotResult{
		Root:            root,
		TS:              s.TakenAt,
		Fingerprint:     s.Fingerprint,
		ObservableRoots: s.ObservableRoots,
		Tree:            Tree(s),
	}
}

// Print serializes v to stdout in the current output format.
func Print(v any) error {
	return Write(os.Stdout, v)
}

// Write serializes v to w in the current output format.
func Write(w io.Writer, v any) error {
	return WriteFormat(w, OutputFormat, v)
}

// WriteFormat serializes v to w in format f.
func WriteFormat(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatCBOR:
		return WriteCBOR(w, v)
	case FormatTree:
		return WriteTree(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}
