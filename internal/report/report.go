// Package report renders mining results for people and for machines.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roach88/apriori/internal/mining"
)

// Format selects a result rendering.
type Format string

const (
	// FormatNone renders nothing; results are only saved.
	FormatNone Format = "none"
	// FormatJSON renders the result as one compact JSON document.
	FormatJSON Format = "json"
	// FormatJSONPretty is FormatJSON indented by two spaces.
	FormatJSONPretty Format = "json-pretty"
	// FormatWeka renders the parameter header and the ranked rule list.
	FormatWeka Format = "weka"
)

// ValidFormats lists every supported format.
var ValidFormats = []Format{FormatNone, FormatJSON, FormatJSONPretty, FormatWeka}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range ValidFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid report format %q (valid: none, json, json-pretty, weka)", s)
}

// Write renders res to w in format f.
func Write(w io.Writer, f Format, res *mining.Result) error {
	switch f {
	case FormatNone:
		return nil
	case FormatJSON:
		return WriteJSON(w, res, false)
	case FormatJSONPretty:
		return WriteJSON(w, res, true)
	case FormatWeka:
		return WriteWeka(w, res)
	default:
		return fmt.Errorf("invalid report format %q", f)
	}
}

// Save renders res into the file at path, replacing it.
// FormatNone creates no file.
func Save(path string, f Format, res *mining.Result) error {
	if f == FormatNone {
		return nil
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(file, f, res); err != nil {
		file.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return file.Close()
}

// WriteJSON encodes res as one JSON document followed by a newline.
func WriteJSON(w io.Writer, res *mining.Result, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

// ReadJSON decodes a result written by WriteJSON.
func ReadJSON(r io.Reader) (*mining.Result, error) {
	var res mining.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &res, nil
}

// WriteWeka renders res in the layout of Weka's associator output.
// Rules are numbered from the deepest level down.
func WriteWeka(w io.Writer, res *mining.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "=== Run information ===\n\n")
	fmt.Fprintf(bw, "Scheme:       apriori\n")
	fmt.Fprintf(bw, "Run:          %s\n", res.RunID)
	fmt.Fprintf(bw, "Relation:     %s\n", res.Relation)
	fmt.Fprintf(bw, "Instances:    %d\n", res.TotalRows)
	fmt.Fprintf(bw, "Attributes:   %d\n", len(res.Attributes))
	for _, a := range res.Attributes {
		fmt.Fprintf(bw, "              %s\n", a)
	}
	fmt.Fprintf(bw, "Filters:      support=%t confidence=%t\n", res.Thresholds.FilterSupport, res.Thresholds.FilterConfidence)

	fmt.Fprintf(bw, "\n=== Items of value (%d) ===\n\n", res.DifferentItems)
	for _, it := range res.Items {
		fmt.Fprintf(bw, "    %s %d\n", it.Item, it.Count)
	}

	fmt.Fprintf(bw, "\n=== Associator model (full training set) ===\n\n")
	fmt.Fprintf(bw, "Apriori\n=======\n\n")
	fmt.Fprintf(bw, "Minimum support: %g (%d instances)\n", res.Thresholds.MinSupport, res.SupportThreshold)
	fmt.Fprintf(bw, "Minimum metric <confidence>: %g\n", res.Thresholds.MinConfidence)
	fmt.Fprintf(bw, "Number of cycles performed: %d\n", res.CyclesCompleted)
	fmt.Fprintf(bw, "Instances after pruning: %d\n", res.RemainingRows)

	fmt.Fprintf(bw, "\nGenerated sets of large itemsets:\n\n")
	fmt.Fprintf(bw, "Size of set of large itemsets L(1): %d\n\n", len(res.Items))
	for _, l := range res.Levels {
		fmt.Fprintf(bw, "Size of set of large itemsets L(%d): %d\n\n", l.Size, len(l.Itemsets))
	}

	fmt.Fprintf(bw, "Best rules found:\n\n")
	for i, r := range res.Rules() {
		fmt.Fprintf(bw, "%2d. %s ==> %s    count:(%d) conf:(%.2f)\n",
			i+1, strings.Join(r.Antecedent(), " "), r.Consequent(), r.Count, r.Confidence)
	}
	return bw.Flush()
}
