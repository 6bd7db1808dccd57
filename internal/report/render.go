// Package report renders aggregated expense reports for the terminal.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"my/internal/core"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes r to w in the given format.
func Render(w io.Writer, r core.Report, format string) error {
	switch format {
	case "", FormatText:
		return renderText(w, r)
	case FormatJSON:
		return renderJSON(w, r)
	case FormatYAML:
		return renderYAML(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// field is one member of an object whose keys keep insertion order.
type field struct {
	Key   string
	Value any
}

type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// months returns month -> group -> sum with months in calendar order and
// groups sorted by name.
func months(r core.Report) object {
	out := make(object, 0, len(r.Months))
	for _, m := range r.Months {
		groups := make(object, 0, len(m.Groups))
		for _, name := range m.Groups.Names() {
			groups = append(groups, field{Key: name, Value: number(m.Groups[name])})
		}
		out = append(out, field{Key: m.Name, Value: groups})
	}
	return out
}

func renderText(w io.Writer, r core.Report) error {
	body, err := json.MarshalIndent(months(r), "", "  ")
	if err != nil {
		return fmt.Errorf("encode months: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", body, core.FormatUSD(r.Total))
	return err
}

func renderJSON(w io.Writer, r core.Report) error {
	doc := object{
		{Key: "months", Value: months(r)},
		{Key: "total", Value: number(r.Total)},
		{Key: "total_formatted", Value: core.FormatUSD(r.Total)},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func renderYAML(w io.Writer, r core.Report) error {
	monthsNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, m := range r.Months {
		groups := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range m.Groups.Names() {
			groups.Content = append(groups.Content, scalar(name), decimalNode(m.Groups[name]))
		}
		monthsNode.Content = append(monthsNode.Content, scalar(m.Name), groups)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		scalar("months"), monthsNode,
		scalar("total"), decimalNode(r.Total),
		scalar("total_formatted"), scalar(core.FormatUSD(r.Total)),
	}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func decimalNode(d decimal.Decimal) *yaml.Node {
	tag := "!!float"
	if d.IsInteger() {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: d.String()}
}
