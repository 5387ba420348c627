package api

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadReport reads a report document (YAML or JSON) from path.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	report, err := ParseReport(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// ParseReport decodes a report document. JSON is accepted as a YAML subset.
func ParseReport(data []byte) (*Report, error) {
	var report Report
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	report.Normalize()
	return &report, nil
}

// Normalize fills labels missing from field items with the prettified key.
func (r *Report) Normalize() {
	for i := range r.Sections {
		items := r.Sections[i].Items
		for j := range items {
			if items[j].Label == "" && items[j].Key != "" {
				items[j].Label = PrettifyFieldName(items[j].Key)
			}
		}
	}
}

// Photos returns every image reference of the report in section order.
func (r Report) Photos() []ImageRef {
	var refs []ImageRef
	for _, s := range r.Sections {
		refs = append(refs, s.Photos...)
	}
	return refs
}
