package spec

import (
	"encoding/json"
	"fmt"
	"os"

	"lapimposteur/internal/lerr"
)

// Load reads and parses an Imposter document from a JSON file:
// os.ReadFile followed by json.Unmarshal, with every failure wrapped
// under a stable error Kind.
func Load(path string) (*Imposter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lerr.New(lerr.KindConfigLoad, fmt.Errorf("read %q: %w", path, err))
	}
	var imp Imposter
	if err := json.Unmarshal(data, &imp); err != nil {
		return nil, lerr.New(lerr.KindConfigLoad, fmt.Errorf("parse %q: %w", path, err))
	}
	if err := imp.Validate(); err != nil {
		return nil, lerr.New(lerr.KindConfigLoad, err)
	}
	return &imp, nil
}

// Validate performs the minimal structural checks a malformed document would
// otherwise fail much later (e.g. mid-dial, or mid-fill), surfacing a single
// ConfigLoad error up front instead.
func (imp *Imposter) Validate() error {
	if imp.Connection == "" {
		return fmt.Errorf("imposter: \"connection\" is required")
	}
	for i, r := range imp.Reactors {
		if r.Queue == "" {
			return fmt.Errorf("imposter: reactors[%d]: \"queue\" is required", i)
		}
	}
	for i, g := range imp.Generators {
		if g.Cron == "" {
			return fmt.Errorf("imposter: generators[%d]: \"cron\" is required", i)
		}
	}
	return nil
}
