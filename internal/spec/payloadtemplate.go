package spec

import (
	"encoding/json"
	"fmt"
)

// PayloadTemplate is the Inline(string) | File(path) sum type, internally
// tagged by object key (same convention as HeaderValueSpec).
type PayloadTemplate struct {
	IsFile bool
	Text   string // Inline: the Mustache text itself
	Path   string // File: path (or scheme-qualified URI, see templatesource)
}

func InlineTemplate(text string) PayloadTemplate { return PayloadTemplate{Text: text} }
func FileTemplate(path string) PayloadTemplate   { return PayloadTemplate{IsFile: true, Path: path} }

func (p PayloadTemplate) MarshalJSON() ([]byte, error) {
	if p.IsFile {
		return json.Marshal(map[string]string{"File": p.Path})
	}
	return json.Marshal(map[string]string{"Inline": p.Text})
}

func (p *PayloadTemplate) UnmarshalJSON(data []byte) error {
	var probe map[string]string
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("spec: PayloadTemplate: expected single-key object: %w", err)
	}
	if len(probe) != 1 {
		return fmt.Errorf("spec: PayloadTemplate: expected exactly one key, got %d", len(probe))
	}
	if text, ok := probe["Inline"]; ok {
		*p = InlineTemplate(text)
		return nil
	}
	if path, ok := probe["File"]; ok {
		*p = FileTemplate(path)
		return nil
	}
	return fmt.Errorf("spec: PayloadTemplate: unknown case (expected \"Inline\" or \"File\")")
}
