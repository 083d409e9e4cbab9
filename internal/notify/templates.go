package notify

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/templates.yaml
var templatesYAML embed.FS

type templateFile struct {
	Templates map[string]string `yaml:"templates"`
}

// Templates holds the message catalog keyed by template name.
// Placeholders use {name} syntax.
type Templates struct {
	messages map[string]string
}

func LoadTemplates() (*Templates, error) {
	data, err := templatesYAML.ReadFile("config/templates.yaml")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	return &Templates{messages: file.Templates}, nil
}

// Render fills {placeholder} slots from vars. Unknown placeholders are
// left in place so a bad send is visible in the SMS log.
func (t *Templates) Render(name string, vars map[string]string) (string, error) {
	msg, ok := t.messages[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	for key, val := range vars {
		msg = strings.ReplaceAll(msg, "{"+key+"}", val)
	}
	return msg, nil
}
