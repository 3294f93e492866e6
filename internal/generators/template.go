package generators

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/mmrzaf/seeder/internal/domain"
	"github.com/mmrzaf/seeder/internal/factory"
)

// TemplateGenerator renders 'format' as a text/template over the fields
// resolved so far, e.g. "{{.first_name}} {{.last_name}}". Fields it reads
// should be listed in depends_on.
type TemplateGenerator struct{}

func (g *TemplateGenerator) Validate(spec domain.GeneratorSpec) error {
	_, err := g.parse(spec)
	return err
}

func (g *TemplateGenerator) parse(spec domain.GeneratorSpec) (*template.Template, error) {
	format, err := stringParam(spec, "format")
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("field").Funcs(template.FuncMap{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("invalid 'format': %w", err)
	}
	return tmpl, nil
}

func (g *TemplateGenerator) Build(spec domain.GeneratorSpec) (factory.GeneratorFunc, error) {
	tmpl, err := g.parse(spec)
	if err != nil {
		return nil, err
	}
	return func(_ *factory.Source, ctx factory.Context) (any, error) {
		var sb strings.Builder
		if err := tmpl.Execute(&sb, map[string]any(ctx)); err != nil {
			return nil, err
		}
		return sb.String(), nil
	}, nil
}
