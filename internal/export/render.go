package export

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/chart-builder/backend/internal/models"
)

// chartTemplate is the built-in chart document skeleton. Values are
// substituted verbatim; the renderer does not escape or validate them.
const chartTemplate = `<?xml version="1.0" encoding="utf-8"?>
<ObjectSet ExportMode="Standard" Version="{{.ServerVersion}}" Note="TypesFirst">
  <MetaInformation>
    <ExportMode Value="Standard" />
    <SemanticsFilter Value="None" />
    <RuntimeVersion Value="{{.ServerVersion}}" />
    <SourceVersion Value="{{.ServerVersion}}" />
    <ServerFullPath Value="{{.ServerPath}}" />
  </MetaInformation>
  <ExportedObjects>
    <OI NAME="Charts" TYPE="{{.BaseNode}}">
{{- if .TrendNameAnalog}}
      <OI NAME="Analog Chart" TYPE="trend.chart.TrendChart">
{{- range $i, $t := .TrendNameAnalog}}
        <OI NAME="{{$t.Name}}" TYPE="trend.chart.TrendChartSeries">
          <PI Name="DisplayType" Value="{{int $t.DisplayType}}" />
          <PI Name="DisplayColor" Value="{{$t.DisplayColor}}" />
          <PI Name="Index" Value="{{$i}}" />
          <PI Name="TrendLog">
            <Reference Object="{{$.TrendPathAnalog}}/{{$t.Name}}" />
          </PI>
        </OI>
{{- end}}
      </OI>
{{- end}}
{{- if .TrendNameBinary}}
      <OI NAME="Binary Chart" TYPE="trend.chart.TrendChart">
{{- range $i, $t := .TrendNameBinary}}
        <OI NAME="{{$t.Name}}" TYPE="trend.chart.TrendChartSeries">
          <PI Name="DisplayType" Value="{{int $t.DisplayType}}" />
          <PI Name="DisplayColor" Value="{{$t.DisplayColor}}" />
          <PI Name="Index" Value="{{$i}}" />
          <PI Name="TrendLog">
            <Reference Object="{{$.TrendPathBinary}}/{{$t.Name}}" />
          </PI>
        </OI>
{{- end}}
      </OI>
{{- end}}
    </OI>
  </ExportedObjects>
</ObjectSet>
`

var templateFuncs = template.FuncMap{
	"int": func(t models.DisplayType) int { return int(t) },
}

// Renderer turns an export context into document text.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer returns a renderer for the built-in chart skeleton.
func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("chart").Funcs(templateFuncs).Parse(chartTemplate)),
	}
}

// NewRendererFromFile loads a chart skeleton from a template file.
func NewRendererFromFile(filePath string) (*Renderer, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tmpl, err := template.New("chart").Funcs(templateFuncs).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template against ctx.
func (r *Renderer) Render(ctx models.ExportContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
