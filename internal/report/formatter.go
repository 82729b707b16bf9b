package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ca-srg/propertyalert/internal/types"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; }
        .property { border: 1px solid #ddd; margin: 15px 0; padding: 15px; border-radius: 5px; }
        .property-title { font-size: 18px; font-weight: bold; color: #2c3e50; margin-bottom: 10px; }
        .property-details { margin: 5px 0; }
        .price { font-size: 20px; color: #27ae60; font-weight: bold; }
        .footer { background-color: #f4f4f4; padding: 15px; text-align: center; font-size: 12px; color: #666; }
        a { color: #3498db; text-decoration: none; }
        a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <div class="header">
        <h1>&#127968; UK Property Search Results</h1>
{{- if .Location}}
        <p>Properties found in: <strong>{{.Location}}</strong></p>
{{- end}}
        <p>Found {{len .Listings}} property listing(s)</p>
    </div>
    <div class="content">
{{- range $i, $p := .Listings}}
        <div class="property">
            <div class="property-title">{{add $i 1}}. {{$p.Address}}</div>
            <div class="property-details">
                <span class="price">&pound;{{comma $p.Price}}</span>
            </div>
            <div class="property-details">
                <strong>Type:</strong> {{title $p.PropertyType}} |
                <strong>Bedrooms:</strong> {{$p.Bedrooms}} |
                <strong>Bathrooms:</strong> {{$p.Bathrooms}}
            </div>
{{- if $p.AreaSqFt}}
            <div class="property-details"><strong>Area:</strong> {{$p.AreaSqFt}} sq ft</div>
{{- end}}
            <div class="property-details">{{$p.Description}}</div>
            <div class="property-details">
                <strong>Postcode:</strong> {{$p.Postcode}}
            </div>
            <div class="property-details">
                <a href="{{$p.URL}}">View Property Details &rarr;</a>
            </div>
        </div>
{{- end}}
    </div>
    <div class="footer">
        <p>Property Search completed on {{.GeneratedAt}}</p>
        <p>This is an automated email from your Property Search Bot</p>
    </div>
</body>
</html>
`

// Formatter renders listings into a self-contained HTML report suitable
// for direct delivery. Pure apart from the embedded generation timestamp.
type Formatter struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewFormatter parses the report template. The template is a compile-time
// constant, so a parse failure is a programming error.
func NewFormatter() (*Formatter, error) {
	titleCaser := cases.Title(language.BritishEnglish)

	funcMap := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"comma": formatThousands,
		"title": titleCaser.String,
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	return &Formatter{
		tmpl: tmpl,
		now:  time.Now,
	}, nil
}

type reportData struct {
	Location    string
	Listings    []types.Listing
	GeneratedAt string
}

// Render produces the HTML report for one search. An empty listing slice
// renders a well-formed "Found 0" document.
func (f *Formatter) Render(listings []types.Listing, location string) (string, error) {
	var sb strings.Builder
	data := reportData{
		Location:    location,
		Listings:    listings,
		GeneratedAt: f.now().Format("2006-01-02 15:04:05"),
	}

	if err := f.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return sb.String(), nil
}

// formatThousands renders 1234567 as "1,234,567".
func formatThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
