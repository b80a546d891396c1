package export

import (
	"bytes"
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var bulletinTemplate = template.Must(template.New("bulletin.html").Funcs(template.FuncMap{
	"formatDate": func(t time.Time, layout string) string {
		return t.Format(layout)
	},
	"percent": func(value, total int) int {
		if total == 0 {
			return 0
		}
		return value * 100 / total
	},
}).ParseFS(templateFS, "templates/bulletin.html"))

// RenderBulletinHTML renders the bulletin template with provided data
func RenderBulletinHTML(data Bulletin) (string, error) {
	var buf bytes.Buffer
	if err := bulletinTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
