package document

import (
	"fmt"
	"strings"
	"time"
)

// RenderTemplate substitutes {{name}} tokens in the template with the
// mapped values. Every occurrence of a supplied token is replaced; tokens
// without a mapping are left verbatim.
func RenderTemplate(template string, values map[string]string) string {
	rendered := template
	for name, value := range values {
		rendered = strings.ReplaceAll(rendered, "{{"+name+"}}", value)
	}
	return rendered
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// LongFormDate renders a date in Brazilian long form, e.g.
// "01 de setembro de 2026"
func LongFormDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
