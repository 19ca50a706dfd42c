package scoring

import (
	"strings"
	"text/template"
)

// intentPromptTemplate embeds the lead fields verbatim; text/template does no escaping.
const intentPromptTemplate = `You are an expert digital marketing advisor. Rate from 1 to 5 the intent to hire (1 = low, 5 = high):

Lead:
- Company: {{.CompanyName}}
- Size: {{.CompanySize}}
- Message: "{{.Message}}"

Reply only with a number from 1 to 5.`

var intentPrompt = template.Must(template.New("intent").Parse(intentPromptTemplate))

// RenderPrompt fills the intent prompt for lead.
func RenderPrompt(lead Lead) string {
	var b strings.Builder
	// Execute cannot fail: the template only reads string fields of a value type.
	_ = intentPrompt.Execute(&b, lead)
	return b.String()
}
