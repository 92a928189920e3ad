// Package query holds the prompts for question routing and grounded answering.
package query

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/rulekb/rulekb/internal/prompts"
)

//go:embed route.tmpl
var routePrompt string

//go:embed answer.tmpl
var answerPromptTmpl string

var answerTemplate = template.Must(template.New("answer").Parse(answerPromptTmpl))

// RoutePrompt returns the question routing prompt.
func RoutePrompt() string {
	return routePrompt
}

// AnswerPrompt builds the grounded answer prompt from a question and the
// retrieved context.
func AnswerPrompt(question, context string) string {
	var buf bytes.Buffer
	data := struct{ Question, Context string }{Question: question, Context: context}
	if err := answerTemplate.Execute(&buf, data); err != nil {
		// Fallback to raw template on error
		return answerPromptTmpl
	}
	return buf.String()
}

// Prompt keys
const (
	RoutePromptKey  = "stages.query.route"
	AnswerPromptKey = "stages.query.answer"
)

// RegisterPrompts registers the query prompts with the registry.
func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         RoutePromptKey,
		Text:        routePrompt,
		Description: "Query routing prompt - classifies a question as a rule lookup or term search",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         AnswerPromptKey,
		Text:        answerPromptTmpl,
		Description: "Answer prompt template - verbatim answer from retrieved context",
	})
}
