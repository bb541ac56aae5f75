// Package prompt holds the instructions sent to the language model at each
// stage of answering a question.
package prompt

import (
	"strings"
	"text/template"
)

// FallbackAnswer is what the model is told to say when the context or the
// conversation does not contain the answer.
const FallbackAnswer = "I don't know."

const routerSystem = `The user has sent a new message. You are an expert at routing the message.
Decide the next step by following these guidelines:
Read the message carefully. If it is not in English, translate it to English in your head first.
If the user asks about someone or something by name, check the vectorstore first.
A question can look general and still be about a specific document in the vectorstore. Do not confuse the two sources.
If the message needs detailed or additional information that may be found in the stored documents, choose vectorstore.
If the message refers to earlier parts of the conversation, or is small talk, choose memory.

Conversation history:
{{.History}}`

const booster = `You are an assistant in a question-answering task.
Rewrite the question so it works better as a search query over the stored documents.
Resolve pronouns and references using the conversation history.
Do not make up names or facts that are not in the question or the history.
Do not make it longer than the original. Return only the rewritten question.

Conversation history:
{{.History}}

Question: {{.Question}}`

const condenser = `You are an expert assistant for question-answering tasks.
Restructure the documents below for the question.
Keep it short and keep only knowledge relevant to the question.
Copy identifiers, email addresses, phone numbers, addresses and other structured values exactly as written.
Do not make up names.

Documents:
{{range $i, $d := .Documents}}[{{inc $i}}] {{$d}}
{{end}}
Question: {{.Question}}`

const withContext = `You are an expert assistant for question-answering tasks.
Use the provided context to extract and answer the question.
When the answer is an explicit value in the context (a name, email address, number or address), quote it verbatim.
If the answer is not mentioned in the context, respond with '{{.Fallback}}'
Keep your answer to three sentences at most.

Conversation history:
{{.History}}

Context:
{{.Context}}

Question: {{.Question}}
Answer:`

const withoutContext = `You are an assistant for question-answering tasks.
If you don't know the answer, just say that you don't know ('{{.Fallback}}').
Check the previous conversation for context before answering.
Use three sentences maximum and keep the answer concise.

Conversation history:
{{.History}}

Question: {{.Question}}
Answer:`

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var (
	routerTmpl         = template.Must(template.New("router").Parse(routerSystem))
	boosterTmpl        = template.Must(template.New("booster").Parse(booster))
	condenserTmpl      = template.Must(template.New("condenser").Funcs(funcs).Parse(condenser))
	withContextTmpl    = template.Must(template.New("with_context").Parse(withContext))
	withoutContextTmpl = template.Must(template.New("without_context").Parse(withoutContext))
)

// Data is the union of fields the templates read.
type Data struct {
	Question  string
	History   string
	Context   string
	Documents []string
	Fallback  string
}

func render(t *template.Template, d Data) (string, error) {
	if d.History == "" {
		d.History = "(empty)"
	}
	if d.Fallback == "" {
		d.Fallback = FallbackAnswer
	}
	var b strings.Builder
	if err := t.Execute(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

func Router(history string) (string, error) {
	return render(routerTmpl, Data{History: history})
}

func Booster(question, history string) (string, error) {
	return render(boosterTmpl, Data{Question: question, History: history})
}

func Condenser(question string, documents []string) (string, error) {
	return render(condenserTmpl, Data{Question: question, Documents: documents})
}

func WithContext(question, history, context string) (string, error) {
	return render(withContextTmpl, Data{Question: question, History: history, Context: context})
}

func WithoutContext(question, history string) (string, error) {
	return render(withoutContextTmpl, Data{Question: question, History: history})
}
