package summarize

import (
	"fmt"
	"strings"
	"text/template"

	"content-summarizer/internal/domain/entity"
)

// Prompts holds the two templates of a refine chain. Question receives the
// first chunk as {{.Text}}; Refine receives each following chunk as {{.Text}}
// and the summary so far as {{.ExistingAnswer}}.
type Prompts struct {
	Question *template.Template
	Refine   *template.Template
}

type promptData struct {
	Text           string
	ExistingAnswer string
}

const videoQuestion = `You are a professional content summarizer specialized in YouTube videos.

Video Content:
{{.Text}}

Please provide a comprehensive summary including:
1. Main Topic and Key Points
2. Important Details and Examples
3. Key Takeaways
4. Timestamps of important moments (if available)

Make the summary engaging and well-structured.
`

const videoRefine = `You are a professional content summarizer specialized in YouTube videos.

Here is the summary of the video so far:
{{.ExistingAnswer}}

More of the video content follows:
{{.Text}}

Refine the summary with the new content. Keep the structure:
1. Main Topic and Key Points
2. Important Details and Examples
3. Key Takeaways
4. Timestamps of important moments (if available)

If the new content adds nothing useful, return the summary unchanged.
`

const articleQuestion = `You are a professional content summarizer specialized in web articles.

Article Content:
{{.Text}}

Please provide a comprehensive summary including:
1. Main Topic and Key Points
2. Important Arguments and Evidence
3. Key Conclusions
4. Notable Quotes or Statistics

Make the summary engaging and well-structured.
`

const articleRefine = `You are a professional content summarizer specialized in web articles.

Here is the summary of the article so far:
{{.ExistingAnswer}}

More of the article content follows:
{{.Text}}

Refine the summary with the new content. Keep the structure:
1. Main Topic and Key Points
2. Important Arguments and Evidence
3. Key Conclusions
4. Notable Quotes or Statistics

If the new content adds nothing useful, return the summary unchanged.
`

var (
	videoPrompts   = mustPrompts("video", videoQuestion, videoRefine)
	articlePrompts = mustPrompts("article", articleQuestion, articleRefine)
)

// VideoPrompts returns the built-in prompts for video transcripts.
func VideoPrompts() Prompts { return videoPrompts }

// ArticlePrompts returns the built-in prompts for web articles.
func ArticlePrompts() Prompts { return articlePrompts }

// PromptsFor returns the built-in prompts for source.
func PromptsFor(source entity.Source) Prompts {
	if source == entity.SourceVideo {
		return videoPrompts
	}
	return articlePrompts
}

// NewPrompts parses question and refine templates.
func NewPrompts(name, question, refine string) (Prompts, error) {
	q, err := template.New(name + "-question").Option("missingkey=error").Parse(question)
	if err != nil {
		return Prompts{}, fmt.Errorf("parse %s question prompt: %w", name, err)
	}
	r, err := template.New(name + "-refine").Option("missingkey=error").Parse(refine)
	if err != nil {
		return Prompts{}, fmt.Errorf("parse %s refine prompt: %w", name, err)
	}
	return Prompts{Question: q, Refine: r}, nil
}

func mustPrompts(name, question, refine string) Prompts {
	p, err := NewPrompts(name, question, refine)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Prompts) question(text string) (string, error) {
	return render(p.Question, promptData{Text: text})
}

func (p Prompts) refine(existing, text string) (string, error) {
	return render(p.Refine, promptData{Text: text, ExistingAnswer: existing})
}

func render(t *template.Template, data promptData) (string, error) {
	if t == nil {
		return "", fmt.Errorf("prompt template not set")
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return sb.String(), nil
}
