package ticker

import (
	"html"
	"strings"
)

const (
	excerptRunes = 150
	cardHeading  = "News Feed"
)

// CardRenderer shows the newest item as a card with a short excerpt.
type CardRenderer struct{}

func NewCardRenderer() *CardRenderer {
	return &CardRenderer{}
}

func (r *CardRenderer) Run(items []Item, opts Options) Output {
	if len(items) == 0 {
		return emptyOutput()
	}
	item := items[0]

	var b strings.Builder
	b.WriteString(`<div class="card">`)
	b.WriteString(`<div class="category">` + html.EscapeString(cardHeading) + `</div>`)
	b.WriteString(`<h2>` + html.EscapeString(item.Title) + `</h2>`)
	if excerpt := Excerpt(item.Description, excerptRunes); excerpt != "" {
		b.WriteString(`<p>` + html.EscapeString(excerpt) + `</p>`)
	}
	b.WriteString(`<a class="btn" target="_blank" rel="noopener" href="` + html.EscapeString(linkOrPlaceholder(item.Link)) + `">Read full article</a>`)
	b.WriteString(`</div>`)

	markup := b.String()
	return Output{
		State:  StateRendered,
		Markup: markup,
		Text:   VisibleText(markup),
		Items:  1,
	}
}

// Excerpt strips markup from s and cuts it to limit runes, marking the cut with "...".
func Excerpt(s string, limit int) string {
	text := strings.TrimSpace(VisibleText(s))
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimRight(string(runes[:limit]), " ") + "..."
}

const staticBadge = "🚀 Test widget: connection ok!"

// StaticOutput is the fixed badge of the test element. It never fetches.
func StaticOutput() Output {
	return Output{
		State:  StateRendered,
		Markup: `<div class="badge">` + html.EscapeString(staticBadge) + `</div>`,
		Text:   staticBadge,
	}
}
