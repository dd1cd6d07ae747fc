package ticker

import (
	"html"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

const (
	charsPerSecond     = 6
	fallbackVisibleLen = 100
)

var stripPolicy = bluemonday.StrictPolicy()

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Run renders the ticker track for items. An empty list yields the
// placeholder and no pacing.
func (r *Renderer) Run(items []Item, opts Options) Output {
	if len(items) == 0 {
		return emptyOutput()
	}

	fragments := make([]string, 0, len(items))
	for _, item := range items {
		fragments = append(fragments, renderItem(item))
	}
	markup := strings.Join(fragments, html.EscapeString(opts.Separator))

	text := VisibleText(markup)
	visible := utf8.RuneCountInString(text)
	if visible == 0 {
		visible = fallbackVisibleLen
	}

	return Output{
		State:         StateRendered,
		Markup:        markup,
		Text:          text,
		PacingSeconds: Pacing(visible, opts),
		Items:         len(items),
	}
}

func renderItem(item Item) string {
	var b strings.Builder
	b.WriteString(`<span class="item">• <a href="`)
	b.WriteString(html.EscapeString(linkOrPlaceholder(item.Link)))
	b.WriteString(`" target="_blank" rel="noopener">`)
	b.WriteString(html.EscapeString(item.Title))
	b.WriteString(`</a></span>`)
	return b.String()
}

func linkOrPlaceholder(link string) string {
	if link == "" {
		return "#"
	}
	return link
}

// Pacing is the seconds for one full scroll: the configured floor or
// one second per six visible characters, whichever is longer.
func Pacing(visibleChars int, opts Options) int {
	byLength := int(math.Floor(float64(visibleChars)/charsPerSecond + 0.5))
	return max(MinSpeed, opts.EffectiveSpeed(), byLength)
}

// VisibleText strips markup and decodes entities, NFC normalized.
func VisibleText(markup string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(markup))
	return norm.NFC.String(text)
}

func emptyOutput() Output {
	return Output{
		State:  StateEmpty,
		Markup: html.EscapeString(EmptyText),
		Text:   EmptyText,
	}
}

func errorOutput(err error) Output {
	text := ErrorTextPrefix + err.Error()
	return Output{
		State:  StateErrored,
		Markup: html.EscapeString(text),
		Text:   text,
	}
}

func loadingOutput() Output {
	return Output{
		State:  StateLoading,
		Markup: html.EscapeString(LoadingText),
		Text:   LoadingText,
	}
}
