package ticker

// Item is one normalized feed entry. Items are produced fresh on every cycle.
type Item struct {
	Title       string
	Link        string
	Description string
}

type State string

const (
	StateUnattached State = "unattached"
	StateLoading    State = "loading"
	StateRendered   State = "rendered"
	StateEmpty      State = "empty"
	StateErrored    State = "errored"
)

// Kind selects the renderer behind an element name.
type Kind string

const (
	KindTicker Kind = "ticker"
	KindCard   Kind = "card"
	KindStatic Kind = "static"
)

// Output is the derived render state of one cycle.
type Output struct {
	State         State
	Markup        string
	Text          string
	PacingSeconds int
	Items         int
}

const (
	LoadingText     = "Loading headlines…"
	EmptyText       = "No entries in feed."
	ErrorTextPrefix = "RSS error: "
)
