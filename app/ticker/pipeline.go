package ticker

import (
	"context"
	"fmt"
)

type ItemFetcher interface {
	Run(ctx context.Context, opts Options) ([]Item, error)
}

// CycleRunner turns options into rendered output for one cycle.
type CycleRunner interface {
	Run(ctx context.Context, kind Kind, opts Options) Output
}

var _ CycleRunner = (*Pipeline)(nil)

// Pipeline is the fetch, normalize and render pass. Errors never escape
// it: they become an errored Output.
type Pipeline struct {
	fetcher ItemFetcher
	ticker  *Renderer
	card    *CardRenderer
}

func NewPipeline(fetcher ItemFetcher) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		ticker:  NewRenderer(),
		card:    NewCardRenderer(),
	}
}

func (p *Pipeline) Run(ctx context.Context, kind Kind, opts Options) (out Output) {
	log := opts.Logger(string(kind))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("render failed: %v", r)
			log.Info("Error while rendering", "error", err)
			out = errorOutput(err)
		}
	}()

	if kind == KindStatic {
		return StaticOutput()
	}

	items, err := p.fetcher.Run(ctx, opts)
	if err != nil {
		log.Info("Error while rendering", "error", err)
		return errorOutput(err)
	}

	switch kind {
	case KindCard:
		return p.card.Run(items, opts)
	case KindTicker:
		return p.ticker.Run(items, opts)
	default:
		return errorOutput(fmt.Errorf("unknown element kind %q", kind))
	}
}
