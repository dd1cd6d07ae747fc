package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/rss-ticker/app/ticker"
)

// RenderCycleTask runs one fetch and render cycle of a widget.
type RenderCycleTask struct {
	Task
	Seq    uint64
	widget *ticker.Widget
}

func NewRenderCycleTask(widget *ticker.Widget, seq uint64) *RenderCycleTask {
	return &RenderCycleTask{
		Task:   NewTask(TaskTypeRenderCycle, widget.ID),
		Seq:    seq,
		widget: widget,
	}
}

func (t *RenderCycleTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.widget.Execute(ctx, t.Seq)

	snap := t.widget.Snapshot()
	slog.Debug("Task completed",
		"type", string(t.Type),
		"widget", t.WidgetID,
		"element", snap.Element,
		"seq", t.Seq,
		"state", string(snap.State),
		"duration", t.GetDuration())

	return nil
}
