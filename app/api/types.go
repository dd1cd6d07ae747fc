package api

import (
	"html/template"
	"time"

	"github.com/lysyi3m/rss-ticker/app/tasks"
	"github.com/lysyi3m/rss-ticker/app/ticker"
)

type Handler struct {
	registry  *ticker.Registry
	presets   *ticker.PresetCache
	runner    ticker.CycleRunner
	instances *ticker.Instances
	scheduler tasks.TaskSchedulerInterface
	pages     *template.Template
}

type elementResponse struct {
	Element       string `json:"element"`
	Kind          string `json:"kind"`
	State         string `json:"state"`
	Markup        string `json:"markup"`
	Text          string `json:"text"`
	PacingSeconds int    `json:"pacing_seconds"`
	Items         int    `json:"items"`
	Dark          bool   `json:"dark"`
}

type instanceResponse struct {
	ID         string            `json:"id"`
	Element    string            `json:"element"`
	Kind       string            `json:"kind"`
	State      string            `json:"state"`
	Seq        uint64            `json:"seq"`
	Attributes map[string]string `json:"attributes"`
	Output     elementResponse   `json:"output"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type createInstanceRequest struct {
	Element    string            `json:"element" binding:"required"`
	Attributes map[string]string `json:"attributes"`
	Detached   bool              `json:"detached"`
}

type updateAttributesRequest struct {
	Attributes map[string]string `json:"attributes" binding:"required"`
}

type pageData struct {
	Element       string
	State         string
	Dark          bool
	PacingSeconds int
	Markup        template.HTML
}
