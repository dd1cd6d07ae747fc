package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-ticker/app/tasks"
	"github.com/lysyi3m/rss-ticker/app/ticker"
)

//go:embed templates/*.html
var templatesFS embed.FS

func NewHandler(registry *ticker.Registry, presets *ticker.PresetCache, runner ticker.CycleRunner,
	instances *ticker.Instances, scheduler tasks.TaskSchedulerInterface) (*Handler, error) {
	pages, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{
		registry:  registry,
		presets:   presets,
		runner:    runner,
		instances: instances,
		scheduler: scheduler,
		pages:     pages,
	}, nil
}

// GetElement renders one cycle of an element configured from query parameters.
func (h *Handler) GetElement(c *gin.Context) {
	name := c.Param("name")

	kind, ok := h.registry.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Element not defined"})
		return
	}

	attrs := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if key == "format" || len(values) == 0 {
			continue
		}
		attrs[key] = values[0]
	}

	h.renderElement(c, name, kind, ticker.ResolveOptions(attrs))
}

// GetPreset renders one cycle of a preset from the presets directory.
func (h *Handler) GetPreset(c *gin.Context) {
	name := c.Param("name")

	preset, err := h.presets.GetPreset(name)
	if err != nil {
		slog.Error("Preset not found", "preset", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Preset not found"})
		return
	}

	kind, ok := h.registry.Lookup(preset.Element)
	if !ok {
		slog.Error("Preset element not defined", "preset", name, "element", preset.Element)
		c.JSON(http.StatusNotFound, gin.H{"error": "Element not defined"})
		return
	}

	h.renderElement(c, preset.Element, kind, preset.Options())
}

func (h *Handler) renderElement(c *gin.Context, element string, kind ticker.Kind, opts ticker.Options) {
	out := h.runner.Run(c.Request.Context(), kind, opts)

	c.Header("Cache-Control", "no-store")
	c.Header("X-Widget-State", string(out.State))
	c.Header("X-Widget-Items", strconv.Itoa(out.Items))
	if out.PacingSeconds > 0 {
		c.Header("X-Widget-Pacing", strconv.Itoa(out.PacingSeconds))
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, newElementResponse(element, kind, opts, out))
		return
	}

	var buf bytes.Buffer
	err := h.pages.ExecuteTemplate(&buf, string(kind), pageData{
		Element:       element,
		State:         string(out.State),
		Dark:          opts.Dark,
		PacingSeconds: out.PacingSeconds,
		Markup:        template.HTML(out.Markup),
	})
	if err != nil {
		slog.Error("Page rendering error", "element", element, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":      time.Now().In(time.Local).Format(time.RFC3339),
		"elements":       h.registry.Names(),
		"loaded_presets": h.presets.GetPresetCount(),
		"instances":      h.instances.Count(),
		"queued_cycles":  h.scheduler.QueueLength(),
	})
}

func (h *Handler) APIListPresets(c *gin.Context) {
	presets := h.presets.GetPresets()

	list := make([]map[string]interface{}, 0, len(presets))
	for _, preset := range presets {
		opts := preset.Options()
		list = append(list, map[string]interface{}{
			"name":        preset.Name,
			"element":     preset.Element,
			"description": preset.Description,
			"rss":         opts.RSS,
			"speed":       opts.EffectiveSpeed(),
			"max_items":   opts.EffectiveMaxItems(),
			"dark":        opts.Dark,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"presets": list,
		"total":   len(list),
	})
}

func (h *Handler) APIReloadPreset(c *gin.Context) {
	name := c.Param("name")

	preset, err := h.presets.LoadPreset(name)
	if err != nil {
		slog.Error("Error reloading preset", "preset", name, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to reload preset",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Preset reloaded successfully",
		"preset": gin.H{
			"name":    preset.Name,
			"element": preset.Element,
		},
	})
}

func (h *Handler) APICreateInstance(c *gin.Context) {
	var req createInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	widget, err := h.instances.Create(req.Element)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Element not defined", "details": err.Error()})
		return
	}

	if _, _, err := widget.SetAttributes(req.Attributes); err != nil {
		h.instances.Remove(widget.ID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attributes", "details": err.Error()})
		return
	}

	if req.Detached {
		c.JSON(http.StatusCreated, newInstanceResponse(widget.Snapshot()))
		return
	}

	seq := widget.Attach()
	slog.Info("Widget attached", "widget", widget.ID, "element", widget.Element, "seq", seq)

	c.JSON(http.StatusCreated, newInstanceResponse(h.maybeWait(c, widget, seq)))
}

func (h *Handler) APIGetInstance(c *gin.Context) {
	widget, ok := h.instances.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
		return
	}

	c.JSON(http.StatusOK, newInstanceResponse(widget.Snapshot()))
}

func (h *Handler) APIUpdateAttributes(c *gin.Context) {
	widget, ok := h.instances.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
		return
	}

	var req updateAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	seq, started, err := widget.SetAttributes(req.Attributes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attributes", "details": err.Error()})
		return
	}

	if !started {
		c.JSON(http.StatusOK, newInstanceResponse(widget.Snapshot()))
		return
	}

	c.JSON(http.StatusOK, newInstanceResponse(h.maybeWait(c, widget, seq)))
}

func (h *Handler) APIAttachInstance(c *gin.Context) {
	widget, ok := h.instances.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
		return
	}

	c.JSON(http.StatusOK, newInstanceResponse(h.maybeWait(c, widget, widget.Attach())))
}

func (h *Handler) APIDeleteInstance(c *gin.Context) {
	id := c.Param("id")
	if !h.instances.Remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
		return
	}

	slog.Info("Widget removed", "widget", id)
	c.Status(http.StatusNoContent)
}

// maybeWait blocks until cycle seq settles when the caller asked for ?wait=true.
func (h *Handler) maybeWait(c *gin.Context, widget *ticker.Widget, seq uint64) ticker.Snapshot {
	if c.Query("wait") != "true" {
		return widget.Snapshot()
	}

	snap, err := widget.Wait(c.Request.Context(), seq)
	if err != nil {
		slog.Warn("Stopped waiting for widget cycle", "widget", widget.ID, "seq", seq, "error", err)
	}
	return snap
}

func wantsJSON(c *gin.Context) bool {
	if format := c.Query("format"); format != "" {
		return format == "json"
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func newElementResponse(element string, kind ticker.Kind, opts ticker.Options, out ticker.Output) elementResponse {
	return elementResponse{
		Element:       element,
		Kind:          string(kind),
		State:         string(out.State),
		Markup:        out.Markup,
		Text:          out.Text,
		PacingSeconds: out.PacingSeconds,
		Items:         out.Items,
		Dark:          opts.Dark,
	}
}

func newInstanceResponse(snap ticker.Snapshot) instanceResponse {
	return instanceResponse{
		ID:         snap.ID,
		Element:    snap.Element,
		Kind:       string(snap.Kind),
		State:      string(snap.State),
		Seq:        snap.Seq,
		Attributes: snap.Options.Attributes(),
		Output:     newElementResponse(snap.Element, snap.Kind, snap.Options, snap.Output),
		UpdatedAt:  snap.UpdatedAt,
	}
}
