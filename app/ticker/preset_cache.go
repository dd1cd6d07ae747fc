package ticker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preset is a named element configuration loaded from <name>.yml.
type Preset struct {
	Name        string            // Derived from filename (without .yml extension)
	Element     string            `yaml:"element"`
	Description string            `yaml:"description"`
	Attributes  map[string]string `yaml:"-"`

	RawAttributes map[string]any `yaml:"attributes"`
}

func (p *Preset) Options() Options {
	return ResolveOptions(p.Attributes)
}

type PresetCache struct {
	presetsDir string
	registry   *Registry
	cache      map[string]*Preset
	mu         sync.RWMutex
}

func NewPresetCache(presetsDir string, registry *Registry) *PresetCache {
	return &PresetCache{
		presetsDir: presetsDir,
		registry:   registry,
		cache:      make(map[string]*Preset),
	}
}

func (pc *PresetCache) Run() error {
	if _, err := os.Stat(pc.presetsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(pc.presetsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		presetName := strings.TrimSuffix(filepath.Base(file), ".yml")

		preset, err := pc.LoadPreset(presetName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Preset loaded", "preset", presetName, "element", preset.Element, "rss", preset.Attributes["rss"])
	}

	return nil
}

func (pc *PresetCache) LoadPreset(presetName string) (*Preset, error) {
	presetFile := pc.getPresetFilePath(presetName)
	preset, err := pc.parsePreset(presetFile)
	if err != nil {
		return nil, err
	}

	preset.Name = presetName

	if err := pc.validatePreset(preset); err != nil {
		return nil, fmt.Errorf("invalid preset %s: %w", presetFile, err)
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cache[preset.Name] = preset

	return preset, nil
}

func (pc *PresetCache) GetPreset(presetName string) (*Preset, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	preset, ok := pc.cache[presetName]
	if !ok {
		return nil, fmt.Errorf("preset with name '%s' not found", presetName)
	}
	return preset, nil
}

func (pc *PresetCache) GetPresets() map[string]*Preset {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	presetsCopy := make(map[string]*Preset, len(pc.cache))
	for k, v := range pc.cache {
		presetsCopy[k] = v
	}
	return presetsCopy
}

func (pc *PresetCache) GetPresetCount() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.cache)
}

func (pc *PresetCache) parsePreset(presetFile string) (*Preset, error) {
	data, err := os.ReadFile(presetFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if preset.Element == "" {
		preset.Element = ElementTicker
	}

	// Attribute values are text, whatever YAML scalar type they were written as.
	preset.Attributes = make(map[string]string, len(preset.RawAttributes))
	for name, value := range preset.RawAttributes {
		if value == nil {
			preset.Attributes[strings.ToLower(name)] = ""
			continue
		}
		preset.Attributes[strings.ToLower(name)] = fmt.Sprint(value)
	}

	return &preset, nil
}

func (pc *PresetCache) validatePreset(preset *Preset) error {
	if preset == nil {
		return fmt.Errorf("preset is nil")
	}

	kind, ok := pc.registry.Lookup(preset.Element)
	if !ok {
		return fmt.Errorf("unknown element: %s", preset.Element)
	}

	if kind != KindStatic && preset.Attributes["rss"] == "" {
		return fmt.Errorf("rss attribute is required")
	}

	for name, value := range preset.Attributes {
		var probe Options
		if !probe.Set(name, value) {
			return fmt.Errorf("unknown attribute: %s", name)
		}
		if (name == "speed" || name == "maxitems") && parseNumber(value) == nil {
			return fmt.Errorf("%s must be numeric, got %q", name, value)
		}
	}

	return nil
}

func (pc *PresetCache) getPresetFilePath(presetName string) string {
	return filepath.Join(pc.presetsDir, presetName+".yml")
}
