package ticker

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultSpeed     = 60
	MinSpeed         = 20
	DefaultMaxItems  = 15
	DefaultSeparator = " • "
)

// Options is the typed widget configuration. Speed and MaxItems are nil
// when the attribute is absent or not a finite number.
type Options struct {
	RSS       string
	Speed     *int
	MaxItems  *int
	Separator string
	Dark      bool
	Debug     bool
	APIKey    string
	Params    string
}

// Attribute names accepted by Set, in the order they are applied.
var AttributeNames = []string{"rss", "speed", "maxitems", "separator", "dark", "debug", "apikey", "params"}

func DefaultOptions() Options {
	return Options{Separator: DefaultSeparator}
}

// ResolveOptions builds Options from raw attribute values. Names are
// matched case-insensitively and unknown names are ignored.
func ResolveOptions(attrs map[string]string) Options {
	lower := make(map[string]string, len(attrs))
	for name, value := range attrs {
		lower[strings.ToLower(name)] = value
	}

	opts := DefaultOptions()
	for _, name := range AttributeNames {
		if value, ok := lower[name]; ok {
			opts.Set(name, value)
		}
	}
	// Long rss2json attribute names win over the short ones.
	for _, name := range []string{"rss2jsonapikey", "rss2jsonparams"} {
		if value, ok := lower[name]; ok {
			opts.Set(name, value)
		}
	}
	return opts
}

// Set applies one attribute and reports whether the name is known.
func (o *Options) Set(name, value string) bool {
	switch strings.ToLower(name) {
	case "rss":
		o.RSS = value
	case "speed":
		o.Speed = parseNumber(value)
	case "maxitems":
		o.MaxItems = parseNumber(value)
	case "separator":
		o.Separator = value
	case "dark":
		o.Dark = value == "true"
	case "debug":
		o.Debug = value == "true"
	case "apikey", "rss2jsonapikey":
		o.APIKey = value
	case "params", "rss2jsonparams":
		o.Params = value
	default:
		return false
	}
	return true
}

// EffectiveSpeed is the configured speed or the default, never below MinSpeed.
func (o Options) EffectiveSpeed() int {
	speed := DefaultSpeed
	if o.Speed != nil {
		speed = *o.Speed
	}
	return max(MinSpeed, speed)
}

func (o Options) EffectiveMaxItems() int {
	if o.MaxItems == nil {
		return DefaultMaxItems
	}
	return max(0, *o.MaxItems)
}

// Attributes is the inverse of ResolveOptions for set fields.
func (o Options) Attributes() map[string]string {
	attrs := map[string]string{
		"rss":       o.RSS,
		"separator": o.Separator,
		"dark":      strconv.FormatBool(o.Dark),
		"debug":     strconv.FormatBool(o.Debug),
	}
	if o.Speed != nil {
		attrs["speed"] = strconv.Itoa(*o.Speed)
	}
	if o.MaxItems != nil {
		attrs["maxitems"] = strconv.Itoa(*o.MaxItems)
	}
	if o.APIKey != "" {
		attrs["apikey"] = o.APIKey
	}
	if o.Params != "" {
		attrs["params"] = o.Params
	}
	return attrs
}

// Logger returns a logger for widget debug output. It discards everything
// unless the debug attribute is set.
func (o Options) Logger(element string) *slog.Logger {
	if !o.Debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.Default().With("component", element)
}

// parseNumber accepts decimal and exponent forms, truncating fractions.
func parseNumber(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 {
		f = math.MaxInt32
	} else if f < math.MinInt32 {
		f = math.MinInt32
	}
	n := int(f)
	return &n
}
