package ticker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOptionsDefaults(t *testing.T) {
	opts := ResolveOptions(nil)

	assert.Equal(t, "", opts.RSS)
	assert.Nil(t, opts.Speed)
	assert.Nil(t, opts.MaxItems)
	assert.Equal(t, DefaultSeparator, opts.Separator)
	assert.False(t, opts.Dark)
	assert.False(t, opts.Debug)
	assert.Equal(t, 60, opts.EffectiveSpeed())
	assert.Equal(t, 15, opts.EffectiveMaxItems())
}

func TestResolveOptionsAllAttributes(t *testing.T) {
	opts := ResolveOptions(map[string]string{
		"rss":       "https://example.com/feed.xml",
		"speed":     "90",
		"MaxItems":  "5",
		"separator": " | ",
		"dark":      "true",
		"debug":     "true",
		"apikey":    "key",
		"params":    "order_by=pubDate&count=5",
		"unknown":   "ignored",
	})

	assert.Equal(t, "https://example.com/feed.xml", opts.RSS)
	require.NotNil(t, opts.Speed)
	assert.Equal(t, 90, *opts.Speed)
	require.NotNil(t, opts.MaxItems)
	assert.Equal(t, 5, *opts.MaxItems)
	assert.Equal(t, " | ", opts.Separator)
	assert.True(t, opts.Dark)
	assert.True(t, opts.Debug)
	assert.Equal(t, "key", opts.APIKey)
	assert.Equal(t, "order_by=pubDate&count=5", opts.Params)
}

func TestResolveOptionsLongProviderNames(t *testing.T) {
	opts := ResolveOptions(map[string]string{
		"apikey":         "short",
		"rss2jsonapikey": "long",
		"rss2jsonparams": "count=3",
	})

	assert.Equal(t, "long", opts.APIKey)
	assert.Equal(t, "count=3", opts.Params)
}

func TestBooleanAttributesRequireLiteralTrue(t *testing.T) {
	for _, value := range []string{"false", "1", "TRUE", "yes", ""} {
		var opts Options
		opts.Set("dark", value)
		opts.Set("debug", value)
		assert.False(t, opts.Dark, "dark=%q", value)
		assert.False(t, opts.Debug, "debug=%q", value)
	}
}

func TestNumericAttributesFallBackWhenInvalid(t *testing.T) {
	tests := []struct {
		value string
		want  *int
	}{
		{"abc", nil},
		{"", nil},
		{"NaN", nil},
		{"Infinity", nil},
		{" 42 ", intPtr(42)},
		{"12.9", intPtr(12)},
		{"1e2", intPtr(100)},
		{"-7", intPtr(-7)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var opts Options
			opts.Set("speed", tt.value)
			assert.Equal(t, tt.want, opts.Speed)
		})
	}
}

func TestEffectiveSpeedIsClamped(t *testing.T) {
	for _, speed := range []int{-100, 0, 5, 19, 20} {
		opts := Options{Speed: intPtr(speed)}
		assert.Equal(t, 20, opts.EffectiveSpeed(), "speed %d", speed)
	}
	assert.Equal(t, 75, Options{Speed: intPtr(75)}.EffectiveSpeed())
}

func TestEffectiveMaxItemsNeverNegative(t *testing.T) {
	assert.Equal(t, 0, Options{MaxItems: intPtr(-3)}.EffectiveMaxItems())
	assert.Equal(t, 0, Options{MaxItems: intPtr(0)}.EffectiveMaxItems())
	assert.Equal(t, 8, Options{MaxItems: intPtr(8)}.EffectiveMaxItems())
}

func TestSetRejectsUnknownAttribute(t *testing.T) {
	var opts Options
	assert.False(t, opts.Set("color", "red"))
	assert.True(t, opts.Set("RSS", "https://example.com"))
	assert.Equal(t, "https://example.com", opts.RSS)
}

func TestAttributesRoundTrip(t *testing.T) {
	attrs := map[string]string{
		"rss":      "https://example.com/feed.xml",
		"speed":    "30",
		"maxitems": "4",
		"dark":     "true",
		"params":   "count=4",
	}
	opts := ResolveOptions(attrs)

	assert.Equal(t, opts, ResolveOptions(opts.Attributes()))
}

func intPtr(n int) *int {
	return &n
}
