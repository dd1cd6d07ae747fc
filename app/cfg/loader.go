package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

const DefaultProviderURL = "https://api.rss2json.com/v1/api.json"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	PresetsDir   string `long:"presets-dir" env:"PRESETS_DIR" default:"./presets" description:"Directory containing widget preset files"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://ticker.example.com)"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of workers running widget cycles"`
	QueueSize    int    `long:"queue-size" env:"QUEUE_SIZE" default:"100" description:"Maximum number of queued widget cycles"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Provider configuration
	ProviderURL    string `long:"provider-url" env:"PROVIDER_URL" default:"https://api.rss2json.com/v1/api.json" description:"Feed-to-JSON provider endpoint"`
	ProviderAPIKey string `long:"provider-api-key" env:"PROVIDER_API_KEY" description:"Default rss2json API key for widgets without one"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Ticker/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Berlin)"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"Log output format"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses args instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		PresetsDir:     raw.PresetsDir,
		Port:           raw.Port,
		BaseUrl:        raw.BaseUrl,
		WorkerCount:    max(raw.WorkerCount, 1),
		QueueSize:      max(raw.QueueSize, 1),
		APIAccessKey:   raw.APIAccessKey,
		ProviderURL:    cmp.Or(raw.ProviderURL, DefaultProviderURL),
		ProviderAPIKey: raw.ProviderAPIKey,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		LogFormat:      raw.LogFormat,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
