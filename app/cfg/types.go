package cfg

type Cfg struct {
	// Application configuration
	PresetsDir   string
	Port         string
	BaseUrl      string
	WorkerCount  int
	QueueSize    int
	APIAccessKey string

	// Provider configuration
	ProviderURL    string
	ProviderAPIKey string

	// Application metadata
	UserAgent string
	Timezone  string
	LogFormat string
	Debug     bool
	Version   string
}
