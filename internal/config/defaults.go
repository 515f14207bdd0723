package config

const (
	defaultSharedDir         = "~/.local/share/halbzeit/shared"
	defaultStagingDir        = "~/.local/share/halbzeit/staging"
	defaultDataDir           = "~/.local/share/halbzeit/data"
	defaultLogDir            = "~/.local/share/halbzeit/logs"
	defaultOllamaBaseURL     = "http://localhost:11434"
	defaultGenerationTimeout = 300
	defaultPullTimeout       = 1800
	defaultPollInterval      = 5
	defaultPdftoppmBinary    = "pdftoppm"
	defaultRenderDPI         = 150
	defaultRenderTimeout     = 120
	defaultNtfyTimeout       = 10
	defaultLogLevel          = "info"
	defaultLogFormat         = "text"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SharedDir:  defaultSharedDir,
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Ollama: Ollama{
			BaseURL:           defaultOllamaBaseURL,
			GenerationTimeout: defaultGenerationTimeout,
			PullTimeout:       defaultPullTimeout,
		},
		Worker: Worker{
			PollInterval: defaultPollInterval,
		},
		Render: Render{
			PdftoppmBinary: defaultPdftoppmBinary,
			DPI:            defaultRenderDPI,
			RenderTimeout:  defaultRenderTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
