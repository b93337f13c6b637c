package config

const (
	defaultDownloadDir   = "~/.local/share/factreel/downloads"
	defaultLogDir        = "~/.local/share/factreel/logs"
	defaultLedgerPath    = "~/.local/share/factreel/downloads.db"
	defaultHandoffPath   = "~/.local/share/factreel/factcheck_dirs.txt"
	defaultStableSeconds = 10
	defaultMaxParallel   = 2
	defaultWhisperModel  = "base"
	defaultFetchRetries  = 3
	defaultURLLog        = "~/.local/share/factreel/extracted_urls.txt"
	defaultRouteKeyword  = "factcheck"
	// Responses carry this subject prefix so ingest never re-downloads its own output.
	defaultResponsePrefix = "[FACTCHECK - RESPONSE] - "
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			LedgerPath:  defaultLedgerPath,
			HandoffPath: defaultHandoffPath,
		},
		Pipeline: Pipeline{
			StableSeconds:   defaultStableSeconds,
			MaxParallel:     defaultMaxParallel,
			WhisperModel:    defaultWhisperModel,
			VideoExtensions: []string{".mp4"},
		},
		Fetch: Fetch{
			Retries: defaultFetchRetries,
			URLLog:  defaultURLLog,
		},
		Ingest: Ingest{
			RouteKeyword:   defaultRouteKeyword,
			ResponsePrefix: defaultResponsePrefix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
