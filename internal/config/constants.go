package config

import "time"

// Application constants
const (
	AppName    = "pubstats"
	AppVersion = "1.2.0"

	// EnvPrefix prefixes every environment override, e.g. PUBSTATS_SERVER_PORT
	EnvPrefix = "PUBSTATS"

	DefaultLogFile = "logs/pubstats.log"

	// Analysis
	DefaultTopN           = 5
	MaxTopN               = 50
	DefaultMaxUploadBytes = 20 << 20
	DefaultCacheTTL       = 30 * time.Minute
	DefaultCacheSize      = 32

	// Growth and decline thresholds for key takeaways, in percent
	TrendThresholdPercent = 10.0
	// Faculties whose current total falls below this share of the previous one are flagged
	DecliningFacultyRatio = 0.8
	// High-impact researchers above this share of active researchers mark a quality focus
	HighImpactFocusRatio = 0.5

	// HTTP
	DefaultRequestTimeout = 60 * time.Second
	DefaultRateLimit      = 20
	DefaultBurstSize      = 40
)
