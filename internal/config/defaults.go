package config

const (
	defaultSearchesDir              = "~/.local/share/bnbscout/searches"
	defaultLogDir                   = "~/.local/share/bnbscout/logs"
	defaultMarketplaceBaseURL       = "https://www.airbnb.com"
	defaultMarketplaceTimeout       = 30
	defaultCurrency                 = "EUR"
	defaultAIBaseURL                = "https://api.openai.com/v1/chat/completions"
	defaultAIModel                  = "gpt-4o-mini"
	defaultAITimeoutSeconds         = 60
	defaultNotifyRequestTimeout     = 10
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SearchesDir: defaultSearchesDir,
			LogDir:      defaultLogDir,
		},
		Marketplace: Marketplace{
			BaseURL:        defaultMarketplaceBaseURL,
			Currency:       defaultCurrency,
			TimeoutSeconds: defaultMarketplaceTimeout,
		},
		AI: AI{
			BaseURL:        defaultAIBaseURL,
			Model:          defaultAIModel,
			TimeoutSeconds: defaultAITimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
