package providers

import "log/slog"

// Register adds the built-in providers to reg. The OpenAI providers share
// one rate limiter and resolve workspace keys through creds.
func Register(reg *Registry, cfg *Config, creds CredentialResolver, logger *slog.Logger) {
	logger = logger.With("system", "providers")
	limiter := NewLimiter(cfg.OpenAI.RequestsPerMinute)

	reg.RegisterText(NewOpenAIText(cfg, limiter, creds, logger))
	reg.RegisterText(OpenAIStub{})
	reg.RegisterImage(NewOpenAIImage(cfg, limiter, creds, logger))
	reg.RegisterImage(NanoBanana{})
}

// EnvironmentKeys reports which credential names have a global key configured.
func EnvironmentKeys(cfg *Config) map[string]bool {
	return map[string]bool{NameOpenAI: cfg.OpenAI.APIKey != ""}
}
