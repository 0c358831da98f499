package doctor

import (
	"context"
	"fmt"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// KeyLocator reports where the API key is configured without prompting for it.
type KeyLocator interface {
	KeySource() (string, error)
}

// Service runs environment diagnostics.
type Service struct {
	Config      domain.Config
	ConfigPath  string
	Keys        KeyLocator
	Security    ports.SecurityService
	Environment ports.EnvironmentCollector
	Cache       ports.CacheRepository
	History     ports.HistoryRepository
	Clipboard   ports.Clipboard
}

// Run executes every check. Failed checks are reported, not returned as errors.
func (s *Service) Run(ctx context.Context) domain.HealthReport {
	checks := []domain.HealthCheck{
		ok("Config", fmt.Sprintf("model %s, file %s", s.Config.Model, s.ConfigPath)),
		s.keyCheck(),
		s.guardrailCheck(),
		s.environmentCheck(ctx),
		s.cacheCheck(ctx),
		s.historyCheck(ctx),
		s.clipboardCheck(),
	}
	return domain.HealthReport{Checks: checks}
}

func (s *Service) keyCheck() domain.HealthCheck {
	if s.Keys == nil {
		return warn("API key", "key lookup not available")
	}
	source, err := s.Keys.KeySource()
	switch {
	case err != nil:
		return fail("API key", err.Error())
	case source == "":
		return warn("API key", "not configured; iop will ask for it on the first query")
	default:
		return ok("API key", "found in "+source)
	}
}

func (s *Service) guardrailCheck() domain.HealthCheck {
	if !s.Config.Security.Enabled {
		return warn("Guardrail", "disabled in config")
	}
	if s.Security == nil {
		return warn("Guardrail", "security service not initialized")
	}
	if _, err := s.Security.Evaluate("ls"); err != nil {
		return fail("Guardrail", err.Error())
	}
	return ok("Guardrail", "rules loaded")
}

func (s *Service) environmentCheck(ctx context.Context) domain.HealthCheck {
	if s.Environment == nil {
		return warn("Environment", "collector not initialized")
	}
	env, err := s.Environment.Collect(ctx)
	if err != nil {
		return warn("Environment", err.Error())
	}
	return ok("Environment", fmt.Sprintf("%s on %s", env.Shell, env.OS))
}

func (s *Service) cacheCheck(ctx context.Context) domain.HealthCheck {
	entries, err := s.Cache.Entries(ctx)
	if err != nil {
		return fail("Cache", err.Error())
	}
	return ok("Cache", fmt.Sprintf("%d entries in %s", len(entries), s.Cache.Path()))
}

func (s *Service) historyCheck(ctx context.Context) domain.HealthCheck {
	records, err := s.History.Records(ctx, 0, "")
	if err != nil {
		return fail("History", err.Error())
	}
	return ok("History", fmt.Sprintf("%d records in %s", len(records), s.History.Path()))
}

func (s *Service) clipboardCheck() domain.HealthCheck {
	if s.Clipboard == nil || !s.Clipboard.Enabled() {
		return warn("Clipboard", "no clipboard utility found; copy is unavailable")
	}
	return ok("Clipboard", "available")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
