package tunnel

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sdlaunch/tunnelhub/internal/logging"
	"github.com/sdlaunch/tunnelhub/internal/metrics"
	"github.com/sdlaunch/tunnelhub/internal/settings"
	"github.com/sdlaunch/tunnelhub/internal/status"
)

// Summary aggregates one tunnel round: a result for every provider that was
// actually probed, plus the resolved public IP when available.
type Summary struct {
	// Results holds one entry per attempted provider, ordered by catalog
	// position.
	Results []Result
	// Attempted is the number of providers probed this round. Gated
	// providers without a credential are excluded.
	Attempted int
	// SuccessCount is the number of live tunnels.
	SuccessCount int
	// FailureCount is the number of failed probes.
	FailureCount int
	// PublicIP is the machine's public address, empty if the lookup failed.
	PublicIP string
	// Elapsed is the wall time of the whole round. Probes run concurrently,
	// so this tracks the slowest provider, not the sum.
	Elapsed time.Duration
}

// Orchestrator races the provider catalog concurrently and reports progress
// through a status reporter. Provider failures are data, not errors: a round
// with zero live tunnels still returns a complete Summary.
type Orchestrator struct {
	catalog  []ProviderConfig
	store    settings.Store
	probe    ProbeFunc
	resolver *IPResolver
	reporter *status.Reporter
	logger   zerolog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCatalog replaces the default provider catalog.
func WithCatalog(catalog []ProviderConfig) OrchestratorOption {
	return func(o *Orchestrator) { o.catalog = catalog }
}

// WithProbeFunc replaces the probe implementation.
func WithProbeFunc(probe ProbeFunc) OrchestratorOption {
	return func(o *Orchestrator) { o.probe = probe }
}

// WithIPResolver replaces the public-IP resolver.
func WithIPResolver(resolver *IPResolver) OrchestratorOption {
	return func(o *Orchestrator) { o.resolver = resolver }
}

// WithReporter sets the status reporter used for progress events.
func WithReporter(reporter *status.Reporter) OrchestratorOption {
	return func(o *Orchestrator) { o.reporter = reporter }
}

// WithOrchestratorLogger sets the orchestrator's logger.
func WithOrchestratorLogger(logger zerolog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

// NewOrchestrator creates an Orchestrator backed by the given settings store.
// Without options it uses the built-in catalog, a real subprocess prober, and
// an ipify-backed IP resolver.
func NewOrchestrator(store settings.Store, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		catalog: DefaultCatalog(),
		store:   store,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.probe == nil {
		o.probe = NewProber(WithProberLogger(o.logger)).Probe
	}
	if o.resolver == nil {
		o.resolver = NewIPResolver(store, WithIPLogger(o.logger))
	}
	return o
}

// Establish runs one tunnel round against the given local port. Every
// eligible provider is probed concurrently; the call blocks until all probes
// reach a terminal state and returns one Result per attempt. Credentials are
// read from the settings store at call time, so a token added between rounds
// takes effect without restarting.
//
// The returned error is non-nil only for invariant violations (malformed
// catalog) or caller cancellation, never for probe failures.
func (o *Orchestrator) Establish(ctx context.Context, port int) (*Summary, error) {
	start := time.Now()

	for _, cfg := range o.catalog {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	active, tokens := o.eligible()
	if len(active) == 0 {
		o.publish(status.Warning("no tunnel providers available"))
		return &Summary{Elapsed: time.Since(start)}, ctx.Err()
	}

	o.publish(status.Info("racing %d tunnel providers on port %d", len(active), port))

	// Resolve the public IP concurrently with the probes; localtunnel uses
	// it as the visitor password.
	ipCh := make(chan string, 1)
	go func() {
		ip, err := o.resolver.Resolve(ctx)
		if err != nil {
			o.logger.Warn().Err(err).Msg("public IP lookup failed")
		}
		ipCh <- ip
	}()

	// A plain group, not errgroup.WithContext: probes never return errors,
	// and a derived context would be canceled once Wait returns, tearing
	// down keep-alive tunnel clients that must outlive the round.
	results := make([]Result, len(active))
	var g errgroup.Group
	for i, cfg := range active {
		g.Go(func() error {
			res := o.probe(ctx, cfg, port, tokens[cfg.Name])
			results[i] = res
			metrics.ObserveProbe(cfg.Name, res.Succeeded, res.Elapsed)
			if res.Succeeded {
				o.publish(status.Success("%s: %s", cfg.Name, res.PublicURL))
			} else {
				o.publish(status.Error("%s: %s", cfg.Name, firstLine(res.ErrorDetail)))
			}
			// Probe failures are recorded in the result, never returned,
			// so one dead provider cannot cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{
		Results:   results,
		Attempted: len(active),
		PublicIP:  <-ipCh,
	}
	for _, res := range results {
		if res.Succeeded {
			summary.SuccessCount++
		} else {
			summary.FailureCount++
		}
	}
	summary.Elapsed = time.Since(start)

	o.logger.Info().
		Int("attempted", summary.Attempted).
		Int("succeeded", summary.SuccessCount).
		Int("failed", summary.FailureCount).
		Dur("elapsed", summary.Elapsed).
		Msg("tunnel round complete")

	return summary, ctx.Err()
}

// eligible filters the catalog down to providers whose credentials are
// present, announcing each skipped provider as a configuration gap. The
// returned token map is keyed by provider name.
func (o *Orchestrator) eligible() ([]ProviderConfig, map[string]string) {
	active := make([]ProviderConfig, 0, len(o.catalog))
	tokens := make(map[string]string)
	for _, cfg := range o.catalog {
		if cfg.CredentialKey != "" {
			token, ok := o.store.Read(cfg.CredentialKey)
			if !ok {
				o.publish(status.Warning("%s skipped: set %q in settings to enable it", cfg.Name, cfg.CredentialKey))
				continue
			}
			tokens[cfg.Name] = token
		}
		active = append(active, cfg)
	}
	return active, tokens
}

func (o *Orchestrator) publish(event status.Event) {
	if o.reporter != nil {
		o.reporter.Publish(event)
	}
}

// Succeeded returns the successful results ordered by catalog position.
func (s *Summary) Succeeded() []Result {
	live := make([]Result, 0, s.SuccessCount)
	for _, res := range s.Results {
		if res.Succeeded {
			live = append(live, res)
		}
	}
	return live
}

// Failed returns the failed results sorted by provider name for stable
// reporting.
func (s *Summary) Failed() []Result {
	dead := make([]Result, 0, s.FailureCount)
	for _, res := range s.Results {
		if !res.Succeeded {
			dead = append(dead, res)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].Provider < dead[j].Provider })
	return dead
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
