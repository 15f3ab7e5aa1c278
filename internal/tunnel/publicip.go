package tunnel

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/logging"
	"github.com/sdlaunch/tunnelhub/internal/settings"
)

// SettingsKeyPublicIP is the settings-store key caching the machine's
// public address across runs.
const SettingsKeyPublicIP = "public_ip"

// defaultIPEndpoint answers with the caller's public address as plain text.
const defaultIPEndpoint = "https://api.ipify.org"

// ipLookupTimeout bounds the HTTP lookup; the address is informational and
// must not delay the tunnel round.
const ipLookupTimeout = 5 * time.Second

// IPResolver resolves the machine's public IP, preferring the cached value
// in the settings store and falling back to an HTTP lookup. Some providers
// use the public IP as the visitor password, so the address is surfaced
// alongside tunnel URLs.
type IPResolver struct {
	store    settings.Store
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// IPResolverOption configures an IPResolver.
type IPResolverOption func(*IPResolver)

// WithIPEndpoint overrides the lookup endpoint.
func WithIPEndpoint(endpoint string) IPResolverOption {
	return func(r *IPResolver) { r.endpoint = endpoint }
}

// WithIPClient overrides the HTTP client used for lookups.
func WithIPClient(client *http.Client) IPResolverOption {
	return func(r *IPResolver) { r.client = client }
}

// WithIPLogger sets the resolver's logger.
func WithIPLogger(logger zerolog.Logger) IPResolverOption {
	return func(r *IPResolver) { r.logger = logger }
}

// NewIPResolver creates a resolver backed by the given settings store.
func NewIPResolver(store settings.Store, opts ...IPResolverOption) *IPResolver {
	r := &IPResolver{
		store:    store,
		endpoint: defaultIPEndpoint,
		client:   &http.Client{Timeout: ipLookupTimeout},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the public IP. A cached address short-circuits the network
// entirely; otherwise the endpoint is queried and the answer written back to
// the store. The write-back is best effort: a read-only store still yields
// the address.
func (r *IPResolver) Resolve(ctx context.Context) (string, error) {
	if cached, ok := r.store.Read(SettingsKeyPublicIP); ok {
		return cached, nil
	}

	ip, err := r.lookup(ctx)
	if err != nil {
		return "", err
	}

	if err := r.store.Write(SettingsKeyPublicIP, ip); err != nil {
		r.logger.Warn().Err(err).Msg("could not cache public IP")
	}
	return ip, nil
}

func (r *IPResolver) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return "", apperrors.NewNetworkError(r.endpoint, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", apperrors.NewNetworkError(r.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewNetworkError(r.endpoint, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// An IP is at most 45 bytes; anything longer is not an address.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", apperrors.NewNetworkError(r.endpoint, err)
	}

	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", apperrors.NewNetworkError(r.endpoint, fmt.Errorf("response %q is not an IP address", ip))
	}
	return ip, nil
}
