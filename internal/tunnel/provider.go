package tunnel

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
)

// Settings keys for credential-gated providers. These match the keys the
// notebook settings JSON uses.
const (
	CredentialNgrok = "ngrok_token"
	CredentialZrok  = "zrok_token"
)

// DefaultProbeTimeout bounds a single probe when the provider config does
// not set its own limit.
const DefaultProbeTimeout = 20 * time.Second

// ProviderConfig describes one tunnel provider. Configs are immutable data:
// adding a provider means adding a table entry, not touching orchestration
// logic.
type ProviderConfig struct {
	// Name identifies the provider in results and status output.
	Name string
	// Command is the client invocation template. {port} is replaced with
	// the target port and {token} with the provider's credential.
	Command string
	// Pattern detects success: the first output line it matches yields the
	// public URL.
	Pattern *regexp.Regexp
	// Timeout bounds the probe; zero means DefaultProbeTimeout.
	Timeout time.Duration
	// CredentialKey names the settings-store key holding this provider's
	// token. Empty means the provider is always active; a missing or empty
	// credential excludes the provider from the round (a configuration
	// gap, not an error).
	CredentialKey string
	// CredentialEnv, when set, passes the credential to the client through
	// this environment variable instead of the command line, keeping the
	// token out of the process list.
	CredentialEnv string
	// KeepAlive leaves the client running after a successful probe so it
	// keeps relaying traffic. When false the process is terminated once
	// the probe concludes.
	KeepAlive bool
	// Note is a short human-facing annotation shown next to the URL.
	Note string
}

// DefaultCatalog returns the built-in provider table: three always-on
// providers and two gated behind tokens from the settings store.
func DefaultCatalog() []ProviderConfig {
	return []ProviderConfig{
		{
			Name:      "cloudflared",
			Command:   "cloudflared tunnel --url http://localhost:{port}",
			Pattern:   regexp.MustCompile(`https?://[a-zA-Z0-9-]+\.trycloudflare\.com`),
			KeepAlive: true,
			Note:      "Cloudflare tunnel",
		},
		{
			Name:      "localtunnel",
			Command:   "lt --port {port}",
			Pattern:   regexp.MustCompile(`https?://[a-zA-Z0-9-]+\.loca\.lt`),
			KeepAlive: true,
			Note:      "password is the public IP",
		},
		{
			Name:      "pinggy",
			Command:   "ssh -o StrictHostKeyChecking=no -o ServerAliveInterval=30 -p 443 -R0:localhost:{port} free@a.pinggy.io",
			Pattern:   regexp.MustCompile(`https://[a-zA-Z0-9-]+\.a\.free\.pinggy\.link`),
			KeepAlive: true,
			Note:      "Pinggy tunnel",
		},
		{
			Name:          "ngrok",
			Command:       "ngrok http {port} --log stdout",
			Pattern:       regexp.MustCompile(`https://[a-zA-Z0-9-]+\.ngrok[a-z.-]*\.(io|app)`),
			CredentialKey: CredentialNgrok,
			CredentialEnv: "NGROK_AUTHTOKEN",
			KeepAlive:     true,
			Note:          "HTTPS tunnel",
		},
		{
			Name:          "zrok",
			Command:       "zrok share public http://localhost:{port} --headless",
			Pattern:       regexp.MustCompile(`https?://[a-zA-Z0-9]+\.share\.zrok\.io`),
			CredentialKey: CredentialZrok,
			KeepAlive:     true,
			Note:          "requires an enabled zrok environment",
		},
	}
}

// Validate checks the config for programming-contract violations. Unlike
// probe failures, a malformed config is raised to the caller.
func (c ProviderConfig) Validate() error {
	if c.Name == "" {
		return apperrors.NewConfigError("provider with empty name")
	}
	if strings.TrimSpace(c.Command) == "" {
		return apperrors.NewConfigError("provider %q: empty command template", c.Name)
	}
	if c.Pattern == nil {
		return apperrors.NewConfigError("provider %q: missing success pattern", c.Name)
	}
	if _, err := splitCommand(c.expandCommand(1, "")); err != nil {
		return apperrors.NewConfigError("provider %q: %v", c.Name, err)
	}
	return nil
}

// timeout returns the effective probe deadline.
func (c ProviderConfig) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultProbeTimeout
}

// expandCommand substitutes {port} and {token} into the command template.
func (c ProviderConfig) expandCommand(port int, token string) string {
	return strings.NewReplacer(
		"{port}", strconv.Itoa(port),
		"{token}", token,
	).Replace(c.Command)
}

// splitCommand tokenizes a command line with shell-style single and double
// quoting and backslash escapes. Tunnel client invocations are simple enough
// that no further shell features are supported; the command runs directly,
// not through a shell.
func splitCommand(s string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		escaped bool
		pending bool
	)
	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			pending = true
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			pending = true
		case unicode.IsSpace(r):
			if pending || current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if escaped {
		return nil, apperrors.NewConfigError("trailing backslash in command")
	}
	if quote != 0 {
		return nil, apperrors.NewConfigError("unbalanced quote in command")
	}
	if pending || current.Len() > 0 {
		args = append(args, current.String())
	}
	if len(args) == 0 {
		return nil, apperrors.NewConfigError("empty command")
	}
	return args, nil
}
