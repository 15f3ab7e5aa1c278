package tunnel

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()
	require.Len(t, catalog, 5)

	gated := 0
	for _, cfg := range catalog {
		assert.NoError(t, cfg.Validate(), cfg.Name)
		assert.True(t, cfg.KeepAlive, "%s: established tunnels must stay up", cfg.Name)
		if cfg.CredentialKey != "" {
			gated++
		}
	}
	assert.Equal(t, 2, gated)
}

func TestCatalogPatterns(t *testing.T) {
	t.Parallel()
	byName := make(map[string]ProviderConfig)
	for _, cfg := range DefaultCatalog() {
		byName[cfg.Name] = cfg
	}

	tests := []struct {
		provider string
		line     string
		want     string
	}{
		{"cloudflared", "2026-08-23 INF +  https://witty-stamp.trycloudflare.com  +", "https://witty-stamp.trycloudflare.com"},
		{"localtunnel", "your url is: https://shiny-cat-42.loca.lt", "https://shiny-cat-42.loca.lt"},
		{"ngrok", "started tunnel url=https://ab12cd.ngrok-free.app", "https://ab12cd.ngrok-free.app"},
		{"zrok", "https://x9y8z7.share.zrok.io", "https://x9y8z7.share.zrok.io"},
		{"pinggy", "https://rnxyz-12-34-56-78.a.free.pinggy.link", "https://rnxyz-12-34-56-78.a.free.pinggy.link"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Parallel()
			cfg, ok := byName[tt.provider]
			require.True(t, ok)
			assert.Equal(t, tt.want, cfg.Pattern.FindString(tt.line))
		})
	}
}

func TestExpandCommand(t *testing.T) {
	t.Parallel()
	cfg := ProviderConfig{Command: "client --port {port} --auth {token}"}
	assert.Equal(t, "client --port 7860 --auth s3cret", cfg.expandCommand(7860, "s3cret"))
}

func TestProviderTimeoutDefault(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultProbeTimeout, ProviderConfig{}.timeout())
	assert.Equal(t, DefaultProbeTimeout/2, ProviderConfig{Timeout: DefaultProbeTimeout / 2}.timeout())
}

func TestValidate(t *testing.T) {
	t.Parallel()
	pattern := regexp.MustCompile(`x`)
	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr bool
	}{
		{"valid", ProviderConfig{Name: "p", Command: "client --port {port}", Pattern: pattern}, false},
		{"empty name", ProviderConfig{Command: "client", Pattern: pattern}, true},
		{"blank command", ProviderConfig{Name: "p", Command: "   ", Pattern: pattern}, true},
		{"nil pattern", ProviderConfig{Name: "p", Command: "client"}, true},
		{"unbalanced quote", ProviderConfig{Name: "p", Command: `client "oops`, Pattern: pattern}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", "cloudflared tunnel --url http://localhost:7860", []string{"cloudflared", "tunnel", "--url", "http://localhost:7860"}},
		{"double quotes", `sh -c "echo hello world"`, []string{"sh", "-c", "echo hello world"}},
		{"single quotes", `sh -c 'sleep 1; echo up'`, []string{"sh", "-c", "sleep 1; echo up"}},
		{"escaped space", `client --name a\ b`, []string{"client", "--name", "a b"}},
		{"empty quoted arg", `client ""`, []string{"client", ""}},
		{"collapsed whitespace", "client   --flag\tvalue", []string{"client", "--flag", "value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := splitCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{"", "   ", `client "unbalanced`, `client trailing\`} {
			_, err := splitCommand(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}
