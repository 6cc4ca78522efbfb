package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"estimator-backend/calculator"
	"estimator-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseSelections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want calculator.Selections
	}{
		{
			name: "json",
			raw:  `{"projectType": "web-app", "selectedFeatures": ["Chat"]}`,
			want: calculator.Selections{"projectType": "web-app", "selectedFeatures": []any{"Chat"}},
		},
		{
			name: "yaml",
			raw:  "projectType: website\nscope: mvp\n",
			want: calculator.Selections{"projectType": "website", "scope": "mvp"},
		},
		{
			name: "wrapped",
			raw:  `{"selections": {"scope": "enterprise"}}`,
			want: calculator.Selections{"scope": "enterprise"},
		},
		{
			name: "empty yaml",
			raw:  "",
			want: calculator.Selections{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelections([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseSelections([]byte(`{"projectType": `))
	assert.Error(t, err)
}

func TestRenderQuote(t *testing.T) {
	calc, err := loadCalculator("")
	require.NoError(t, err)

	res := calculator.Calculate(calc, calculator.Selections{
		"projectType":        "web-app",
		"selectedIndustries": []any{"Startup"},
		"selectedServices":   []any{"ui-ux-design"},
		"scope":              "mvp",
	})
	out := renderQuote(calc.Title, res)

	assert.Contains(t, out, calc.Title)
	assert.Contains(t, out, res.FormattedPrice)
	assert.Contains(t, out, res.FormattedTotal)
	assert.Contains(t, out, "(eligible)")
	assert.Contains(t, out, "Base price")
}

func TestCheckSeeds(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"title": "Small", "basePrice": 1000,
		"steps": [{"id": "a", "title": "A", "type": "single-select", "condition": "scope === 'mvp'"}]
	}`), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("title: Bad\nbasePrice: -5\nsteps: []\n"), 0o644))

	sources, err := seedSources([]string{good})
	require.NoError(t, err)
	assert.NoError(t, checkSeeds(sources))

	sources, err = seedSources([]string{good, bad})
	require.NoError(t, err)
	assert.EqualError(t, checkSeeds(sources), "1 of 2 seeds are invalid")

	_, err = seedSources([]string{filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	sources, err = seedSources(nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "built-in", sources[0].name)
}

func TestPasswordInput(t *testing.T) {
	pw, err := passwordInput([]string{"from-arg"}, strings.NewReader("ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-arg", pw)

	pw, err = passwordInput(nil, strings.NewReader("from-stdin\r\nrest"))
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", pw)

	_, err = passwordInput(nil, strings.NewReader(""))
	assert.Error(t, err)
}

func TestHashPasswordCommand(t *testing.T) {
	cmd := hashPasswordCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hunter22"})
	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")))
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("STORE_DRIVER", "memory")

	cmd := tokenCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--username", "ops", "--role", "super_admin"})
	require.NoError(t, cmd.Execute())

	claims, err := utils.ValidateJWT("cli-secret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Username)
	assert.Equal(t, "super_admin", claims.Role)
}

func TestTokenCommandWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")

	cmd := tokenCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)
	assert.Error(t, cmd.Execute())
}
