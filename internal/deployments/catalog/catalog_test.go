package catalog_test

import (
	"io/fs"
	"path"
	"strings"
	"testing"

	"github.com/dappforge/dappforge-backend/internal/deployments/catalog"
	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/dappforge/dappforge-backend/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEmbedded(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(templates.FS, templates.CatalogFile)
	require.NoError(t, err)
	return cat
}

func TestLoad_EmbeddedCatalog(t *testing.T) {
	cat := loadEmbedded(t)

	assert.Equal(t,
		[]domain.ContractType{domain.TypeToken, domain.TypeNFT, domain.TypeDAO, domain.TypeStaking},
		cat.Types())
	assert.Equal(t, "my_module", cat.Visual.Module)
	assert.Equal(t, "owner", cat.Visual.AddressVar)
	assert.Equal(t, "My Custom dApp", cat.Visual.DefaultName)
}

func TestLoad_TemplatesMatchDescriptors(t *testing.T) {
	cat := loadEmbedded(t)

	for _, ct := range cat.Types() {
		d, err := cat.Descriptor(ct)
		require.NoError(t, err)

		t.Run(string(ct), func(t *testing.T) {
			manifest, err := fs.ReadFile(templates.FS, path.Join(d.Template, "Move.toml"))
			require.NoError(t, err)
			assert.Contains(t, string(manifest), d.AddressVar+` = "0x0"`)

			src, err := fs.ReadFile(templates.FS, path.Join(d.Template, "sources", d.Source))
			require.NoError(t, err)
			for _, ph := range d.Replacements.Placeholders() {
				assert.Contains(t, string(src), ph)
			}
		})
	}
}

func TestLoad_VisualComponentsExist(t *testing.T) {
	cat := loadEmbedded(t)

	for key, comp := range cat.Visual.Components {
		_, err := fs.Stat(templates.FS, path.Join(comp.Template, "sources", comp.Source))
		assert.NoError(t, err, key)
	}
	for alias, target := range cat.Visual.Aliases {
		_, ok := cat.Visual.Components[target]
		assert.True(t, ok, "alias %s points at missing component %s", alias, target)
	}
}

func TestLoad_FrontendTemplatesExist(t *testing.T) {
	cat := loadEmbedded(t)

	for ct, ft := range cat.Frontend {
		_, err := fs.Stat(templates.FS, path.Join("frontend", ft.Path))
		assert.NoError(t, err, string(ct))
	}
}

func TestDescriptor_Unknown(t *testing.T) {
	cat := loadEmbedded(t)

	_, err := cat.Descriptor("lottery")
	var unknown *domain.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "lottery", unknown.Type)
}

func TestComponent_Labels(t *testing.T) {
	cat := loadEmbedded(t)

	tests := []struct {
		label string
		key   string
	}{
		{"Fungible Token", "fungible_token"},
		{"fungible_token", "fungible_token"},
		{"  Lending   Pool ", "lending_pool"},
		{"NFT Collection", "nft"},
		{"DAO", "dao"},
	}
	for _, tt := range tests {
		key, comp, err := cat.Component(tt.label)
		require.NoError(t, err, tt.label)
		assert.Equal(t, tt.key, key)
		assert.NotEmpty(t, comp.Template)
	}

	_, _, err := cat.Component("Oracle")
	var unknown *domain.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
}

func TestDescriptor_Validate(t *testing.T) {
	cat := loadEmbedded(t)
	token, err := cat.Descriptor(domain.TypeToken)
	require.NoError(t, err)

	t.Run("all present", func(t *testing.T) {
		err := token.Validate("0xABC", domain.Fields{"name": "Coin", "symbol": "COI", "decimals": "6", "supply": "1000"})
		assert.NoError(t, err)
	})

	t.Run("missing owner and blank field", func(t *testing.T) {
		err := token.Validate("", domain.Fields{"name": "Coin", "symbol": "  ", "decimals": "6", "supply": "1000"})

		var missing *domain.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"ownerAddress", "symbol"}, missing.Fields)

		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("staking name is optional", func(t *testing.T) {
		staking, err := cat.Descriptor(domain.TypeStaking)
		require.NoError(t, err)
		assert.NoError(t, staking.Validate("0xABC", domain.Fields{"tokenModuleAddress": "0x1::coin"}))
	})
}

func TestReplacements_ApplyInOrder(t *testing.T) {
	reps := catalog.Replacements{
		{Placeholder: "{{A}}", Field: "a"},
		{Placeholder: "{{B}}", Field: "b"},
	}

	out := reps.Apply("{{A}} and {{B}} and {{A}}", map[string]string{"a": "x{{B}}", "b": "y"})
	assert.Equal(t, "xy and y and xy", out)
	assert.Equal(t, []string{"{{A}}", "{{B}}"}, reps.Placeholders())
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"incomplete entry": `
contracts:
  - type: token
    template: fungible_token
`,
		"duplicate type": `
contracts:
  - { type: token, template: a, source: a.move, address_var: a }
  - { type: token, template: b, source: b.move, address_var: b }
`,
		"malformed yaml": "contracts: [",
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(strings.TrimSpace(raw)))
			assert.Error(t, err)
		})
	}
}

func TestParse_VisualDefaults(t *testing.T) {
	cat, err := catalog.Parse([]byte(`contracts: []`))
	require.NoError(t, err)
	assert.Equal(t, "owner", cat.Visual.AddressVar)
	assert.Equal(t, "my_module", cat.Visual.Module)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "capped_fungible_token", catalog.NormalizeLabel("Capped Fungible Token"))
	assert.Equal(t, "", catalog.NormalizeLabel("   "))
}
