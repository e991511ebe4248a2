// Package templates ships the Move package templates, the front-end component
// templates and the catalog describing them.
package templates

import "embed"

//go:embed catalog.yaml fungible_token nft dao staking capped_fungible_token governance lending_pool frontend
var FS embed.FS

// CatalogFile is the catalog path relative to the template root.
const CatalogFile = "catalog.yaml"
