package databank

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/artpar/retinue/internal/core/catalog"
)

//go:embed data/*.yaml
var embeddedFS embed.FS

// LoadEmbedded builds a catalog from the card data compiled into the binary.
// It is used when no catalog paths are configured.
func LoadEmbedded() (*catalog.Catalog, error) {
	names, err := fs.Glob(embeddedFS, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	b := catalog.NewBuilder()
	for _, name := range names {
		content, err := embeddedFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read embedded data bank %s: %w", name, err)
		}
		bank, err := catalog.ParseDataBank(content)
		if err != nil {
			return nil, fmt.Errorf("parse embedded data bank %s: %w", path.Base(name), err)
		}
		if err := b.AddData(bank); err != nil {
			return nil, fmt.Errorf("add embedded data bank %s: %w", path.Base(name), err)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoData
	}
	return b.Build(), nil
}
