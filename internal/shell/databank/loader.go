// Package databank loads catalog card data from disk.
package databank

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artpar/retinue/internal/core/catalog"
)

var (
	// ErrNoData is returned when no data bank files were found.
	ErrNoData = errors.New("no data bank files found")
)

// extensions lists the file types read from a data directory.
var extensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// LoadFile reads and parses one data bank file.
func LoadFile(path string) (catalog.DataBank, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return catalog.DataBank{}, fmt.Errorf("read data bank %s: %w", path, err)
	}
	bank, err := catalog.ParseDataBank(content)
	if err != nil {
		return catalog.DataBank{}, fmt.Errorf("parse data bank %s: %w", path, err)
	}
	return bank, nil
}

// LoadDir reads every data bank file in dir (not recursive), in lexical
// order so later files can rely on earlier ones being loaded first.
func LoadDir(dir string) ([]catalog.DataBank, error) {
	files, err := dataFiles(dir)
	if err != nil {
		return nil, err
	}

	banks := make([]catalog.DataBank, 0, len(files))
	for _, f := range files {
		bank, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}
	return banks, nil
}

// LoadCatalog builds a catalog from a list of files and directories.
func LoadCatalog(paths []string, logger *slog.Logger) (*catalog.Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b := catalog.NewBuilder()
	loaded := 0
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat data path %s: %w", p, err)
		}

		var banks []catalog.DataBank
		if info.IsDir() {
			banks, err = LoadDir(p)
		} else {
			var bank catalog.DataBank
			bank, err = LoadFile(p)
			banks = []catalog.DataBank{bank}
		}
		if err != nil {
			return nil, err
		}

		for _, bank := range banks {
			if err := b.AddData(bank); err != nil {
				return nil, fmt.Errorf("add data bank from %s: %w", p, err)
			}
			logger.Debug("loaded data bank",
				"path", p,
				"units", len(bank.Units),
				"upgrades", len(bank.Upgrades),
			)
			loaded++
		}
	}

	if loaded == 0 {
		return nil, ErrNoData
	}

	c := b.Build()
	logger.Info("catalog ready", "files", loaded, "cards", c.Len())
	return c, nil
}

func dataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
