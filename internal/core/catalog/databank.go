package catalog

import (
	"strings"

	"github.com/artpar/retinue/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// DataBank is the serialized form of a catalog: every unit and upgrade card
// known to a data release.
type DataBank struct {
	Units    []domain.UnitCard    `json:"units" yaml:"units"`
	Upgrades []domain.UpgradeCard `json:"upgrades" yaml:"upgrades"`
}

// ParseDataBank parses YAML or JSON card data into a DataBank.
// Card validation is left to Builder.AddData.
func ParseDataBank(content []byte) (DataBank, error) {
	if strings.TrimSpace(string(content)) == "" {
		return DataBank{}, ErrEmptyInput
	}

	var bank DataBank
	if err := yaml.Unmarshal(content, &bank); err != nil {
		return DataBank{}, NewParseError("", err.Error(), ErrInvalidData)
	}
	if len(bank.Units) == 0 && len(bank.Upgrades) == 0 {
		return DataBank{}, NewParseError("", "no units or upgrades defined", ErrEmptyInput)
	}
	return bank, nil
}
