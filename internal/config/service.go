package config

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

// ServiceConfig translates the import, people and budget sections into the
// settings of a core.Service. The alias file, when configured, is read here.
func (c *Config) ServiceConfig() (core.ServiceConfig, error) {
	opts := core.DefaultOptions()

	if c.Import.AliasFile != "" {
		aliases, err := core.LoadAliases(c.Import.AliasFile)
		if err != nil {
			return core.ServiceConfig{}, fmt.Errorf("IMPORT_ALIAS_FILE: %w", err)
		}
		opts.Aliases = aliases
	}

	opts.People = core.PeoplePolicy{
		Default: c.People.Default,
		Named:   c.People.Named,
		Shared:  c.People.Shared,
	}
	if cat, ok := parseCategory(c.Import.DefaultCategory); ok {
		opts.DefaultCategory = cat
	}
	opts.DefaultHonesty = c.Import.DefaultHonesty
	opts.RenewalDefaultToday = c.Import.RenewalDefaultToday

	return core.ServiceConfig{
		Options: opts,
		Budget: core.BudgetPolicy{
			MonthlyBudget:   c.Budget.Monthly,
			PerToolBudget:   c.Budget.PerTool,
			RenewalWindow:   c.Budget.RenewalWindow,
			LowUtilityBelow: c.Budget.LowUtilityBelow,
		},
		MaxFileSize:   c.Import.MaxFileSize,
		ImportTimeout: c.Import.Timeout,
		MaxConcurrent: c.Import.MaxConcurrent,
		MaxWait:       c.Import.MaxWaitTime,
		AllowPartial:  c.Import.AllowPartial,
	}, nil
}

func parseCategory(s string) (core.Category, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(core.CategoryNeed)):
		return core.CategoryNeed, true
	case strings.EqualFold(strings.TrimSpace(s), string(core.CategoryWant)):
		return core.CategoryWant, true
	default:
		return "", false
	}
}
