package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oginisearch/ogini-go/validator"
)

// Validate checks the loaded configuration for invalid values.
func (c *Config) Validate() error {
	sections := map[string]any{
		"client":    c.Client,
		"pool":      c.Pool,
		"optimizer": c.Optimizer,
		"batch":     c.Batch,
		"retry":     c.Retry,
	}

	var problems []string
	for name, section := range sections {
		for field, msg := range validator.ValidateStruct(section) {
			problems = append(problems, fmt.Sprintf("%s.%s: %s", name, field, msg))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
