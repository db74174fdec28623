package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jihwankim/satuner/pkg/ingest/xmlcfg"
	"github.com/jihwankim/satuner/pkg/ingest/yamlcfg"
)

// loadRunConfig dispatches to the YAML or XML reader by extension.
func loadRunConfig(path string, vars map[string]string) (*yamlcfg.Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlcfg.NewReader(vars).ParseFile(path)
	case ".xml":
		return xmlcfg.ParseFile(path)
	default:
		return nil, fmt.Errorf("unrecognized config extension for %s (expected .yaml, .yml, or .xml)", path)
	}
}
