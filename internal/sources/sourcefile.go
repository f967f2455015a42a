// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/civiclens/civiclens/pkg/types"
)

// sourceFile is the on-disk representation of a source registry. Keeping the
// registry in its own file lets deployments swap source sets without touching
// the main config.
type sourceFile struct {
	Sources []types.Source `yaml:"sources"`
}

// ReadSourceFile loads source definitions from a YAML file and rejects
// entries the adapters cannot serve.
func ReadSourceFile(path string) ([]types.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	var sf sourceFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing source file %s: %w", path, err)
	}

	for i, src := range sf.Sources {
		if err := validateSource(src); err != nil {
			return nil, fmt.Errorf("source %d in %s: %w", i, path, err)
		}
	}
	return sf.Sources, nil
}

// WriteSourceFile saves source definitions to a YAML file.
func WriteSourceFile(path string, srcs []types.Source) error {
	data, err := yaml.Marshal(sourceFile{Sources: srcs})
	if err != nil {
		return fmt.Errorf("marshaling source file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func validateSource(src types.Source) error {
	if src.ID == "" {
		return fmt.Errorf("missing id")
	}
	if src.Endpoint == "" {
		return fmt.Errorf("source %s: missing endpoint", src.ID)
	}
	switch src.Kind {
	case types.KindPolitician, types.KindBill, types.KindProcurement,
		types.KindLobbyist, types.KindLegalAct, types.KindElection,
		types.KindArticle:
	default:
		return fmt.Errorf("source %s: unknown kind %q", src.ID, src.Kind)
	}
	if src.Credibility < 0 || src.Credibility > 100 {
		return fmt.Errorf("source %s: credibility %d out of range [0,100]", src.ID, src.Credibility)
	}
	return nil
}
