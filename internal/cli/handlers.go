package cli

import (
	"errors"
	"fmt"

	"github.com/libninjago/libninja/pkg/config"
	"github.com/libninjago/libninja/pkg/openapi"
	"github.com/libninjago/libninja/pkg/pipeline"
)

// FallbackParams are the single-client flags accepted when no config file
// is given, mirroring config.Client's required fields.
type FallbackParams struct {
	Spec        string
	Type        string
	OutDir      string
	PackageName string
	Name        string
}

// RunGenerateParams contains parameters for the generate command.
type RunGenerateParams struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackParams
}

// RunGenerate runs the generate command: either load a multi-client
// sdkgen.yaml, or synthesize a single-client config from the fallback
// flags, then run the pipeline once per selected client.
func RunGenerate(p RunGenerateParams) error {
	if p.ConfigPath == "" {
		f := p.Fallback
		if f.Spec == "" || f.OutDir == "" || f.PackageName == "" || f.Name == "" {
			return errors.New("either --config or all of --spec, --out, --package-name, --client-name must be provided")
		}
		if f.Type == "" {
			f.Type = "rust"
		}
		cfg := &config.Config{
			Spec: f.Spec,
			Clients: []config.Client{
				{
					Type:        f.Type,
					OutDir:      f.OutDir,
					PackageName: f.PackageName,
					Name:        f.Name,
				},
			},
		}
		return generateFromConfig(cfg, "")
	}

	cfg, err := config.Load(p.ConfigPath)
	if err != nil {
		return err
	}
	return generateFromConfig(cfg, p.SingleClient)
}

func generateFromConfig(cfg *config.Config, onlyClient string) error {
	for _, client := range cfg.Clients {
		if onlyClient != "" && client.Name != onlyClient {
			continue
		}
		result, err := pipeline.Run(cfg.Spec, client)
		if err != nil {
			return fmt.Errorf("generate %s: %w", client.Name, err)
		}
		fmt.Printf("%s: %d schemas, %d operations -> %s\n", client.Name, result.SchemaCount, result.OperationCount, result.OutDir)
		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s\n", w.Error())
		}
	}
	return nil
}

// RunValidate runs the validate command using the public API.
func RunValidate(input string) error {
	return openapi.ValidateDocument(input)
}
