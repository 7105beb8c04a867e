package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/libninjago/libninja/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:   "libninja",
		Short: "Compile an OpenAPI spec into a Rust client library",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var singleClient string
	var input string
	var outDir string
	var packageName string
	var name string
	var language string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Rust client library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cli.RunGenerateParams{
				ConfigPath:   configPath,
				SingleClient: singleClient,
				Fallback: cli.FallbackParams{
					Spec:        input,
					Type:        language,
					OutDir:      outDir,
					PackageName: packageName,
					Name:        name,
				},
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to sdkgen.yaml config")
	cmd.Flags().StringVar(&singleClient, "client", "", "Generate only the named client from config")
	cmd.Flags().StringVar(&input, "spec", "", "OpenAPI spec file (yaml/json) or URL")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory for the generated crate")
	cmd.Flags().StringVar(&packageName, "package-name", "", "Cargo package name")
	cmd.Flags().StringVar(&name, "client-name", "", "Client struct name")
	cmd.Flags().StringVar(&language, "language", "rust", "Target language (only rust is implemented)")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(input)
		},
	}
	cmd.Flags().StringVar(&input, "spec", "", "OpenAPI spec file (yaml/json) or URL")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}
