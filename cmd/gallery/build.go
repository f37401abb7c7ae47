package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lightbox/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the gallery pages",
	Long: `Reads the structure file and writes one HTML page per menu entry and per
coordinator. Thumbnails link to the full-size image through data-full, which
the lightbox opens.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("structure", "structure.json", "structure file (JSON or YAML)")
	buildCmd.Flags().String("out", ".", "output directory")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	structurePath, _ := cmd.Flags().GetString("structure")
	outputDir, _ := cmd.Flags().GetString("out")

	structure, err := site.LoadStructure(structurePath)
	if err != nil {
		return err
	}

	generator, err := site.NewGenerator(structure, outputDir)
	if err != nil {
		return err
	}

	pageCount, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("generating pages: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Gallery generated: %s (%d pages)\n", outputDir, pageCount)
	return nil
}
