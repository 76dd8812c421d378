package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-dashgen/pkg/manifest"
	"github.com/goliatone/go-dashgen/pkg/orchestrator"
	"github.com/goliatone/go-dashgen/pkg/prompt"
)

var generateFlags struct {
	sets       []string
	valuesFile string
	outputDir  string
	strict     bool
	dryRun     bool
}

func init() {
	generateCmd.Flags().StringArrayVar(&generateFlags.sets, "set", nil, "parameter value as name=value (repeatable)")
	generateCmd.Flags().StringVar(&generateFlags.valuesFile, "values", "", "YAML or JSON file of parameter values")
	generateCmd.Flags().StringVarP(&generateFlags.outputDir, "output-dir", "o", "generated_dashboards", "artifact output directory")
	generateCmd.Flags().BoolVar(&generateFlags.strict, "strict", false, "run advisory query lint rules")
	generateCmd.Flags().BoolVar(&generateFlags.dryRun, "dry-run", false, "render and validate without writing")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:     "generate <template>",
	Aliases: []string{"gen"},
	Short:   "Render a template into a dashboard artifact",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store := manifest.NewStore(viper.GetString("templates"))
		def, err := store.Load(args[0])
		if err != nil {
			return err
		}

		values, err := collectValues(cmd, def)
		if err != nil {
			return err
		}

		gen := orchestrator.New(orchestrator.WithStore(store))
		result, err := gen.Generate(cmd.Context(), orchestrator.Request{
			Definition:  def,
			Values:      values,
			Environment: viper.GetString("environment"),
			OutputDir:   generateFlags.outputDir,
			Strict:      generateFlags.strict,
			DryRun:      generateFlags.dryRun,
		})
		if errors.Is(err, orchestrator.ErrValidationFailed) {
			printReport(out, result.Report)
			printReportSummary(out, result.Report)
			return err
		}
		if err != nil {
			return err
		}

		printReport(out, result.Report)
		printReportSummary(out, result.Report)
		if result.Written {
			fmt.Fprintln(out, successStyle.Render("dashboard written to "+result.Paths.Document))
			fmt.Fprintln(out, hintStyle.Render("metadata written to "+result.Paths.Metadata))
		} else {
			fmt.Fprintln(out, hintStyle.Render("dry run, nothing written"))
		}
		return nil
	},
}

// collectValues merges the values file, --set overrides, and interactive
// answers, in increasing precedence.
func collectValues(cmd *cobra.Command, def *manifest.Definition) (map[string]any, error) {
	values := map[string]any{}

	if generateFlags.valuesFile != "" {
		fileValues, err := loadValuesFile(generateFlags.valuesFile)
		if err != nil {
			return nil, err
		}
		for name, value := range fileValues {
			values[name] = value
		}
	}

	for _, pair := range generateFlags.sets {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", pair)
		}
		values[name] = value
	}

	if !isInteractive() {
		return values, nil
	}
	collector := prompt.NewCollector(prompt.NewSurveyDriver())
	return collector.Collect(cmd.Context(), def.Parameters, values)
}

func loadValuesFile(path string) (map[string]any, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("values file %s: %w", path, err)
	}
	return v.AllSettings(), nil
}
