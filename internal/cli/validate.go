package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-dashgen/pkg/manifest"
	"github.com/goliatone/go-dashgen/pkg/orchestrator"
)

var validateFlags struct {
	strict bool
	all    bool
}

func init() {
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "run advisory query lint rules")
	validateCmd.Flags().BoolVar(&validateFlags.all, "all", false, "validate every discovered template")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [template]",
	Short: "Dry-render a template against a test context and validate it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := manifest.NewStore(viper.GetString("templates"))

		var names []string
		switch {
		case validateFlags.all:
			entries, err := store.Discover()
			if err != nil {
				return err
			}
			for _, entry := range entries {
				names = append(names, entry.Name)
			}
		case len(args) == 1:
			names = args
		default:
			return errors.New("template name or --all is required")
		}

		out := cmd.OutOrStdout()
		gen := orchestrator.New(orchestrator.WithStore(store))
		failed := 0
		for _, name := range names {
			fmt.Fprintln(out, headerStyle.Render(name))
			def, err := store.Load(name)
			if err != nil {
				fmt.Fprintln(out, "  "+errorStyle.Render(err.Error()))
				failed++
				continue
			}
			result, err := gen.Preview(cmd.Context(), def, viper.GetString("environment"), validateFlags.strict)
			if err != nil && !errors.Is(err, orchestrator.ErrValidationFailed) {
				return err
			}
			printReport(out, result.Report)
			printReportSummary(out, result.Report)
			if !result.Report.Passed() {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d template(s) failed validation", failed, len(names))
		}
		return nil
	},
}
