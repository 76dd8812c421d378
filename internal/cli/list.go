package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-dashgen/pkg/manifest"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available dashboard templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := manifest.NewStore(viper.GetString("templates"))
		entries, err := store.Discover()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no templates found in", viper.GetString("templates"))
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			def, err := store.Load(entry.Name)
			if err != nil {
				rows = append(rows, []string{entry.Name, "-", "-", "-", "-", errorStyle.Render(err.Error())})
				continue
			}
			rows = append(rows, []string{
				def.Name,
				def.Title,
				def.Version,
				def.Category,
				strconv.Itoa(len(def.Parameters)),
				def.Description,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Available templates"))
		return writeTable(cmd.OutOrStdout(),
			[]string{"NAME", "TITLE", "VERSION", "CATEGORY", "PARAMS", "DESCRIPTION"}, rows)
	},
}
