package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"bandori-index/core/utils"
	"bandori-index/feature/catalog/graph"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// assetsCmd represents the assets command
var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Summarize the asset manifest of the last build",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, _, err := setup()
		if err != nil {
			return err
		}

		_, manifestPath := artifactPaths(cfg, "")
		entries, err := readManifest(afero.NewOsFs(), manifestPath)
		if err != nil {
			return err
		}

		type summary struct {
			Images int `json:"images"`
			Audio  int `json:"audio"`
		}
		byType := make(map[string]*summary)
		for _, e := range entries {
			s, ok := byType[e.Type]
			if !ok {
				s = &summary{}
				byType[e.Type] = s
			}
			if e.Kind == graph.AssetAudio {
				s.Audio++
			} else {
				s.Images++
			}
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"total": len(entries), "types": byType})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tIMAGES\tAUDIO")
		for _, typ := range utils.SortedKeys(byType) {
			fmt.Fprintf(w, "%s\t%d\t%d\n", typ, byType[typ].Images, byType[typ].Audio)
		}
		fmt.Fprintf(w, "total\t%d\t\n", len(entries))
		return w.Flush()
	},
}

func init() {
	assetsCmd.Flags().Bool("json", false, "Output the summary as JSON")
	RootCmd.AddCommand(assetsCmd)
}
