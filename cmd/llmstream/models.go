package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/llmstream/llm"
	"github.com/kbukum/llmstream/llm/clarifai"
)

func newModelsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the known Clarifai models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := clarifai.ModelIDs()
			if asJSON {
				out := make([]llm.ModelDescriptor, 0, len(ids))
				for _, id := range ids {
					info, _ := clarifai.LookupModel(id)
					out = append(out, llm.ModelDescriptor{ID: id, Info: info})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tCONTEXT\tMAX TOKENS\tDEFAULT")
			for _, id := range ids {
				info, _ := clarifai.LookupModel(id)
				def := ""
				if id == clarifai.DefaultModelID {
					def = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", id, info.ContextWindow, info.MaxTokens, def)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
