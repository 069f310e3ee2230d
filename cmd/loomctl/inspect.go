package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/cli/ui"
	"loom/internal/shared/compression/hpack"
)

func newInspectCmd() *cobra.Command {
	var (
		fixturePath string
		tableSize   uint32
		history     bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the representation Encode would choose for each header in a fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}

			enc := hpack.NewEncoder(tableSize, history)
			t := ui.NewTable([]string{"Header", "Policy", "Source", "Bytes"}).
				WithTitle("Encode plan")

			for _, entry := range hs.Headers {
				hf := entry.Field()
				choice := enc.Explain(hf, entry.Hint.StaticIndex)

				buf, err := enc.Encode(hf, entry.Hint.StaticIndex, entry.Hint.Policy, make([]byte, 0, 256))
				if err != nil {
					return fmt.Errorf("encoding %q: %w", entry.Name, err)
				}

				form := "literal"
				if choice.Full {
					form = "indexed"
				}
				t.AddRow([]string{
					fmt.Sprintf("%s: %s", entry.Name, entry.Value),
					fmt.Sprintf("%s/%s", policyName(entry.Hint.Policy), form),
					choice.Source.String(),
					hex.EncodeToString(buf),
				})
			}

			t.Print()
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "path to the header-set fixture (required)")
	cmd.Flags().Uint32Var(&tableSize, "table-size", hpack.DefaultDynamicTableSize, "dynamic table size")
	cmd.Flags().BoolVar(&history, "history", false, "enable the emission-history heuristic")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}

func policyName(p hpack.IndexPolicy) string {
	switch p {
	case hpack.IndexAdd:
		return "add"
	case hpack.IndexNever:
		return "never"
	default:
		return "none"
	}
}
