package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loom/internal/shared/compression/hpack"
)

func newEncodeCmd() *cobra.Command {
	var (
		fixturePath string
		outPath     string
		tableSize   uint32
		history     bool
		noHuffman   bool
		asHex       bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a header-set fixture through a fresh hpack.Encoder",
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}

			enc := hpack.NewEncoder(tableSize, history)
			enc.SetHuffmanDisabled(noHuffman)

			buf := make([]byte, 0, 8192)
			for _, entry := range hs.Headers {
				buf, err = enc.Encode(entry.Field(), entry.Hint.StaticIndex, entry.Hint.Policy, buf)
				if err != nil {
					return fmt.Errorf("encoding %q: %w", entry.Name, err)
				}
			}

			logger.Info("encoded header set", zap.Int("headers", len(hs.Headers)), zap.Int("bytes", len(buf)))

			out := buf
			if asHex {
				out = []byte(hex.EncodeToString(buf))
			}
			if outPath == "" {
				_, err = os.Stdout.Write(out)
				return err
			}
			return os.WriteFile(outPath, out, 0o644)
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "path to the header-set fixture (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")
	cmd.Flags().Uint32Var(&tableSize, "table-size", hpack.DefaultDynamicTableSize, "dynamic table size")
	cmd.Flags().BoolVar(&history, "history", false, "enable the emission-history heuristic")
	cmd.Flags().BoolVar(&noHuffman, "huffman-disabled", false, "force raw string literals")
	cmd.Flags().BoolVar(&asHex, "hex", false, "write output as hex instead of raw bytes")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}
