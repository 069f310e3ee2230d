package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loom/internal/cli/ui"
	"loom/internal/shared/compression/hpack"
	"loom/internal/shared/fixture"
)

func newDecodeCmd() *cobra.Command {
	var (
		inputPath string
		outPath   string
		tableSize uint32
		hardMax   uint32
		asHex     bool
		asTable   bool
	)

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode an HPACK byte stream through a fresh hpack.Decoder",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}
			if asHex {
				raw, err = hex.DecodeString(string(raw))
				if err != nil {
					return fmt.Errorf("decoding hex input: %w", err)
				}
			}

			dec := hpack.NewDecoder(tableSize, hardMax)
			hs := &fixture.HeaderSet{}

			out := make([]byte, 0, 4096)
			pos := 0
			for pos < len(raw) {
				field, consumed, written, err := dec.Decode(raw[pos:], out)
				if err != nil {
					return fmt.Errorf("decoding at offset %d: %w", pos, err)
				}
				line := out[:written]
				name := string(line[:field.NameLen])
				value := string(line[field.NameLen+2 : field.NameLen+2+field.ValueLen])
				hs.Headers = append(hs.Headers, fixture.Entry{Name: name, Value: value})
				pos += consumed
			}

			logger.Info("decoded header stream", zap.Int("headers", len(hs.Headers)), zap.Int("bytes", len(raw)))

			if asTable {
				t := ui.NewTable([]string{"Name", "Value"}).WithTitle("Decoded headers")
				for _, h := range hs.Headers {
					t.AddRow([]string{h.Name, h.Value})
				}
				t.Print()
				return nil
			}

			if outPath == "" {
				outPath = "decoded.fixture.json"
			}
			return fixture.SaveFixtureJSON(outPath, hs)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to the raw HPACK byte stream (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "fixture output path (default: decoded.fixture.json)")
	cmd.Flags().Uint32Var(&tableSize, "table-size", hpack.DefaultDynamicTableSize, "initial dynamic table size")
	cmd.Flags().Uint32Var(&hardMax, "hard-max", hpack.DefaultDynamicTableSize, "hard ceiling for size-update directives")
	cmd.Flags().BoolVar(&asHex, "hex", false, "input file contains hex-encoded bytes")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a human-readable table instead of saving a fixture")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
