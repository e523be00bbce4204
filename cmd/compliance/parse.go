package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/compliance-go/internal/source"
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/ukaji3/compliance-go/pkg/compliance/output"
)

var (
	outputPath string
	pretty     bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse workbooks and print districts as JSON",
	Long: `Parses each workbook and prints its districts as JSON. With several files
the output is an array of {path, districts, error} objects, parsed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
}

type fileOutput struct {
	Path      string              `json:"path"`
	Districts models.DistrictList `json:"districts"`
	Error     string              `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	results, err := source.ParseFiles(cmd.Context(), args, parseOptions())
	if err != nil {
		return err
	}

	var (
		data   []byte
		failed int
	)
	if len(results) == 1 {
		if results[0].Err != nil {
			return fmt.Errorf("parse %s: %w", results[0].Path, results[0].Err)
		}
		data, err = output.ToJSON(results[0].Districts, pretty)
	} else {
		out := make([]fileOutput, len(results))
		for i, r := range results {
			out[i] = fileOutput{Path: r.Path, Districts: r.Districts}
			if r.Err != nil {
				failed++
				out[i].Error = r.Err.Error()
				logger.Warn("parse failed", zap.String("file", r.Path), zap.Error(r.Err))
			}
			if out[i].Districts == nil {
				out[i].Districts = models.DistrictList{}
			}
		}
		data, err = output.ToJSONValue(out, pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if err := writeOutput(cmd.OutOrStdout(), data); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func writeOutput(stdout io.Writer, data []byte) error {
	if outputPath == "" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("output written", zap.String("path", outputPath), zap.Int("bytes", len(data)))
	return nil
}
