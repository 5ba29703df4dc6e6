package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harun/jsonstudio/pkg/jsonstats"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "JSON document utilities",
	Long:  `Validate, format and transform a JSON document read from FILE or standard input.`,
}

var jsonStatsCmd = &cobra.Command{
	Use:   "stats [FILE]",
	Short: "Validate a document and print key count, depth and size",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		stats := jsonstats.ComputeStats(content)
		out := cmd.OutOrStdout()
		if !stats.Valid {
			fmt.Fprintln(out, "Valid: false")
			if stats.ErrorInfo != nil {
				fmt.Fprintf(out, "Error: %s\n", jsonstats.FormatError(*stats.ErrorInfo))
			}
			fmt.Fprintf(out, "Size: %d bytes\n", stats.ByteSize)
			return fmt.Errorf("invalid JSON")
		}
		fmt.Fprintln(out, "Valid: true")
		fmt.Fprintf(out, "Keys: %d\n", stats.KeyCount)
		fmt.Fprintf(out, "Depth: %d\n", stats.Depth)
		fmt.Fprintf(out, "Size: %d bytes\n", stats.ByteSize)
		return nil
	},
}

var jsonFormatCmd = &cobra.Command{
	Use:   "format [FILE]",
	Short: "Pretty-print a document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		indent, _ := cmd.Flags().GetInt("indent")
		if !cmd.Flags().Changed("indent") {
			if cfg, err := loadConfig(); err == nil {
				indent = cfg.Editor.Indent
			}
		}

		formatted, err := jsonstats.Format(content, indent)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatted)
		return nil
	},
}

var jsonMinifyCmd = &cobra.Command{
	Use:   "minify [FILE]",
	Short: "Remove insignificant whitespace",
	Args:  cobra.MaximumNArgs(1),
	RunE: transform(jsonstats.Minify),
}

var jsonEscapeCmd = &cobra.Command{
	Use:   "escape [FILE]",
	Short: "Encode the input as a JSON string literal",
	Args:  cobra.MaximumNArgs(1),
	RunE: transform(func(s string) (string, error) {
		return jsonstats.Escape(s), nil
	}),
}

var jsonUnescapeCmd = &cobra.Command{
	Use:   "unescape [FILE]",
	Short: "Decode a JSON string literal",
	Args:  cobra.MaximumNArgs(1),
	RunE: transform(func(s string) (string, error) {
		return jsonstats.Unescape(strings.TrimSpace(s))
	}),
}

var jsonQueryCmd = &cobra.Command{
	Use:   "query PATH [FILE]",
	Short: "Print the value at a gjson PATH",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readInput(cmd, args[1:])
		if err != nil {
			return err
		}
		if !gjson.Valid(content) {
			return jsonstats.ErrInvalidJSON
		}
		result := gjson.Get(content, args[0])
		if !result.Exists() {
			return fmt.Errorf("no value at %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Raw)
		return nil
	},
}

func init() {
	jsonFormatCmd.Flags().Int("indent", jsonstats.DefaultIndent, "indent width, 0 minifies (default from config)")

	jsonCmd.AddCommand(jsonStatsCmd, jsonFormatCmd, jsonMinifyCmd, jsonEscapeCmd, jsonUnescapeCmd, jsonQueryCmd)
	rootCmd.AddCommand(jsonCmd)
}

// transform runs fn over the input and prints the result.
func transform(fn func(string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		content, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		out, err := fn(content)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
}

// readInput reads the file named by args[0], or standard input.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	return string(data), nil
}
