package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/lehmann314159/flashdeck/internal/models"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import flashcards from a CSV file (columns front,back,hint,tags)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := a.service.ImportCSV(cmd.Context(), f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d, skipped %d\n", result.Imported, result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintln(out, "  "+e)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export all flashcards to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var buf bytes.Buffer
		if err := a.service.ExportCSV(cmd.Context(), &buf); err != nil {
			return err
		}

		if err := atomic.WriteFile(args[0], &buf); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
		return nil
	},
}

var (
	listTag    string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List flashcards with their current bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cards, err := a.service.List(cmd.Context(), models.CardFilter{Tag: listTag, Search: listSearch})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tBucket\tFront\tBack\tTags")
		fmt.Fprintln(w, "--\t------\t-----\t----\t----")
		for _, c := range cards {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", c.ID, c.Bucket, c.Front, c.Back, strings.Join(c.Tags, ", "))
		}
		return w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.service.GetProgress(cmd.Context())
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd, listCmd, statsCmd)
	listCmd.Flags().StringVar(&listTag, "tag", "", "only cards with this tag")
	listCmd.Flags().StringVar(&listSearch, "search", "", "only cards whose front or back contains this text")
}
