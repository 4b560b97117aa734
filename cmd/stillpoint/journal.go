package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	journaldto "stillpoint/internal/modules/journal/dto"
	"stillpoint/internal/platform/editor"
)

func printEntry(w io.Writer, e journaldto.EntryOutput) {
	_, _ = fmt.Fprintf(w, "day %d, %d (%s)\n%s\n", e.Day, e.Year, e.Date, strings.TrimRight(e.Content, "\n"))
}

func printSaved(w io.Writer, e journaldto.EntryOutput) {
	if e.Content == "" {
		_, _ = fmt.Fprintf(w, "cleared day %d, %d\n", e.Day, e.Year)
		return
	}
	_, _ = fmt.Fprintf(w, "saved day %d, %d\n", e.Day, e.Year)
}

func newJournalCmd(rt *runtime) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Reflections keyed by curriculum day and year"}

	var day, year int
	var fromFile string
	writeCmd := &cobra.Command{
		Use:   "write [text]",
		Short: "Write or replace an entry (text from args, --file, or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			switch {
			case fromFile != "":
				raw, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", fromFile, err)
				}
				content = string(raw)
			case content == "":
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(raw)
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			var out journaldto.EntryOutput
			if cmd.Flags().Changed("day") {
				out, err = app.JournalCLI.Write(context.Background(), day, year, content)
			} else {
				out, err = app.JournalCLI.WriteToday(context.Background(), year, content)
			}
			if err != nil {
				return err
			}
			printSaved(cmd.OutOrStdout(), out)
			return nil
		},
	}
	writeCmd.Flags().IntVar(&day, "day", 0, "curriculum day (default: today)")
	writeCmd.Flags().IntVar(&year, "year", 0, "year (default: this year)")
	writeCmd.Flags().StringVar(&fromFile, "file", "", "read the entry from a file")

	var editDay, editYear int
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Open an entry in $VISUAL or $EDITOR",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			ctx := context.Background()
			day, year, initial := editDay, editYear, ""
			if !cmd.Flags().Changed("day") {
				today, err := app.JournalCLI.Today(ctx)
				if err != nil {
					return err
				}
				day = today.Day
				if year == 0 {
					year = today.Year
				}
				if today.Entry != nil && today.Entry.Year == year {
					initial = today.Entry.Content
				}
			}
			if initial == "" {
				if existing, err := app.JournalCLI.Show(ctx, day, year); err == nil {
					initial = existing.Content
				}
			}
			content, err := editor.Edit(ctx, initial)
			if err != nil {
				return err
			}
			if strings.TrimSpace(content) == strings.TrimSpace(initial) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return nil
			}
			out, err := app.JournalCLI.Write(ctx, day, year, content)
			if err != nil {
				return err
			}
			printSaved(cmd.OutOrStdout(), out)
			return nil
		},
	}
	editCmd.Flags().IntVar(&editDay, "day", 0, "curriculum day (default: today)")
	editCmd.Flags().IntVar(&editYear, "year", 0, "year (default: this year)")

	var showDay, showYear int
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show today's entry with earlier years, or one entry with --day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if showDay > 0 {
				out, err := app.JournalCLI.Show(context.Background(), showDay, showYear)
				if err != nil {
					return err
				}
				printEntry(w, out)
				return nil
			}
			today, err := app.JournalCLI.Today(context.Background())
			if err != nil {
				return err
			}
			if today.Entry == nil {
				_, _ = fmt.Fprintf(w, "no entry for day %d, %d yet\n", today.Day, today.Year)
			} else {
				printEntry(w, *today.Entry)
			}
			for _, e := range today.PreviousYears {
				_, _ = fmt.Fprintln(w, "---")
				printEntry(w, e)
			}
			return nil
		},
	}
	showCmd.Flags().IntVar(&showDay, "day", 0, "curriculum day")
	showCmd.Flags().IntVar(&showYear, "year", 0, "year (default: this year)")

	var historyDay int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List every year's entry for a day, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.JournalCLI.History(context.Background(), historyDay)
			if err != nil {
				return err
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no entries")
				return nil
			}
			for _, e := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", e.Year, e.Date, firstLine(e.Content))
			}
			return nil
		},
	}
	historyCmd.Flags().IntVar(&historyDay, "day", 0, "curriculum day (default: today)")

	var limit int
	searchCmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Full-text search over all entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			hits, err := app.JournalCLI.Search(context.Background(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, h := range hits {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "day %d, %d\t%s\n", h.Day, h.Year, h.Snippet)
			}
			return nil
		},
	}
	searchCmd.Flags().IntVar(&limit, "limit", 20, "max matches")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write entries as markdown notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.JournalCLI.Export(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", len(out.Paths), out.Dir)
			return nil
		},
	}

	var delDay, delYear int
	deleteCmd := &cobra.Command{
		Use:   "delete --day <n>",
		Short: "Delete one entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if delDay <= 0 {
				return fmt.Errorf("--day is required")
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			if err := app.JournalCLI.Delete(context.Background(), delDay, delYear); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted day %d\n", delDay)
			return nil
		},
	}
	deleteCmd.Flags().IntVar(&delDay, "day", 0, "curriculum day")
	deleteCmd.Flags().IntVar(&delYear, "year", 0, "year (default: this year)")

	journal.AddCommand(writeCmd, editCmd, showCmd, historyCmd, searchCmd, exportCmd, deleteCmd)
	return journal
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
