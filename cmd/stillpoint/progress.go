package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	progressdto "stillpoint/internal/modules/progress/dto"
)

func parseDay(arg string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid day %q", arg)
	}
	return day, nil
}

func printStreak(w io.Writer, s progressdto.StreakOutput) {
	_, _ = fmt.Fprintf(w, "streak=%d longest=%d status=%s", s.Current, s.Longest, s.Status)
	if s.LastActiveDate != "" {
		_, _ = fmt.Fprintf(w, " last_active=%s", s.LastActiveDate)
	}
	_, _ = fmt.Fprintln(w)
}

func printCycle(w io.Writer, c progressdto.CycleOutput) {
	done := ""
	if c.CompletedToday {
		done = " (today done)"
	}
	_, _ = fmt.Fprintf(w, "%s day %d/%d%s started=%s completed=%d\n",
		c.Track, c.CurrentDay, c.Length, done, c.CycleStartDate, len(c.CompletedDays))
}

func printBlock(w io.Writer, label string, b progressdto.BlockOutput) {
	_, _ = fmt.Fprintf(w, "%s %d: days %d-%d completed=%d/%d\n",
		label, b.Index, b.Start, b.End, b.Completed, b.End-b.Start+1)
}

func printPractice(w io.Writer, p progressdto.PracticeOutput) {
	if p.PreviousStage > 0 && p.Stage > p.PreviousStage {
		_, _ = fmt.Fprintf(w, "stage raised %d -> %d\n", p.PreviousStage, p.Stage)
	}
	_, _ = fmt.Fprintf(w, "stage=%d sessions=%d minutes=%d completion=%.0f%% avg=%.1fmin days=%d\n",
		p.Stage, p.TotalSessions, p.TotalMinutes, p.CompletionRate*100, p.AverageMinutes, p.DistinctDays)
}

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show streak, cycles and stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			dash, err := app.ProgressCLI.Status(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "today=%s user=%s\n", dash.Today, dash.UserID)
			printStreak(w, dash.Streak)
			printCycle(w, dash.Teaching)
			printCycle(w, dash.Curriculum)
			printBlock(w, "month", dash.Month)
			printPractice(w, dash.Practice)
			var week strings.Builder
			for _, d := range dash.Week {
				if d.Active {
					week.WriteString("●")
				} else {
					week.WriteString("○")
				}
			}
			_, _ = fmt.Fprintf(w, "week %s\n", week.String())
			return nil
		},
	}
}

func newCheckInCmd(rt *runtime) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record today's activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			streak, err := app.ProgressCLI.CheckIn(context.Background())
			if err != nil {
				return err
			}
			printStreak(cmd.OutOrStdout(), streak)
			if days <= 0 {
				return nil
			}
			activity, err := app.ProgressCLI.Activity(context.Background(), days)
			if err != nil {
				return err
			}
			for _, d := range activity {
				mark := "-"
				if d.Active {
					mark = "x"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Date, mark)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "history", 0, "also list activity for the last N days")
	return cmd
}

// newTrackCmd builds the shared subcommands for one cycle. The block
// subcommand is a week for teaching and a month for the curriculum.
func newTrackCmd(rt *runtime, track, short string) *cobra.Command {
	parent := &cobra.Command{Use: track, Short: short}

	parent.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show the current day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Today(context.Background(), track)
			if err != nil {
				return err
			}
			printCycle(cmd.OutOrStdout(), out)
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "goto <day>",
		Short: "Jump to a day (clamped to the cycle)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[0])
			if err != nil {
				return err
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.GoTo(context.Background(), track, day)
			if err != nil {
				return err
			}
			printCycle(cmd.OutOrStdout(), out)
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "complete [day]",
		Short: "Mark a day complete (default: current day)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			var out progressdto.CycleOutput
			if len(args) == 1 {
				day, perr := parseDay(args[0])
				if perr != nil {
					return perr
				}
				out, err = app.ProgressCLI.Complete(context.Background(), track, day)
			} else {
				out, err = app.ProgressCLI.CompleteToday(context.Background(), track)
			}
			if err != nil {
				return err
			}
			printCycle(cmd.OutOrStdout(), out)
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "restart",
		Short: "Start the cycle over from day 1",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Restart(context.Background(), track)
			if err != nil {
				return err
			}
			printCycle(cmd.OutOrStdout(), out)
			return nil
		},
	})

	blockUse, blockLabel := "week [day]", "week"
	if track == string(progressdto.TrackCurriculum) {
		blockUse, blockLabel = "month [day]", "month"
	}
	parent.AddCommand(&cobra.Command{
		Use:   blockUse,
		Short: "Show the " + blockLabel + " containing a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := 0
			if len(args) == 1 {
				n, err := parseDay(args[0])
				if err != nil {
					return err
				}
				day = n
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			var out progressdto.BlockOutput
			if blockLabel == "month" {
				out, err = app.ProgressCLI.Month(context.Background(), day)
			} else {
				out, err = app.ProgressCLI.Week(context.Background(), day)
			}
			if err != nil {
				return err
			}
			printBlock(cmd.OutOrStdout(), blockLabel, out)
			return nil
		},
	})
	return parent
}

func newConceptCmd(rt *runtime) *cobra.Command {
	concept := &cobra.Command{Use: "concept", Short: "Concept engagement"}

	var lens string
	var seconds uint
	var revisit bool
	viewCmd := &cobra.Command{
		Use:   "view <concept-id>",
		Short: "Record time spent on a concept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.ViewConcept(context.Background(), args[0], lens, seconds, revisit)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s views=%d seconds=%d lenses=%s\n",
				out.ID, out.ViewCount, out.TotalTimeSeconds, strings.Join(out.LensesExplored, ","))
			return nil
		},
	}
	viewCmd.Flags().StringVar(&lens, "lens", "", "lens the concept was read through")
	viewCmd.Flags().UintVar(&seconds, "seconds", 0, "reading time in seconds")
	viewCmd.Flags().BoolVar(&revisit, "revisit", false, "add time without counting a new view")

	var limit int
	topCmd := &cobra.Command{
		Use:   "top",
		Short: "List the most viewed concepts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.TopConcepts(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no concepts viewed yet")
				return nil
			}
			for _, c := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%ds\n", c.ID, c.ViewCount, c.TotalTimeSeconds)
			}
			return nil
		},
	}
	topCmd.Flags().IntVar(&limit, "limit", 10, "max concepts to list")

	concept.AddCommand(viewCmd, topCmd)
	return concept
}

func newPracticeCmd(rt *runtime) *cobra.Command {
	practice := &cobra.Command{Use: "practice", Short: "Practice sessions and stage"}

	var focus int
	var notes string
	logCmd := &cobra.Command{
		Use:   "log <minutes>",
		Short: "Record a practice session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid minutes %q", args[0])
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.LogSession(context.Background(), uint(minutes), focus, notes)
			if err != nil {
				return err
			}
			printPractice(cmd.OutOrStdout(), out)
			return nil
		},
	}
	logCmd.Flags().IntVar(&focus, "focus", 3, "focus rating 1-5")
	logCmd.Flags().StringVar(&notes, "notes", "", "session notes")

	stageCmd := &cobra.Command{
		Use:   "stage <n>",
		Short: "Set the stage manually (1-9)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid stage %q", args[0])
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.SetStage(context.Background(), stage)
			if err != nil {
				return err
			}
			printPractice(cmd.OutOrStdout(), out)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show stage and recent sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Practice(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printPractice(w, out)
			for _, s := range out.Recent {
				_, _ = fmt.Fprintf(w, "%s\t%dmin\tfocus=%d\t%s\n", s.Date, s.DurationMinutes, s.FocusRating, s.Notes)
			}
			return nil
		},
	}

	practice.AddCommand(logCmd, stageCmd, showCmd)
	return practice
}

func newPrefsCmd(rt *runtime) *cobra.Command {
	prefs := &cobra.Command{Use: "prefs", Short: "Display and reminder preferences"}

	prefs.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Preferences(context.Background())
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), out)
			return nil
		},
	})

	var themeName, textSize, reminderTime, defaultLens string
	var sanskrit, reminder bool
	var sessionMinutes uint
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update preferences; only the flags given change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in progressdto.PreferencesInput
			flags := cmd.Flags()
			if flags.Changed("theme") {
				in.Theme = &themeName
			}
			if flags.Changed("text-size") {
				in.TextSize = &textSize
			}
			if flags.Changed("sanskrit") {
				in.ShowSanskrit = &sanskrit
			}
			if flags.Changed("reminder") {
				in.ReminderEnabled = &reminder
			}
			if flags.Changed("reminder-time") {
				in.ReminderTime = &reminderTime
			}
			if flags.Changed("lens") {
				in.DefaultLens = &defaultLens
			}
			if flags.Changed("session-minutes") {
				in.SessionMinutes = &sessionMinutes
			}
			app, err := rt.open()
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.UpdatePreferences(context.Background(), in)
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), out)
			return nil
		},
	}
	setCmd.Flags().StringVar(&themeName, "theme", "", "light|dark|system")
	setCmd.Flags().StringVar(&textSize, "text-size", "", "small|medium|large")
	setCmd.Flags().BoolVar(&sanskrit, "sanskrit", true, "show Sanskrit terms")
	setCmd.Flags().BoolVar(&reminder, "reminder", false, "enable the daily reminder")
	setCmd.Flags().StringVar(&reminderTime, "reminder-time", "", "reminder time as HH:MM")
	setCmd.Flags().StringVar(&defaultLens, "lens", "", "default reading lens")
	setCmd.Flags().UintVar(&sessionMinutes, "session-minutes", 0, "default session length")
	prefs.AddCommand(setCmd)
	return prefs
}

func printPrefs(w io.Writer, p progressdto.PreferencesOutput) {
	_, _ = fmt.Fprintf(w, "theme=%s text_size=%s sanskrit=%t reminder=%t reminder_time=%s lens=%s session_minutes=%d\n",
		p.Theme, p.TextSize, p.ShowSanskrit, p.ReminderEnabled, p.ReminderTime, p.DefaultLens, p.SessionMinutes)
}
