package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/routinely"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/notify"
)

var runCmd = &cobra.Command{
	Use:   "run <routine-id>",
	Short: "Run a routine with a live countdown",
	Long: `Starts the given routine and renders a live countdown for the active task.
Ctrl+C cancels the session; the partial run is recorded in history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetStringSlice("skip")
		order, _ := cmd.Flags().GetStringSlice("order")

		events := notify.NewChannel(64)
		eng, _, err := buildEngine(cmd, routinely.WithNotifier(events))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := eng.Run(ctx); err != nil {
			return err
		}
		defer eng.Stop()

		if eng.Active() {
			return fmt.Errorf("a session is already active (routine %s); cancel it first", eng.Snapshot().RoutineID)
		}

		session, err := eng.Start(ctx, args[0], routinely.StartOptions{
			SkipTaskIDs: skip,
			TaskOrder:   order,
		})
		if err != nil {
			return err
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigs)

		fmt.Printf("Running %s (%d tasks)\n", session.RoutineName, len(session.TaskStates))
		return renderLoop(ctx, eng, events, sigs)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSlice("skip", nil, "Task IDs to skip for this run")
	runCmd.Flags().StringSlice("order", nil, "Custom task order for this run")
}

// renderLoop redraws the countdown line until the session ends.
func renderLoop(ctx context.Context, eng *routinely.Engine, events *notify.Channel, sigs <-chan os.Signal) error {
	out := termenv.NewOutput(os.Stdout)
	redraw := time.NewTicker(250 * time.Millisecond)
	defer redraw.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-sigs:
			out.ClearLine()
			if err := eng.Cancel(context.Background()); err != nil {
				if errors.Is(err, domain.ErrNoActiveSession) {
					// The session finished just before the interrupt landed.
					return nil
				}
				return err
			}
			fmt.Println("\rCancelled.")
			return nil

		case ev := <-events.Events():
			switch ev.Type {
			case domain.EventTaskCompleted, domain.EventTaskSkipped:
				out.ClearLine()
				fmt.Printf("\r%s %s\n", statusGlyph(ev.Type), ev.TaskName)
			case domain.EventRoutineCompleted:
				out.ClearLine()
				fmt.Printf("\rDone: %d tasks in %s\n", ev.TasksCompleted, formatSeconds(ev.TotalDuration))
				return nil
			case domain.EventRoutineCancelled:
				return nil
			}

		case <-redraw.C:
			session := eng.Snapshot()
			if session == nil {
				continue
			}
			drawStatus(out, session)
		}
	}
}

func drawStatus(out *termenv.Output, session *domain.Session) {
	task := session.CurrentTask()
	if task == nil {
		return
	}
	now := time.Now()

	var line string
	switch {
	case session.Status == domain.SessionPaused:
		line = fmt.Sprintf("%s  [paused]  %s left", task.Name, formatDuration(session.TaskRemaining(now)))
	case session.InConfirmWindow():
		line = fmt.Sprintf("%s  done? confirm within %s", task.Name, formatDuration(session.ConfirmRemaining(now)))
	case session.AwaitingInput:
		line = fmt.Sprintf("%s  waiting (over by %s)", task.Name, formatDuration(-session.TaskRemaining(now)))
	default:
		line = fmt.Sprintf("%s  %s left", task.Name, formatDuration(session.TaskRemaining(now)))
	}

	styled := out.String(line)
	if session.InConfirmWindow() || session.AwaitingInput {
		styled = styled.Foreground(out.Color("3")) // yellow: needs attention
	}
	out.ClearLine()
	fmt.Printf("\r%s", styled)
}

func statusGlyph(t domain.EventType) string {
	if t == domain.EventTaskSkipped {
		return "-"
	}
	return "✓"
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	secs := int(d / time.Second)
	return formatSeconds(secs)
}

func formatSeconds(secs int) string {
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
