package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/taskmon/internal/control"
	"github.com/Dicklesworthstone/taskmon/internal/model"
	"github.com/Dicklesworthstone/taskmon/internal/output"
	"github.com/Dicklesworthstone/taskmon/internal/procs"
)

func newPsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ps [query]",
		Short: "List processes, optionally filtered by a case-insensitive name substring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := procs.List(cmd.Context(), a.processSource(), a.log)
			if len(args) == 1 {
				list = model.Filter(list, args[0])
			}
			return output.Print(cmd.OutOrStdout(), a.format, list)
		},
	}
}

func newTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List processes that own a visible window, one per name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.taskLister().List(cmd.Context())
			if list == nil {
				list = []model.Task{}
			}
			return output.Print(cmd.OutOrStdout(), a.format, list)
		},
	}
}

func newPerfCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "perf",
		Short: "Sample CPU, memory and disk usage once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.probe().Sample(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			return output.Print(cmd.OutOrStdout(), a.format, p)
		},
	}
}

func newKillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kill PID",
		Short: "Ask a process to terminate gracefully",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 32)
			if err != nil {
				return fmt.Errorf("invalid pid %q", args[0])
			}
			if err := control.New(a.log).Kill(cmd.Context(), int32(pid)); err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), a.format, output.Result{OK: true, Action: "kill", PID: int32(pid)})
		},
	}
}

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open PATH",
		Short: "Open a file or application with the OS default handler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := control.New(a.log).Launch(cmd.Context(), args[0]); err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), a.format, output.Result{OK: true, Action: "open", File: args[0]})
		},
	}
}
