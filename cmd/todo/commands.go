package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/task"
	"tasklist/internal/ui"
	"tasklist/internal/view"
)

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "todo",
		Short:         "A small to-do list",
		Long:          `Keep a to-do list in the terminal. Run without arguments for the interactive view.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			return ui.Run(a.tasks, a.cfg, a.logger)
		},
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default $TODO_CONFIG or ~/.config/tasklist/config.toml)")
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "Database file, overrides db_path")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newAddCmd(&g),
		newListCmd(&g),
		newDoneCmd(&g),
		newRemoveCmd(&g),
		newEditCmd(&g),
	)
	return root
}

// withApp opens the app around fn.
func withApp(g *globalFlags, fn func(a *app) error) error {
	a, err := openApp(*g)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newAddCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(g, func(a *app) error {
				t, err := a.tasks.Add(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Task added: %d\n  %s\n", t.ID, t.Text)
				return nil
			})
		},
	}
}

func newListCmd(g *globalFlags) *cobra.Command {
	var filter, sort string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(g, func(a *app) error {
				f, s := a.cfg.Filter(), a.cfg.Sort()
				var err error
				if cmd.Flags().Changed("filter") {
					if f, err = view.ParseFilter(filter); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("sort") {
					if s, err = view.ParseSort(sort); err != nil {
						return err
					}
				}
				tasks := view.Project(a.tasks.Tasks(), f, s)
				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No tasks.")
					return nil
				}
				for _, t := range tasks {
					box := "[ ]"
					if t.Completed {
						box = "[x]"
					}
					fmt.Fprintf(out, "%s %d  %s\n", box, t.ID, t.Text)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Show all, completed or pending tasks")
	cmd.Flags().StringVarP(&sort, "sort", "s", "newest", "Order newest or oldest first")
	return cmd
}

func newDoneCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle a task between completed and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(g, func(a *app) error {
				a.tasks.Toggle(id)
				if t, ok := a.tasks.Find(id); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Task %d is now %s\n", id, status(t))
				}
				return nil
			})
		},
	}
}

func newRemoveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(g, func(a *app) error {
				t, found := a.tasks.Find(id)
				a.tasks.Delete(id)
				if found {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Task deleted: %d\n  %s\n", id, t.Text)
				}
				return nil
			})
		},
	}
}

func newEditCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <task-id> [text]...",
		Short: "Replace a task's text",
		Long:  `Replace a task's text exactly as given. Omitting the text leaves the task blank.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(g, func(a *app) error {
				a.tasks.CommitEdit(id, strings.Join(args[1:], " "))
				if t, ok := a.tasks.Find(id); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Task updated: %d\n  %s\n", id, t.Text)
				}
				return nil
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func status(t task.Task) string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}
