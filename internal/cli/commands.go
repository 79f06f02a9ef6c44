package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runUI,
	}
}

func (a *app) runUI(cmd *cobra.Command, _ []string) error {
	if err := a.open(cmd.Context()); err != nil {
		return err
	}
	opts := []tea.ProgramOption{
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	}
	if a.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	err := tui.Run(a.store, tui.Options{Title: a.cfg.UI.Title, Subtitle: a.cfg.UI.Subtitle}, opts...)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print the list",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usageErrorf("ls: %s", err)
			}
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			printList(cmd, a.store.Snapshot().Todos, f, group)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "show all, active or done tasks")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new task (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			before := a.store.Len()
			snap, err := a.store.Add(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			if snap.Len() > before {
				ui.OK(cmd.OutOrStdout(), "added "+shortID(snap.Todos[0].ID))
			}
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <index|id>",
		Aliases: []string{"done"},
		Short:   "Toggle done for a task (1-based index or id)",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRef(cmd, args[0], "toggled", (*todo.Store).Toggle)
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index|id>",
		Aliases: []string{"remove"},
		Short:   "Remove a task (1-based index or id)",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRef(cmd, args[0], "removed", (*todo.Store).Remove)
		},
	}
}

// withRef resolves ref against the stored list and applies op to its id.
func (a *app) withRef(cmd *cobra.Command, ref, verb string, op func(*todo.Store, string) (todo.Snapshot, error)) error {
	if err := a.open(cmd.Context()); err != nil {
		return err
	}
	t, err := resolveRef(a.store.Snapshot().Todos, ref)
	if err != nil {
		return err
	}
	if _, err := op(a.store, t.ID); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	ui.OK(cmd.OutOrStdout(), verb+": "+t.Title)
	return nil
}

func newSampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Add the sample tasks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			if _, err := a.store.SeedSamples(); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %d sample tasks", len(todo.DefaultSamples)))
			return nil
		},
	}
}

func newToggleAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Mark every task done, or every task pending when all are done",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			snap, err := a.store.ToggleAll()
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			done, _ := model.Count(snap.Todos)
			if done > 0 {
				ui.OK(cmd.OutOrStdout(), "marked all done")
			} else {
				ui.OK(cmd.OutOrStdout(), "marked all pending")
			}
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed tasks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			before := a.store.Len()
			snap, err := a.store.ClearCompleted()
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("cleared %d completed", before-snap.Len()))
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.cfg.Encode(cmd.OutOrStdout())
		},
	}
}

// resolveRef accepts a 1-based index, a full id, or a unique id prefix.
func resolveRef(todos []model.Todo, ref string) (model.Todo, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(todos) {
			return model.Todo{}, usageErrorf("index out of range: have %d, got %d\nHint: run `tada ls` to see valid indexes", len(todos), n)
		}
		return todos[n-1], nil
	}
	var match []model.Todo
	for _, t := range todos {
		if t.ID == ref {
			return t, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return model.Todo{}, usageErrorf("no task with id %q", ref)
	default:
		return model.Todo{}, usageErrorf("id prefix %q is ambiguous (%d tasks)", ref, len(match))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
