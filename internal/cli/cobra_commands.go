package cli

import (
	"github.com/spf13/cobra"

	"kanban-todo/internal/tui"
)

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.loginCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.boardCommand(),
		r.todoCommand(),
		r.assigneeCommand(),
		r.importCommand(),
		r.backupCommand(),
		r.restoreCommand(),
		r.minutesCommand(),
		r.planCommand(),
		r.tuiCommand(),
	)
}

func (r *RootCommand) loginCommand() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in to the server. Missing credentials are prompted for; the password
is read without echo when stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()
			return NewLoginCommand(r.app).Execute(ctx, username, password)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func (r *RootCommand) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewLogoutCommand(r.app).Execute(ctx)
		},
	}
}

func (r *RootCommand) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewWhoamiCommand(r.app).Execute(ctx)
		},
	}
}

func (r *RootCommand) boardCommand() *cobra.Command {
	var opts BoardOptions
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board",
		Long: `Show the three columns of the board in display order.

Examples:
  kb board                    # Everyone's todos
  kb board --assignee Alice   # Only todos assigned to Alice
  kb board --json             # Machine readable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewBoardCommand(r.app).Execute(ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Assignee, "assignee", "a", "", "Filter by assignee name or ID")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print JSON")
	return cmd
}

func (r *RootCommand) todoCommand() *cobra.Command {
	todo := &cobra.Command{
		Use:   "todo",
		Short: "Manage todos",
	}

	var listOpts BoardOptions
	list := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewTodoListCommand(r.app).Execute(ctx, listOpts)
		},
	}
	list.Flags().StringVarP(&listOpts.Assignee, "assignee", "a", "", "Filter by assignee name or ID")
	list.Flags().StringVarP(&listOpts.Status, "status", "s", "", "Filter by status (todo, doing, done)")
	list.Flags().BoolVar(&listOpts.JSON, "json", false, "Print JSON")

	var addOpts TodoAddOptions
	add := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a todo",
		Long: `Create a todo at the end of its column.

Examples:
  kb todo add "Write report"
  kb todo add "Fix login" --priority high --status doing --assignee Bob`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			addOpts.Title = args[0]
			return NewTodoAddCommand(r.app).Execute(ctx, addOpts)
		},
	}
	add.Flags().StringVarP(&addOpts.Description, "description", "d", "", "Description")
	add.Flags().StringVarP(&addOpts.Status, "status", "s", "", "Initial status (default todo)")
	add.Flags().StringVarP(&addOpts.Priority, "priority", "p", "", "Priority: high, medium or low (default medium)")
	add.Flags().StringVarP(&addOpts.Assignee, "assignee", "a", "", "Assignee name or ID")

	var unassign bool
	edit := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a todo",
		Long: `Change the fields given as flags; everything else is left alone.

Examples:
  kb todo edit 12 --title "Write the report"
  kb todo edit 12 --unassign`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			opts := TodoEditOptions{Unassign: unassign}
			flags := cmd.Flags()
			if flags.Changed("title") {
				v, _ := flags.GetString("title")
				opts.Title = &v
			}
			if flags.Changed("description") {
				v, _ := flags.GetString("description")
				opts.Description = &v
			}
			if flags.Changed("priority") {
				v, _ := flags.GetString("priority")
				opts.Priority = &v
			}
			if flags.Changed("assignee") {
				v, _ := flags.GetString("assignee")
				opts.Assignee = &v
			}
			return NewTodoEditCommand(r.app).Execute(ctx, args[0], opts)
		},
	}
	edit.Flags().StringP("title", "t", "", "New title")
	edit.Flags().StringP("description", "d", "", "New description")
	edit.Flags().StringP("priority", "p", "", "New priority")
	edit.Flags().StringP("assignee", "a", "", "New assignee name or ID")
	edit.Flags().BoolVar(&unassign, "unassign", false, "Remove the assignee")
	edit.MarkFlagsMutuallyExclusive("assignee", "unassign")

	status := &cobra.Command{
		Use:   "status [id] [status]",
		Short: "Move a todo to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewTodoStatusCommand(r.app).Execute(ctx, args[0], args[1])
		},
	}

	var deleteYes bool
	del := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()
			return NewTodoDeleteCommand(r.app).Execute(ctx, args[0], deleteYes)
		},
	}
	del.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")

	var reorderAssignee string
	reorder := &cobra.Command{
		Use:   "reorder [id] [over-id]",
		Short: "Move a todo to another todo's position in the same column",
		Long: `Move a todo to the position of another todo in the same column, shifting
the cards in between. Todos in different columns are left alone.

Use --assignee to reorder within the filtered view of the board.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewTodoReorderCommand(r.app).Execute(ctx, args[0], args[1], reorderAssignee)
		},
	}
	reorder.Flags().StringVarP(&reorderAssignee, "assignee", "a", "", "Reorder within this assignee's view")

	todo.AddCommand(list, add, edit, status, del, reorder)
	return todo
}

func (r *RootCommand) assigneeCommand() *cobra.Command {
	assignee := &cobra.Command{
		Use:     "assignee",
		Aliases: []string{"assignees"},
		Short:   "Manage assignees",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List assignees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewAssigneeListCommand(r.app).Execute(ctx, asJSON)
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Create an assignee with the next palette color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewAssigneeAddCommand(r.app).Execute(ctx, args[0])
		},
	}

	rename := &cobra.Command{
		Use:   "rename [name-or-id] [new-name]",
		Short: "Rename an assignee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewAssigneeRenameCommand(r.app).Execute(ctx, args[0], args[1])
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete [name-or-id]",
		Short: "Delete an assignee; their todos become unassigned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()
			return NewAssigneeDeleteCommand(r.app).Execute(ctx, args[0], yes)
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	assignee.AddCommand(list, add, rename, del)
	return assignee
}

func (r *RootCommand) importCommand() *cobra.Command {
	imp := &cobra.Command{
		Use:   "import",
		Short: "Create todos in bulk",
	}

	rows := &cobra.Command{
		Use:   "rows [file]",
		Short: "Import tab or comma separated rows",
		Long: `Import one todo per line: title, description, status, priority, assignee.
Columns may be separated by tabs or commas; quoted fields are allowed.
Reads stdin when the file is omitted or "-".

Example:
  kb import rows todos.tsv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()
			return NewImportRowsCommand(r.app).Execute(ctx, firstArg(args))
		},
	}

	var yes bool
	jsonCmd := &cobra.Command{
		Use:   "json [file]",
		Short: "Import todos from a JSON file (admin only)",
		Long: `Import todos from a JSON file holding {"todos": [...]}. Existing todos are
kept. Pass --yes when reading from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()
			return NewImportJSONCommand(r.app).Execute(ctx, firstArg(args), yes)
		},
	}
	jsonCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	imp.AddCommand(rows, jsonCmd)
	return imp
}

func (r *RootCommand) backupCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Download a full backup (admin only)",
		Long: `Write every assignee and todo to a JSON file. The default file name carries
today's date; use --output - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewBackupCommand(r.app).Execute(ctx, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	return cmd
}

func (r *RootCommand) restoreCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Replace all data with a backup (admin only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()
			return NewRestoreCommand(r.app).Execute(ctx, firstArg(args), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (r *RootCommand) minutesCommand() *cobra.Command {
	var opts MinutesOptions
	cmd := &cobra.Command{
		Use:   "minutes",
		Short: "Render meeting minutes from the board",
		Long: `Render meeting minutes listing every column of the board as plain text.

Examples:
  kb minutes
  kb minutes --memo "Release on Friday" --save
  kb minutes --assignee Alice --date 2026-03-02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewMinutesCommand(r.app).Execute(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Date, "date", "", "Meeting date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&opts.Memo, "memo", "m", "", "Memo text")
	cmd.Flags().StringVar(&opts.MemoFile, "memo-file", "", "Read the memo from a file")
	cmd.Flags().StringVarP(&opts.Assignee, "assignee", "a", "", "Only this assignee's todos")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Write to a dated file instead of stdout")
	return cmd
}

func (r *RootCommand) planCommand() *cobra.Command {
	var date string
	plan := &cobra.Command{
		Use:   "plan",
		Short: "Allocate todos onto a day's timeline",
		Long: `Plan a day in half-hour slots. Slots are given as HH:MM or as a slot
number from 0 (00:00) to 47 (23:30). Dates default to today.

Examples:
  kb plan place 12 09:00 --duration 2   # 09:00-10:00
  kb plan move 12 13:30
  kb plan resize 12 +1                  # one more slot
  kb plan resize 12 -- -2               # two fewer slots
  kb plan show --date 2026-03-02`,
	}
	plan.PersistentFlags().StringVar(&date, "date", "", "Plan date, YYYY-MM-DD (default today)")

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the allocation for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewPlanCommand(r.app).Show(ctx, date, asJSON)
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	dates := &cobra.Command{
		Use:   "dates",
		Short: "List days with a saved plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewPlanCommand(r.app).Dates(ctx)
		},
	}

	var duration int
	place := &cobra.Command{
		Use:   "place [todo-id] [start]",
		Short: "Place a todo on the timeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewPlanCommand(r.app).Place(ctx, PlanPlaceOptions{
				Date:     date,
				TodoID:   args[0],
				Start:    args[1],
				Duration: duration,
			})
		},
	}
	place.Flags().IntVarP(&duration, "duration", "n", 1, "Length in slots")

	move := &cobra.Command{
		Use:   "move [todo-id] [start]",
		Short: "Move a placed todo, keeping its length",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewPlanCommand(r.app).Move(ctx, date, args[0], args[1])
		},
	}

	resize := &cobra.Command{
		Use:   "resize [todo-id] [delta]",
		Short: "Grow or shrink a placed todo by slots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewPlanCommand(r.app).Resize(ctx, date, args[0], args[1])
		},
	}

	remove := &cobra.Command{
		Use:   "remove [todo-id]",
		Short: "Take a todo off the timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.context(cmd)
			defer cancel()
			return NewPlanCommand(r.app).Remove(ctx, date, args[0])
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved plan for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.interactiveContext(cmd)
			defer cancel()
			return NewPlanCommand(r.app).Clear(ctx, date, yes)
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	plan.AddCommand(show, dates, place, move, resize, remove, clearCmd)
	return plan
}

func (r *RootCommand) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Aliases: []string{"ui"},
		Short:   "Interactive board and day planner",
		Long: `Full-screen mode. tab switches between the board and the planner; space
picks up and drops cards and timeline entries. Press ? for all keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Run(cmd.Context(), r.app.Services(), r.app.Config()); err != nil {
				return NewErrorHandler().Handle("run interactive mode", err)
			}
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
