package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// InitCommand creates the config file, the database and its schema.
type InitCommand struct {
	env *env
}

// UserAddCommand creates an account; the password is prompted for.
type UserAddCommand struct {
	Args struct {
		Username string `positional-arg-name:"username" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// UserListCommand lists accounts.
type UserListCommand struct {
	env *env
}

// UserRenameCommand renames an account.
type UserRenameCommand struct {
	Args struct {
		Username string `positional-arg-name:"username" required:"yes"`
		NewName  string `positional-arg-name:"new-name" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// UserPasswdCommand changes a password after checking the current one.
type UserPasswdCommand struct {
	Args struct {
		Username string `positional-arg-name:"username" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// UserDeleteCommand deletes an account and all of its data.
type UserDeleteCommand struct {
	Force bool `long:"force" description:"Skip the confirmation prompt"`
	Args  struct {
		Username string `positional-arg-name:"username" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// LoginCommand starts a session.
type LoginCommand struct {
	Args struct {
		Username string `positional-arg-name:"username"`
	} `positional-args:"yes"`

	env *env
}

// LogoutCommand ends the session.
type LogoutCommand struct {
	env *env
}

// WhoamiCommand prints the logged-in user.
type WhoamiCommand struct {
	env *env
}

// SitesAddCommand adds sites to the block list.
type SitesAddCommand struct {
	Args struct {
		Sites []string `positional-arg-name:"site" required:"1"`
	} `positional-args:"yes"`

	env *env
}

// SitesListCommand prints the block list.
type SitesListCommand struct {
	env *env
}

// SitesRemoveCommand removes sites from the block list.
type SitesRemoveCommand struct {
	Args struct {
		Sites []string `positional-arg-name:"site" required:"1"`
	} `positional-args:"yes"`

	env *env
}

// SitesExportCommand writes the block list in the blocked_sites.txt format.
type SitesExportCommand struct {
	Args struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// BlockCommand applies the block list to the hosts file.
type BlockCommand struct {
	FromFile string `long:"from-file" description:"Block the sites listed in this file instead of the user's list"`

	env *env
}

// UnblockCommand removes the managed section from the hosts file.
type UnblockCommand struct {
	env *env
}

// StatusCommand shows blocking, session and database state.
type StatusCommand struct {
	env *env
}

// FocusCommand runs the focus timer in the foreground.
type FocusCommand struct {
	Minutes int    `long:"minutes" short:"m" description:"Focus length in minutes (default from config)"`
	Subject string `long:"subject" short:"s" description:"Subject tag"`
	Notes   string `long:"notes" description:"Session notes"`
	Rating  int    `long:"rating" description:"Focus rating 1-5 recorded with the session"`

	Distractions bool `long:"distractions" short:"d" description:"Count a distraction each time Enter is pressed while focusing"`

	env *env
}

// RecordCommand records a study session that happened without the timer.
type RecordCommand struct {
	Minutes      int    `long:"minutes" short:"m" description:"Session length in minutes (required)"`
	Subject      string `long:"subject" short:"s" description:"Subject tag"`
	Rating       int    `long:"rating" description:"Focus rating 1-5"`
	Distractions int    `long:"distractions" description:"Number of distractions"`
	Notes        string `long:"notes" description:"Session notes"`
	Ago          string `long:"ago" description:"Session started this long ago (e.g., 2h, 1d)"`

	env *env
}

// StatsCommand prints study analytics.
type StatsCommand struct {
	Recent int `long:"recent" description:"Also list this many recent sessions" default:"0"`

	env *env
}

// TodoListCommand prints the todo list.
type TodoListCommand struct {
	env *env
}

// TodoAddCommand appends a task.
type TodoAddCommand struct {
	Args struct {
		Task []string `positional-arg-name:"task" required:"1"`
	} `positional-args:"yes"`

	env *env
}

// TodoDoneCommand toggles a task's completion.
type TodoDoneCommand struct {
	Args struct {
		Number int `positional-arg-name:"number" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// TodoRemoveCommand deletes a task.
type TodoRemoveCommand struct {
	Args struct {
		Number int `positional-arg-name:"number" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// ExportCommand writes sessions and analytics to CSV or XLSX.
type ExportCommand struct {
	Format string `long:"format" description:"Output format: csv | xlsx (default from the file extension)"`
	Args   struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`

	env *env
}

// ScheduleCommand runs the configured focus blocks.
type ScheduleCommand struct {
	List bool `long:"list" description:"Print the schedule and exit"`

	env *env
}

// MenuCommand starts the interactive screens.
type MenuCommand struct {
	env *env
}
