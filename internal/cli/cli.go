package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Init       *InitCommand
	UserAdd    *UserAddCommand
	UserList   *UserListCommand
	UserRename *UserRenameCommand
	UserPasswd *UserPasswdCommand
	UserDelete *UserDeleteCommand
	Login      *LoginCommand
	Logout     *LogoutCommand
	Whoami     *WhoamiCommand
	SitesAdd   *SitesAddCommand
	SitesList  *SitesListCommand
	SitesRm    *SitesRemoveCommand
	SitesExp   *SitesExportCommand
	Block      *BlockCommand
	Unblock    *UnblockCommand
	Status     *StatusCommand
	Focus      *FocusCommand
	Record     *RecordCommand
	Stats      *StatsCommand
	TodoList   *TodoListCommand
	TodoAdd    *TodoAddCommand
	TodoDone   *TodoDoneCommand
	TodoRemove *TodoRemoveCommand
	Export     *ExportCommand
	Schedule   *ScheduleCommand
	Menu       *MenuCommand
}

// group is a parent command that only holds subcommands.
type group struct{}

// buildParser constructs the go-flags parser with all subcommands
// registered. All commands share e, whose globals are filled by the parser.
func buildParser(e *env) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(e.globals, goflags.Default)
	parser.Name = "focusguard"
	parser.LongDescription = "Focus timer that blocks distracting websites through the hosts file and tracks study sessions."

	cmds := &commands{
		Init:       &InitCommand{env: e},
		UserAdd:    &UserAddCommand{env: e},
		UserList:   &UserListCommand{env: e},
		UserRename: &UserRenameCommand{env: e},
		UserPasswd: &UserPasswdCommand{env: e},
		UserDelete: &UserDeleteCommand{env: e},
		Login:      &LoginCommand{env: e},
		Logout:     &LogoutCommand{env: e},
		Whoami:     &WhoamiCommand{env: e},
		SitesAdd:   &SitesAddCommand{env: e},
		SitesList:  &SitesListCommand{env: e},
		SitesRm:    &SitesRemoveCommand{env: e},
		SitesExp:   &SitesExportCommand{env: e},
		Block:      &BlockCommand{env: e},
		Unblock:    &UnblockCommand{env: e},
		Status:     &StatusCommand{env: e},
		Focus:      &FocusCommand{env: e},
		Record:     &RecordCommand{env: e},
		Stats:      &StatsCommand{env: e},
		TodoList:   &TodoListCommand{env: e},
		TodoAdd:    &TodoAddCommand{env: e},
		TodoDone:   &TodoDoneCommand{env: e},
		TodoRemove: &TodoRemoveCommand{env: e},
		Export:     &ExportCommand{env: e},
		Schedule:   &ScheduleCommand{env: e},
		Menu:       &MenuCommand{env: e},
	}

	parser.AddCommand("init", "Create config and database", "Write the default config file if missing, then create the database and its schema.", cmds.Init)

	user, _ := parser.AddCommand("user", "Manage accounts", "Create, list, rename and delete accounts.", &group{})
	user.AddCommand("add", "Create an account", "Create an account. The password is prompted for.", cmds.UserAdd)
	user.AddCommand("list", "List accounts", "List all accounts.", cmds.UserList)
	user.AddCommand("rename", "Rename an account", "Rename an account. Usernames are case-sensitive.", cmds.UserRename)
	user.AddCommand("passwd", "Change a password", "Change the password of an account after checking the current one.", cmds.UserPasswd)
	user.AddCommand("delete", "Delete an account", "Delete an account with its sites, sessions, records and todos.", cmds.UserDelete)

	parser.AddCommand("login", "Log in", "Log in and remember the user for later commands.", cmds.Login)
	parser.AddCommand("logout", "Log out", "Forget the logged-in user.", cmds.Logout)
	parser.AddCommand("whoami", "Show the logged-in user", "Show the logged-in user.", cmds.Whoami)

	sites, _ := parser.AddCommand("sites", "Manage the block list", "Add, list, remove and export blocked websites of the logged-in user.", &group{})
	sites.AddCommand("add", "Block websites", "Add websites to the block list. URLs are reduced to their domain.", cmds.SitesAdd)
	sites.AddCommand("list", "List blocked websites", "List the block list.", cmds.SitesList)
	sites.AddCommand("remove", "Unblock websites", "Remove websites from the block list.", cmds.SitesRm)
	sites.AddCommand("export", "Write blocked_sites.txt", "Write the block list one site per line.", cmds.SitesExp)

	parser.AddCommand("block", "Block websites now", "Write the block list into the hosts file until unblock is run.", cmds.Block)
	parser.AddCommand("unblock", "Unblock websites", "Remove focusguard's section from the hosts file.", cmds.Unblock)
	parser.AddCommand("status", "Show blocking and session state", "Show the hosts file section, the logged-in user and database health.", cmds.Status)
	parser.AddCommand("focus", "Run the focus timer", "Block the user's websites for the focus length and record the session when it completes.", cmds.Focus)
	parser.AddCommand("record", "Record a study session", "Record a study session that was not timed by focusguard.", cmds.Record)
	parser.AddCommand("stats", "Show study analytics", "Show lifetime, weekly, daily and per-subject study analytics.", cmds.Stats)

	todo, _ := parser.AddCommand("todo", "Manage the todo list", "List, add, complete and remove tasks.", &group{})
	todo.AddCommand("list", "List tasks", "List tasks in insertion order.", cmds.TodoList)
	todo.AddCommand("add", "Add a task", "Append a task to the list.", cmds.TodoAdd)
	todo.AddCommand("done", "Toggle a task", "Mark a task done, or not done again.", cmds.TodoDone)
	todo.AddCommand("remove", "Remove a task", "Remove a task by its number.", cmds.TodoRemove)

	parser.AddCommand("export", "Export sessions", "Export study sessions to CSV, or sessions and a summary to XLSX.", cmds.Export)
	parser.AddCommand("schedule", "Run scheduled focus blocks", "Run the focus blocks from the config schedule until interrupted.", cmds.Schedule)
	parser.AddCommand("menu", "Interactive mode", "Log in and use focusguard through text menus.", cmds.Menu)

	return parser, cmds
}

// Run is the main entry point for the focusguard CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	return runWithEnv(newEnv(version), args)
}

func runWithEnv(e *env, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Fprintf(e.out, "focusguard %s\n", e.version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _ := buildParser(e)
	defer e.close()

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
