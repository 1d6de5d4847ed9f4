package cli

import "context"

type initJSON struct {
	ConfigPath string `json:"config_path"`
	Driver     string `json:"driver"`
	Users      int64  `json:"users"`
}

// Execute implements the go-flags Commander interface for InitCommand.
func (c *InitCommand) Execute(args []string) error {
	ctx := context.Background()

	path, err := c.env.configPath()
	if err != nil {
		return err
	}
	a, store, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	users, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return c.env.printJSON(initJSON{ConfigPath: path, Driver: a.Config.Database.Driver, Users: users})
	}

	st := c.env.styles()
	c.env.printf("%s\n", st.ok.Render("focusguard is ready"))
	c.env.printf("%s%s\n", st.label.Render("Config:"), path)
	c.env.printf("%s%s\n", st.label.Render("Database:"), a.Config.Database.Driver)
	c.env.printf("%s%d\n", st.label.Render("Users:"), users)
	if users == 0 {
		c.env.printf("\nCreate an account with: focusguard user add <name>\n")
	}
	return nil
}
