package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/patiolink/notimail/internal/config"
	"github.com/patiolink/notimail/internal/notify"
	"github.com/patiolink/notimail/internal/storage"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the administrator contact directory",
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an administrator contact",
	RunE:  runAdminAdd,
}

var adminLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent delivery log entries",
	RunE:  runAdminLog,
}

func init() {
	adminAddCmd.Flags().String("name", "", "contact name")
	adminAddCmd.Flags().String("email", "", "contact email (required)")
	adminAddCmd.Flags().Int("role", 1, "directory role id")
	_ = adminAddCmd.MarkFlagRequired("email")

	adminLogCmd.Flags().Int("limit", 20, "number of entries to show")

	adminCmd.AddCommand(adminAddCmd)
	adminCmd.AddCommand(adminLogCmd)
}

func runAdminAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetInt("role")

	email = notify.NormalizeAddress(email)
	if email == "" {
		return fmt.Errorf("email must not be blank")
	}

	db, err := storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	store := storage.NewSQLiteDirectoryStore(db)
	if err := store.AddContact(cmd.Context(), storage.AdminContact{
		Name:   name,
		Email:  email,
		RoleID: role,
		Active: true,
	}); err != nil {
		return err
	}

	fmt.Printf("added %s (role %d)\n", email, role)
	return nil
}

func runAdminLog(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")

	db, err := storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	entries, err := storage.NewSQLiteDeliveryLogStore(db).ListDeliveries(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tKIND\tSTATUS\tRECIPIENTS\tSUBJECT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Status, e.Recipients, e.Subject)
	}
	return w.Flush()
}
