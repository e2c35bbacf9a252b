package users

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/soruforum/soruforum/cmd/cli/output"
	"github.com/soruforum/soruforum/cmd/cli/root"
	"github.com/soruforum/soruforum/internal/auth"
	"github.com/soruforum/soruforum/internal/config"
	"github.com/soruforum/soruforum/internal/db"
	"github.com/soruforum/soruforum/internal/repo"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage forum users",
		Long:  "List, create and delete forum users directly in the database.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE:  runList,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create a user with username, email and password.",
		RunE:  runCreate,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user by id",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	resetLinkCmd := &cobra.Command{
		Use:   "reset-link <email>",
		Short: "Print a password reset link for a user",
		Long:  "Issues a 30-minute reset token for support cases where the reset mail never arrived.",
		Args:  cobra.ExactArgs(1),
		RunE:  runResetLink,
	}

	usersCmd.AddCommand(listCmd, createCmd, deleteCmd, resetLinkCmd)
	root.GetRoot().AddCommand(usersCmd)
}

func connect(cfg config.Config) (*sql.DB, error) {
	return db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
}

// ==========================
// List Users
// ==========================
func runList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	database, err := connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	users, err := repo.NewUserRepo(database).List(context.Background(), 1000, 0)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{u.ID, u.Username, u.Email, u.CreatedAt.Format(time.DateOnly)})
	}
	output.RenderTable([]string{"ID", "Username", "Email", "Created"}, rows)
	return nil
}

// ==========================
// Create User
// ==========================
func runCreate(cmd *cobra.Command, args []string) error {
	var username, email, password string
	fmt.Print("Username: ")
	fmt.Scanln(&username)
	fmt.Print("Email: ")
	fmt.Scanln(&email)
	fmt.Print("Password: ")
	fmt.Scanln(&password)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	cfg := config.Load()
	database, err := connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := repo.NewUserRepo(database).Create(context.Background(), username, email, hash)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return fmt.Errorf("username or email already in use")
		}
		return err
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Username)
	return nil
}

// ==========================
// Delete User
// ==========================
func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id: %s", args[0])
	}

	cfg := config.Load()
	database, err := connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := repo.NewUserRepo(database).Delete(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted user %d\n", id)
	return nil
}

// ==========================
// Reset Link
// ==========================
func runResetLink(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	database, err := connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := repo.NewUserRepo(database).GetByEmail(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("no user with email %s", args[0])
	}

	token, err := auth.NewTokenSigner([]byte(cfg.SecretKey)).IssueReset(user.ID)
	if err != nil {
		return err
	}

	fmt.Println(cfg.BaseURL + "/sifre_yenileme/" + token)
	return nil
}
