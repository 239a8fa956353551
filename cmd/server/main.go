package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/UkralStul/wordicum/internal/auth"
	"github.com/UkralStul/wordicum/internal/config"
	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/feed"
	"github.com/UkralStul/wordicum/internal/forms"
	"github.com/UkralStul/wordicum/internal/web"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
)

// Флаги, общие для всех команд
var (
	storageType string
	debug       bool
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	rootCmd := &cobra.Command{
		Use:          "wordicum",
		Short:        "Wordicum blog server",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&storageType, "storage", storageInMemory, "Storage type (in-memory, postgres or sqlite)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log SQL queries")

	serve := serveCmd(cfg)
	// Без подкоманды работает как serve
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.AddCommand(
		serve,
		migrateCmd(cfg),
		createGroupCmd(cfg),
		createUserCmd(cfg),
	)

	// Контекст отменяется по SIGINT/SIGTERM, serve по нему корректно завершается
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(cfg config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
			errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

			if cfg.SessionSecret == "" {
				if storageType != storageInMemory {
					return errors.New("SESSION_SECRET must be set for persistent storage")
				}
				cfg.SessionSecret = "insecure-dev-secret"
				infoLog.Println("SESSION_SECRET is not set, using a development secret")
			}

			infoLog.Printf("Starting server with %s storage", storageType)
			store, closeStore, err := openStore(cfg, storageType, debug)
			if err != nil {
				return err
			}
			defer closeStore()

			if storageType == storageInMemory {
				// Заполним данными для тестов
				if err := fillWithMockData(cmd.Context(), store, infoLog); err != nil {
					return err
				}
			}

			app, err := web.New(web.Config{
				Store:    store,
				Sessions: auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL),
				Hub:      feed.NewHub(),
				PageSize: cfg.PageSize,
				InfoLog:  infoLog,
				ErrorLog: errorLog,
			})
			if err != nil {
				return err
			}

			return app.Serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", cfg.Addr(), "HTTP network address")
	return cmd
}

func migrateCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPersistent(cfg, storageType, debug)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(); err != nil {
				return err
			}
			log.Printf("Schema of %s storage is up to date", storageType)
			return nil
		},
	}
}

func createGroupCmd(cfg config.Config) *cobra.Command {
	var title, groupSlug, description string
	cmd := &cobra.Command{
		Use:   "create-group",
		Short: "Create a group of posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if groupSlug == "" {
				groupSlug = slug.Make(title)
			}

			store, err := openPersistent(cfg, storageType, debug)
			if err != nil {
				return err
			}
			defer store.Close()

			group, err := store.CreateGroup(cmd.Context(), &domain.Group{
				Title:       title,
				Slug:        groupSlug,
				Description: description,
			})
			if err != nil {
				return err
			}
			log.Printf("Group %q created: /group/%s/", group.Title, group.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Group title")
	cmd.Flags().StringVar(&groupSlug, "slug", "", "URL slug (generated from the title when empty)")
	cmd.Flags().StringVar(&description, "description", "", "Group description")
	cmd.MarkFlagRequired("title")
	return cmd
}

func createUserCmd(cfg config.Config) *cobra.Command {
	var username, password string
	var staff bool
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Те же правила, что и при регистрации через сайт
			form := forms.NewSignupForm()
			if !form.Bind(url.Values{"username": {username}, "password1": {password}, "password2": {password}}) {
				return fmt.Errorf("invalid user: %v", form.Errors)
			}

			store, err := openPersistent(cfg, storageType, debug)
			if err != nil {
				return err
			}
			defer store.Close()

			hash, err := auth.HashPassword(form.Password1)
			if err != nil {
				return err
			}
			user, err := store.CreateUser(cmd.Context(), &domain.User{Username: form.Username, PasswordHash: hash, IsStaff: staff})
			if err != nil {
				return err
			}
			log.Printf("User %q created (ID %d, staff: %t)", user.Username, user.ID, user.IsStaff)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	cmd.Flags().BoolVar(&staff, "staff", false, "Allow access to the admin listing")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}
