package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/app"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/config"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/encryption"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "mefrac",
	Short: "Data and sync backend for the M&E Fracionados storefront",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		instanceID := uuid.New().String()

		cfg := config.NewConfig(instanceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return fmt.Errorf("creating encryptor: %w", err)
		}
		if !enc.IsConfigured() {
			if err := enc.Setup(); err != nil {
				return fmt.Errorf("generating encryption key: %w", err)
			}
			fmt.Printf("Encryption key generated at %s\n", cfg.Encryption.KeyPath)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", instanceID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", cfg.InstanceID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Store:       %s (%s)\n", cfg.Store.Type, cfg.Store.Name)
		fmt.Printf("Server:      %s\n", cfg.Server.Addr)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return a.Serve(ctx)
	},
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default products and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		count := a.Seed()
		fmt.Printf("Catalog holds %d product(s)\n", count)
		return nil
	},
}

// bump command
var bumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Advance the global revision clock",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rev := a.Bump(force)
		fmt.Printf("Revision: %d\n", rev)
		return nil
	},
}

// products command
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		products := a.ListProducts()
		if len(products) == 0 {
			fmt.Println("No products.")
			return nil
		}

		for _, p := range products {
			fmt.Printf("%-15s  %-35s  %-15s  R$%7.2f  %5.0fml  R$%.2f/ml\n",
				p.ID, p.Name, p.Brand, p.Price, p.Size, p.PricePerMl)
		}
		return nil
	},
}

// settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage site settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show site settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.ShowSettings()
		fmt.Printf("Site Name:     %s\n", s.SiteName)
		fmt.Printf("Hero Title:    %s\n", s.HeroTitle)
		fmt.Printf("Hero Subtitle: %s\n", s.HeroSubtitle)
		fmt.Printf("WhatsApp:      %s\n", s.ContactWhatsApp)
		fmt.Printf("Email:         %s\n", s.ContactEmail)
		fmt.Printf("Hours:         %s\n", s.ContactHours)
		return nil
	},
}

// login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate as admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		token, err := a.Login(string(password))
		if err != nil {
			return err
		}

		fmt.Printf("Token: %s\n", token)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	productsCmd.AddCommand(productsListCmd)
	settingsCmd.AddCommand(settingsShowCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(bumpCmd)
	bumpCmd.Flags().BoolP("force", "f", false, "Also schedule a reload of the serving session")
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(loginCmd)
}
