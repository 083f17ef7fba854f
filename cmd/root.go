// Package cmd contains the cfimages CLI commands
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cfimages/cfimage"
	"cfimages/config"
	"cfimages/site"
)

var (
	cfgFile  string
	envFile  string
	hostFlag string
	pageFlag string
	verbose  bool
	cfg      *config.Config
	logger   *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cfimages",
	Short: "Cloudflare image URL and markup helper",
	Long: `cfimages rewrites image references into Cloudflare transformation URLs
(/cdn-cgi/image/...) or local fallback URLs, and renders img/picture markup.

Example usage:
  cfimages resolve images/a.jpg width=300 quality=80
  cfimages srcset hero.jpg --page blog/post --widths 480,960
  cfimages img hero.jpg alt="Hero" sizes=640,1024 --host localhost
  cfimages render page.html --page blog/post --watch
  cfimages serve --template page.html --addr :1313`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with overrides")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "request host to route for (default: host of site.base_url)")
	rootCmd.PersistentFlags().StringVar(&pageFlag, "page", "", "page bundle route whose media can be referenced by name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig loads .env, the config file and sets up logging
func initConfig() error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		logger.Debug("config file not found, using defaults", "path", cfgFile)
		cfg = config.Default()
		if err := cfg.ApplyEnv(); err != nil {
			return fmt.Errorf("failed to apply environment: %w", err)
		}
		return cfg.Validate()
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded
	logger.Debug("loaded config", "path", cfgFile, "enabled", cfg.Images.Enabled)
	return nil
}

// requestHost returns --host, or the host of c's base URL
func requestHost(c *config.Config) string {
	if hostFlag != "" {
		return hostFlag
	}
	base := strings.TrimPrefix(strings.TrimPrefix(c.Site.BaseURL, "https://"), "http://")
	host, _, _ := strings.Cut(base, "/")
	return host
}

// newResolver builds a resolver for the current flags
func newResolver() (*cfimage.Resolver, error) {
	st := site.New(cfg.Site)

	var page *site.Page
	if pageFlag != "" {
		p, err := st.LoadPage(pageFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to load page: %w", err)
		}
		page = p
	}

	host := st.Host(cfimage.StaticConfig(cfg.Images), site.NewRequest(requestHost(cfg)), page)
	return cfimage.New(host, cfimage.WithLogger(logger)), nil
}

// parseOptions turns key=value arguments into options. Values that look
// like ints, floats or bools are typed; a sizes value with commas becomes
// a width list.
func parseOptions(args []string) (cfimage.Options, error) {
	opts := cfimage.Options{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("option %q is not key=value", arg)
		}
		if key == "sizes" {
			if widths, err := parseWidths(value); err == nil {
				opts[key] = widths
				continue
			}
		}
		opts[key] = parseValue(value)
	}
	return opts, nil
}

func parseValue(v string) any {
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if v == "true" || v == "false" {
		return v == "true"
	}
	return v
}

// parseWidths parses "640,768,1024"
func parseWidths(v string) ([]int, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	widths := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("invalid width %q", p)
		}
		widths = append(widths, w)
	}
	return widths, nil
}
