package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cfimages/config"
	"cfimages/preview"
	"cfimages/watcher"
)

var (
	watchFlag    bool
	addrFlag     string
	templateFlag string
)

var renderCmd = &cobra.Command{
	Use:   "render TEMPLATE",
	Short: "Render a Go html/template file with the cf_* image functions",
	Long: `Render a Go html/template file to stdout. The template's dot is
{Page, Host, UseCDN}; Page is nil unless --page is given.

With --watch the template is rendered again every time the config file
changes, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := renderTemplate(cfg, args[0])
		if err != nil {
			return err
		}
		cmd.OutOrStdout().Write(out)

		if !watchFlag {
			return nil
		}

		store := config.NewStore(cfg)
		w, err := watcher.NewWatcher(cfgFile, store, logger)
		if err != nil {
			return err
		}
		defer w.Stop()
		if err := w.Start(); err != nil {
			return err
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		for {
			select {
			case event, ok := <-w.Events():
				if !ok {
					return nil
				}
				if event.Type != watcher.EventReloaded {
					continue
				}
				out, err := renderTemplate(store.Current(), args[0])
				if err != nil {
					logger.Error("render failed", "error", err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), "<!-- config reloaded -->")
				cmd.OutOrStdout().Write(out)
			case <-sigChan:
				return nil
			}
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve page bundles rendered through a template",
	Long: `Serve GET /{page} by rendering --template for that page bundle. The
request's Host header decides CDN routing, so the same page can be checked
as localhost and as a production host. The config file is hot-reloaded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if templateFlag == "" {
			return fmt.Errorf("--template is required")
		}

		store := config.NewStore(cfg)
		if _, err := os.Stat(cfgFile); err == nil {
			w, err := watcher.NewWatcher(cfgFile, store, logger)
			if err != nil {
				return err
			}
			defer w.Stop()
			if err := w.Start(); err != nil {
				return err
			}
			go func() {
				for event := range w.Events() {
					logger.Info("config event", "type", event.Type, "path", event.Path)
				}
			}()
		}

		return preview.NewServer(store, templateFlag, logger).ListenAndServe(addrFlag)
	},
}

// renderTemplate renders tmplPath against c, routing for the host of c's
// base URL unless --host is set
func renderTemplate(c *config.Config, tmplPath string) ([]byte, error) {
	return preview.Render(c, tmplPath, requestHost(c), pageFlag, logger)
}

func init() {
	renderCmd.Flags().BoolVar(&watchFlag, "watch", false, "re-render when the config file changes")
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":1313", "listen address")
	serveCmd.Flags().StringVar(&templateFlag, "template", "", "page template file")

	rootCmd.AddCommand(renderCmd, serveCmd)
}
