package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/gui"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/imagecache"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/packs"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/report"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/watch"
)

func newGUICmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, env)
		},
	}
}

func runGUI(cmd *cobra.Command, env *environment) error {
	svc, err := env.newService()
	if err != nil {
		return err
	}

	rateLimit, _ := env.cfg.GetImageRateLimit()
	timeout, _ := env.cfg.GetImageTimeout()
	images, err := imagecache.New(imagecache.Options{
		Capacity:  env.cfg.Images.CacheSize,
		RateLimit: rateLimit,
		Timeout:   timeout,
		Logger:    env.logger,
	})
	if err != nil {
		return err
	}

	var watcher *watch.Watcher
	if env.cfg.Catalog.Watch {
		watcher, err = watch.New(env.cfg.Catalog.Path, watch.Options{Logger: env.logger})
		if err != nil {
			env.logger.Warn("catalog watch disabled", "error", err)
			watcher = nil
		}
	}

	app, err := gui.NewApp(gui.Options{
		Service: svc,
		Images:  images,
		Watcher: watcher,
		ArtURL:  env.cfg.Packs.ArtURL,
		Logger:  env.logger,
	})
	if err != nil {
		return err
	}
	app.Run()
	return nil
}

func newListCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards and owned quantities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := env.startService(cmd.Context())
			if err != nil {
				return err
			}

			seriesArg, _ := cmd.Flags().GetString("series")
			onlyMissing, _ := cmd.Flags().GetBool("missing")
			series, err := resolveSeries(svc, seriesArg)
			if err != nil {
				return err
			}

			cards, err := svc.Query(series, onlyMissing)
			if err != nil {
				return err
			}
			return writeCards(cmd.OutOrStdout(), cards)
		},
	}
	cmd.Flags().String("series", "", "series name or code (default all series)")
	cmd.Flags().Bool("missing", false, "only cards with no copies")
	return cmd
}

func writeCards(w io.Writer, cards []*collection.Card) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRARITY\tOWNED\tSERIES")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, c.Name, c.Rarity, c.Owned(), c.SeriesName)
	}
	return tw.Flush()
}

func newSeriesCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "List the packs that can be opened",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := env.startService(cmd.Context())
			if err != nil {
				return err
			}

			var infos []collection.PackInfo
			_ = svc.View(func(m *collection.Model) { infos = m.Packs() })

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tTITLE\tSERIES")
			for _, p := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Code, p.Title, p.SeriesName)
			}
			return tw.Flush()
		},
	}
}

func newOpenCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <code>",
		Short: "Open packs and add the cards to the collection",
		Example: `  pack-simulator open OP-05
  pack-simulator open OP-01 --count 3
  pack-simulator open ST-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			svc, err := env.startService(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				session, err := svc.OpenPack(args[0])
				if err != nil {
					return err
				}

				pack := session.Pack()
				fmt.Fprintf(out, "%s pack %d (%s, %d cards)\n", pack.Code, i+1, pack.Kind, len(pack.Cards))
				for session.State() == packs.StateRandomReveal && session.Remaining() > 0 {
					if _, _, err := session.Next(); err != nil {
						return err
					}
				}
				for _, c := range pack.Cards {
					fmt.Fprintf(out, "  %s\n", c)
				}
				if err := session.Resolve(cmd.Context()); err != nil {
					return err
				}
			}

			return svc.Save(cmd.Context())
		},
	}
	cmd.Flags().IntP("count", "n", 1, "number of packs to open")
	return cmd
}

func newResetCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <series>",
		Short: "Set owned quantities in one series back to zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := env.startService(cmd.Context())
			if err != nil {
				return err
			}

			series, err := resolveSeries(svc, args[0])
			if err != nil {
				return err
			}
			if series == collection.AllSeries {
				return collection.ErrResetAll
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Reset all owned cards in %s? [y/N] ", series))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
					return nil
				}
			}

			if noBackup, _ := cmd.Flags().GetBool("no-backup"); !noBackup {
				path, err := env.backup(cmd.Context())
				if err != nil {
					return err
				}
				if path != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Backed up progress to %s\n", path)
				}
			}

			n, err := svc.ResetSeries(series)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d cards in %s.\n", n, series)
			return svc.Save(cmd.Context())
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().Bool("no-backup", false, "do not back up progress before resetting")
	return cmd
}

func newBackupCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy saved progress into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := env.backup(cmd.Context())
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved progress to back up.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func newReportCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show completion per series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := env.startService(cmd.Context())
			if err != nil {
				return err
			}

			var stats []collection.SeriesStats
			_ = svc.View(func(m *collection.Model) { stats = m.Completion() })

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return report.WriteCompletionTable(cmd.OutOrStdout(), stats)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			if err := report.WriteCompletionChart(f, stats); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)

			if open, _ := cmd.Flags().GetBool("open"); open {
				return report.OpenInBrowser(out)
			}
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "write an HTML chart to this file instead of printing a table")
	cmd.Flags().Bool("open", false, "open the chart in a browser after writing it")
	return cmd
}

func newConfigCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := toml.Marshal(env.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", env.cfg.Path(), data)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(env.cfg.Path()); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", env.cfg.Path())
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := env.cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", env.cfg.Path())
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
