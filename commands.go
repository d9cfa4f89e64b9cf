package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/erp-navstate/internal/app"
	"github.com/atomicstack/erp-navstate/internal/config"
	"github.com/atomicstack/erp-navstate/internal/format/table"
	"github.com/atomicstack/erp-navstate/internal/logging"
	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/navigation"
	"github.com/atomicstack/erp-navstate/internal/session"
	"github.com/atomicstack/erp-navstate/internal/state"
)

type cli struct {
	out io.Writer
	cfg config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	root := &cobra.Command{
		Use:   "navstate",
		Short: "Browse and edit ERP window navigation state kept in a URL",
		Long: `navstate keeps every open window, its active tabs, selected records and
form modes in a single URL query string, and rebuilds window state from it.

Without a subcommand the interactive browser is started.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.browse,
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetOut(out)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	})
	root.AddCommand(
		newBrowseCmd(c),
		newDecodeCmd(c),
		newOpenCmd(c),
		newSelectCmd(c),
		newClearCmd(c),
		newCloseCmd(c),
		newModeCmd(c),
		newActivateCmd(c),
		newHomeCmd(c),
		newTabsCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags(), nil)
	if err != nil {
		return err
	}
	cfg.Args = args
	c.cfg = cfg
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	traceStartup(cfg)
	events.App.Command(cmd.Name(), args)
	return nil
}

// withSession recovers the configured URL and hands the session to fn.
func (c *cli) withSession(fn func(*session.Session) error) (err error) {
	env, err := app.Bootstrap(c.cfg.App)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(env.Session)
}

// mutate runs op against the session and prints the resulting query.
func (c *cli) mutate(op func(*session.Session) error) error {
	return c.withSession(func(s *session.Session) error {
		if err := op(s); err != nil {
			return err
		}
		_, err := fmt.Fprintln(c.out, s.Query())
		return err
	})
}

func (c *cli) browse(cmd *cobra.Command, args []string) error {
	return app.Run(cmd.Context(), c.cfg.App)
}

func newBrowseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Start the interactive browser",
		Args:  cobra.NoArgs,
		RunE:  c.browse,
	}
}

func newDecodeCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "decode [QUERY]",
		Short: "Recover a URL and print the state of every window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				c.cfg.App.URL = args[0]
			}
			return c.withSession(func(s *session.Session) error {
				return writeWindows(c.out, s, output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func writeWindows(w io.Writer, sess *session.Session, output string) error {
	windows := sess.Store().Entries()
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(windows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(windows)
	case "table", "":
	default:
		return fmt.Errorf("%w: unknown output %q", config.ErrInvalid, output)
	}
	header := []string{"IDENTIFIER", "WINDOW", "ORDER", "ACTIVE", "RECOVERY", "TAB", "LEVEL", "SELECTED", "MODE", "FORM"}
	var rows [][]string
	for _, ws := range windows {
		base := []string{
			ws.WindowIdentifier,
			ws.WindowID,
			strconv.Itoa(ws.Order),
			activeMark(ws.IsActive),
			string(sess.Recovery().Status(ws.WindowIdentifier)),
		}
		tabIDs := sortedTabs(ws)
		if len(tabIDs) == 0 {
			rows = append(rows, append(base, "-", "", "", "", ""))
			continue
		}
		for _, tabID := range tabIDs {
			ts := ws.Tabs[tabID]
			label := tabID
			if ws.Navigation.ActiveTabsByLevel[ts.Level] == tabID {
				label += "*"
			}
			form := ""
			if ts.Form.Mode == state.ModeForm {
				form = ts.Form.RecordID + " " + string(ts.Form.SubMode)
			}
			row := append(append([]string(nil), base...), label, strconv.Itoa(ts.Level), ts.SelectedRecord, string(ts.Form.Mode), form)
			rows = append(rows, row)
		}
	}
	return table.Write(w, header, rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignRight})
}

func sortedTabs(ws state.WindowState) []string {
	ids := make([]string, 0, len(ws.Tabs))
	for id := range ws.Tabs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		li, lj := ws.Tabs[ids[i]].Level, ws.Tabs[ids[j]].Level
		if li != lj {
			return li < lj
		}
		return ids[i] < ids[j]
	})
	return ids
}

func activeMark(active bool) string {
	if active {
		return "yes"
	}
	return "no"
}

func newOpenCmd(c *cli) *cobra.Command {
	var (
		instance bool
		tab      string
		record   string
	)
	cmd := &cobra.Command{
		Use:   "open WINDOW",
		Short: "Open a window, reusing an open instance unless --new-instance is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(func(s *session.Session) error {
				var err error
				switch {
				case instance:
					_, err = s.OpenWindowInstance(args[0])
				case tab != "" || record != "":
					_, err = s.OpenWindowAndSelect(args[0], navigation.Selection{TabID: tab, RecordID: record})
				default:
					_, err = s.OpenWindow(args[0])
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&instance, "new-instance", false, "always open a new instance")
	cmd.Flags().StringVar(&tab, "tab", "", "tab to select a record in")
	cmd.Flags().StringVar(&record, "record", "", "record to select")
	cmd.MarkFlagsMutuallyExclusive("new-instance", "tab")
	cmd.MarkFlagsRequiredTogether("tab", "record")
	return cmd
}

func newSelectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "select IDENTIFIER TAB RECORD",
		Short: "Select a record in a tab, clearing every descendant tab",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(func(s *session.Session) error {
				return s.SelectRecordInTab(args[0], args[1], args[2])
			})
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	var below bool
	cmd := &cobra.Command{
		Use:   "clear IDENTIFIER TAB...",
		Short: "Remove selection and form state of the given tabs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(func(s *session.Session) error {
				tabs := args[1:]
				if below {
					var err error
					if tabs, err = descendants(s, args[0], tabs); err != nil {
						return err
					}
				}
				return s.ClearChildrenSelections(args[0], tabs)
			})
		},
	}
	cmd.Flags().BoolVar(&below, "children", false, "clear the descendants of the given tabs instead")
	return cmd
}

func descendants(s *session.Session, identifier string, tabs []string) ([]string, error) {
	ws, ok := s.WindowState(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s", navigation.ErrWindowNotFound, identifier)
	}
	meta, err := s.Catalog().Window(ws.WindowID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", navigation.ErrMetadataUnavailable, err)
	}
	var out []string
	for _, tab := range tabs {
		out = append(out, meta.Descendants(tab)...)
	}
	return out, nil
}

func newCloseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "close IDENTIFIER",
		Short: "Close a window instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(func(s *session.Session) error {
				return s.CloseWindow(args[0])
			})
		},
	}
}

func newModeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mode IDENTIFIER TAB table|form [RECORD]",
		Short: "Switch a tab between table and form",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := ""
			if len(args) == 4 {
				record = args[3]
			}
			return c.mutate(func(s *session.Session) error {
				return s.SetTabMode(args[0], args[1], state.TabMode(args[2]), record)
			})
		},
	}
}

func newActivateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "activate IDENTIFIER",
		Short: "Make an open window the visible one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(func(s *session.Session) error {
				return s.ActivateWindow(args[0])
			})
		},
	}
}

func newHomeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Deactivate every window without closing any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(func(s *session.Session) error {
				return s.GoHome()
			})
		},
	}
}

func newTabsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "Print the tab bar saved by the previous run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session.Session) error {
				tabs := s.RestoredTabs()
				if tabs == nil {
					tabs = s.ShellTabs()
				}
				var rows [][]string
				for _, tab := range tabs {
					rows = append(rows, []string{tab.Title, string(tab.Type), tab.WindowID, tab.RecordID, tab.URL})
				}
				return table.Write(c.out, []string{"TITLE", "TYPE", "WINDOW", "RECORD", "URL"}, rows, nil)
			})
		},
	}
}
