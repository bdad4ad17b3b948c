package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/jorge-barreto/srcparam/internal/config"
	"github.com/jorge-barreto/srcparam/internal/docs"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/logging"
	"github.com/jorge-barreto/srcparam/internal/plan"
	"github.com/jorge-barreto/srcparam/internal/scaffold"
	"github.com/jorge-barreto/srcparam/internal/session"
	"github.com/jorge-barreto/srcparam/internal/state"
	"github.com/jorge-barreto/srcparam/internal/ux"
)

func main() {
	app := &cli.Command{
		Name:        "srcparam",
		Usage:       "Edit process parameters of robot motion programs",
		Description: "Run 'srcparam docs' for documentation on parameters, anchors, plans, and config.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output", Sources: cli.EnvVars("SRCPARAM_VERBOSE")},
		},
		Commands: []*cli.Command{
			initCmd(),
			openCmd(),
			statusCmd(),
			paramsCmd(),
			setCmd(),
			deleteCmd(),
			bindCmd(),
			unbindCmd(),
			undoCmd(),
			redoCmd(),
			previewCmd(),
			saveCmd(),
			applyCmd(),
			docsCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		stop()
		os.Exit(1)
	}
}

// workspace is the project directory plus everything loaded from it.
type workspace struct {
	root string
	dir  string
	cfg  *config.Config
	log  *zap.Logger
}

func loadWorkspace(cmd *cli.Command, root string) (*workspace, error) {
	dir := filepath.Join(root, state.DirName)
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logFile := cfg.Log.File
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(root, logFile)
	}
	log, err := logging.New(cfg.Log.Level, cmd.Bool("verbose"), logFile)
	if err != nil {
		return nil, err
	}
	return &workspace{root: root, dir: dir, cfg: cfg, log: log}, nil
}

// openWorkspace finds the project root and loads its config.
func openWorkspace(cmd *cli.Command) (*workspace, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	return loadWorkspace(cmd, root)
}

func (w *workspace) sessionOptions() []session.Option {
	return []session.Option{
		session.WithLimits(w.cfg.ParamLimits()),
		session.WithTrigger(w.cfg.Template()),
		session.WithLogger(w.log.With(zap.String("root", w.root))),
	}
}

// load restores the persisted session.
func (w *workspace) load() (*state.Document, *session.Session, error) {
	doc, err := state.Load(w.dir)
	if err != nil {
		return nil, nil, err
	}
	s, err := doc.Session(w.sessionOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	return doc, s, nil
}

// persist writes the session back.
func (w *workspace) persist(doc *state.Document, s *session.Session) error {
	doc.Capture(s)
	if err := doc.Save(w.dir); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (w *workspace) close() {
	_ = w.log.Sync()
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .srcparam/ directory with example config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func openCmd() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Start an editing session on a program file",
		ArgsUsage: "<file.src>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Discard the session already open for another file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			arg := cmd.Args().First()
			if arg == "" {
				return fmt.Errorf("file argument is required")
			}
			source, err := filepath.Abs(arg)
			if err != nil {
				return err
			}

			root, err := findProjectRoot()
			if err != nil {
				if root, err = os.Getwd(); err != nil {
					return err
				}
			}
			w, err := loadWorkspace(cmd, root)
			if err != nil {
				return err
			}
			defer w.close()

			if prev, err := state.Load(w.dir); err == nil {
				if prev.Source != source && !cmd.Bool("force") {
					return fmt.Errorf("a session is already open for %s (use --force to discard it)", prev.Source)
				}
			} else if !errors.Is(err, state.ErrNoSession) {
				return fmt.Errorf("loading session: %w", err)
			}

			text, err := state.ReadSource(source)
			if err != nil {
				return err
			}
			if err := state.EnsureDir(w.dir); err != nil {
				return err
			}
			doc := state.NewDocument(source, text)
			s := session.New(text, w.sessionOptions()...)
			if err := w.persist(doc, s); err != nil {
				return err
			}

			cat := s.Catalog()
			ux.Opened(source, s.Program().Len(), len(cat.Records), len(cat.Issues))
			w.log.Info("opened", zap.String("source", source), zap.String("session", doc.ID))
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the open session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer w.close()
			doc, s, err := w.load()
			if err != nil {
				return err
			}
			ux.RenderStatus(os.Stdout, ux.Status{
				Source:     doc.Source,
				SessionID:  doc.ID,
				Opened:     doc.Opened,
				History:    s.HistoryState(),
				Lines:      s.Program().Len(),
				Catalog:    s.Catalog(),
				Overlay:    s.Overlay(),
				Output:     state.OutputPath(doc.Source, w.cfg.OutputSuffix),
				LastOutput: doc.LastOutput,
			})
			return nil
		},
	}
}

func paramsCmd() *cli.Command {
	return &cli.Command{
		Name:  "params",
		Usage: "List the parameters of the open program",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer w.close()
			_, s, err := w.load()
			if err != nil {
				return err
			}
			ux.RenderCatalog(os.Stdout, s.Catalog(), s.Overlay())
			return nil
		},
	}
}

func previewCmd() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Print the program that save would write",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer w.close()
			_, s, err := w.load()
			if err != nil {
				return err
			}
			res := s.Render()
			for _, skipped := range res.Skipped {
				ux.Skipped(skipped)
			}
			fmt.Print(res.Text())
			return nil
		},
	}
}

func saveCmd() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Write the edited program and append to its change log",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (default <name>_modified.src next to the source)"},
			&cli.BoolFlag{Name: "force", Usage: "Allow overwriting the source file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer w.close()
			doc, s, err := w.load()
			if err != nil {
				return err
			}

			output := cmd.String("output")
			if output == "" {
				output = state.OutputPath(doc.Source, w.cfg.OutputSuffix)
			}
			if output, err = filepath.Abs(output); err != nil {
				return err
			}
			if output == doc.Source && !cmd.Bool("force") {
				return fmt.Errorf("refusing to overwrite the source file %s (use --force)", output)
			}

			res := s.Render()
			for _, skipped := range res.Skipped {
				ux.Skipped(skipped)
			}
			if err := state.WriteOutput(output, res.Text()); err != nil {
				return err
			}
			changelog := state.ChangelogPath(output, w.cfg.ChangelogSuffix)
			err = state.AppendChangelog(changelog, state.Entry{
				At:        time.Now(),
				SessionID: doc.ID,
				Source:    doc.Source,
				Output:    output,
				Records:   s.Catalog().Records,
				Overlay:   s.Overlay(),
			})
			if err != nil {
				return err
			}

			doc.LastOutput = output
			if err := w.persist(doc, s); err != nil {
				return err
			}
			ux.Saved(output, changelog)
			w.log.Info("saved", zap.String("output", output), zap.String("changelog", changelog), zap.Int("skipped", len(res.Skipped)))
			return nil
		},
	}
}

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply a YAML edit plan as one undo step",
		ArgsUsage: "<plan.yaml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("plan argument is required")
			}
			p, err := plan.Load(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("plan file %s not found", path)
				}
				return err
			}

			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer w.close()
			doc, s, err := w.load()
			if err != nil {
				return err
			}

			r := &plan.Runner{Plan: p, Session: s, Logger: w.log, OnStep: ux.StepDone}
			edits, err := r.Run(ctx)
			if err != nil {
				if editerr.NeedsConfirmation(err) {
					return fmt.Errorf("%w (add 'confirm: true' to the step)", err)
				}
				return err
			}
			if err := w.persist(doc, s); err != nil {
				return err
			}
			ux.PlanApplied(p.Name, len(edits))
			ux.SaveHint()
			return nil
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'srcparam docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

// findProjectRoot walks up from cwd looking for a .srcparam directory.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, state.DirName)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found (run 'srcparam open <file>' or 'srcparam init')", state.DirName)
		}
		dir = parent
	}
}
