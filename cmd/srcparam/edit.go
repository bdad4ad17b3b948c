package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/param"
	"github.com/jorge-barreto/srcparam/internal/session"
	"github.com/jorge-barreto/srcparam/internal/ux"
)

// editFunc performs one edit; confirmed accepts values above the soft limit.
type editFunc func(s *session.Session, confirmed bool) (session.Edit, error)

// runEdit loads the session, applies fn and persists the result. A soft-limit rejection
// is turned into a prompt unless --yes was given.
func runEdit(ctx context.Context, cmd *cli.Command, fn editFunc) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.close()
	doc, s, err := w.load()
	if err != nil {
		return err
	}

	confirmed := cmd.Bool("yes")
	e, err := fn(s, confirmed)
	if editerr.NeedsConfirmation(err) && !confirmed {
		ok, perr := ux.Confirm(ctx, os.Stdin, os.Stdout, err.Error()+". Continue?")
		if perr != nil {
			return perr
		}
		if !ok {
			return fmt.Errorf("edit cancelled: %w", err)
		}
		e, err = fn(s, true)
	}
	if err != nil {
		return err
	}

	if err := w.persist(doc, s); err != nil {
		return err
	}
	ux.Edited(e)
	ux.SaveHint()
	return nil
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Accept values above the confirmation threshold without asking"}
}

func anchorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{Name: "z", Usage: "Z-height anchor (first LIN line at this height)"},
		&cli.IntFlag{Name: "progress", Usage: "Progress anchor (line with PRINT_PROGRESS=<n>)"},
		&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "TOOL_RPM, $VEL.CP, LAYER_COOLING, or ACT_DRIVE", Required: true},
	}
}

func anchorFromFlags(cmd *cli.Command) (anchor.Anchor, error) {
	z, progress := cmd.IsSet("z"), cmd.IsSet("progress")
	switch {
	case z && progress:
		return anchor.Anchor{}, fmt.Errorf("--z and --progress are mutually exclusive")
	case z:
		return anchor.AtZ(cmd.Float("z")), nil
	case progress:
		return anchor.AtProgress(int(cmd.Int("progress"))), nil
	default:
		return anchor.Anchor{}, fmt.Errorf("one of --z or --progress is required")
	}
}

func setCmd() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Change the value of a parameter",
		ArgsUsage: "<key> <value>",
		Flags:     []cli.Flag{yesFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("key and value arguments are required (see 'srcparam params' for keys)")
			}
			key, value := cmd.Args().Get(0), cmd.Args().Get(1)
			return runEdit(ctx, cmd, func(s *session.Session, confirmed bool) (session.Edit, error) {
				return s.SetValue(key, value, confirmed)
			})
		},
	}
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove a parameter statement",
		ArgsUsage: "<key>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			key := cmd.Args().First()
			if key == "" {
				return fmt.Errorf("key argument is required (see 'srcparam params' for keys)")
			}
			return runEdit(ctx, cmd, func(s *session.Session, _ bool) (session.Edit, error) {
				return s.DeleteRecord(key)
			})
		},
	}
}

func bindCmd() *cli.Command {
	return &cli.Command{
		Name:  "bind",
		Usage: "Bind a parameter to a Z height or progress marker",
		Flags: append(anchorFlags(),
			&cli.StringFlag{Name: "value", Usage: "Value to bind", Required: true},
			yesFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := anchorFromFlags(cmd)
			if err != nil {
				return err
			}
			k, err := param.ParseKind(cmd.String("kind"))
			if err != nil {
				return err
			}
			value := cmd.String("value")
			return runEdit(ctx, cmd, func(s *session.Session, confirmed bool) (session.Edit, error) {
				return s.Bind(a, k, value, confirmed)
			})
		},
	}
}

func unbindCmd() *cli.Command {
	return &cli.Command{
		Name:  "unbind",
		Usage: "Remove a parameter bound to a Z height or progress marker",
		Flags: anchorFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := anchorFromFlags(cmd)
			if err != nil {
				return err
			}
			k, err := param.ParseKind(cmd.String("kind"))
			if err != nil {
				return err
			}
			return runEdit(ctx, cmd, func(s *session.Session, _ bool) (session.Edit, error) {
				return s.Unbind(a, k)
			})
		},
	}
}

func undoCmd() *cli.Command {
	return historyCmd("undo", "Revert the last edit", (*session.Session).Undo)
}

func redoCmd() *cli.Command {
	return historyCmd("redo", "Reapply the edit reverted by undo", (*session.Session).Redo)
}

func historyCmd(name, usage string, move func(*session.Session) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
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
			if err := move(s); err != nil {
				return err
			}
			if err := w.persist(doc, s); err != nil {
				return err
			}
			ux.HistoryMoved(name, s.HistoryState().String())
			return nil
		},
	}
}
