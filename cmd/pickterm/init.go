package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/config"
	"github.com/unkn0wn-root/pickterm/internal/initcmd"
)

func handleInitSubcommand(args []string) (bool, error) {
	if len(args) == 0 || args[0] != "init" {
		return false, nil
	}
	return true, runInit(args[1:], os.Stdout)
}

func runInit(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: pickterm init [flags] [dir]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.SetOutput(os.Stderr)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Templates:")
		_ = initcmd.Run(initcmd.Opt{List: true, Out: os.Stderr})
	}

	var (
		dir   string
		tpl   string
		force bool
		dry   bool
		list  bool
	)

	defaultDir := config.Dir()
	fs.StringVar(&dir, "dir", defaultDir, "Target directory")
	fs.StringVar(&tpl, "template", initcmd.DefaultTemplate, "Template to use")
	fs.BoolVar(&force, "force", false, "Overwrite existing files")
	fs.BoolVar(&dry, "dry-run", false, "Print actions without writing files")
	fs.BoolVar(&list, "list", false, "List available templates")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("init: %w", err)
	}

	if list {
		return initcmd.Run(initcmd.Opt{List: true, Out: stdout})
	}

	extra := fs.Args()
	if len(extra) > 0 {
		if dir == defaultDir && len(extra) == 1 {
			dir = extra[0]
		} else {
			return fmt.Errorf("init: unexpected args: %s", strings.Join(extra, " "))
		}
	}

	return initcmd.Run(initcmd.Opt{
		Dir:      dir,
		Template: tpl,
		Force:    force,
		DryRun:   dry,
		Out:      stdout,
	})
}
