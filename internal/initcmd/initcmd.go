// Package initcmd writes starter settings files.
package initcmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

const DefaultTemplate = "toml"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Opt describes one init run. Fields map directly onto flags.
type Opt struct {
	Dir      string
	Template string
	Force    bool
	DryRun   bool
	List     bool
	Out      io.Writer
}

type Action string

const (
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
)

type fileSpec struct {
	Path string
	Data string
	Mode fs.FileMode
}

type template struct {
	Name        string
	Description string
	Files       []fileSpec
}

type op struct {
	Action Action
	Path   string
	Abs    string
	Mode   fs.FileMode
	Data   string
}

// Command runs init with injectable dependencies.
type Command struct {
	fs  FS
	out io.Writer
}

func New() *Command {
	return &Command{fs: OSFS{}, out: os.Stdout}
}

func Run(o Opt) error {
	return New().Run(o)
}

func (c *Command) Run(o Opt) error {
	o = withDefaults(o)
	if o.Out == nil {
		o.Out = c.out
	}
	if o.List {
		return listTemplates(o.Out)
	}
	if o.Dir == "" {
		return errdef.New(errdef.CodeConfig, "init: no target directory")
	}

	tpl, ok := findTemplate(o.Template)
	if !ok {
		return unknownTemplateErr(o.Template)
	}
	r := runner{fs: c.fs, o: o, t: tpl}
	return r.run()
}

func withDefaults(o Opt) Opt {
	o.Dir = strings.TrimSpace(o.Dir)
	o.Template = strings.ToLower(strings.TrimSpace(o.Template))
	if o.Template == "" {
		o.Template = DefaultTemplate
	}
	return o
}

func listTemplates(w io.Writer) error {
	width := 0
	for _, t := range templates {
		if len(t.Name) > width {
			width = len(t.Name)
		}
	}
	for _, t := range templates {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, t.Name, t.Description); err != nil {
			return errdef.Wrap(errdef.CodeUnknown, err, "init: list templates")
		}
	}
	return nil
}

func unknownTemplateErr(name string) error {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return errdef.New(errdef.CodeConfig, "init: unknown template %q (available: %s)", name, strings.Join(names, ", "))
}
