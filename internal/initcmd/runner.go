package initcmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

type runner struct {
	fs FS
	o  Opt
	t  template
}

func (r *runner) run() error {
	if err := r.ensureDir(); err != nil {
		return err
	}
	ops, err := r.plan()
	if err != nil {
		return err
	}
	return r.apply(ops)
}

func (r *runner) ensureDir() error {
	d := r.o.Dir
	info, err := r.fs.Stat(d)
	if err == nil {
		if !info.IsDir() {
			return errdef.New(errdef.CodeConfig, "init: %s is not a directory", d)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return errdef.Wrap(errdef.CodeConfig, err, "init: stat %s", d)
	}
	if r.o.DryRun {
		return nil
	}
	if err := r.fs.MkdirAll(d, dirPerm); err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "init: create %s", d)
	}
	return nil
}

func (r *runner) plan() ([]op, error) {
	var ops []op
	var conflicts []string

	for _, f := range r.t.Files {
		abs, err := safeJoin(r.o.Dir, f.Path)
		if err != nil {
			return nil, err
		}
		info, err := r.fs.Stat(abs)
		switch {
		case err == nil && info.IsDir():
			conflicts = append(conflicts, f.Path+" (dir)")
			continue
		case err == nil && !r.o.Force:
			conflicts = append(conflicts, f.Path)
			continue
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, errdef.Wrap(errdef.CodeConfig, err, "init: stat %s", f.Path)
		}

		act := ActionCreate
		if err == nil {
			act = ActionOverwrite
		}
		ops = append(ops, op{Action: act, Path: f.Path, Abs: abs, Mode: f.Mode, Data: f.Data})
	}

	if len(conflicts) > 0 {
		return nil, errdef.New(errdef.CodeConfig,
			"init: files already exist: %s (use -force to overwrite)", strings.Join(conflicts, ", "))
	}
	return ops, nil
}

func (r *runner) apply(ops []op) error {
	for _, op := range ops {
		if !r.o.DryRun {
			if err := r.writeAtomic(op.Abs, op.Mode, op.Data); err != nil {
				return errdef.Wrap(errdef.CodeConfig, err, "init: write %s", op.Path)
			}
		}
		if err := r.report(string(op.Action), op.Path); err != nil {
			return err
		}
	}
	return nil
}

// writeAtomic writes through a temp file in the target directory.
func (r *runner) writeAtomic(p string, m fs.FileMode, data string) (err error) {
	f, err := r.fs.CreateTemp(filepath.Dir(p), ".pickterm-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = f.Close()
		if err != nil {
			_ = r.fs.Remove(tmp)
		}
	}()
	if err = f.Chmod(m); err != nil {
		return err
	}
	if _, err = io.WriteString(f, data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if !r.o.Force {
		if _, statErr := r.fs.Stat(p); statErr == nil {
			return fs.ErrExist
		}
	}
	if err = r.fs.Rename(tmp, p); err == nil || !r.o.Force {
		return err
	}
	if err = r.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return r.fs.Rename(tmp, p)
}

func (r *runner) report(act, path string) error {
	if r.o.Out == nil {
		return nil
	}
	prefix := ""
	if r.o.DryRun {
		prefix = "dry-run: "
	}
	if _, err := fmt.Fprintf(r.o.Out, "%s%s %s\n", prefix, act, filepath.Join(r.o.Dir, path)); err != nil {
		return errdef.Wrap(errdef.CodeUnknown, err, "init: report %s", path)
	}
	return nil
}
