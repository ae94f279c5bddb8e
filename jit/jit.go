package jit

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/dianpeng/plan2cc/schema"
	"github.com/dianpeng/plan2cc/store"
)

// Config selects the external compiler driving a run.
type Config struct {
	Compiler string
	Flags    []string
	// WorkDir keeps the generated source and binary around for
	// inspection; a temp dir is used when empty.
	WorkDir string
}

func DefaultConfig() Config {
	return Config{
		Compiler: "c++",
		Flags:    []string{"-O2", "-std=c++20"},
	}
}

// Compile writes the full program and builds it, returning the path
// of the binary.
func (cfg Config) Compile(cat *schema.Catalog, fragment string) (string, error) {
	dir := cfg.WorkDir
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "plan2cc-*")
		if err != nil {
			return "", errors.Wrap(err, "create work dir")
		}
	}

	src := filepath.Join(dir, "query.cc")
	if err := os.WriteFile(src, []byte(Program(cat, fragment)), 0644); err != nil {
		return "", errors.Wrap(err, "write query source")
	}

	bin := filepath.Join(dir, "query")
	args := append(append([]string{}, cfg.Flags...), "-o", bin, src)
	cmd := exec.Command(cfg.Compiler, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "target compile failed:\n%s", stderr.String())
	}
	return bin, nil
}

// Run compiles the fragment and executes it against a data
// directory, returning the program's stdout. When the directory
// carries a manifest it is verified first, so a torn import fails
// before the query does.
func (cfg Config) Run(cat *schema.Catalog, fragment, dataDir string) (string, error) {
	if m, err := store.LoadManifest(dataDir); err == nil {
		if err := m.Verify(dataDir); err != nil {
			return "", err
		}
	}

	bin, err := cfg.Compile(cat, fragment)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, dataDir)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "query run failed:\n%s", stderr.String())
	}
	return stdout.String(), nil
}
