// Package tlsconfig builds the client TLS configuration used to fetch
// directory data from servers with private CAs or mutual TLS.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

type Files struct {
	RootCAs    []string
	ClientCert string
	ClientKey  string
	Insecure   bool
	RootMode   RootMode
}

// Empty reports whether Files asks for anything beyond the defaults.
func (f Files) Empty() bool {
	return len(f.RootCAs) == 0 && f.ClientCert == "" && f.ClientKey == "" && !f.Insecure
}

type RootMode string

const (
	RootModeReplace RootMode = "replace"
	RootModeAppend  RootMode = "append"
)

// ParseRootMode accepts replace or append. Empty means replace.
func ParseRootMode(s string) (RootMode, bool) {
	switch RootMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RootModeReplace:
		return RootModeReplace, true
	case RootModeAppend:
		return RootModeAppend, true
	default:
		return "", false
	}
}

// Build returns a tls.Config trusting RootCAs (alone or on top of the
// system pool) and presenting the client certificate when one is set.
// Relative paths resolve against baseDir.
func Build(cfg Files, baseDir string) (*tls.Config, error) {
	mode := cfg.RootMode
	if mode == "" {
		mode = RootModeReplace
	}

	tc := &tls.Config{InsecureSkipVerify: cfg.Insecure} // nolint:gosec

	if len(cfg.RootCAs) > 0 {
		pool, err := loadRootCAs(cfg.RootCAs, baseDir, mode == RootModeAppend)
		if err != nil {
			return nil, err
		}
		tc.RootCAs = pool
	}

	if cfg.ClientCert != "" || cfg.ClientKey != "" {
		if cfg.ClientCert == "" || cfg.ClientKey == "" {
			return nil, errdef.New(errdef.CodeConfig, "client certificate and key are both required")
		}
		cert, err := tls.LoadX509KeyPair(resolvePath(cfg.ClientCert, baseDir), resolvePath(cfg.ClientKey, baseDir))
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeConfig, err, "load client certificate")
		}
		tc.Certificates = []tls.Certificate{cert}
	}

	return tc, nil
}

func loadRootCAs(paths []string, baseDir string, mergeSystem bool) (*x509.CertPool, error) {
	var pool *x509.CertPool
	if mergeSystem {
		pool, _ = x509.SystemCertPool()
	}
	if pool == nil {
		pool = x509.NewCertPool()
	}

	for _, p := range paths {
		data, err := os.ReadFile(resolvePath(p, baseDir))
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeConfig, err, "read root ca %s", p)
		}
		if !pool.AppendCertsFromPEM(data) {
			return nil, errdef.New(errdef.CodeConfig, "no certificates found in %s", p)
		}
	}
	return pool, nil
}

func resolvePath(path, baseDir string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}
