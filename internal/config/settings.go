package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v4"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/errdef"
	"github.com/unkn0wn-root/pickterm/internal/httpclient"
	"github.com/unkn0wn-root/pickterm/internal/search"
	"github.com/unkn0wn-root/pickterm/internal/tlsconfig"
)

// DefaultDataURL is the demo employee directory used when nothing else is
// configured.
const DefaultDataURL = "https://gist.githubusercontent.com/daviferreira/41238222ac31fe36348544ee1d4a9a5e/raw/5dc996407f6c9a6630bfcec56eee22d4bc54b518/employees.json"

type SettingsFormat string

const (
	SettingsFormatTOML SettingsFormat = "toml"
	SettingsFormatYAML SettingsFormat = "yaml"
)

// SettingsHandle records where settings were read from.
type SettingsHandle struct {
	Path   string
	Format SettingsFormat
	Found  bool
}

type Settings struct {
	Field  FieldSettings  `toml:"field" yaml:"field"`
	Schema SchemaSettings `toml:"schema" yaml:"schema"`
	HTTP   HTTPSettings   `toml:"http" yaml:"http"`
	Match  MatchSettings  `toml:"match" yaml:"match"`
	Log    LogSettings    `toml:"log" yaml:"log"`

	// baseDir is the directory of the file the settings came from.
	baseDir string
}

// FieldSettings is the caller facing surface of the input.
type FieldSettings struct {
	Title       string `toml:"title" yaml:"title"`
	Name        string `toml:"name" yaml:"name"`
	Placeholder string `toml:"placeholder" yaml:"placeholder"`
	DataURL     string `toml:"data_url" yaml:"data_url"`
}

type SchemaSettings struct {
	PrimaryType    string `toml:"primary_type" yaml:"primary_type"`
	SecondaryType  string `toml:"secondary_type" yaml:"secondary_type"`
	Link           string `toml:"link" yaml:"link"`
	EmailAttribute string `toml:"email_attribute" yaml:"email_attribute"`
}

type HTTPSettings struct {
	Timeout         string            `toml:"timeout" yaml:"timeout"`
	Insecure        bool              `toml:"insecure" yaml:"insecure"`
	Proxy           string            `toml:"proxy" yaml:"proxy"`
	FollowRedirects *bool             `toml:"follow_redirects" yaml:"follow_redirects"`
	Headers         map[string]string `toml:"headers" yaml:"headers"`
	UserAgent       string            `toml:"user_agent" yaml:"user_agent"`
	RootCAs         []string          `toml:"root_cas" yaml:"root_cas"`
	RootMode        string            `toml:"root_mode" yaml:"root_mode"`
	ClientCert      string            `toml:"client_cert" yaml:"client_cert"`
	ClientKey       string            `toml:"client_key" yaml:"client_key"`
}

type MatchSettings struct {
	Spaces string `toml:"spaces" yaml:"spaces"`
}

type LogSettings struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// DefaultSettings mirrors the demo field.
func DefaultSettings() Settings {
	return Settings{
		Field: FieldSettings{
			Title:       "Favorite Manager",
			Name:        "manager",
			Placeholder: "Choose Manager...",
			DataURL:     DefaultDataURL,
		},
		Schema: SchemaSettings{
			PrimaryType:    directory.DefaultPrimaryType,
			SecondaryType:  directory.DefaultSecondaryType,
			Link:           directory.DefaultLink,
			EmailAttribute: directory.DefaultEmailAttribute,
		},
		HTTP:  HTTPSettings{Timeout: "30s"},
		Match: MatchSettings{Spaces: search.SpaceAll.String()},
		Log:   LogSettings{Level: "info"},
	}
}

var settingsCandidates = []struct {
	name   string
	format SettingsFormat
}{
	{"settings.toml", SettingsFormatTOML},
	{"settings.yaml", SettingsFormatYAML},
	{"settings.yml", SettingsFormatYAML},
}

// LoadSettings reads settings from path, or from the first settings file
// found in Dir when path is empty. A missing file yields defaults. Values
// present in the file override DefaultSettings.
func LoadSettings(path string) (Settings, SettingsHandle, error) {
	settings := DefaultSettings()
	handle, err := resolveSettingsPath(path)
	if err != nil {
		return settings, handle, err
	}

	data, err := os.ReadFile(handle.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == "" {
			return settings, handle, nil
		}
		return settings, handle, errdef.Wrap(errdef.CodeConfig, err, "read settings")
	}
	handle.Found = true

	switch handle.Format {
	case SettingsFormatYAML:
		err = yaml.Unmarshal(data, &settings)
	default:
		err = toml.Unmarshal(data, &settings)
	}
	if err != nil {
		return DefaultSettings(), handle, errdef.Wrap(errdef.CodeConfig, err, "parse %s", handle.Path)
	}
	settings.baseDir = filepath.Dir(handle.Path)
	return settings, handle, nil
}

func resolveSettingsPath(path string) (SettingsHandle, error) {
	if path != "" {
		return SettingsHandle{Path: path, Format: formatFor(path)}, nil
	}
	dir := Dir()
	for _, c := range settingsCandidates {
		candidate := filepath.Join(dir, c.name)
		if _, err := os.Stat(candidate); err == nil {
			return SettingsHandle{Path: candidate, Format: c.format}, nil
		}
	}
	return SettingsHandle{Path: filepath.Join(dir, "settings.toml"), Format: SettingsFormatTOML}, nil
}

func formatFor(path string) SettingsFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SettingsFormatYAML
	default:
		return SettingsFormatTOML
	}
}

// ApplyEnv overlays PICKTERM_* environment variables.
func (s *Settings) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := strings.TrimSpace(getenv("PICKTERM_DATA_URL")); v != "" {
		s.Field.DataURL = v
	}
	if v := strings.TrimSpace(getenv("PICKTERM_LOG_LEVEL")); v != "" {
		s.Log.Level = v
	}
	if v := strings.TrimSpace(getenv("PICKTERM_INSECURE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.HTTP.Insecure = b
		}
	}
}

func (s Settings) DirectorySchema() directory.Schema {
	return directory.Schema{
		PrimaryType:    s.Schema.PrimaryType,
		SecondaryType:  s.Schema.SecondaryType,
		Link:           s.Schema.Link,
		EmailAttribute: s.Schema.EmailAttribute,
	}.WithDefaults()
}

func (s Settings) HTTPOptions() (httpclient.Options, error) {
	opts := httpclient.DefaultOptions()
	if raw := strings.TrimSpace(s.HTTP.Timeout); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return opts, errdef.Wrap(errdef.CodeConfig, err, "parse http timeout")
		}
		opts.Timeout = dur
	}
	if s.HTTP.FollowRedirects != nil {
		opts.FollowRedirects = *s.HTTP.FollowRedirects
	}
	opts.InsecureSkipVerify = s.HTTP.Insecure
	opts.ProxyURL = strings.TrimSpace(s.HTTP.Proxy)
	opts.UserAgent = s.HTTP.UserAgent
	mode, ok := tlsconfig.ParseRootMode(s.HTTP.RootMode)
	if !ok {
		return opts, errdef.New(errdef.CodeConfig, "unknown http.root_mode %q (want replace or append)", s.HTTP.RootMode)
	}
	opts.TLS = tlsconfig.Files{
		RootCAs:    s.HTTP.RootCAs,
		RootMode:   mode,
		ClientCert: strings.TrimSpace(s.HTTP.ClientCert),
		ClientKey:  strings.TrimSpace(s.HTTP.ClientKey),
	}
	opts.BaseDir = s.baseDir
	if len(s.HTTP.Headers) > 0 {
		opts.Headers = make(map[string]string, len(s.HTTP.Headers))
		for k, v := range s.HTTP.Headers {
			opts.Headers[k] = v
		}
	}
	return opts, nil
}

func (s Settings) SpaceMode() (search.SpaceMode, error) {
	mode, ok := search.ParseSpaceMode(s.Match.Spaces)
	if !ok {
		return mode, errdef.New(errdef.CodeConfig, "unknown match.spaces value %q (want all or first)", s.Match.Spaces)
	}
	return mode, nil
}
