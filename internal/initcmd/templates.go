package initcmd

import (
	"fmt"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/config"
)

var templates = []template{
	{
		Name:        "toml",
		Description: "settings.toml with every option and its default",
		Files: []fileSpec{
			{Path: "settings.toml", Data: settingsTOML(config.DefaultSettings()), Mode: filePerm},
		},
	},
	{
		Name:        "yaml",
		Description: "settings.yaml with every option and its default",
		Files: []fileSpec{
			{Path: "settings.yaml", Data: settingsYAML(config.DefaultSettings()), Mode: filePerm},
		},
	},
}

func findTemplate(name string) (template, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return template{}, false
}

func settingsTOML(s config.Settings) string {
	var b strings.Builder
	b.WriteString("# pickterm settings. Flags and PICKTERM_* variables override these.\n\n")
	b.WriteString("[field]\n")
	fmt.Fprintf(&b, "title = %q\n", s.Field.Title)
	fmt.Fprintf(&b, "name = %q\n", s.Field.Name)
	fmt.Fprintf(&b, "placeholder = %q\n", s.Field.Placeholder)
	fmt.Fprintf(&b, "data_url = %q\n\n", s.Field.DataURL)
	b.WriteString("# JSON:API resource types and the relationship joining them.\n")
	b.WriteString("[schema]\n")
	fmt.Fprintf(&b, "primary_type = %q\n", s.Schema.PrimaryType)
	fmt.Fprintf(&b, "secondary_type = %q\n", s.Schema.SecondaryType)
	fmt.Fprintf(&b, "link = %q\n", s.Schema.Link)
	fmt.Fprintf(&b, "email_attribute = %q\n\n", s.Schema.EmailAttribute)
	b.WriteString("[http]\n")
	fmt.Fprintf(&b, "timeout = %q\n", s.HTTP.Timeout)
	b.WriteString("insecure = false\n")
	b.WriteString("# proxy = \"http://127.0.0.1:8080\"\n")
	b.WriteString("# follow_redirects = true\n")
	b.WriteString("# user_agent = \"pickterm\"\n")
	b.WriteString("# Certificate paths are relative to this file.\n")
	b.WriteString("# root_cas = [\"ca.pem\"]\n")
	b.WriteString("# root_mode = \"replace\"\n")
	b.WriteString("# client_cert = \"client.pem\"\n")
	b.WriteString("# client_key = \"client.key\"\n\n")
	b.WriteString("# [http.headers]\n")
	b.WriteString("# Authorization = \"Bearer ...\"\n\n")
	b.WriteString("# all: spaces are ignored in names and queries. first: legacy matching.\n")
	b.WriteString("[match]\n")
	fmt.Fprintf(&b, "spaces = %q\n\n", s.Match.Spaces)
	b.WriteString("[log]\n")
	fmt.Fprintf(&b, "level = %q\n", s.Log.Level)
	b.WriteString("# file = \"/tmp/pickterm.log\"\n")
	return b.String()
}

func settingsYAML(s config.Settings) string {
	var b strings.Builder
	b.WriteString("# pickterm settings. Flags and PICKTERM_* variables override these.\n\n")
	b.WriteString("field:\n")
	fmt.Fprintf(&b, "  title: %q\n", s.Field.Title)
	fmt.Fprintf(&b, "  name: %q\n", s.Field.Name)
	fmt.Fprintf(&b, "  placeholder: %q\n", s.Field.Placeholder)
	fmt.Fprintf(&b, "  data_url: %q\n\n", s.Field.DataURL)
	b.WriteString("# JSON:API resource types and the relationship joining them.\n")
	b.WriteString("schema:\n")
	fmt.Fprintf(&b, "  primary_type: %q\n", s.Schema.PrimaryType)
	fmt.Fprintf(&b, "  secondary_type: %q\n", s.Schema.SecondaryType)
	fmt.Fprintf(&b, "  link: %q\n", s.Schema.Link)
	fmt.Fprintf(&b, "  email_attribute: %q\n\n", s.Schema.EmailAttribute)
	b.WriteString("http:\n")
	fmt.Fprintf(&b, "  timeout: %q\n", s.HTTP.Timeout)
	b.WriteString("  insecure: false\n")
	b.WriteString("  # proxy: \"http://127.0.0.1:8080\"\n")
	b.WriteString("  # follow_redirects: true\n")
	b.WriteString("  # root_cas: [\"ca.pem\"]\n")
	b.WriteString("  # client_cert: \"client.pem\"\n")
	b.WriteString("  # client_key: \"client.key\"\n")
	b.WriteString("  # headers:\n")
	b.WriteString("  #   Authorization: \"Bearer ...\"\n\n")
	b.WriteString("# all: spaces are ignored in names and queries. first: legacy matching.\n")
	b.WriteString("match:\n")
	fmt.Fprintf(&b, "  spaces: %q\n\n", s.Match.Spaces)
	b.WriteString("log:\n")
	fmt.Fprintf(&b, "  level: %q\n", s.Log.Level)
	return b.String()
}
