package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the configuration is usable for the given mode.
// Modes: "run" (a full sync run), "serve" (webhook server), "rules"
// (rule inspection only). All problems are reported at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "run", "serve":
		check(c.Dodge.APIKey != "", "dodge.api_key is required")
		check(c.Rules.Path != "", "rules.path is required")
		check(c.Store.Driver == "sqlite" || c.Store.Driver == "postgres",
			"store.driver must be sqlite or postgres")
		check(c.Store.DatabaseURL != "", "store.database_url is required")
		check(c.Dodge.DaysBack > 0, "dodge.days_back must be > 0")
		check(c.Dodge.MaxPages > 0, "dodge.max_pages must be > 0")
		if c.FTP.Enabled {
			check(c.FTP.Addr != "", "ftp.addr is required when ftp is enabled")
			check(c.FTP.User != "", "ftp.user is required when ftp is enabled")
		}
		if c.Salesforce.Enabled {
			check(c.Salesforce.ClientID != "", "salesforce.client_id is required when salesforce is enabled")
			check(c.Salesforce.Username != "", "salesforce.username is required when salesforce is enabled")
			check(c.Salesforce.KeyPath != "", "salesforce.key_path is required when salesforce is enabled")
		}
		if c.Notion.Enabled {
			check(c.Notion.Token != "", "notion.token is required when notion is enabled")
			check(c.Notion.AuditDB != "", "notion.audit_db is required when notion is enabled")
		}
		if mode == "serve" {
			check(c.Server.Port > 0, "server.port must be > 0")
		}
	case "rules":
		check(c.Rules.Path != "", "rules.path is required")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
