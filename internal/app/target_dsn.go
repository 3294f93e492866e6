package app

import (
	"net/url"
	"strings"

	"github.com/mmrzaf/seeder/internal/domain"
)

// targetForRun returns a copy of base pointed at database when one is given.
// Only PostgreSQL DSNs carry a database name; SQLite targets keep their file.
func targetForRun(base *domain.TargetConfig, database string) *domain.TargetConfig {
	if base == nil {
		return nil
	}
	cfg := *base
	if database != "" {
		cfg.Database = database
	}
	if cfg.Kind == domain.TargetKindPostgres && cfg.Database != "" {
		cfg.DSN = postgresDSNForDatabase(cfg.DSN, cfg.Database)
	}
	return &cfg
}

// postgresDSNForDatabase handles both the URL form and the keyword/value form
// accepted by lib/pq.
func postgresDSNForDatabase(dsn, database string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return ""
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		u.Path = "/" + database
		u.RawPath = ""
		return u.String()
	}

	pairs := strings.Fields(dsn)
	replaced := false
	for i, kv := range pairs {
		key, _, _ := strings.Cut(kv, "=")
		if strings.EqualFold(key, "dbname") {
			pairs[i] = "dbname=" + database
			replaced = true
		}
	}
	if !replaced {
		pairs = append(pairs, "dbname="+database)
	}
	return strings.Join(pairs, " ")
}
