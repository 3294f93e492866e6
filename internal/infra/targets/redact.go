package targets

import (
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/mmrzaf/seeder/internal/domain"
)

const mask = "****"

// secret query and keyword parameters, per target kind
var secretParams = map[string][]string{
	domain.TargetKindPostgres: {"password", "sslpassword"},
	domain.TargetKindSQLite:   {"_auth_pass", "_auth_salt"},
}

// RedactTarget returns a copy of t whose DSN is safe to print or journal.
func RedactTarget(t *domain.TargetConfig) *domain.TargetConfig {
	if t == nil {
		return nil
	}
	cp := *t
	cp.DSN, _ = redact(cp.Kind, cp.DSN)
	return &cp
}

// Scrub removes every credential of t from text, such as a driver error that
// echoes the connection string.
func Scrub(t *domain.TargetConfig, text string) string {
	if t == nil || text == "" {
		return text
	}
	_, secrets := redact(t.Kind, t.DSN)
	// longest first so a secret containing another is masked whole
	sort.Slice(secrets, func(i, j int) bool { return len(secrets[i]) > len(secrets[j]) })
	for _, s := range secrets {
		text = strings.ReplaceAll(text, s, mask)
	}
	return text
}

// redact returns the masked DSN and the secret values it hid.
func redact(kind, dsn string) (string, []string) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", nil
	}
	switch kind {
	case domain.TargetKindSQLite:
		return redactSQLite(dsn)
	case domain.TargetKindPostgres:
		if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
			return redactURL(u, secretParams[kind])
		}
		return redactKeywords(dsn, secretParams[kind])
	default:
		return mask, []string{dsn}
	}
}

// SQLite DSNs are a file path, optionally with go-sqlite3 query options.
// The path is kept; only auth options are masked.
func redactSQLite(dsn string) (string, []string) {
	path, rawQuery, ok := strings.Cut(dsn, "?")
	if !ok {
		return dsn, nil
	}
	query, secrets := maskQuery(rawQuery, secretParams[domain.TargetKindSQLite])
	return path + "?" + query, secrets
}

func redactURL(u *url.URL, params []string) (string, []string) {
	var secrets []string
	if u.User != nil {
		if pass, ok := u.User.Password(); ok && pass != "" {
			secrets = append(secrets, pass)
			if _, esc, _ := strings.Cut(u.User.String(), ":"); esc != pass {
				secrets = append(secrets, esc)
			}
			u.User = url.UserPassword(u.User.Username(), mask)
		}
	}
	query, found := maskQuery(u.RawQuery, params)
	u.RawQuery = query
	// url escapes '*' in userinfo
	out := strings.Replace(u.String(), ":"+url.QueryEscape(mask)+"@", ":"+mask+"@", 1)
	return out, append(secrets, found...)
}

// maskQuery masks params in a raw query string, keeping the order and
// encoding of everything else.
func maskQuery(rawQuery string, params []string) (string, []string) {
	if rawQuery == "" {
		return "", nil
	}
	var secrets []string
	parts := strings.Split(rawQuery, "&")
	for i, part := range parts {
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || !slices.Contains(params, strings.ToLower(key)) {
			continue
		}
		if rawValue != "" {
			secrets = append(secrets, rawValue)
			if v, err := url.QueryUnescape(rawValue); err == nil && v != rawValue {
				secrets = append(secrets, v)
			}
		}
		parts[i] = rawKey + "=" + mask
	}
	return strings.Join(parts, "&"), secrets
}

// redactKeywords handles the lib/pq key=value form, where values may be
// single-quoted and contain spaces.
func redactKeywords(dsn string, params []string) (string, []string) {
	pairs := splitKeywords(dsn)
	var secrets []string
	for i, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, p := range params {
			if strings.EqualFold(strings.TrimSpace(key), p) {
				if v := strings.Trim(value, "'"); v != "" {
					secrets = append(secrets, v)
				}
				pairs[i] = key + "=" + mask
			}
		}
	}
	return strings.Join(pairs, " "), secrets
}

func splitKeywords(dsn string) []string {
	var (
		out    []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(dsn); i++ {
		c := dsn[i]
		switch {
		case c == '\\' && quoted && i+1 < len(dsn):
			cur.WriteByte(c)
			i++
			cur.WriteByte(dsn[i])
		case c == '\'':
			quoted = !quoted
			cur.WriteByte(c)
		case c == ' ' && !quoted:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
