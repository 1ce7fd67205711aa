package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"coachdash/config"
)

func TestPostgresURLEscapesCredentials(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "db.internal",
		Port:     "5433",
		Username: "coach",
		Password: "p@ss/word?#",
		DBName:   "coachdash",
		SSLMode:  "disable",
	}

	pc, err := pgxpool.ParseConfig(PostgresURL(cfg))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	cc := pc.ConnConfig
	if cc.Password != cfg.Password || cc.User != "coach" || cc.Host != "db.internal" || cc.Port != 5433 {
		t.Errorf("conn config = %s@%s:%d password %q", cc.User, cc.Host, cc.Port, cc.Password)
	}
	if cc.Database != "coachdash" {
		t.Errorf("database = %q", cc.Database)
	}
	if got := cc.RuntimeParams["application_name"]; got != applicationName {
		t.Errorf("application_name = %q", got)
	}
}
