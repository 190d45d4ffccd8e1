package postgres

import "testing"

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "shop", Pass: "secret", DB: "carts"}
	want := "host=db user=shop password=secret dbname=carts port=5433 sslmode=disable TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
