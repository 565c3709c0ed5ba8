package redis

import (
	"testing"

	"github.com/fastygo/todo/internal/config"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.RedisConfig
		wantAddr string
		wantDB   int
		wantPass string
	}{
		{name: "url", cfg: config.RedisConfig{URL: "redis://localhost:6379/2"}, wantAddr: "localhost:6379", wantDB: 2},
		{name: "bare address", cfg: config.RedisConfig{URL: "cache:6380"}, wantAddr: "cache:6380"},
		{name: "overrides", cfg: config.RedisConfig{URL: "redis://:old@localhost:6379/1", Password: "secret", DB: 4}, wantAddr: "localhost:6379", wantDB: 4, wantPass: "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := options(tt.cfg)
			if err != nil {
				t.Fatalf("options: %v", err)
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB || opts.Password != tt.wantPass {
				t.Errorf("got addr=%q db=%d pass=%q, want %q %d %q", opts.Addr, opts.DB, opts.Password, tt.wantAddr, tt.wantDB, tt.wantPass)
			}
		})
	}

	if _, err := options(config.RedisConfig{URL: "redis://[::1"}); err == nil {
		t.Error("options accepted a malformed URL")
	}
}
