package config

import "testing"

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggingConfig
		wantErr bool
	}{
		{name: "defaults", cfg: LoggingConfig{}},
		{name: "debug json", cfg: LoggingConfig{Level: "debug", Format: "json"}},
		{name: "warn console", cfg: LoggingConfig{Level: "warn", Format: "console"}},
		{name: "invalid level", cfg: LoggingConfig{Level: "banana"}, wantErr: true},
		{name: "invalid format", cfg: LoggingConfig{Level: "info", Format: "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLogger err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestNewLogger_LevelApplied(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug enabled at warn level")
	}
	if !logger.Core().Enabled(1) {
		t.Error("warn disabled at warn level")
	}
}
