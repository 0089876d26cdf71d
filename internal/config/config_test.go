package config

import "testing"

func validConfig() *Config {
	cfg := Load()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing rpc url",
			mutate:  func(c *Config) { c.RPCServerURL = "" },
			wantErr: true,
		},
		{
			name:    "pool address without 0x prefix",
			mutate:  func(c *Config) { c.PoolAddress = "3d0d600385af49e9db119eb76b4327592c91f277" },
			wantErr: true,
		},
		{
			name:    "pool address wrong length",
			mutate:  func(c *Config) { c.PoolAddress = "0x1234" },
			wantErr: true,
		},
		{
			name:    "relay address without r prefix",
			mutate:  func(c *Config) { c.RelayAddress = "NrjhKGZk2jBR3wPfAQnoidtFFYQKbQn2" },
			wantErr: true,
		},
		{
			name:    "empty destination chain",
			mutate:  func(c *Config) { c.DestinationChain = "" },
			wantErr: true,
		},
		{
			name:    "non-numeric fee",
			mutate:  func(c *Config) { c.GasFeeDrops = "0.3" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.APIPort = 70000 },
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.PollInterval = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
