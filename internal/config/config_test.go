package config

import "testing"

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "minimal valid",
			env: map[string]string{
				"NEO4J_URI": "neo4j://localhost:7687",
			},
			wantErr: false,
		},
		{
			name: "missing uri",
			env: map[string]string{
				"NEO4J_URI": "",
			},
			wantErr: true,
		},
		{
			name: "zero token chunk size",
			env: map[string]string{
				"NEO4J_URI":        "neo4j://localhost:7687",
				"TOKEN_CHUNK_SIZE": "0",
			},
			wantErr: true,
		},
		{
			name: "overlap not smaller than chunk size",
			env: map[string]string{
				"NEO4J_URI":        "neo4j://localhost:7687",
				"TOKEN_CHUNK_SIZE": "50",
				"CHUNK_OVERLAP":    "50",
			},
			wantErr: true,
		},
		{
			name: "negative max token chunk size",
			env: map[string]string{
				"NEO4J_URI":            "neo4j://localhost:7687",
				"MAX_TOKEN_CHUNK_SIZE": "-1",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Chunking.MaxTokenChunkSize != 100000 {
				t.Fatalf("default MaxTokenChunkSize = %d, want 100000", cfg.Chunking.MaxTokenChunkSize)
			}
			if cfg.Neo4j.Database != "neo4j" {
				t.Fatalf("default database = %q, want neo4j", cfg.Neo4j.Database)
			}
		})
	}
}
