package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ananth-NQI/loadboard-backend/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "tcp",
			cfg: config.DatabaseConfig{
				Host: "localhost", Port: 5432, User: "postgres", Password: "secret",
				Name: "loadboard", SSLMode: "disable",
			},
			want: "host=localhost user=postgres password=secret dbname=loadboard port=5432 sslmode=disable",
		},
		{
			name: "cloud sql socket",
			cfg: config.DatabaseConfig{
				Host: "ignored", Port: 5432, User: "app", Password: "pw", Name: "loadboard",
				InstanceConnectionName: "proj:region:instance",
			},
			want: "host=/cloudsql/proj:region:instance user=app password=pw dbname=loadboard sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSN(tt.cfg))
		})
	}
}
