package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "shh")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "articles", cfg.MediaFolder)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"https://modion.vercel.app", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing jwt secret",
			env:  map[string]string{"JWT_SECRET": ""},
		},
		{
			name: "cloudinary without credentials",
			env:  map[string]string{"JWT_SECRET": "s", "MEDIA_DRIVER": "cloudinary"},
		},
		{
			name: "s3 without bucket",
			env:  map[string]string{"JWT_SECRET": "s", "MEDIA_DRIVER": "s3"},
		},
		{
			name: "unknown db driver",
			env:  map[string]string{"JWT_SECRET": "s", "MEDIA_DRIVER": "s3", "S3_BUCKET": "b", "DB_DRIVER": "oracle"},
		},
		{
			name: "production without resend key",
			env:  map[string]string{"JWT_SECRET": "s", "MEDIA_DRIVER": "s3", "S3_BUCKET": "b", "APP_ENV": "production"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
