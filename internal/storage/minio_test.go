package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskdesk/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MinIOConfig
		wantErr string
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, "minio endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, "minio credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.EqualError(t, err, tt.wantErr)
			assert.Nil(t, s)
		})
	}
}

func TestPublicURL(t *testing.T) {
	key := "attachments/task/t1/a1_scan.pdf"

	t.Run("public base url", func(t *testing.T) {
		m := &minioStorage{publicBase: publicBase(config.MinIOConfig{PublicBaseURL: "https://cdn.example.com/files/"})}
		assert.Equal(t, "https://cdn.example.com/files/"+key, m.PublicURL(key))
	})

	t.Run("leading slash on key", func(t *testing.T) {
		m := &minioStorage{publicBase: publicBase(config.MinIOConfig{PublicBaseURL: "https://cdn.example.com"})}
		assert.Equal(t, "https://cdn.example.com/"+key, m.PublicURL("/"+key))
	})

	t.Run("private bucket", func(t *testing.T) {
		m := &minioStorage{publicBase: publicBase(config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "files"})}
		assert.Equal(t, "", m.PublicURL(key))
	})
}
