package storage

import (
	"context"
	"testing"

	"github.com/devgjhbj-wq/admin-nexus/internal/config"
)

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	res, err := FromConfig(ctx, config.StorageConfig{Driver: "", LocalDir: t.TempDir()}, nil)
	if err != nil || res.Driver != "local" {
		t.Fatalf("expected local default, got %q (%v)", res.Driver, err)
	}

	res, err = FromConfig(ctx, config.StorageConfig{Driver: "memory"}, nil)
	if err != nil || res.Driver != "memory" {
		t.Fatalf("expected memory, got %q (%v)", res.Driver, err)
	}

	cases := []config.StorageConfig{
		{Driver: "mysql"},
		{Driver: "redis"},
		{Driver: "s3", S3Bucket: "b"},
		{Driver: "tape"},
	}
	for _, c := range cases {
		if _, err := FromConfig(ctx, c, nil); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}
