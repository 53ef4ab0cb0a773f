//go:build integration

package s3store_test

import (
	"context"
	"os"
	"testing"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/s3store"
	"github.com/lionel1704/sn-node/pkg/chunkstore/storetest"
	"github.com/stretchr/testify/require"
)

// Run against a local S3-compatible endpoint (Localstack, MinIO) pointed to
// by LOCALSTACK_ENDPOINT; skipped otherwise since this backend has no
// in-process fake.
func TestConformance(t *testing.T) {
	endpoint := os.Getenv("LOCALSTACK_ENDPOINT")
	if endpoint == "" {
		t.Skip("set LOCALSTACK_ENDPOINT to run s3store conformance tests")
	}

	bucket := "vault-chunkstore-test"
	ctx := context.Background()

	setup, err := s3store.NewFromConfig(ctx, s3store.Config{
		Bucket:         bucket,
		Endpoint:       endpoint,
		Region:         "us-east-1",
		ForcePathStyle: true,
	})
	require.NoError(t, err)
	_ = setup

	storetest.RunConformanceSuite(t, func(t *testing.T) chunkstore.Backend {
		s, err := s3store.NewFromConfig(ctx, s3store.Config{
			Bucket:         bucket,
			Endpoint:       endpoint,
			Region:         "us-east-1",
			KeyPrefix:      t.Name() + "/",
			ForcePathStyle: true,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.DeleteByPrefix(ctx, "") })
		return s
	})
}
