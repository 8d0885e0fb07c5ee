// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package s3_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/leseb/solrcell/pkg/source"
	srcs3 "github.com/leseb/solrcell/pkg/source/s3"
	"github.com/leseb/solrcell/pkg/source/sourcetest"
)

func TestS3Conformance(t *testing.T) {
	bucket := os.Getenv("SOURCE_S3_BUCKET")
	endpoint := os.Getenv("SOURCE_S3_ENDPOINT")
	if bucket == "" || endpoint == "" {
		t.Skip("Skipping S3 conformance tests: SOURCE_S3_BUCKET and SOURCE_S3_ENDPOINT must be set (e.g. with MinIO)")
	}

	region := os.Getenv("SOURCE_S3_REGION")
	if region == "" {
		region = "us-east-1"
	}

	sourcetest.RunConformanceTests(t, func(t *testing.T, docs map[string][]byte) source.Source {
		ctx := context.Background()
		// unique prefix per sub-test so runs don't collide
		prefix := fmt.Sprintf("test-%d/", time.Now().UnixNano())
		src, err := srcs3.New(ctx, srcs3.Options{
			Bucket:   bucket,
			Region:   region,
			Prefix:   prefix,
			Endpoint: endpoint,
		})
		if err != nil {
			t.Fatalf("s3.New: %v", err)
		}
		for id, content := range docs {
			_, err := src.Client().PutObject(ctx, &s3.PutObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(prefix + id),
				Body:   bytes.NewReader(content),
			})
			if err != nil {
				t.Fatalf("put %s: %v", id, err)
			}
		}
		return src
	})
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := srcs3.New(context.Background(), srcs3.Options{}); err == nil {
		t.Error("expected error for missing bucket")
	}
}
