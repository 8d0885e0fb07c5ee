// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/source"
)

func init() {
	source.Providers.Register("s3", func(ctx context.Context, params map[string]string) (source.Source, error) {
		return New(ctx, Options{
			Bucket:   params["bucket"],
			Region:   params["region"],
			Prefix:   params["prefix"],
			Endpoint: params["endpoint"],
		})
	})
}

// compile-time check
var _ source.Source = (*Source)(nil)

// maxConcurrency bounds the HeadObject calls issued by List.
const maxConcurrency = 10

// Options configures the S3 source.
type Options struct {
	Bucket   string // required
	Region   string // e.g. "us-east-1"
	Prefix   string // key prefix, e.g. "inbox/"
	Endpoint string // custom endpoint for MinIO compatibility
}

// Source lists the objects under a key prefix. Document IDs are the object
// keys with the prefix removed.
type Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3-backed source.
func New(ctx context.Context, opts Options) (*Source, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 source: bucket is required")
	}

	optFns := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	return &Source{
		client: s3.NewFromConfig(cfg, s3Opts...),
		bucket: opts.Bucket,
		prefix: opts.Prefix,
	}, nil
}

// Client returns the underlying S3 client.
func (s *Source) Client() *s3.Client {
	return s.client
}

// List pages through the objects under the prefix and fetches each
// object's content type with HeadObject.
func (s *Source) List(ctx context.Context) ([]*source.Document, error) {
	var docs []*source.Document

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			id := strings.TrimPrefix(key, s.prefix)
			if id == "" || strings.HasSuffix(key, "/") {
				continue
			}
			docs = append(docs, &source.Document{
				ID:      id,
				Name:    path.Base(id),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			return s.describe(gctx, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// describe sets the document's media type from the object's declared
// content type, falling back to its leading bytes.
func (s *Source) describe(ctx context.Context, doc *source.Document) error {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + doc.ID),
	})
	if err != nil {
		return fmt.Errorf("head object %s: %w", doc.ID, err)
	}
	declared := aws.ToString(head.ContentType)
	_, declaredOK := source.Declared(declared)
	if _, byName := mediatype.ByName(doc.Name); declaredOK || byName {
		doc.MimeType, doc.Charset = source.DetectMimeType(declared, doc.Name, nil)
		return nil
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + doc.ID),
		Range:  aws.String(fmt.Sprintf("bytes=0-%d", mediatype.SniffLen-1)),
	})
	if err != nil {
		return fmt.Errorf("get object %s: %w", doc.ID, err)
	}
	defer out.Body.Close()
	sniffed, err := source.Sniff(out.Body)
	if err != nil {
		return fmt.Errorf("read object %s: %w", doc.ID, err)
	}
	doc.MimeType, doc.Charset = source.DetectMimeType(declared, doc.Name, sniffed)
	return nil
}

// Open streams the object's content.
func (s *Source) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + id),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("document %s: %w", id, source.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}

// Close is a no-op for the S3 source.
func (s *Source) Close(_ context.Context) error {
	return nil
}

// isNotFound checks whether the error indicates a missing S3 object.
func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if ok := errors.As(err, &nsk); ok {
		return true
	}
	// Some S3-compatible services return a generic "NotFound" status.
	return strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "NotFound")
}
