package s3

import (
	"context"
	"errors"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// ErrNoSuchKey is returned when the object does not exist.
var ErrNoSuchKey = errors.New("no such key")

// ObjectStore is the part of a bucket the media handlers use.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, key string, r io.Reader, contentType string) error
}

type Bucket struct {
	bucket *oss.Bucket
}

// BuildBucket connects to the bucket at endpoint, e.g. http://oss-cn-hangzhou.aliyuncs.com
func BuildBucket(endpoint, accessKey, secretKey, bucketName string) (*Bucket, error) {
	cli, err := oss.New(endpoint, accessKey, secretKey, oss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}
	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	return &Bucket{bucket: bucket}, nil
}

func (b *Bucket) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	sp := startSpan(ctx, "get-object", key)
	r, err := b.bucket.GetObject(key)
	finishSpan(sp, err)
	var serviceErr oss.ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Code == "NoSuchKey" {
		return nil, ErrNoSuchKey
	}
	return r, err
}

func (b *Bucket) PutObject(ctx context.Context, key string, r io.Reader, contentType string) error {
	sp := startSpan(ctx, "put-object", key)
	err := b.bucket.PutObject(key, r, oss.ContentType(contentType))
	finishSpan(sp, err)
	return err
}

// startSpan opens a child span when ctx carries one.
func startSpan(ctx context.Context, operation, key string) opentracing.Span {
	if ctx == nil {
		return nil
	}
	parentSpan := opentracing.SpanFromContext(ctx)
	if parentSpan == nil {
		return nil
	}
	sp := parentSpan.Tracer().StartSpan(operation, opentracing.ChildOf(parentSpan.Context()))
	sp.SetTag("object-key", key)
	return sp
}

func finishSpan(sp opentracing.Span, err error) {
	if sp == nil {
		return
	}
	ext.Error.Set(sp, err != nil)
	sp.Finish()
}
