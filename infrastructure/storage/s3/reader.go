// Package s3 reads bulk load input from S3.
package s3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of the S3 API the reader uses
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ObjectReader fetches serialized entities for the bulk loader
type ObjectReader struct {
	client API
}

// NewObjectReader creates a reader over an S3 client
func NewObjectReader(client API) *ObjectReader {
	return &ObjectReader{client: client}
}

// ReadObjects decodes s3://bucket/key as a stream of JSON objects, one per line
func (r *ObjectReader) ReadObjects(ctx context.Context, bucket, key string) ([]map[string]interface{}, error) {
	resp, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object s3://%s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()

	objects, err := DecodeObjects(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode s3://%s/%s: %w", bucket, key, err)
	}
	return objects, nil
}

// DecodeObjects reads concatenated JSON objects until EOF
func DecodeObjects(r io.Reader) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(r)
	var objects []map[string]interface{}
	for {
		var obj map[string]interface{}
		err := dec.Decode(&obj)
		if errors.Is(err, io.EOF) {
			return objects, nil
		}
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", len(objects), err)
		}
		objects = append(objects, obj)
	}
}
