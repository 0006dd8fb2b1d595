package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubReader struct {
	keys []string
}

func (s *stubReader) ReadObjects(_ context.Context, bucket, key string) ([]map[string]interface{}, error) {
	s.keys = append(s.keys, bucket+"/"+key)
	return []map[string]interface{}{{"object_type_name": "ProductTeam"}}, nil
}

type stubWriter struct {
	written int
	err     error
}

func (s *stubWriter) Write(_ context.Context, objects []map[string]interface{}) error {
	s.written += len(objects)
	return s.err
}

func s3Event(keys ...string) events.S3Event {
	var event events.S3Event
	for _, key := range keys {
		var record events.S3EventRecord
		record.S3.Bucket.Name = "etl"
		record.S3.Object.Key = key
		event.Records = append(event.Records, record)
	}
	return event
}

func TestLoaderHandle(t *testing.T) {
	reader := &stubReader{}
	writer := &stubWriter{}
	l := &loader{reader: reader, bulk: writer, logger: zaptest.NewLogger(t)}

	require.NoError(t, l.Handle(context.Background(), s3Event("load/first+batch.jsonl", "load/second.jsonl")))
	assert.Equal(t, []string{"etl/load/first batch.jsonl", "etl/load/second.jsonl"}, reader.keys)
	assert.Equal(t, 2, writer.written)
}

func TestLoaderHandleStopsOnFailure(t *testing.T) {
	reader := &stubReader{}
	l := &loader{reader: reader, bulk: &stubWriter{err: errors.New("bulk failed")}, logger: zaptest.NewLogger(t)}

	err := l.Handle(context.Background(), s3Event("a.jsonl", "b.jsonl"))
	assert.ErrorContains(t, err, "bulk failed")
	assert.Len(t, reader.keys, 1)
}

func TestLoaderHandleIgnoresOtherBuckets(t *testing.T) {
	reader := &stubReader{}
	writer := &stubWriter{}
	l := &loader{bucket: "other", reader: reader, bulk: writer, logger: zaptest.NewLogger(t)}

	require.NoError(t, l.Handle(context.Background(), s3Event("a.jsonl")))
	assert.Empty(t, reader.keys)
	assert.Zero(t, writer.written)
}
