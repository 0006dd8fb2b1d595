package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	body string
	err  error
	key  string
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.key = aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestReadObjects(t *testing.T) {
	client := &fakeS3{body: `{"object_type_name":"ProductTeam","id":"a"}
{"object_type_name":"Product","id":"P.XXX-YYY"}

`}
	objects, err := NewObjectReader(client).ReadObjects(context.Background(), "etl", "load/1.jsonl")
	require.NoError(t, err)

	assert.Equal(t, "etl/load/1.jsonl", client.key)
	require.Len(t, objects, 2)
	assert.Equal(t, "ProductTeam", objects[0]["object_type_name"])
	assert.Equal(t, "P.XXX-YYY", objects[1]["id"])
}

func TestReadObjectsErrors(t *testing.T) {
	t.Run("get object", func(t *testing.T) {
		_, err := NewObjectReader(&fakeS3{err: errors.New("access denied")}).ReadObjects(context.Background(), "etl", "k")
		assert.ErrorContains(t, err, "s3://etl/k")
	})

	t.Run("malformed line", func(t *testing.T) {
		_, err := NewObjectReader(&fakeS3{body: "{\"id\":1}\n{not json"}).ReadObjects(context.Background(), "etl", "k")
		assert.ErrorContains(t, err, "object 1")
	})
}
