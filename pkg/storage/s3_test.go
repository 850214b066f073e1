package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"asciiray/pkg/config"
)

type putCall struct {
	bucket      string
	key         string
	contentType string
	body        []byte
	hasDeadline bool
}

// fakeS3 records PutObject calls; any other S3 method panics
type fakeS3 struct {
	s3iface.S3API
	calls []putCall
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	_, hasDeadline := ctx.Deadline()

	f.calls = append(f.calls, putCall{
		bucket:      aws.StringValue(input.Bucket),
		key:         aws.StringValue(input.Key),
		contentType: aws.StringValue(input.ContentType),
		body:        body,
		hasDeadline: hasDeadline,
	})
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUploader_Key(t *testing.T) {
	tests := []struct {
		prefix   string
		expected string
	}{
		{"frames", "frames/abc.txt"},
		{"frames/", "frames/abc.txt"},
		{"a/b", "a/b/abc.txt"},
		{"", "abc.txt"},
	}

	for _, tt := range tests {
		u := NewUploaderWithClient(&fakeS3{}, "bucket", tt.prefix)
		if got := u.Key("abc", ".txt"); got != tt.expected {
			t.Errorf("prefix %q: expected %q, got %q", tt.prefix, tt.expected, got)
		}
	}
}

func TestUploader_UploadFrame(t *testing.T) {
	client := &fakeS3{}
	u := NewUploaderWithClient(client, "renders", "frames")

	keys, err := u.UploadFrame(context.Background(), Frame{
		ID:   "f1",
		Text: []byte(" .:\n"),
		PNG:  []byte{0x89, 'P', 'N', 'G'},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(keys) != 2 || keys[0] != "frames/f1.txt" || keys[1] != "frames/f1.png" {
		t.Fatalf("Unexpected keys %v", keys)
	}
	if len(client.calls) != 2 {
		t.Fatalf("Expected 2 uploads, got %d", len(client.calls))
	}

	text := client.calls[0]
	if text.bucket != "renders" || text.contentType != ContentTypeText || string(text.body) != " .:\n" {
		t.Errorf("Unexpected text upload %+v", text)
	}
	if !text.hasDeadline {
		t.Error("Upload context has no deadline")
	}
	if client.calls[1].contentType != ContentTypePNG {
		t.Errorf("Unexpected PNG content type %q", client.calls[1].contentType)
	}
}

func TestUploader_TextOnly(t *testing.T) {
	client := &fakeS3{}
	u := NewUploaderWithClient(client, "renders", "")

	keys, err := u.UploadFrame(context.Background(), Frame{ID: "f2", Text: []byte("@\n")})
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "f2.txt" || len(client.calls) != 1 {
		t.Errorf("Expected a single text upload, got keys %v", keys)
	}
}

func TestUploader_Error(t *testing.T) {
	errDenied := errors.New("access denied")
	u := NewUploaderWithClient(&fakeS3{err: errDenied}, "renders", "frames")

	keys, err := u.UploadFrame(context.Background(), Frame{ID: "f3", Text: []byte("x\n"), PNG: []byte{1}})
	if !errors.Is(err, errDenied) {
		t.Errorf("Expected wrapped access error, got %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Expected no keys after the first failure, got %v", keys)
	}
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	if _, err := NewUploader(config.S3Config{Region: "us-east-1"}); err == nil {
		t.Error("Expected error without bucket")
	}
}

func TestNewUploader_Static(t *testing.T) {
	u, err := NewUploader(config.S3Config{
		Bucket:         "renders",
		Region:         "us-east-1",
		Endpoint:       "http://localhost:9000",
		AccessKey:      "minio",
		SecretKey:      "minio123",
		Prefix:         "frames",
		ForcePathStyle: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := u.Key("id", ".png"); got != "frames/id.png" {
		t.Errorf("Unexpected key %q", got)
	}
}
