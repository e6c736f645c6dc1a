package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// DocumentStorage persists uploaded KYC documents and returns a public URL.
type DocumentStorage interface {
	Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// GCSStorage stores documents in a Cloud Storage bucket under
// kyc/<userID>/<random>_<filename>.
type GCSStorage struct {
	bucket string
	client *storage.Client
}

func GCSStorageFromEnv(ctx context.Context) (*GCSStorage, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is not set")
	}
	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSStorage{bucket: bucket, client: client}, nil
}

func (g *GCSStorage) Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	object := path.Join("kyc", userID, uuid.NewString()+"_"+filename)
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object), nil
}
