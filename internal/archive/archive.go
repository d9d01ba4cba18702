package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	// Dir is the flat-file directory for report JSON. Empty disables
	// archiving entirely.
	Dir string `mapstructure:"dir"`

	// Optional S3 mirror of archived reports.
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3AccessKey       string `mapstructure:"s3_access_key"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
	S3BucketName      string `mapstructure:"s3_bucket_name"`
}

// Archiver writes report JSON to a flat-file directory for historical
// record-keeping and mirrors it to S3 when configured.
type Archiver struct {
	c  *Config
	mc *minio.Client
}

func New(c *Config) (*Archiver, error) {
	a := &Archiver{c: c}
	if c.S3Endpoint != "" {
		mc, err := minio.New(c.S3Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.S3AccessKey, c.S3SecretAccessKey, ""),
			Secure: true,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot init s3 client: %w", err)
		}
		a.mc = mc
	}
	return a, nil
}

// Enabled reports whether archiving is configured at all.
func (a *Archiver) Enabled() bool {
	return a.c.Dir != ""
}

// Store writes the report under <dir>/<kind>/ and returns the file path.
// The uuid suffix keeps reruns of the same day from overwriting each other.
func (a *Archiver) Store(ctx context.Context, kind, channel string, day time.Time, report any) (string, error) {
	if !a.Enabled() {
		return "", nil
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot marshal %s report: %w", kind, err)
	}

	name := fmt.Sprintf("%s-%s-%s.json", channel, day.UTC().Format("2006-01-02"), uuid.NewString()[:8])
	dir := filepath.Join(a.c.Dir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create archive dir %q: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("cannot write report file %q: %w", path, err)
	}

	if a.mc != nil {
		object := filepath.ToSlash(filepath.Join(kind, name))
		_, err := a.mc.PutObject(ctx, a.c.S3BucketName, object,
			bytes.NewReader(payload), int64(len(payload)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			// The local copy exists; the mirror is best effort.
			slog.Default().Error("cannot mirror report to s3",
				slog.String("object", object),
				slog.String("err", err.Error()))
		}
	}

	return path, nil
}
