package scene

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/scene/internal/errors"
)

const tracerName = "scene/loader"

// ObjectGetter is the part of the S3 client used to fetch documents.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the S3 client built by NewS3Client.
type S3Config struct {
	Region   string
	Endpoint string

	// UsePathStyle addresses buckets as endpoint/bucket, as S3 compatible
	// stores such as MinIO expect.
	UsePathStyle bool

	// AccessKeyID and SecretAccessKey are static credentials. When empty,
	// requests are sent anonymously.
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		key, secret := cfg.AccessKeyID, cfg.SecretAccessKey
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{AccessKeyID: key, SecretAccessKey: secret, Source: "scene.json"}, nil
			},
		))
	}
	return s3.New(opts)
}

// Loader fetches documents from local files or s3://bucket/key URIs.
type Loader struct {
	// S3 fetches s3:// documents. Nil disables them.
	S3 ObjectGetter

	tracer trace.Tracer
}

// NewLoader returns a loader using client for s3:// URIs.
func NewLoader(client ObjectGetter) *Loader {
	return &Loader{S3: client, tracer: otel.Tracer(tracerName)}
}

// Fetch reads the raw document at location.
func (l *Loader) Fetch(ctx context.Context, location string) ([]byte, error) {
	if bucket, key, ok := parseS3(location); ok {
		return l.fetchS3(ctx, bucket, key)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, unavailable(location, err)
	}
	return data, nil
}

func (l *Loader) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	location := "s3://" + bucket + "/" + key
	if l.S3 == nil {
		return nil, errors.New("E107").
			WithDetailf("%s: no S3 client configured", location).
			WithSuggestion("set the s3 section in scene.json")
	}
	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, unavailable(location, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, unavailable(location, err)
	}
	return data, nil
}

// Load fetches, parses and compiles the scene at location.
func (l *Loader) Load(ctx context.Context, location string, opts ...Option) (*Scene, error) {
	tracer := l.tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "scene.load",
		trace.WithAttributes(attribute.String("scene.source", location)),
	)
	defer span.End()

	s, err := l.load(ctx, location, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("scene.name", s.Name()),
		attribute.Int("scene.items", s.Definition().Slots()),
	)
	span.SetStatus(codes.Ok, "")
	return s, nil
}

func (l *Loader) load(ctx context.Context, location string, opts []Option) (*Scene, error) {
	data, err := l.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, location)
	if err != nil {
		return nil, err
	}
	return Compile(doc, opts...)
}

func parseS3(location string) (bucket, key string, ok bool) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", false
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func unavailable(location string, err error) error {
	return errors.New("E107").WithDetail(fmt.Sprintf("%s: %v", location, err)).Wrap(err)
}
