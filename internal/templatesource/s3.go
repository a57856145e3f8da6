package templatesource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// readS3 fetches a template from s3://bucket/key?region=...&access_key_id=...&secret_access_key=...&session_token=...
// Credentials are optional: when absent the default AWS credential chain
// is used, grounded in the same fallback as the bucket-transfer activity
// this package's scheme dispatch replaces.
func readS3(u *url.URL) ([]byte, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("templatesource: s3 uri requires bucket and key: %s", u.String())
	}

	q := u.Query()
	region := q.Get("region")
	if region == "" {
		return nil, fmt.Errorf("templatesource: s3 uri missing \"region\" query param")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(region))

	accessKey := q.Get("access_key_id")
	secretKey := q.Get("secret_access_key")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, q.Get("session_token")),
		))
	}

	ctx := context.Background()
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("templatesource: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("templatesource: get s3 object %s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("templatesource: read s3 object %s/%s: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}
