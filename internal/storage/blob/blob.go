// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package blob abstracts durable binary storage for user-uploaded content.

Avatars are the only blobs Averio stores today. The [Store] contract keeps
the profile service independent of the concrete backend; the shipped
implementation targets any S3-compatible service (AWS S3, MinIO).

Architecture:

  - Store: Put/Delete/PublicURL contract.
  - S3Store: aws-sdk-go-v2 implementation with optional endpoint override
    and static credentials for self-hosted object storage.
*/
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store is the binary storage contract used by the profile service.
type Store interface {
	// Put uploads the object under key, replacing any previous content.
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL returns the URL clients use to fetch the object.
	PublicURL(key string) string
}

// # S3 Implementation

// S3Config carries the settings needed to reach an S3-compatible backend.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Optional override for MinIO / localstack
	AccessKey string
	SecretKey string
}

// S3Store implements [Store] against an S3-compatible service.
type S3Store struct {
	client *s3.Client
	config S3Config
}

// NewS3Store builds the SDK client and returns a ready [S3Store].
func NewS3Store(ctx context.Context, storeConfig S3Config) (*S3Store, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(storeConfig.Region),
	}

	// Static credentials for self-hosted backends; the default chain
	// (env, instance profile) applies when none are configured.
	if storeConfig.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(storeConfig.AccessKey, storeConfig.SecretKey, ""),
		))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("blob_s3_config_failed: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(options *s3.Options) {
		if storeConfig.Endpoint != "" {
			options.BaseEndpoint = aws.String(storeConfig.Endpoint)
			// Path-style addressing is required by MinIO.
			options.UsePathStyle = true
		}
	})

	return &S3Store{client: client, config: storeConfig}, nil
}

// Put implements [Store].
func (store *S3Store) Put(ctx context.Context, key string, contentType string, body io.Reader) error {
	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.config.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("blob_s3_put_failed: %w", err)
	}

	return nil
}

// Delete implements [Store].
func (store *S3Store) Delete(ctx context.Context, key string) error {
	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blob_s3_delete_failed: %w", err)
	}

	return nil
}

// PublicURL implements [Store].
func (store *S3Store) PublicURL(key string) string {
	if store.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(store.config.Endpoint, "/"), store.config.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", store.config.Bucket, store.config.Region, key)
}
