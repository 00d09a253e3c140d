package mainconfig

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/DavidJ001/patient-request-form/internal/config"
)

func TestLoadAWSConfigEndpointOverride(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:           "eu-west-1",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "test",
		AWSEndpointOverride: "http://localhost:4566",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg.Region != "eu-west-1" {
		t.Fatalf("expected region eu-west-1, got %s", awsCfg.Region)
	}
	if awsCfg.EndpointResolverWithOptions == nil {
		t.Fatalf("expected endpoint resolver")
	}

	for _, service := range []string{sesv2.ServiceID, s3.ServiceID} {
		endpoint, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint(service, "eu-west-1")
		if err != nil {
			t.Fatalf("resolve %s: %v", service, err)
		}
		if endpoint.URL != "http://localhost:4566" {
			t.Fatalf("expected override url for %s, got %s", service, endpoint.URL)
		}
	}

	if _, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint("SQS", "eu-west-1"); err == nil {
		t.Fatalf("expected other services to use default resolution")
	} else if _, ok := err.(*aws.EndpointNotFoundError); !ok {
		t.Fatalf("expected EndpointNotFoundError, got %T", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "test" {
		t.Fatalf("expected static credentials, got %s", creds.AccessKeyID)
	}
}
