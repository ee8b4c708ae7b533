package cmd

import "time"

// Config carries everything the composition root needs to wire the service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	VoyageServiceURL string
	CertificateDir   string
	AttachmentDir    string

	AfipEndpointTesting    string
	AfipEndpointProduction string
	GdsfEndpointTesting    string
	GdsfEndpointProduction string

	CallTimeout      time.Duration
	StalenessWindow  time.Duration
	BatchConcurrency int
}
