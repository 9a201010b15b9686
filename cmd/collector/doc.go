// Command collector asks for a comma-separated list of image URLs, downloads
// each one, rejects anything that is not an image or is over the size limit,
// and stores it unless an image with the same SHA-256 is already in the
// target.
//
// Configuration comes from the environment and optional .env files:
//
//	STORAGE_PROVIDER=filesystem STORAGE_PATH=Fetched_Images collector
//	STORAGE_PROVIDER=s3 S3_BUCKET=images S3_PREFIX=fetched/ collector
//
// Logs are JSON on stderr; the report is written to stdout.
package main
