// Package mirror copies fetched manifest files into object storage.
//
// After a verified fetch, Push uploads each local file to a bucket under a
// key prefix, stamping the source URL, the expected digest, and the run ID
// into blob metadata. Check verifies that every manifest file exists in
// the bucket with a size matching the local copy, without downloading
// object data.
//
// Buckets are addressed by gocloud URL (file://, mem://, s3://, gs://) and
// opened by the caller.
package mirror
