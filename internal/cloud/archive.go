// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides the external-collaborator clients. This file is the
// GCS archiver for final deliverables. Local output scratch is transient by
// contract, so when an archive bucket is configured the final video is also
// copied to GCS and exposed through a V4 signed URL, signed via the IAM
// Credentials API so no key file lives on the host.
package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
)

// Archiver copies final videos to a GCS bucket and mints signed URLs.
type Archiver struct {
	StorageClient *storage.Client
	IAMClient     *credentials.IamCredentialsClient
	Bucket        string
	SignerEmail   string
}

// Store uploads the file at localPath under objectName and returns the
// gs:// URI.
func (a *Archiver) Store(ctx context.Context, localPath, objectName string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := a.StorageClient.Bucket(a.Bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("archiving %s: %w", localPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("archiving %s: %w", localPath, err)
	}
	return fmt.Sprintf("gs://%s/%s", a.Bucket, objectName), nil
}

// CanSign reports whether the archiver has the IAM signer it needs to mint
// signed URLs. Without one, archived objects are addressed by gs:// URI only.
func (a *Archiver) CanSign() bool {
	return a.IAMClient != nil && a.SignerEmail != ""
}

// SignedURL mints a time-limited GET URL for an archived object.
func (a *Archiver) SignedURL(objectName string, expires time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        time.Now().Add(expires),
		GoogleAccessID: a.SignerEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			resp, err := a.IAMClient.SignBlob(context.Background(), &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", a.SignerEmail),
				Payload: b,
			})
			if err != nil {
				return nil, fmt.Errorf("IAMClient.SignBlob: %w", err)
			}
			return resp.SignedBlob, nil
		},
	}
	return a.StorageClient.Bucket(a.Bucket).SignedURL(objectName, opts)
}
