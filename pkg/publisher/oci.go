// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package publisher

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/zbx-archive/pkg/defaults"
	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

// ArtifactType is the media type of archive snapshot artifacts.
const ArtifactType = "application/vnd.nvidia.zbxarchive.snapshot.v1"

var layerMediaTypes = map[string]string{
	".json":    "application/json",
	".csv":     "text/csv",
	".parquet": "application/vnd.apache.parquet",
	".md":      "text/markdown",
}

// OCI pushes the artifacts of a run to a registry as one OCI artifact tagged
// with the run timestamp. Each file becomes a layer named by its base name.
type OCI struct {
	// Registry is the registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "nvidia/zabbix-archive").
	Repository string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Timeout bounds the whole push. Zero means defaults.OCIPushTimeout.
	Timeout time.Duration

	// Target overrides the remote repository, mainly for tests.
	Target oras.Target
}

// Name implements Publisher.
func (o *OCI) Name() string {
	return "oci"
}

// Reference returns registry/repository:tag for the given tag.
func (o *OCI) Reference(tag string) string {
	return fmt.Sprintf("%s/%s:%s", stripProtocol(o.Registry), o.Repository, tag)
}

// Validate checks that the registry, repository and tag form a valid reference.
func (o *OCI) Validate(tag string) error {
	if o.Registry == "" || o.Repository == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "oci registry and repository are required")
	}
	if tag == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}
	ref := o.Reference(tag)
	if _, err := reference.ParseNormalizedNamed(ref); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid OCI reference", err,
			map[string]any{"reference": ref})
	}
	return nil
}

// Publish implements Publisher.
func (o *OCI) Publish(ctx context.Context, a Artifacts) error {
	tag := a.Timestamp
	if err := o.Validate(tag); err != nil {
		return err
	}
	if len(a.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "no files to push")
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaults.OCIPushTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	digest, err := o.push(ctx, tag, a)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodePublish, "failed to push OCI artifact", err,
			map[string]any{"reference": o.Reference(tag)})
	}

	slog.Info("oci artifact pushed",
		"reference", o.Reference(tag),
		"digest", digest,
		"layers", len(a.Files))
	return nil
}

func (o *OCI) push(ctx context.Context, tag string, a Artifacts) (string, error) {
	workDir, err := os.MkdirTemp("", "zbxarchive-oci-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	fs, err := file.New(workDir)
	if err != nil {
		return "", fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	layers := make([]ociv1.Descriptor, 0, len(a.Files))
	for _, f := range a.Files {
		abs, absErr := filepath.Abs(f)
		if absErr != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", f, absErr)
		}
		desc, addErr := fs.Add(ctx, filepath.Base(f), mediaTypeFor(f), abs)
		if addErr != nil {
			return "", fmt.Errorf("failed to add %s to store: %w", f, addErr)
		}
		layers = append(layers, desc)
	}

	created := a.GeneratedAt
	if created.IsZero() {
		created = time.Now()
	}
	packOpts := oras.PackManifestOptions{
		Layers: layers,
		ManifestAnnotations: map[string]string{
			ociv1.AnnotationCreated:     created.UTC().Format(time.RFC3339),
			ociv1.AnnotationTitle:       "zabbix metrics " + tag,
			ociv1.AnnotationDescription: "Redacted Zabbix metrics snapshot",
		},
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return "", fmt.Errorf("failed to pack manifest: %w", err)
	}
	if tagErr := fs.Tag(ctx, manifestDesc, tag); tagErr != nil {
		return "", fmt.Errorf("failed to tag manifest in local store: %w", tagErr)
	}

	target := o.Target
	if target == nil {
		repo, repoErr := remote.NewRepository(fmt.Sprintf("%s/%s", stripProtocol(o.Registry), o.Repository))
		if repoErr != nil {
			return "", fmt.Errorf("failed to initialize remote repository: %w", repoErr)
		}
		repo.PlainHTTP = o.PlainHTTP
		repo.Client = createAuthClient(o.PlainHTTP, o.InsecureTLS)
		target = repo
	}

	desc, err := oras.Copy(ctx, fs, tag, target, tag, oras.DefaultCopyOptions)
	if err != nil {
		return "", fmt.Errorf("failed to push artifact to registry: %w", err)
	}
	return desc.Digest.String(), nil
}

func mediaTypeFor(path string) string {
	if mt, ok := layerMediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// stripProtocol removes http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return strings.TrimSuffix(registry, "/")
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
