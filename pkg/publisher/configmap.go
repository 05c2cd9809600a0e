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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/zbx-archive/pkg/defaults"
	"github.com/NVIDIA/zbx-archive/pkg/errors"
	"github.com/NVIDIA/zbx-archive/pkg/k8s/client"
)

const (
	// FieldManager identifies this tool in server-side apply.
	FieldManager = "zbxarchive"

	// maxConfigMapBytes is the API server limit on ConfigMap size.
	maxConfigMapBytes = 1 << 20

	timestampKey = "timestamp"
)

// ConfigMap stores the latest run's files in a Kubernetes ConfigMap so
// in-cluster consumers can read the archive without cloning the repository.
// Text files go to data, binary files (parquet) to binaryData.
type ConfigMap struct {
	// Namespace defaults to client.CurrentNamespace when empty.
	Namespace     string
	ConfigMapName string

	// Kubeconfig selects the cluster. Empty means automatic discovery.
	Kubeconfig string
	// Timeout bounds the apply. Zero means defaults.ConfigMapWriteTimeout.
	Timeout time.Duration

	// Client overrides kube client construction, mainly for tests.
	Client client.Interface
}

// Name implements Publisher.
func (c *ConfigMap) Name() string {
	return "configmap"
}

// Publish implements Publisher with a forced server-side apply.
func (c *ConfigMap) Publish(ctx context.Context, a Artifacts) error {
	if c.ConfigMapName == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "configmap name is required")
	}
	namespace := c.Namespace
	if namespace == "" {
		namespace = client.CurrentNamespace()
	}

	data := map[string]string{timestampKey: a.Timestamp}
	binary := map[string][]byte{}
	total := len(timestampKey) + len(a.Timestamp)

	for _, f := range a.Files {
		key := filepath.Base(f)
		if errs := validation.IsConfigMapKey(key); len(errs) > 0 {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"file name is not a valid configmap key", map[string]any{"file": f, "reasons": errs})
		}
		content, err := os.ReadFile(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to read %s", f), err)
		}
		total += len(key) + len(content)
		if utf8.Valid(content) {
			data[key] = string(content)
		} else {
			binary[key] = content
		}
	}
	if total > maxConfigMapBytes {
		return errors.NewWithContext(errors.ErrCodePublish, "artifacts exceed the configmap size limit",
			map[string]any{"bytes": total, "limit": maxConfigMapBytes})
	}

	kube := c.Client
	if kube == nil {
		var err error
		if c.Kubeconfig != "" {
			kube, _, err = client.GetKubeClientWithConfig(c.Kubeconfig)
		} else {
			kube, _, err = client.GetKubeClient()
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodePublish, "failed to get kubernetes client", err)
		}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaults.ConfigMapWriteTimeout
	}
	writeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cm := accorev1.ConfigMap(c.ConfigMapName, namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "zbxarchive",
			"app.kubernetes.io/component": "snapshot",
		}).
		WithData(data)
	if len(binary) > 0 {
		cm = cm.WithBinaryData(binary)
	}

	slog.Info("applying ConfigMap",
		"namespace", namespace,
		"name", c.ConfigMapName,
		"keys", len(data)+len(binary),
		"bytes", total)

	_, err := kube.CoreV1().ConfigMaps(namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: FieldManager,
		Force:        true,
	})
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodePublish, "failed to apply ConfigMap", err,
			map[string]any{"namespace": namespace, "name": c.ConfigMapName})
	}
	return nil
}
