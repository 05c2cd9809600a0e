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

package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: test
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: test
  context:
    cluster: test
    user: test
current-context: test
users:
- name: test
  user:
    token: abc
`

func TestBuildKubeClient_Errors(t *testing.T) {
	tests := []struct {
		name          string
		kubeconfigArg string
		kubeconfigEnv string
		errorContains string
	}{
		{
			name:          "explicit invalid path",
			kubeconfigArg: "/nonexistent/path/to/kubeconfig",
			errorContains: "failed to build kube config",
		},
		{
			name:          "env var with invalid path",
			kubeconfigEnv: "/nonexistent/env/kubeconfig",
			errorContains: "failed to build kube config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.kubeconfigEnv)

			_, _, err := BuildKubeClient(tt.kubeconfigArg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("error = %v, want it to contain %q", err, tt.errorContains)
			}
		})
	}
}

func TestBuildKubeClient_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubeconfig")
	if err := os.WriteFile(path, []byte(testKubeconfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cs, cfg, err := BuildKubeClient(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs == nil {
		t.Fatal("expected a clientset")
	}
	if cfg.Host != "https://127.0.0.1:6443" {
		t.Errorf("unexpected host %q", cfg.Host)
	}
	if cfg.UserAgent != UserAgent {
		t.Errorf("expected user agent %q, got %q", UserAgent, cfg.UserAgent)
	}
}

func TestResolveKubeconfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("KUBECONFIG", "")

	if got := resolveKubeconfig("/explicit"); got != "/explicit" {
		t.Errorf("explicit path should win, got %q", got)
	}
	if got := resolveKubeconfig(""); got != "" {
		t.Errorf("expected in-cluster fallback, got %q", got)
	}

	t.Setenv("KUBECONFIG", "/from/env")
	if got := resolveKubeconfig(""); got != "/from/env" {
		t.Errorf("expected KUBECONFIG, got %q", got)
	}

	t.Setenv("KUBECONFIG", "")
	dir := filepath.Join(home, ".kube")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config"), []byte(testKubeconfig), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := resolveKubeconfig(""); got != filepath.Join(dir, "config") {
		t.Errorf("expected home kubeconfig, got %q", got)
	}
}

func TestCurrentNamespace(t *testing.T) {
	orig := serviceAccountNamespaceFile
	t.Cleanup(func() { serviceAccountNamespaceFile = orig })

	nsFile := filepath.Join(t.TempDir(), "namespace")
	serviceAccountNamespaceFile = nsFile

	t.Setenv(EnvPodNamespace, "")
	if got := CurrentNamespace(); got != DefaultNamespace {
		t.Errorf("expected %q, got %q", DefaultNamespace, got)
	}

	if err := os.WriteFile(nsFile, []byte("monitoring\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := CurrentNamespace(); got != "monitoring" {
		t.Errorf("expected service account namespace, got %q", got)
	}

	t.Setenv(EnvPodNamespace, "archive")
	if got := CurrentNamespace(); got != "archive" {
		t.Errorf("expected POD_NAMESPACE, got %q", got)
	}
}
