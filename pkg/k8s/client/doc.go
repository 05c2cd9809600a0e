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

// Package client builds the Kubernetes client used by the ConfigMap publisher.
//
// Configuration is discovered in order: an explicit kubeconfig path, the
// KUBECONFIG environment variable, ~/.kube/config, and finally the in-cluster
// service account. GetKubeClient caches one client per process;
// GetKubeClientWithConfig always builds a new one.
//
// Tests pass k8s.io/client-go/kubernetes/fake clients through Interface
// instead of calling this package.
package client
