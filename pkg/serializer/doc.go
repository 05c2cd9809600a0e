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

// Package serializer renders export records as snapshot files.
//
// Three formats are supported:
//   - JSON: an array of objects with 2-space indentation; an empty run renders []
//   - CSV: a header row (host,metric,value,units,timestamp) followed by one row per record
//   - Parquet: a single row group with the same column names
//
// Every format keeps the field order of export.Columns and every format round
// trips: Unmarshal(f, Marshal(f, records)) reproduces records exactly.
//
// Usage:
//
//	paths, err := serializer.WriteSnapshot(ctx, "data", "2024-05-21_12-00", records,
//	    serializer.FormatJSON, serializer.FormatCSV)
//
// WriteSnapshot renders all formats and writes them to temporary files before
// renaming any of them, so a failed run does not leave a partial snapshot.
//
// For streaming to an io.Writer:
//
//	w := serializer.NewWriter(serializer.FormatCSV, os.Stdout)
//	if err := w.Serialize(ctx, records); err != nil {
//		return err
//	}
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer
