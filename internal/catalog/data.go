package catalog

import "embed"

// DatasetFS holds the embedded domain datasets served under /data/.
//
//go:embed data/*.csv
var DatasetFS embed.FS
