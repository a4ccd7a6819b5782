package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadFilename builds a collision-resistant name for an uploaded photo,
// preserving the original file's extension.  The name combines the upload
// timestamp with a random UUID so that two files uploaded in the same
// millisecond still land on distinct paths in the shared uploads directory.
func UploadFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("files-%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
