// Package attach turns selected file paths into attached documents.
package attach

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/helmcode/patient-assistant/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AcceptedExtensions are the document types the analysis service reads.
// They are advisory; other files are still attached.
var AcceptedExtensions = []string{".pdf", ".docx"}

// Accepted reports whether name has an accepted extension.
func Accepted(name string) bool {
	return slices.Contains(AcceptedExtensions, strings.ToLower(filepath.Ext(name)))
}

// FromBytes builds an attachment and detects its content type.
func FromBytes(name string, content []byte) model.AttachedFile {
	return model.AttachedFile{
		Name:        name,
		ContentType: mimetype.Detect(content).String(),
		Size:        int64(len(content)),
		Content:     content,
	}
}

// Load reads every path concurrently. The result keeps selection order.
func Load(ctx context.Context, paths []string, logger *zap.Logger) ([]model.AttachedFile, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files := make([]model.AttachedFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading attachment %s: %w", path, err)
			}
			name := filepath.Base(path)
			if !Accepted(name) {
				logger.Warn("Attachment type is not accepted by the analysis service",
					zap.String("file", name),
					zap.Strings("accepted", AcceptedExtensions))
			}
			files[i] = FromBytes(name, content)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// SplitPaths parses a comma separated path list and drops blanks.
func SplitPaths(s string) []string {
	var paths []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
