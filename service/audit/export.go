package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/colloquyhq/colloquy/internal/clock"
)

// export is the serialised envelope written by Export.
type export struct {
	ExportedAt time.Time `json:"exportedAt"`
	Total      int       `json:"total"`
	Report     *Report   `json:"report"`
	Entries    []*Entry  `json:"entries"`
}

// Export writes the full log with its aggregate report as JSON to the
// supplied URL (file, memory or cloud scheme, whatever the storage service
// supports).
func (l *Log) Export(ctx context.Context, fs afs.Service, URL string) error {
	if fs == nil {
		fs = afs.New()
	}
	entries := l.Entries()
	data, err := json.MarshalIndent(&export{
		ExportedAt: clock.Now(),
		Total:      len(entries),
		Report:     l.Report(),
		Entries:    entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit log: %w", err)
	}
	if err = fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload audit log to %s: %w", URL, err)
	}
	return nil
}
