// Package transcript persists finished (or in-flight) conversations as YAML
// documents on any storage backend the file-system abstraction supports.
package transcript

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/colloquyhq/colloquy/model"
)

// Store reads and writes conversation transcripts under a base URL.
type Store struct {
	fs      afs.Service
	baseURL string
}

// New creates a transcript store rooted at baseURL (file, mem or cloud
// scheme).
func New(fs afs.Service, baseURL string) *Store {
	if fs == nil {
		fs = afs.New()
	}
	return &Store{fs: fs, baseURL: baseURL}
}

func (s *Store) transcriptURL(id string) string {
	return url.Join(s.baseURL, id+".yaml")
}

// Save writes the conversation transcript, overwriting a previous version.
func (s *Store) Save(ctx context.Context, conversation *model.Conversation) error {
	if conversation == nil || conversation.ID == "" {
		return fmt.Errorf("conversation had no id")
	}
	data, err := yaml.Marshal(conversation)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript %s: %w", conversation.ID, err)
	}
	URL := s.transcriptURL(conversation.ID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload transcript to %s: %w", URL, err)
	}
	return nil
}

// Load reads a transcript by conversation id.
func (s *Store) Load(ctx context.Context, id string) (*model.Conversation, error) {
	URL := s.transcriptURL(id)
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download transcript %s: %w", URL, err)
	}
	conversation := &model.Conversation{}
	if err = yaml.Unmarshal(data, conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript %s: %w", URL, err)
	}
	return conversation, nil
}

// Exists reports whether a transcript was saved for the id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	return s.fs.Exists(ctx, s.transcriptURL(id))
}
