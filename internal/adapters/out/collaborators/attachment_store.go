package collaborators

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

// FileAttachmentStore keeps voyage documents on the local filesystem under
// <root>/<voyageID>/<name>. Operator-driven and independent of submission
// state; the Paraguayan workflow requires the supporting documents to exist
// before the authority reviews a manifest.
type FileAttachmentStore struct {
	root string
}

// NewFileAttachmentStore creates a store rooted at dir.
func NewFileAttachmentStore(dir string) *FileAttachmentStore {
	return &FileAttachmentStore{root: dir}
}

// ListAttachments lists the documents stored for a voyage, sorted by name.
func (s *FileAttachmentStore) ListAttachments(_ context.Context, voyageID kernel.UUID) ([]ports.Attachment, error) {
	if err := voyageID.Validate(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.voyageDir(voyageID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	attachments := make([]ports.Attachment, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil, infoErr
		}
		attachments = append(attachments, ports.Attachment{
			Name:       entry.Name(),
			Size:       info.Size(),
			UploadedAt: info.ModTime(),
		})
	}

	return attachments, nil
}

// StoreAttachment writes one document, replacing a previous one of the same
// name.
func (s *FileAttachmentStore) StoreAttachment(_ context.Context, voyageID kernel.UUID,
	name string, content io.Reader) (ports.Attachment, error) {
	if err := voyageID.Validate(); err != nil {
		return ports.Attachment{}, err
	}
	if err := validateAttachmentName(name); err != nil {
		return ports.Attachment{}, err
	}

	dir := s.voyageDir(voyageID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ports.Attachment{}, err
	}

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return ports.Attachment{}, err
	}

	size, err := io.Copy(file, content)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return ports.Attachment{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return ports.Attachment{}, err
	}

	return ports.Attachment{
		Name:       name,
		Size:       size,
		UploadedAt: info.ModTime(),
	}, nil
}

// DeleteAttachment removes one document.
func (s *FileAttachmentStore) DeleteAttachment(_ context.Context, voyageID kernel.UUID, name string) error {
	if err := voyageID.Validate(); err != nil {
		return err
	}
	if err := validateAttachmentName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.voyageDir(voyageID), name))
	if errors.Is(err, os.ErrNotExist) {
		return errs.NewObjectNotFoundError("attachment", name)
	}
	return err
}

func (s *FileAttachmentStore) voyageDir(voyageID kernel.UUID) string {
	return filepath.Join(s.root, voyageID.String())
}

func validateAttachmentName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("attachment name")
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return errs.NewValueIsInvalidError("attachment name")
	}
	return nil
}
