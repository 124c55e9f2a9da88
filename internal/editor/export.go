package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/editing"
	"github.com/jonathan/interview-feedback/internal/rendering"
)

// Export renders the active report. Documents are rendered locally when the
// service has an exporter and by the backend otherwise.
func (s *Service) Export(ctx context.Context, sessionID string, format rendering.Format) (rendering.Document, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return rendering.Document{}, err
	}
	active, err := sess.store.State().ActiveTemplate()
	if err != nil {
		return rendering.Document{}, err
	}
	plain, err := editing.FromOrdered(active)
	if err != nil {
		return rendering.Document{}, err
	}

	if s.exporter != nil {
		doc, err := s.exporter.Export(ctx, format, plain)
		if err != nil {
			return rendering.Document{}, s.fail(sess, "export", err)
		}
		s.logger.Info("Report exported",
			zap.String("session", sess.ID),
			zap.String("format", string(format)),
			zap.Int("bytes", len(doc.Data)))
		return *doc, nil
	}

	data, err := s.backend.GenerateDocument(ctx, plain, string(format))
	if err != nil {
		return rendering.Document{}, s.fail(sess, "export", err)
	}
	return rendering.Document{
		Format:   format,
		FileName: rendering.FileName(plain, format),
		Data:     data,
	}, nil
}
