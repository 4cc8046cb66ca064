package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/plannetic/advisor-hub/internal/blob"
	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
)

// Document is the encoder input: the populated markup plus the structured
// data the non-HTML encoders lay out directly.
type Document struct {
	Kind        string
	Markup      string
	Client      *storage.Client
	Scenario    *storage.Scenario
	Result      *projection.Result
	Options     Options
	GeneratedAt time.Time
}

// Artifact is one encoded output ready for persistence.
type Artifact struct {
	Bytes       []byte
	ContentType string
	Ext         string
}

// Emitter encodes documents into their output format and persists them to the
// blob store. A nil store means local mode: artifact bytes stay in memory and
// are served through the download endpoint instead of a signed URL.
type Emitter struct {
	store      blob.Store
	presignTTL int
	slidedeck  string
	httpc      *http.Client
	logger     zerolog.Logger
}

func NewEmitter(store blob.Store, presignTTLSeconds int, slidedeckEndpoint string, logger zerolog.Logger) *Emitter {
	if presignTTLSeconds <= 0 {
		presignTTLSeconds = 3600
	}
	return &Emitter{
		store:      store,
		presignTTL: presignTTLSeconds,
		slidedeck:  slidedeckEndpoint,
		httpc:      &http.Client{Timeout: 60 * time.Second},
		logger:     logger.With().Str("component", "emitter").Logger(),
	}
}

// LocalMode reports whether artifacts are kept in memory rather than uploaded.
func (e *Emitter) LocalMode() bool { return e.store == nil }

// Emit encodes doc into the requested format.
func (e *Emitter) Emit(ctx context.Context, format string, doc *Document) (*Artifact, error) {
	switch format {
	case FormatHTML:
		return &Artifact{
			Bytes:       []byte(doc.Markup),
			ContentType: "text/html; charset=utf-8",
			Ext:         "html",
		}, nil
	case FormatPDF:
		return e.encodePDF(doc)
	case FormatExcel:
		return e.encodeExcel(doc)
	case FormatSlidedeck:
		return e.encodeSlides(ctx, doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// ObjectKey builds the blob store key for one generated artifact. Keys embed
// the client ID twice so both prefix listing and filename alone identify the
// owner.
func (e *Emitter) ObjectKey(clientID uuid.UUID, kind, ext string, at time.Time) string {
	return fmt.Sprintf("generated_documents/%s/%s-%s-%d.%s", clientID, kind, clientID, at.UnixMilli(), ext)
}

// Persist uploads the artifact and returns its size and a time-limited
// download URL. In local mode it returns the size with an empty URL.
func (e *Emitter) Persist(ctx context.Context, key string, a *Artifact) (int64, string, error) {
	if e.store == nil {
		return int64(len(a.Bytes)), "", nil
	}

	size, err := e.store.Upload(ctx, key, a.Bytes, a.ContentType)
	if err != nil {
		return 0, "", fmt.Errorf("failed to upload artifact: %w", err)
	}

	url, err := e.store.SignedURL(ctx, key, e.presignTTL)
	if err != nil {
		return 0, "", fmt.Errorf("failed to sign download URL: %w", err)
	}

	return size, url, nil
}

// SignedURL re-issues a download URL for an already persisted artifact.
func (e *Emitter) SignedURL(ctx context.Context, key string) (string, error) {
	if e.store == nil {
		return "", fmt.Errorf("signed URLs unavailable in local mode")
	}
	return e.store.SignedURL(ctx, key, e.presignTTL)
}
