package async

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
)

// Job is one document submitted for screening.
type Job struct {
	Document    entity.DocumentInput
	SubmittedAt time.Time
	TraceID     string
}

// VerdictSink receives every finished document verdict. Implementations
// must be safe for concurrent use.
type VerdictSink interface {
	Put(ctx context.Context, runID uuid.UUID, verdict entity.DocumentVerdict) error
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
