package gate

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
)

// PageExtractor is the alternative, image-aware extraction strategy invoked
// for escalated pages. Implementations may block on network I/O; everything
// else in the gate is local.
type PageExtractor interface {
	ExtractPage(ctx context.Context, docName string, page entity.Page) (string, error)
}

// CommandFallback shells out to a configured vision/OCR command for one page:
//
//	<command> <document-name> <page-index>
//
// and reads the replacement text from stdout.
type CommandFallback struct {
	Command string
	Timeout time.Duration
	runner  Runner
	logger  *slog.Logger
}

func NewCommandFallback(command string, timeout time.Duration, logger *slog.Logger) *CommandFallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandFallback{Command: command, Timeout: timeout, runner: execRunner{}, logger: logger}
}

func (f *CommandFallback) ExtractPage(ctx context.Context, docName string, page entity.Page) (string, error) {
	if f.Command == "" {
		return "", common.NewAppError("EXTRACTION_ERROR", "no fallback command configured", common.ErrExtraction)
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	out, _, err := f.runner.Run(ctx, f.Command, docName, strconv.Itoa(page.Index))
	if err != nil {
		return "", fmt.Errorf("fallback extraction for page %d: %w", page.Index, err)
	}
	return string(out), nil
}
