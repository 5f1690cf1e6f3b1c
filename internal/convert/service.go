package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pagalpdf/internal/domain"
	"pagalpdf/internal/domain/models"
	"pagalpdf/internal/pyexec"
	"pagalpdf/internal/staging"
)

// InterpreterResolver locates the external runtime for worker operations.
type InterpreterResolver interface {
	Resolve(ctx context.Context) (string, error)
	Invalidate()
}

// WorkerInvoker executes one worker process under the operation's budget.
type WorkerInvoker interface {
	Run(ctx context.Context, inv pyexec.Invocation) error
}

// ScriptLocator maps a worker script name to its on-disk path.
type ScriptLocator func(name string) (string, error)

// JobRecorder persists the audit record of a finished request. Best-effort:
// the service logs and swallows recording failures.
type JobRecorder interface {
	Record(ctx context.Context, rec *models.JobRecord) error
}

// Service runs one conversion end to end: stage the upload, run the worker
// (or native implementation), validate the output artifact, read it back,
// and always clean up the staged pair. A request owns its staged files
// exclusively; nothing is shared or retried.
type Service struct {
	catalog  *Catalog
	resolver InterpreterResolver
	invoker  WorkerInvoker
	locate   ScriptLocator
	jobs     JobRecorder
	logger   *slog.Logger
}

func NewService(
	catalog *Catalog,
	resolver InterpreterResolver,
	invoker WorkerInvoker,
	locate ScriptLocator,
	jobs JobRecorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		catalog:  catalog,
		resolver: resolver,
		invoker:  invoker,
		locate:   locate,
		jobs:     jobs,
		logger:   logger,
	}
}

// Catalog exposes the loaded operation set for route registration.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Convert runs a single-input operation. args are the operation-specific
// worker arguments, already validated.
func (s *Service) Convert(ctx context.Context, op *Operation, upload *models.Upload, args []string) (result *models.Result, err error) {
	start := time.Now()
	defer func() { s.record(op, upload, result, err, time.Since(start)) }()

	a, err := staging.Stage(upload.Data, inputExt(op, upload.Filename), op.Output.Extension, s.logger)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", op.Name, err)
	}
	defer a.Cleanup()

	if op.Native != "" {
		if nerr := runNative(op.Native, a, args); nerr != nil {
			s.logger.Error("native operation failed", "operation", op.Name, "error", nerr)
			return nil, &domain.ConversionFailedError{Message: "Could not process the PDF file."}
		}
	} else if err = s.invokeWorker(ctx, op, a, args); err != nil {
		return nil, err
	}

	return s.collect(op, upload, a)
}

// Merge concatenates the uploads in order. Native via pdfcpu; multi-input,
// so each upload gets its own staged input and a separate empty pair holds
// the merged document.
func (s *Service) Merge(ctx context.Context, uploads []*models.Upload) (result *models.Result, err error) {
	if len(uploads) == 0 {
		return nil, &domain.ValidationError{Message: "No file uploaded."}
	}

	op, ok := s.catalog.Get("merge")
	if !ok {
		return nil, fmt.Errorf("merge operation missing from catalog")
	}

	start := time.Now()
	defer func() { s.record(op, uploads[0], result, err, time.Since(start)) }()

	out, err := staging.StageEmpty(op.Output.Extension, s.logger)
	if err != nil {
		return nil, fmt.Errorf("stage merge output: %w", err)
	}
	defer out.Cleanup()

	inputs := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		a, serr := staging.Stage(upload.Data, "pdf", "pdf", s.logger)
		if serr != nil {
			return nil, fmt.Errorf("stage merge input: %w", serr)
		}
		defer a.Cleanup()
		inputs = append(inputs, a.InputPath)
	}

	if merr := mergeNative(inputs, out.OutputPath); merr != nil {
		s.logger.Error("merge failed", "files", len(inputs), "error", merr)
		return nil, &domain.ConversionFailedError{Message: "Could not merge the PDF files."}
	}

	return s.collect(op, uploads[0], out)
}

// invokeWorker resolves the interpreter, locates the script, and runs it.
func (s *Service) invokeWorker(ctx context.Context, op *Operation, a *staging.Artifact, args []string) error {
	interpreter, err := s.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	scriptPath, err := s.locate(op.Script)
	if err != nil {
		return err
	}

	err = s.invoker.Run(ctx, pyexec.Invocation{
		Interpreter: interpreter,
		Script:      scriptPath,
		InputPath:   a.InputPath,
		OutputPath:  a.OutputPath,
		Args:        args,
		Timeout:     op.Timeout(),
	})
	if err != nil && errors.Is(err, domain.ErrRuntimeNotFound) {
		// The cached interpreter vanished between resolution and exec.
		s.resolver.Invalidate()
	}
	return err
}

// collect validates the output artifact and reads it back. A nominally
// successful invocation is downgraded to a conversion failure when the
// artifact is missing, empty, or fails its signature check.
func (s *Service) collect(op *Operation, upload *models.Upload, a *staging.Artifact) (*models.Result, error) {
	if err := pyexec.ValidateOutput(a.OutputPath, op.Magic()); err != nil {
		s.logger.Error("output validation failed", "operation", op.Name, "error", err)
		return nil, err
	}

	data, err := os.ReadFile(a.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("read output artifact: %w", err)
	}

	return &models.Result{
		Data:        data,
		ContentType: op.Output.MimeType,
		Filename:    op.OutputFilename(upload.Filename),
	}, nil
}

// record writes the audit row when a recorder is configured. Failures here
// are logged only; they never affect the response.
func (s *Service) record(op *Operation, upload *models.Upload, result *models.Result, convErr error, elapsed time.Duration) {
	if s.jobs == nil {
		return
	}

	rec := &models.JobRecord{
		Operation:  op.Name,
		Filename:   upload.Filename,
		InputBytes: upload.Size,
		Outcome:    outcomeFor(convErr),
		Duration:   elapsed,
		CreatedAt:  time.Now(),
	}
	if convErr != nil {
		rec.Detail = convErr.Error()
	}
	if result != nil {
		rec.OutputBytes = int64(len(result.Data))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.jobs.Record(ctx, rec); err != nil {
		s.logger.Warn("audit record failed", "operation", op.Name, "error", err)
	}
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return models.OutcomeSuccess
	case errors.Is(err, domain.ErrValidation):
		return models.OutcomeValidation
	case errors.Is(err, domain.ErrRuntimeNotFound):
		return models.OutcomeRuntimeNotFound
	case errors.Is(err, domain.ErrScriptNotFound):
		return models.OutcomeScriptNotFound
	case errors.Is(err, domain.ErrTimeout):
		return models.OutcomeTimeout
	default:
		var dep *domain.DependencyMissingError
		if errors.As(err, &dep) {
			return models.OutcomeDependencyMissing
		}
		return models.OutcomeFailed
	}
}

// inputExt picks the staged input extension from the uploaded filename,
// falling back to the operation's first allowed extension. Workers and
// LibreOffice sniff by extension, so staging keeps it.
func inputExt(op *Operation, filename string) string {
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if len(op.Input.Extensions) > 0 {
		return strings.TrimPrefix(op.Input.Extensions[0], ".")
	}
	return "bin"
}
