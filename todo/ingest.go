package todo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/amonks/todolist/media"
	"golang.org/x/sync/errgroup"
)

// Result reports what happened to one file handed to AttachMedia or
// StageImage.
type Result struct {
	// File is the file's name.
	File string

	// Attachment is set when the file was ingested and applied.
	Attachment *media.Attachment

	// Err explains why the file was dropped. The store is unchanged for
	// that file.
	Err error
}

// Ingestion tracks in-flight file ingestion. Results are available once
// Done is closed.
type Ingestion struct {
	done    chan struct{}
	results []Result
}

func newIngestion(n int) *Ingestion {
	return &Ingestion{done: make(chan struct{}), results: make([]Result, n)}
}

// Done is closed when every file has been applied or dropped.
func (in *Ingestion) Done() <-chan struct{} {
	return in.done
}

// Wait blocks until ingestion finishes and returns one result per file,
// in input order. Input order says nothing about attachment order.
func (in *Ingestion) Wait() []Result {
	<-in.done
	return slices.Clone(in.results)
}

// Err waits and joins the errors of all dropped files.
func (in *Ingestion) Err() error {
	var errs []error
	for _, r := range in.Wait() {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.File, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Attached returns the attachments that were applied.
func (in *Ingestion) Attached() []media.Attachment {
	var out []media.Attachment
	for _, r := range in.Wait() {
		if r.Attachment != nil {
			out = append(out, *r.Attachment)
		}
	}
	return out
}

// AttachMedia ingests files and appends each accepted one to the todo's
// media as soon as its own ingestion completes. Files are independent:
// attachments land in completion order, and a file whose todo was deleted
// meanwhile is discarded. Unsupported types are dropped without reaching
// the ingestor.
func (s *Store) AttachMedia(ctx context.Context, id string, files []media.File) *Ingestion {
	in := newIngestion(len(files))
	if _, err := s.Find(id); err != nil {
		for i, f := range files {
			in.results[i] = Result{File: f.Name(), Err: err}
		}
		s.logger.Debug("attach ignored", "id", id, "err", err)
		close(in.done)
		return in
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	go func() {
		for i, f := range files {
			g.Go(func() error {
				in.results[i] = s.attachOne(ctx, id, f)
				return nil
			})
		}
		_ = g.Wait()
		close(in.done)
	}()
	return in
}

func (s *Store) attachOne(ctx context.Context, id string, f media.File) Result {
	result := Result{File: f.Name()}
	if !s.policy.Accepts(f.MIMEType()) {
		result.Err = fmt.Errorf("%w: %q", ErrUnsupportedMediaType, f.MIMEType())
		s.logger.Debug("attach dropped file", "id", id, "file", f.Name(), "mime_type", f.MIMEType())
		return result
	}

	attachment, err := s.ingestor.Ingest(ctx, f)
	if err != nil {
		result.Err = fmt.Errorf("ingest: %w", err)
		s.logger.Debug("attach ingest failed", "id", id, "file", f.Name(), "err", err)
		return result
	}

	_, err = s.updateTodo("attach", id, func(t *Todo) error {
		t.Media = append(slices.Clip(t.Media), attachment)
		return nil
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Attachment = &attachment
	return result
}

// StageImage ingests file and sets it as the draft's pending image,
// replacing any image staged earlier. Non-images are dropped.
func (s *Store) StageImage(ctx context.Context, file media.File) *Ingestion {
	in := newIngestion(1)
	in.results[0].File = file.Name()
	if !s.policy.AcceptsImage(file.MIMEType()) {
		in.results[0].Err = fmt.Errorf("%w: %q", ErrNotImage, file.MIMEType())
		s.logger.Debug("stage dropped file", "file", file.Name(), "mime_type", file.MIMEType())
		close(in.done)
		return in
	}

	go func() {
		defer close(in.done)
		attachment, err := s.ingestor.Ingest(ctx, file)
		if err != nil {
			in.results[0].Err = fmt.Errorf("ingest: %w", err)
			s.logger.Debug("stage ingest failed", "file", file.Name(), "err", err)
			return
		}
		_, _ = s.update(func(next *Snapshot) error {
			next.Draft.PendingImage = &attachment
			return nil
		})
		in.results[0].Attachment = &attachment
	}()
	return in
}
