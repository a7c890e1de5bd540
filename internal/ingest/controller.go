package ingest

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"loanfile-backend/internal/convert"
	"loanfile-backend/internal/documents"
	"loanfile-backend/internal/preview"
	"loanfile-backend/internal/shared/metrics"
	"loanfile-backend/internal/shared/storage/object"
	"loanfile-backend/internal/shared/telemetry"
	"loanfile-backend/internal/shared/util"
	"loanfile-backend/internal/validate"
)

// Controller owns the upload queue and runs each item through the ingestion
// pipeline in a background goroutine.
type Controller struct {
	recorder   *documents.Service
	documents  object.Store
	thumbnails object.Store
	queue      *queue
	sem        chan struct{}
}

// NewController constructs a Controller. maxConcurrent bounds the number of
// pipelines running at once; 0 means unbounded.
func NewController(recorder *documents.Service, docs, thumbs object.Store, maxConcurrent int) *Controller {
	ctl := &Controller{
		recorder:   recorder,
		documents:  docs,
		thumbnails: thumbs,
		queue:      newQueue(),
	}
	if maxConcurrent > 0 {
		ctl.sem = make(chan struct{}, maxConcurrent)
	}
	return ctl
}

// FileInput is one file submitted for ingestion.
type FileInput struct {
	Name      string
	MimeType  string
	SizeBytes int64
	Data      []byte
}

// SubmitInput scopes a batch of files to a loan and optionally a condition.
type SubmitInput struct {
	LoanID      string
	ConditionID string
	CreatedBy   string
	Files       []FileInput
}

// Submit enqueues each file and starts its pipeline. It returns the initial
// queue entries without waiting for any pipeline to progress.
func (ctl *Controller) Submit(in SubmitInput) []Item {
	items := make([]Item, 0, len(in.Files))
	for _, f := range in.Files {
		item := Item{
			ID:          uuid.NewString(),
			FileName:    f.Name,
			MimeType:    f.MimeType,
			SizeBytes:   f.SizeBytes,
			LoanID:      in.LoanID,
			ConditionID: in.ConditionID,
			CreatedBy:   in.CreatedBy,
			Status:      StatusPending,
			EnqueuedAt:  time.Now().UTC(),
			data:        f.Data,
		}
		ctl.queue.add(item)
		items = append(items, item)
		go ctl.run(item.ID)
	}
	return items
}

// Get returns one queue item.
func (ctl *Controller) Get(id string) (Item, error) {
	item, ok := ctl.queue.get(id)
	if !ok {
		return Item{}, ErrNotFound
	}
	return item, nil
}

// Snapshot returns all queue items in enqueue order.
func (ctl *Controller) Snapshot() []Item {
	return ctl.queue.snapshot()
}

// Retry re-runs a failed item from the beginning. Only items in the error
// state are retryable, and the error-to-pending transition is atomic so
// concurrent retries of one item start a single pipeline.
func (ctl *Controller) Retry(id string) (Item, error) {
	won := ctl.queue.transition(id, StatusError, func(it *Item) {
		it.Status = StatusPending
		it.Progress = 0
		it.Error = ""
		it.Document = nil
	})
	if !won {
		if _, ok := ctl.queue.get(id); !ok {
			return Item{}, ErrNotFound
		}
		return Item{}, ErrNotRetryable
	}
	go ctl.run(id)
	item, _ := ctl.queue.get(id)
	return item, nil
}

// Remove drops an item from the queue. A completed item's stored document is
// deleted first; if that deletion fails the item stays in the queue. An
// in-flight pipeline is not interrupted, but its later writes are discarded
// once the entry is gone.
func (ctl *Controller) Remove(ctx context.Context, id string) error {
	item, ok := ctl.queue.get(id)
	if !ok {
		return ErrNotFound
	}
	if item.Status == StatusComplete && item.Document != nil {
		err := ctl.recorder.Delete(ctx, item.Document.ID)
		if err != nil && !errors.Is(err, documents.ErrNotFound) {
			return err
		}
	}
	if !ctl.queue.remove(id) {
		return ErrNotFound
	}
	return nil
}

func (ctl *Controller) run(id string) {
	if ctl.sem != nil {
		ctl.sem <- struct{}{}
		defer func() { <-ctl.sem }()
	}

	item, ok := ctl.queue.get(id)
	if !ok {
		return
	}

	ctx := context.Background()
	start := time.Now()
	metrics.IncUploadStarted()
	ctl.queue.update(id, func(it *Item) {
		it.Status = StatusUploading
	})

	if err := validate.Check(item.SizeBytes, item.MimeType); err != nil {
		ctl.fail(id, item, start, err)
		return
	}
	ctl.setProgress(id, 5)

	pdfName, pdf, err := convert.ToPDF(ctx, item.FileName, item.MimeType, item.data)
	if err != nil {
		ctl.fail(id, item, start, err)
		return
	}
	ctl.setProgress(id, 25)

	uniqueName, err := util.UniqueFileName(pdfName)
	if err != nil {
		ctl.fail(id, item, start, err)
		return
	}
	fileKey := object.PrimaryKey(item.LoanID, item.ConditionID, uniqueName)
	fileURL, err := ctl.documents.Put(ctx, fileKey, validate.MimePDF, bytes.NewReader(pdf))
	if err != nil {
		ctl.fail(id, item, start, err)
		return
	}
	ctl.setProgress(id, 55)

	thumbURL, thumbKey := "", ""
	thumb, pageCount := preview.Generate(ctx, item.MimeType, item.data)
	if thumb == nil {
		telemetry.Warn("ingest.thumbnail.unavailable", map[string]any{
			"upload_id": id,
			"file":      item.FileName,
		})
	} else {
		key := object.ThumbnailKey(fileKey)
		url, err := ctl.thumbnails.Put(ctx, key, validate.MimeJPEG, bytes.NewReader(thumb))
		if err != nil {
			telemetry.Warn("ingest.thumbnail.store_failed", map[string]any{
				"upload_id": id,
				"key":       key,
				"err":       err.Error(),
			})
		} else {
			thumbURL, thumbKey = url, key
		}
	}
	ctl.setProgress(id, 80)

	doc, err := ctl.recorder.Record(ctx, documents.RecordInput{
		LoanID:           item.LoanID,
		ConditionID:      item.ConditionID,
		Name:             pdfName,
		OriginalFilename: item.FileName,
		MimeType:         item.MimeType,
		SizeBytes:        int64(len(pdf)),
		PageCount:        pageCount,
		FileURL:          fileURL,
		FileKey:          fileKey,
		ThumbnailURL:     thumbURL,
		ThumbnailKey:     thumbKey,
		CreatedBy:        item.CreatedBy,
	})
	if err != nil {
		// The stored asset is left in place; log its key so an operator
		// job can reconcile orphans.
		telemetry.Error("ingest.record.failed", map[string]any{
			"upload_id": id,
			"loan_id":   item.LoanID,
			"file_key":  fileKey,
			"err":       err.Error(),
		})
		ctl.fail(id, item, start, err)
		return
	}

	metrics.IncUploadCompleted()
	metrics.ObserveUploadDurationMs(float64(time.Since(start).Milliseconds()))
	written := ctl.queue.update(id, func(it *Item) {
		it.Status = StatusComplete
		it.Progress = 100
		it.Error = ""
		it.Document = &doc
	})
	if !written {
		return
	}
	telemetry.Info("ingest.complete", map[string]any{
		"upload_id":   id,
		"loan_id":     item.LoanID,
		"document_id": doc.ID,
		"pages":       doc.PageCount,
	})
}

func (ctl *Controller) fail(id string, item Item, start time.Time, err error) {
	metrics.IncUploadFailed()
	metrics.ObserveUploadDurationMs(float64(time.Since(start).Milliseconds()))
	ctl.queue.update(id, func(it *Item) {
		it.Status = StatusError
		it.Error = err.Error()
	})
	telemetry.Error("ingest.failed", map[string]any{
		"upload_id": id,
		"loan_id":   item.LoanID,
		"file":      item.FileName,
		"err":       err.Error(),
	})
}

func (ctl *Controller) setProgress(id string, progress int) {
	ctl.queue.update(id, func(it *Item) {
		it.Progress = progress
	})
}
