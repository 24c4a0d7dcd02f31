package tasksrepobridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/infrastructure/web"
)

const (
	documentsField = "documents"
	pdfContentType = "application/pdf"

	// Parts beyond this spill to temporary files.
	maxFormMemory = 8 << 20
	formOverhead  = 1 << 20
	sniffLen      = 512
)

// payload is a parsed task write: field values plus any accepted PDFs.
// Close must be called once the uploads have been consumed.
type payload struct {
	input   TaskInput
	uploads []attachmentsrepo.Upload
	files   []multipart.File
	form    *multipart.Form
}

func (p *payload) Close() {
	for _, f := range p.files {
		f.Close()
	}
	if p.form != nil {
		p.form.RemoveAll()
	}
}

// readPayload accepts either a JSON body or multipart/form-data. Every file
// is checked here, so a rejected upload never reaches storage and no task
// record is written.
func (b *bridge) readPayload(ctx context.Context, r *http.Request) (*payload, error) {
	if !web.IsMultipart(r) {
		var in TaskInput
		if err := web.Decode(r, &in); err != nil {
			return nil, errs.Wrap(errs.InvalidArgument, err, "Invalid request body")
		}
		return &payload{input: in}, nil
	}

	limit := b.maxFileSize*tasksrepo.MaxDocuments + formOverhead
	if w := web.GetWriter(ctx); w != nil {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.Newf(errs.InvalidArgument, "request body exceeds %d bytes", limit)
		}
		return nil, errs.Wrap(errs.InvalidArgument, err, "Invalid multipart form")
	}

	p := &payload{
		input: formInput(r.MultipartForm.Value),
		form:  r.MultipartForm,
	}
	if err := p.collect(b.maxFileSize); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *payload) collect(maxSize int64) error {
	for field := range p.form.File {
		if field != documentsField {
			return errs.Newf(errs.InvalidArgument, "unexpected file field %q, attach files as %q", field, documentsField)
		}
	}

	headers := p.form.File[documentsField]
	if len(headers) > tasksrepo.MaxDocuments {
		return errs.New(errs.InvalidArgument, tasksrepo.ErrTooManyDocuments)
	}

	for _, fh := range headers {
		if fh.Size > maxSize {
			return errs.Newf(errs.InvalidArgument, "%s exceeds the %d byte limit", fh.Filename, maxSize)
		}
		if mt, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type")); err != nil || mt != pdfContentType {
			return errs.Newf(errs.InvalidArgument, "%s: only PDF files are allowed", fh.Filename)
		}

		f, err := fh.Open()
		if err != nil {
			return errs.Wrap(errs.Internal, err, "Internal Server Error")
		}
		p.files = append(p.files, f)

		if err := sniffPDF(f); err != nil {
			return errs.Wrap(errs.InvalidArgument, err, fmt.Sprintf("%s: only PDF files are allowed", fh.Filename))
		}

		p.uploads = append(p.uploads, attachmentsrepo.Upload{
			Filename:    fh.Filename,
			ContentType: pdfContentType,
			Size:        fh.Size,
			Body:        f,
		})
	}
	return nil
}

// sniffPDF confirms the declared type from the leading bytes and rewinds.
func sniffPDF(f multipart.File) error {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read upload: %w", err)
	}
	if ct := http.DetectContentType(head[:n]); ct != pdfContentType {
		return fmt.Errorf("content detected as %s", ct)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}
	return nil
}

func formInput(values map[string][]string) TaskInput {
	get := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		return &v[0]
	}
	return TaskInput{
		Title:       get("title"),
		Description: get("description"),
		Status:      get("status"),
		Priority:    get("priority"),
		DueDate:     get("dueDate"),
		AssignedTo:  get("assignedTo"),
	}
}
