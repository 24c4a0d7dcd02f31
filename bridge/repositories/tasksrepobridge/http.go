package tasksrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/taskforge/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskforge/bridge/scaffolding/mid"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/logger"
)

// Config holds configuration for the Task bridge
type Config struct {
	Log         *logger.Logger
	Repository  *tasksrepo.Repository
	MaxFileSize int64
	Middleware  []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Task. Middleware must
// authenticate the caller.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository, cfg.MaxFileSize)

	group.GET("/tasks", b.httpList, cfg.Middleware...)
	group.POST("/tasks", b.httpCreate, cfg.Middleware...)
	group.GET("/tasks/{task_id}", b.httpGetByID, cfg.Middleware...)
	group.PUT("/tasks/{task_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/tasks/{task_id}", b.httpDelete, cfg.Middleware...)
	group.GET("/tasks/{task_id}/documents/{doc_id}/download", b.httpDownload, cfg.Middleware...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := mid.GetActor(ctx)
	if err != nil {
		return toAppError(err)
	}

	qp := parseQueryParams(r)
	filter, err := parseFilter(qp, actor)
	if err != nil {
		return toAppError(err)
	}
	orderBy := parseOrderBy(qp)
	page := fop.ParsePageOffset(qp.Page, qp.Limit)

	tasks, err := b.tasksRepository.List(ctx, filter, orderBy, page)
	if err != nil {
		return toAppError(err)
	}
	total, err := b.tasksRepository.Count(ctx, filter)
	if err != nil {
		return toAppError(err)
	}

	return fopbridge.NewPageResponse(MarshalListToBridge(tasks), total, page)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	task, _, err := b.loadTask(ctx, parsePath(r).TaskID)
	if err != nil {
		return toAppError(err)
	}
	return web.NewJSONResponse(MarshalToBridge(task))
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := mid.GetActor(ctx)
	if err != nil {
		return toAppError(err)
	}

	p, err := b.readPayload(ctx, r)
	if err != nil {
		return toAppError(err)
	}
	defer p.Close()

	input, err := MarshalCreateToRepository(p.input, actor)
	if err != nil {
		return toAppError(err)
	}
	task, err := b.tasksRepository.Create(ctx, input, p.uploads)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponseWithStatus(MarshalToBridge(task), http.StatusCreated)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	task, actor, err := b.loadTask(ctx, parsePath(r).TaskID)
	if err != nil {
		return toAppError(err)
	}

	p, err := b.readPayload(ctx, r)
	if err != nil {
		return toAppError(err)
	}
	defer p.Close()

	input, err := MarshalUpdateToRepository(p.input, actor)
	if err != nil {
		return toAppError(err)
	}
	result, err := b.tasksRepository.Update(ctx, task, input, p.uploads)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(UpdatedTask{
		Task:             MarshalToBridge(result.Task),
		DroppedDocuments: marshalDocuments(result.DroppedDocuments),
	})
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	task, _, err := b.loadTask(ctx, parsePath(r).TaskID)
	if err != nil {
		return toAppError(err)
	}
	if err := b.tasksRepository.Delete(ctx, task); err != nil {
		return toAppError(err)
	}
	return nil
}

// httpDownload streams the attachment, or returns a signed URL when the
// backend hands out links.
func (b *bridge) httpDownload(ctx context.Context, r *http.Request) web.Encoder {
	path := parsePath(r)
	task, _, err := b.loadTask(ctx, path.TaskID)
	if err != nil {
		return toAppError(err)
	}

	doc, ret, err := b.tasksRepository.OpenDocument(ctx, task, path.DocumentID)
	if err != nil {
		return toAppError(err)
	}
	if ret.URL != "" {
		return web.NewJSONResponse(SignedURL{URL: ret.URL})
	}

	return &web.StreamResponse{
		Body:        ret.Body,
		ContentType: doc.MimeType,
		Filename:    doc.Filename,
		Size:        doc.Size,
	}
}
