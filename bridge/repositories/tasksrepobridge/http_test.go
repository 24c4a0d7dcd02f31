package tasksrepobridge_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jrazmi/taskforge/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/taskforge/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskforge/bridge/scaffolding/mid"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo/stores/attachmentsdiskstore"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo/stores/tasksmemstore"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/tokens"
)

const pdfBody = "%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"

type harness struct {
	t      *testing.T
	wh     *web.WebHandler
	issuer *tokens.Issuer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewDefault(logger.WithLevel("ERROR"))

	issuer, err := tokens.New(tokens.Options{SigningKey: "0123456789abcdef0123456789abcdef", Lifetime: time.Hour, Issuer: "test"})
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	disk, err := attachmentsdiskstore.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open disk store: %v", err)
	}
	repo := tasksrepo.NewRepository(log, tasksmemstore.NewStore(), attachmentsrepo.NewRepository(log, disk))

	wh := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(
		mid.Errors(log, false),
		mid.Panics(),
	))
	tasksrepobridge.AddHttpRoutes(wh.Group("/api"), tasksrepobridge.Config{
		Log:         log,
		Repository:  repo,
		MaxFileSize: 1 << 20,
		Middleware:  []web.Middleware{mid.Authenticate(issuer)},
	})
	return &harness{t: t, wh: wh, issuer: issuer}
}

func (h *harness) token(userID, role string) string {
	h.t.Helper()
	token, err := h.issuer.Issue(userID, role)
	if err != nil {
		h.t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (h *harness) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, "/api"+path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.wh.ServeHTTP(rec, req)
	return rec
}

func (h *harness) doJSON(method, path, token, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.do(method, path, token, strings.NewReader(body), "application/json")
}

func (h *harness) create(token, body string) tasksrepobridge.Task {
	h.t.Helper()
	rec := h.doJSON(http.MethodPost, "/tasks", token, body)
	if rec.Code != http.StatusCreated {
		h.t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	return decode[tasksrepobridge.Task](h.t, rec)
}

func (h *harness) list(token, query string) fopbridge.PageResponse[tasksrepobridge.Task] {
	h.t.Helper()
	rec := h.do(http.MethodGet, "/tasks"+query, token, nil, "")
	if rec.Code != http.StatusOK {
		h.t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	return decode[fopbridge.PageResponse[tasksrepobridge.Task]](h.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        string
}

func pdf(name string) filePart {
	return filePart{field: "documents", filename: name, contentType: "application/pdf", data: pdfBody + name}
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		hdr.Set("Content-Type", f.contentType)
		w, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		io.WriteString(w, f.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func ids(tasks []tasksrepobridge.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestListIsScopedToCaller(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)
	bob := h.token("bob", access.RoleUser)
	admin := h.token("root", access.RoleAdmin)

	h.create(alice, `{"title":"a1"}`)
	h.create(alice, `{"title":"a2"}`)
	h.create(bob, `{"title":"b1"}`)

	page := h.list(alice, "")
	if page.Total != 2 {
		t.Errorf("alice total = %d, want 2", page.Total)
	}
	for _, task := range page.Items {
		if task.AssignedTo != "alice" {
			t.Errorf("alice sees task owned by %s", task.AssignedTo)
		}
	}

	if got := h.list(alice, "?assignedTo=bob").Total; got != 2 {
		t.Errorf("assignedTo must be ignored for non-admins, total = %d", got)
	}
	if got := h.list(admin, "").Total; got != 3 {
		t.Errorf("admin total = %d, want 3", got)
	}
	if got := h.list(admin, "?assignedTo=bob").Total; got != 1 {
		t.Errorf("admin filtered total = %d, want 1", got)
	}
}

func TestTaskAccess(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)
	bob := h.token("bob", access.RoleUser)
	admin := h.token("root", access.RoleAdmin)

	task := h.create(alice, `{"title":"private"}`)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"no token", http.MethodGet, "/tasks/" + task.ID, "", "", http.StatusUnauthorized},
		{"owner get", http.MethodGet, "/tasks/" + task.ID, alice, "", http.StatusOK},
		{"other get", http.MethodGet, "/tasks/" + task.ID, bob, "", http.StatusForbidden},
		{"admin get", http.MethodGet, "/tasks/" + task.ID, admin, "", http.StatusOK},
		{"other update", http.MethodPut, "/tasks/" + task.ID, bob, `{"title":"mine"}`, http.StatusForbidden},
		{"other delete", http.MethodDelete, "/tasks/" + task.ID, bob, "", http.StatusForbidden},
		{"other download", http.MethodGet, "/tasks/" + task.ID + "/documents/x/download", bob, "", http.StatusForbidden},
		{"missing task", http.MethodGet, "/tasks/does-not-exist", admin, "", http.StatusNotFound},
		{"missing document", http.MethodGet, "/tasks/" + task.ID + "/documents/x/download", alice, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			rec := h.do(tt.method, tt.path, tt.token, body, "application/json")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing title", `{"description":"x"}`},
		{"blank title", `{"title":"   "}`},
		{"bad status", `{"title":"t","status":"done"}`},
		{"bad priority", `{"title":"t","priority":"urgent"}`},
		{"bad due date", `{"title":"t","dueDate":"someday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.doJSON(http.MethodPost, "/tasks", alice, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
		})
	}
	if got := h.list(alice, "").Total; got != 0 {
		t.Errorf("rejected creates left %d tasks", got)
	}
}

func TestCreateDefaultsAndOwner(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)
	admin := h.token("root", access.RoleAdmin)

	task := h.create(alice, `{"title":" report ","assignedTo":"bob","dueDate":"2025-03-01"}`)
	want := tasksrepobridge.Task{
		ID:         task.ID,
		Title:      "report",
		Status:     tasksrepo.StatusPending,
		Priority:   tasksrepo.PriorityMedium,
		DueDate:    task.DueDate,
		AssignedTo: "alice",
		Documents:  []tasksrepobridge.Document{},
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
	if diff := cmp.Diff(want, task); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
	if task.DueDate == nil || *task.DueDate != "2025-03-01T00:00:00Z" {
		t.Errorf("dueDate = %v", task.DueDate)
	}

	if got := h.create(admin, `{"title":"delegated","assignedTo":"bob"}`).AssignedTo; got != "bob" {
		t.Errorf("admin create assignedTo = %s, want bob", got)
	}
}

func TestCreateWithDocumentsAndDownload(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)

	body, ct := multipartBody(t, map[string]string{"title": "with files", "priority": "high"}, pdf("quarterly report.pdf"), pdf("b.pdf"))
	rec := h.do(http.MethodPost, "/tasks", alice, body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	task := decode[tasksrepobridge.Task](t, rec)
	if task.Priority != tasksrepo.PriorityHigh || len(task.Documents) != 2 {
		t.Fatalf("task = %+v", task)
	}

	doc := task.Documents[0]
	if doc.Filename != "quarterly report.pdf" || doc.MimeType != "application/pdf" {
		t.Errorf("document = %+v", doc)
	}

	rec = h.do(http.MethodGet, "/tasks/"+task.ID+"/documents/"+doc.ID+"/download", alice, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != pdfBody+"quarterly report.pdf" {
		t.Errorf("download body = %q", got)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "quarterly report.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestUploadRejectedBeforeCreate(t *testing.T) {
	tests := []struct {
		name  string
		files []filePart
	}{
		{"declared text", []filePart{{field: "documents", filename: "a.txt", contentType: "text/plain", data: "hello"}}},
		{"declared pdf but is not", []filePart{{field: "documents", filename: "a.pdf", contentType: "application/pdf", data: "hello world"}}},
		{"one bad among good", []filePart{pdf("ok.pdf"), {field: "documents", filename: "x.png", contentType: "image/png", data: "\x89PNG\r\n\x1a\n"}}},
		{"too many", []filePart{pdf("1.pdf"), pdf("2.pdf"), pdf("3.pdf"), pdf("4.pdf")}},
		{"wrong field", []filePart{{field: "attachment", filename: "a.pdf", contentType: "application/pdf", data: pdfBody}}},
		{"too large", []filePart{{field: "documents", filename: "big.pdf", contentType: "application/pdf", data: pdfBody + strings.Repeat("x", 1<<20)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			alice := h.token("alice", access.RoleUser)

			body, ct := multipartBody(t, map[string]string{"title": "t"}, tt.files...)
			rec := h.do(http.MethodPost, "/tasks", alice, body, ct)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			if got := h.list(alice, "").Total; got != 0 {
				t.Errorf("rejected upload created %d tasks", got)
			}
		})
	}
}

func TestUpdateKeepsNewestThreeDocuments(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)

	body, ct := multipartBody(t, map[string]string{"title": "docs"}, pdf("1.pdf"), pdf("2.pdf"))
	rec := h.do(http.MethodPost, "/tasks", alice, body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	task := decode[tasksrepobridge.Task](t, rec)

	body, ct = multipartBody(t, map[string]string{"status": "in-progress"}, pdf("3.pdf"), pdf("4.pdf"))
	rec = h.do(http.MethodPut, "/tasks/"+task.ID, alice, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[tasksrepobridge.UpdatedTask](t, rec)

	var names []string
	for _, d := range updated.Documents {
		names = append(names, d.Filename)
	}
	if diff := cmp.Diff([]string{"2.pdf", "3.pdf", "4.pdf"}, names); diff != "" {
		t.Errorf("documents mismatch (-want +got):\n%s", diff)
	}
	if len(updated.DroppedDocuments) != 1 || updated.DroppedDocuments[0].Filename != "1.pdf" {
		t.Errorf("dropped = %+v", updated.DroppedDocuments)
	}
	if updated.Status != tasksrepo.StatusInProgress || updated.Title != "docs" {
		t.Errorf("fields = %s/%s", updated.Status, updated.Title)
	}

	dropped := updated.DroppedDocuments[0].ID
	rec = h.do(http.MethodGet, "/tasks/"+task.ID+"/documents/"+dropped+"/download", alice, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("dropped document download status = %d, want 404", rec.Code)
	}
}

func TestUpdateFields(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)
	admin := h.token("root", access.RoleAdmin)

	task := h.create(alice, `{"title":"t","dueDate":"2025-01-01"}`)

	rec := h.doJSON(http.MethodPut, "/tasks/"+task.ID, alice, `{"assignedTo":"bob","dueDate":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[tasksrepobridge.UpdatedTask](t, rec)
	if got.AssignedTo != "alice" {
		t.Errorf("non-admin reassigned task to %s", got.AssignedTo)
	}
	if got.DueDate != nil {
		t.Errorf("dueDate = %v, want cleared", *got.DueDate)
	}
	if got.DroppedDocuments == nil || len(got.DroppedDocuments) != 0 {
		t.Errorf("droppedDocuments = %v, want []", got.DroppedDocuments)
	}

	rec = h.doJSON(http.MethodPut, "/tasks/"+task.ID, admin, `{"assignedTo":"bob"}`)
	if got := decode[tasksrepobridge.UpdatedTask](t, rec); got.AssignedTo != "bob" {
		t.Errorf("admin reassign = %s, want bob", got.AssignedTo)
	}

	if rec := h.doJSON(http.MethodPut, "/tasks/"+task.ID, admin, `{"priority":"urgent"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad priority status = %d, want 400", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)

	task := h.create(alice, `{"title":"t"}`)
	rec := h.do(http.MethodDelete, "/tasks/"+task.ID, alice, nil, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := h.do(http.MethodGet, "/tasks/"+task.ID, alice, nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestListFiltersSortAndPagination(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice", access.RoleUser)

	seed := []string{
		`{"title":"c","status":"pending","priority":"high","dueDate":"2025-01-10"}`,
		`{"title":"a","status":"pending","priority":"low","dueDate":"2025-01-20"}`,
		`{"title":"e","status":"completed","priority":"high"}`,
		`{"title":"b","status":"pending","priority":"high","dueDate":"2025-02-01"}`,
		`{"title":"d","status":"in-progress","priority":"medium"}`,
	}
	for _, s := range seed {
		h.create(alice, s)
	}

	page := h.list(alice, "?status=pending&priority=high&sortBy=title&order=asc")
	var titles []string
	for _, task := range page.Items {
		titles = append(titles, task.Title)
	}
	if diff := cmp.Diff([]string{"b", "c"}, titles); diff != "" {
		t.Errorf("filtered titles mismatch (-want +got):\n%s", diff)
	}
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}

	if got := h.list(alice, "?dueDateFrom=2025-01-15&dueDateTo=2025-02-01").Total; got != 2 {
		t.Errorf("due date range total = %d, want 2", got)
	}
	if got := h.list(alice, "?dueDateFrom=2025-03-01&dueDateTo=2025-01-01").Total; got != 0 {
		t.Errorf("inverted range total = %d, want 0", got)
	}
	if rec := h.do(http.MethodGet, "/tasks?dueDateFrom=tomorrow", alice, nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad dueDateFrom status = %d, want 400", rec.Code)
	}

	seen := map[string]bool{}
	for p := 1; p <= 3; p++ {
		page := h.list(alice, fmt.Sprintf("?limit=2&page=%d&sortBy=bogus", p))
		if page.Page != p || page.Limit != 2 || page.Total != 5 {
			t.Errorf("page %d envelope = %d/%d/%d", p, page.Page, page.Limit, page.Total)
		}
		for _, id := range ids(page.Items) {
			if seen[id] {
				t.Errorf("task %s returned on more than one page", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 5 {
		t.Errorf("pages covered %d tasks, want 5", len(seen))
	}

	if page := h.list(alice, "?page=9"); len(page.Items) != 0 || page.Total != 5 {
		t.Errorf("past the end = %d items, total %d", len(page.Items), page.Total)
	}
}
