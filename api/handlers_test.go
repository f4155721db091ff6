package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskpad/domain"
	"taskpad/store"
)

type memAdapter struct {
	data map[string][]byte
}

func (m *memAdapter) Save(_ context.Context, key string, value any) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *memAdapter) Load(_ context.Context, key string, out any) (bool, error) {
	data, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, sonic.Unmarshal(data, out)
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	adapter := &memAdapter{data: map[string][]byte{}}
	st := store.New(context.Background(), adapter, log.New())

	e := echo.New()
	Register(e, st, log.New())
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeTasks(t *testing.T, rec *httptest.ResponseRecorder) []domain.Task {
	t.Helper()
	var resp tasksResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Tasks
}

func createTask(t *testing.T, e *echo.Echo, body string) domain.Task {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/tasks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp addTaskResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Task == nil {
		t.Fatal("expected created task in response")
	}
	return *resp.Task
}

func TestAddTaskEndpoint(t *testing.T) {
	e := newTestServer(t)

	task := createTask(t, e, `{"description":"Buy milk"}`)
	if task.Description != "Buy milk" || task.Category != domain.DefaultCategory {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Status != domain.StatusNotStarted || task.Location != domain.LocationHome {
		t.Fatalf("unexpected task defaults: %+v", task)
	}

	rec := doJSON(e, http.MethodGet, "/api/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	if tasks := decodeTasks(t, rec); len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("unexpected collection: %+v", tasks)
	}
}

func TestAddTaskBlankDescriptionEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/tasks", `{"description":"   "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a no-op add, got %d", rec.Code)
	}
	if tasks := decodeTasks(t, rec); len(tasks) != 0 {
		t.Fatalf("blank add created a task: %+v", tasks)
	}
}

func TestAddTaskRejectsUnknownFields(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/tasks", `{"descriptoin":"typo"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRemoveTaskEndpoint(t *testing.T) {
	e := newTestServer(t)

	task := createTask(t, e, `{"description":"doomed"}`)
	rec := doJSON(e, http.MethodDelete, "/api/tasks/"+task.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: status %d", rec.Code)
	}
	if tasks := decodeTasks(t, rec); len(tasks) != 0 {
		t.Fatalf("task not removed: %+v", tasks)
	}
}

func TestEditAndToggleEndpoints(t *testing.T) {
	e := newTestServer(t)

	task := createTask(t, e, `{"description":"tpyo"}`)

	rec := doJSON(e, http.MethodPut, "/api/tasks/"+task.ID+"/description", `{"description":"typo"}`)
	if tasks := decodeTasks(t, rec); tasks[0].Description != "typo" {
		t.Fatalf("description not updated: %+v", tasks[0])
	}

	rec = doJSON(e, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", "")
	tasks := decodeTasks(t, rec)
	if !tasks[0].Completed {
		t.Fatal("completed flag not set")
	}
	if tasks[0].Status != domain.StatusNotStarted {
		t.Fatalf("toggle changed the status enum: %q", tasks[0].Status)
	}
}

func TestShareEndpoints(t *testing.T) {
	e := newTestServer(t)

	task := createTask(t, e, `{"description":"shareable"}`)
	base := "/api/tasks/" + task.ID

	rec := doJSON(e, http.MethodPost, base+"/share", `{"email":"not-an-email"}`)
	if tasks := decodeTasks(t, rec); tasks[0].Shared || len(tasks[0].SharedWith) != 0 {
		t.Fatalf("invalid recipient recorded: %+v", tasks[0])
	}

	doJSON(e, http.MethodPost, base+"/share", `{"email":"a@b.com"}`)
	rec = doJSON(e, http.MethodPost, base+"/share", `{"email":"a@b.com"}`)
	tasks := decodeTasks(t, rec)
	if !tasks[0].Shared || len(tasks[0].SharedWith) != 1 {
		t.Fatalf("unexpected sharing state: %+v", tasks[0])
	}

	rec = doJSON(e, http.MethodDelete, base+"/share/a@b.com", "")
	tasks = decodeTasks(t, rec)
	if tasks[0].Shared || len(tasks[0].SharedWith) != 0 {
		t.Fatalf("recipient not removed: %+v", tasks[0])
	}
}

func TestCategoryEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/categories", "")
	var resp categoriesResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Categories) != 3 {
		t.Fatalf("unexpected default categories: %+v", resp.Categories)
	}

	// Duplicate names are absorbed.
	doJSON(e, http.MethodPost, "/api/categories", `{"name":"Personal"}`)
	rec = doJSON(e, http.MethodPost, "/api/categories", `{"name":"Errands"}`)
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Categories) != 4 || resp.Categories[3] != "Errands" {
		t.Fatalf("unexpected categories: %+v", resp.Categories)
	}

	rec = doJSON(e, http.MethodDelete, "/api/categories/Errands", "")
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Categories) != 3 {
		t.Fatalf("category not removed: %+v", resp.Categories)
	}
}

func TestFormEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPatch, "/api/form", `{"description":"drafted","category":"Work"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch form: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/form", "")
	var draft domain.Draft
	if err := sonic.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.Description != "drafted" || draft.Category != "Work" {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	// Committing the draft resets description but keeps category.
	rec = doJSON(e, http.MethodPost, "/api/tasks", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add from draft: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodGet, "/api/form", "")
	if err := sonic.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.Description != "" || draft.Category != "Work" {
		t.Fatalf("unexpected draft after add: %+v", draft)
	}
}

func TestUpdateImageGzipBody(t *testing.T) {
	e := newTestServer(t)

	task := createTask(t, e, `{"description":"with image"}`)

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(`{"imageUrl":"data:image/png;base64,AAAA"}`)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID+"/image", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("update image: status %d body %s", rec.Code, rec.Body.String())
	}
	if tasks := decodeTasks(t, rec); tasks[0].ImageURL != "data:image/png;base64,AAAA" {
		t.Fatalf("image not updated: %+v", tasks[0])
	}
}

func TestListRouteEmitsRequestMetrics(t *testing.T) {
	adapter := &memAdapter{data: map[string][]byte{}}
	logger := log.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	st := store.New(context.Background(), adapter, logger)
	e := echo.New()
	Register(e, st, logger)

	createTask(t, e, `{"description":"measured"}`)
	buf.Reset()

	rec := doJSON(e, http.MethodGet, "/api/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}

	out := buf.String()
	if !strings.Contains(out, "tasks.request.metrics") {
		t.Fatalf("metrics line not emitted at default level, log output: %q", out)
	}
	if !strings.Contains(out, "tasks_returned=1") {
		t.Fatalf("metrics line missing task count, log output: %q", out)
	}
}

func TestUpdateImageGzipAmongMultipleEncodings(t *testing.T) {
	e := newTestServer(t)

	task := createTask(t, e, `{"description":"with image"}`)

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(`{"imageUrl":"data:image/png;base64,BBBB"}`)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID+"/image", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderContentEncoding, "gzip, identity")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("update image: status %d body %s", rec.Code, rec.Body.String())
	}
	if tasks := decodeTasks(t, rec); tasks[0].ImageURL != "data:image/png;base64,BBBB" {
		t.Fatalf("image not updated: %+v", tasks[0])
	}
}

func TestUpdateImageInvalidGzip(t *testing.T) {
	e := newTestServer(t)

	task := createTask(t, e, `{"description":"with image"}`)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+task.ID+"/image", strings.NewReader("not gzip"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid gzip, got %d", rec.Code)
	}
}

func TestImportEndpointKeepsTaskVerbatim(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/tasks/import",
		`{"id":"imported-1","description":"imported","completed":false,"category":"","status":"","location":"","shared":false,"sharedWith":[]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import: status %d body %s", rec.Code, rec.Body.String())
	}
	tasks := decodeTasks(t, rec)
	if len(tasks) != 1 || tasks[0].ID != "imported-1" || tasks[0].Category != "" {
		t.Fatalf("import rewrote the task: %+v", tasks)
	}
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}
}
