package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DaniarKamaev/Tasks/internal/core"
)

// Test errors
var (
	ErrMockAdd    = errors.New("add error")
	ErrMockUpdate = errors.New("update error")
	ErrMockDelete = errors.New("delete error")
)

// MockTaskProvider implements TaskProvider for testing
type MockTaskProvider struct {
	AddFunc      func(ctx context.Context, title, description string) (core.Task, error)
	UpdateFunc   func(ctx context.Context, task core.Task) error
	DeleteFunc   func(ctx context.Context, index int) error
	ToggleFunc   func(ctx context.Context, index int) error
	SearchFunc   func(ctx context.Context, query string)
	Filtered     []core.Task
	ByID         map[int]core.Task
	LastSearched string
}

func (m *MockTaskProvider) AddNewTodo(ctx context.Context, title, description string) (core.Task, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, title, description)
	}
	return core.Task{}, ErrMockAdd
}

func (m *MockTaskProvider) UpdateTodo(ctx context.Context, task core.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskProvider) DeleteTodo(ctx context.Context, index int) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, index)
	}
	return nil
}

func (m *MockTaskProvider) ToggleCompletion(ctx context.Context, index int) error {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, index)
	}
	return nil
}

func (m *MockTaskProvider) SearchTodos(ctx context.Context, query string) {
	m.LastSearched = query
	if m.SearchFunc != nil {
		m.SearchFunc(ctx, query)
	}
}

func (m *MockTaskProvider) NumberOfTodos() int { return len(m.Filtered) }

func (m *MockTaskProvider) Todo(index int) (core.Task, error) {
	if index < 0 || index >= len(m.Filtered) {
		return core.Task{}, core.ErrIndexOutOfRange
	}
	return m.Filtered[index], nil
}

func (m *MockTaskProvider) TodoByID(id int) (core.Task, error) {
	if task, ok := m.ByID[id]; ok {
		return task, nil
	}
	return core.Task{}, core.ErrNotFound
}

func makeTask(id int, title string) core.Task {
	return core.Task{
		ID:          id,
		Title:       title,
		Description: "desc " + title,
		CreatedAt:   time.Date(2025, 9, 27, 12, 0, 0, 0, time.UTC),
		OwnerTag:    1,
	}
}

func newTestServer(mock *MockTaskProvider) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(mock, nil)
}

func performRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestListTasks(t *testing.T) {
	mock := &MockTaskProvider{
		Filtered: []core.Task{makeTask(2, "newer"), makeTask(1, "older")},
	}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodGet, "/api/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Tasks []core.Task `json:"tasks"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Count != 2 || len(resp.Tasks) != 2 {
		t.Fatalf("count = %d, tasks = %d, want 2/2", resp.Count, len(resp.Tasks))
	}
	if resp.Tasks[0].ID != 2 {
		t.Errorf("first task id = %d, want 2 (filtered order preserved)", resp.Tasks[0].ID)
	}
}

func TestGetTask(t *testing.T) {
	mock := &MockTaskProvider{
		ByID: map[int]core.Task{7: makeTask(7, "lucky")},
	}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodGet, "/api/tasks/7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = performRequest(s, http.MethodGet, "/api/tasks/404", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", w.Code)
	}

	w = performRequest(s, http.MethodGet, "/api/tasks/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", w.Code)
	}
}

func TestCreateTask(t *testing.T) {
	var gotTitle, gotDesc string
	mock := &MockTaskProvider{
		AddFunc: func(ctx context.Context, title, description string) (core.Task, error) {
			gotTitle, gotDesc = title, description
			return makeTask(1, title), nil
		},
	}
	s := newTestServer(mock)

	body := []byte(`{"title": "groceries", "description": "milk"}`)
	w := performRequest(s, http.MethodPost, "/api/tasks", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if gotTitle != "groceries" || gotDesc != "milk" {
		t.Errorf("service called with (%q, %q)", gotTitle, gotDesc)
	}

	// Malformed body is rejected before reaching the service.
	w = performRequest(s, http.MethodPost, "/api/tasks", []byte(`{`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
}

func TestCreateTaskFailure(t *testing.T) {
	mock := &MockTaskProvider{
		AddFunc: func(ctx context.Context, title, description string) (core.Task, error) {
			return core.Task{}, ErrMockAdd
		},
	}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodPost, "/api/tasks", []byte(`{"title": "x"}`))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestUpdateTask(t *testing.T) {
	var updated core.Task
	mock := &MockTaskProvider{
		ByID: map[int]core.Task{3: makeTask(3, "old title")},
		UpdateFunc: func(ctx context.Context, task core.Task) error {
			updated = task
			return nil
		},
	}
	s := newTestServer(mock)

	body := []byte(`{"title": "new title", "is_completed": true}`)
	w := performRequest(s, http.MethodPut, "/api/tasks/3", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	if updated.Title != "new title" {
		t.Errorf("updated title = %q, want %q", updated.Title, "new title")
	}
	if !updated.IsCompleted {
		t.Error("updated is_completed = false, want true")
	}
	// Untouched fields keep their stored values.
	if updated.Description != "desc old title" {
		t.Errorf("description changed unexpectedly: %q", updated.Description)
	}

	w = performRequest(s, http.MethodPut, "/api/tasks/404", body)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	var deletedIndex = -1
	mock := &MockTaskProvider{
		Filtered: []core.Task{makeTask(2, "first"), makeTask(9, "second")},
		DeleteFunc: func(ctx context.Context, index int) error {
			deletedIndex = index
			return nil
		},
	}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodDelete, "/api/tasks/9", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if deletedIndex != 1 {
		t.Errorf("service deleted index %d, want 1 (id resolved via filtered set)", deletedIndex)
	}

	w = performRequest(s, http.MethodDelete, "/api/tasks/404", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", w.Code)
	}
}

func TestToggleTask(t *testing.T) {
	task := makeTask(5, "flip")
	toggled := task
	toggled.IsCompleted = true

	var toggledIndex = -1
	mock := &MockTaskProvider{
		Filtered: []core.Task{task},
		ByID:     map[int]core.Task{5: toggled},
		ToggleFunc: func(ctx context.Context, index int) error {
			toggledIndex = index
			return nil
		},
	}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodPost, "/api/tasks/5/toggle", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if toggledIndex != 0 {
		t.Errorf("service toggled index %d, want 0", toggledIndex)
	}

	var resp core.Task
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !resp.IsCompleted {
		t.Error("response is_completed = false, want the toggled value")
	}
}

func TestSearchEndpoint(t *testing.T) {
	mock := &MockTaskProvider{
		Filtered: []core.Task{makeTask(1, "milk run")},
	}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodGet, "/api/search?q=milk", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if mock.LastSearched != "milk" {
		t.Errorf("service searched for %q, want %q", mock.LastSearched, "milk")
	}

	var resp struct {
		Query string      `json:"query"`
		Tasks []core.Task `json:"tasks"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Query != "milk" || resp.Count != 1 {
		t.Errorf("response query=%q count=%d, want milk/1", resp.Query, resp.Count)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(&MockTaskProvider{})

	w := performRequest(s, http.MethodGet, "/api/tasks", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want caller-supplied id echoed", got)
	}
}
