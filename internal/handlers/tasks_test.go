package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskhub/backend/internal/handlers"
	"taskhub/backend/internal/models"
	"taskhub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockTaskService struct {
	shouldReturnError bool
	returnNotFound    bool
	returnValidation  bool
	tasks             []models.Task
	lastOwnerID       uuid.UUID
	lastTaskID        uuid.UUID
}

func (m *MockTaskService) GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	m.lastOwnerID = ownerID
	if m.shouldReturnError {
		return nil, gorm.ErrInvalidData
	}
	return m.tasks, nil
}

func (m *MockTaskService) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	m.lastOwnerID = ownerID
	m.lastTaskID = taskID
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}

	for _, task := range m.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return models.Task{}, gorm.ErrRecordNotFound
}

func (m *MockTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, input services.CreateTaskInput) (models.Task, error) {
	m.lastOwnerID = ownerID
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnValidation {
		return models.Task{}, services.NewValidationError("Invalid status value: %s", input.Status)
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.StatusTodo,
		Priority:    models.PriorityLow,
	}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *MockTaskService) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, input services.UpdateTaskInput) (models.Task, error) {
	m.lastOwnerID = ownerID
	m.lastTaskID = taskID
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}

	task := models.Task{ID: taskID, UserID: ownerID, Status: models.StatusTodo, Priority: models.PriorityLow}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Status != nil {
		status, ok := models.ParseTaskStatus(*input.Status)
		if !ok {
			return models.Task{}, services.NewValidationError("Invalid status value: %s", *input.Status)
		}
		task.Status = status
	}
	return task, nil
}

func (m *MockTaskService) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	m.lastOwnerID = ownerID
	m.lastTaskID = taskID
	if m.shouldReturnError {
		return gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// setupTaskHandler wires the handler behind a stand-in for the auth
// middleware that plants a fixed user id in the context.
func setupTaskHandler() (*MockTaskService, *gin.Engine, uuid.UUID) {
	gin.SetMode(gin.TestMode)

	mockService := &MockTaskService{}
	handler := handlers.NewTaskHandler(nil, mockService)
	ownerID := uuid.Must(uuid.NewV4())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", ownerID.String())
		c.Next()
	})

	router.GET("/tasks", handler.GetTasks)
	router.POST("/tasks", handler.CreateTask)
	router.GET("/tasks/:id", handler.GetTaskByID)
	router.PUT("/tasks/:id", handler.UpdateTask)
	router.DELETE("/tasks/:id", handler.DeleteTask)

	return mockService, router, ownerID
}

func TestGetTasks_ScopedToAuthenticatedUser(t *testing.T) {
	mockService, router, ownerID := setupTaskHandler()

	mockService.tasks = []models.Task{
		{ID: uuid.Must(uuid.NewV4()), UserID: ownerID, Title: "Task 1", Status: models.StatusTodo, Priority: models.PriorityLow},
		{ID: uuid.Must(uuid.NewV4()), UserID: ownerID, Title: "Task 2", Status: models.StatusDone, Priority: models.PriorityHigh},
	}

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(tasks) != 2 {
		t.Errorf("Expected 2 tasks, got %d", len(tasks))
	}

	if mockService.lastOwnerID != ownerID {
		t.Errorf("Expected service to be called with owner %s, got %s", ownerID, mockService.lastOwnerID)
	}
}

func TestGetTasks_EmptyListIsArray(t *testing.T) {
	_, router, _ := setupTaskHandler()

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := strings.TrimSpace(w.Body.String())
	if body != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestGetTasks_MissingIdentityIsServerFault(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := handlers.NewTaskHandler(nil, &MockTaskService{})
	router := gin.New()
	// No middleware, so no user id ever lands in the context.
	router.GET("/tasks", handler.GetTasks)

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Errorf("Expected generic error body, got %s", w.Body.String())
	}
}

func TestCreateTask(t *testing.T) {
	mockService, router, ownerID := setupTaskHandler()

	payload := `{"title": "Write report", "description": "Quarterly numbers"}`
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if task.Title != "Write report" {
		t.Errorf("Expected title 'Write report', got '%s'", task.Title)
	}

	if mockService.lastOwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, mockService.lastOwnerID)
	}
}

func TestCreateTask_InvalidJSON(t *testing.T) {
	_, router, _ := setupTaskHandler()

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTask_MissingTitle(t *testing.T) {
	_, router, _ := setupTaskHandler()

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString(`{"description": "no title"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTask_InvalidStatusValue(t *testing.T) {
	mockService, router, _ := setupTaskHandler()
	mockService.returnValidation = true

	payload := `{"title": "Task", "status": "bogus"}`
	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	if !strings.Contains(w.Body.String(), "bogus") {
		t.Errorf("Expected offending value in error body, got %s", w.Body.String())
	}
}

func TestGetTaskByID(t *testing.T) {
	mockService, router, ownerID := setupTaskHandler()

	taskID := uuid.Must(uuid.NewV4())
	mockService.tasks = []models.Task{
		{ID: taskID, UserID: ownerID, Title: "Findable", Status: models.StatusTodo, Priority: models.PriorityLow},
	}

	req, _ := http.NewRequest("GET", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if task.Title != "Findable" {
		t.Errorf("Expected title 'Findable', got '%s'", task.Title)
	}

	if mockService.lastTaskID != taskID {
		t.Errorf("Expected task id %s passed to service, got %s", taskID, mockService.lastTaskID)
	}
}

func TestGetTaskByID_NotFound(t *testing.T) {
	mockService, router, _ := setupTaskHandler()
	mockService.returnNotFound = true

	req, _ := http.NewRequest("GET", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	if !strings.Contains(w.Body.String(), "task not found") {
		t.Errorf("Expected 'task not found' in body, got %s", w.Body.String())
	}
}

func TestGetTaskByID_MalformedID(t *testing.T) {
	mockService, router, _ := setupTaskHandler()

	req, _ := http.NewRequest("GET", "/tasks/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Malformed ids collapse to the nil uuid and behave like any
	// unknown id.
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	if mockService.lastTaskID != uuid.Nil {
		t.Errorf("Expected nil uuid passed to service, got %s", mockService.lastTaskID)
	}
}

func TestUpdateTask(t *testing.T) {
	mockService, router, _ := setupTaskHandler()

	taskID := uuid.Must(uuid.NewV4())
	payload := `{"title": "Renamed", "status": "done"}`
	req, _ := http.NewRequest("PUT", "/tasks/"+taskID.String(), bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if task.Title != "Renamed" {
		t.Errorf("Expected title 'Renamed', got '%s'", task.Title)
	}

	if task.Status != models.StatusDone {
		t.Errorf("Expected status done, got %s", task.Status)
	}

	if mockService.lastTaskID != taskID {
		t.Errorf("Expected task id %s passed to service, got %s", taskID, mockService.lastTaskID)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	mockService, router, _ := setupTaskHandler()
	mockService.returnNotFound = true

	payload := `{"title": "Renamed"}`
	req, _ := http.NewRequest("PUT", "/tasks/"+uuid.Must(uuid.NewV4()).String(), bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	mockService, router, _ := setupTaskHandler()

	taskID := uuid.Must(uuid.NewV4())
	req, _ := http.NewRequest("DELETE", "/tasks/"+taskID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body on 204, got %s", w.Body.String())
	}

	if mockService.lastTaskID != taskID {
		t.Errorf("Expected task id %s passed to service, got %s", taskID, mockService.lastTaskID)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	mockService, router, _ := setupTaskHandler()
	mockService.returnNotFound = true

	req, _ := http.NewRequest("DELETE", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestTaskHandler_ServiceFailureIsGeneric(t *testing.T) {
	mockService, router, _ := setupTaskHandler()
	mockService.shouldReturnError = true

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Errorf("Expected generic error body, got %s", w.Body.String())
	}
}
