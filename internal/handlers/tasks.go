package handlers

import (
	"net/http"

	"taskhub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

// GetTasks lists every task owned by the authenticated user.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.taskService.GetTasksByUser(h.db, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	// A syntactically invalid id parses to uuid.Nil, which matches no
	// task and falls out as a 404 like any other unknown id.
	taskID := uuid.FromStringOrNil(c.Param("id"))

	task, err := h.taskService.GetTaskByID(h.db, ownerID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input services.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(h.db, ownerID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	taskID := uuid.FromStringOrNil(c.Param("id"))

	var input services.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.UpdateTask(h.db, ownerID, taskID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	taskID := uuid.FromStringOrNil(c.Param("id"))

	if err := h.taskService.DeleteTask(h.db, ownerID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
