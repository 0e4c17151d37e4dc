package services

import (
	"fmt"
	"time"

	"taskhub/backend/internal/cache"
	"taskhub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTaskService is a read-through layer over a TaskService. Cache
// keys always embed the owner id, so one user's entries can never
// answer another user's request. A nil cache degrades to pass-through.
type CachedTaskService struct {
	tasks TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(tasks TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{
		tasks: tasks,
		cache: cacheInstance,
	}
}

func ownerTasksKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("tasks:%s", ownerID)
}

func ownerTaskKey(ownerID, taskID uuid.UUID) string {
	return fmt.Sprintf("tasks:%s:%s", ownerID, taskID)
}

// invalidateOwner drops every cached entry for one owner. Cache
// failures here are not worth failing the request over.
func (s *CachedTaskService) invalidateOwner(ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePattern(fmt.Sprintf("tasks:%s*", ownerID))
}

func (s *CachedTaskService) GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	if s.cache != nil {
		var cached []models.Task
		if err := s.cache.Get(ownerTasksKey(ownerID), &cached); err == nil {
			return cached, nil
		}
	}

	tasks, err := s.tasks.GetTasksByUser(db, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ownerTasksKey(ownerID), tasks, 10*time.Minute)
	}

	return tasks, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	if s.cache != nil {
		var cached models.Task
		if err := s.cache.Get(ownerTaskKey(ownerID, taskID), &cached); err == nil {
			return cached, nil
		}
	}

	task, err := s.tasks.GetTaskByID(db, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if s.cache != nil {
		s.cache.Set(ownerTaskKey(ownerID, taskID), task, 30*time.Minute)
	}

	return task, nil
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error) {
	task, err := s.tasks.CreateTask(db, ownerID, input)
	if err != nil {
		return models.Task{}, err
	}

	s.invalidateOwner(ownerID)
	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, input UpdateTaskInput) (models.Task, error) {
	task, err := s.tasks.UpdateTask(db, ownerID, taskID, input)
	if err != nil {
		return models.Task{}, err
	}

	s.invalidateOwner(ownerID)
	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	if err := s.tasks.DeleteTask(db, ownerID, taskID); err != nil {
		return err
	}

	s.invalidateOwner(ownerID)
	return nil
}

// CacheStats surfaces counters for the health endpoint; nil when
// caching is disabled.
func (s *CachedTaskService) CacheStats() map[string]interface{} {
	if s.cache == nil {
		return nil
	}
	return s.cache.Stats()
}
