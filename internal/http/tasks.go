package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/gymlife/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue          TaskQueue
	purgeRetention time.Duration
	auditRetention time.Duration // zero disables the audit cleanup type
}

// NewTasksController creates a new TasksController.
func NewTasksController(queue TaskQueue, purgeRetention, auditRetention time.Duration) *TasksController {
	return &TasksController{queue: queue, purgeRetention: purgeRetention, auditRetention: auditRetention}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        tasks.PurgeDeletedExercisesQueue,
			Description: "Permanently remove exercises deleted more than " + tc.purgeRetention.String() + " ago",
			Queue:       tasks.PurgeDeletedExercisesQueue,
		},
	}
	if tc.auditRetention > 0 {
		types = append(types, TaskTypeInfo{
			Type:        tasks.CleanupAuditEventsQueue,
			Description: "Remove audit events older than " + tc.auditRetention.String(),
			Queue:       tasks.CleanupAuditEventsQueue,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task ID is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTask handles POST /api/tasks/:type/run
// Manually triggers a task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var task backlite.Task
	switch taskType {
	case tasks.PurgeDeletedExercisesQueue:
		task = tasks.PurgeDeletedExercisesTask{Retention: tc.purgeRetention}

	case tasks.CleanupAuditEventsQueue:
		if tc.auditRetention <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "audit events are kept forever"})
			return
		}
		task = tasks.CleanupAuditEventsTask{Retention: tc.auditRetention}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown task type: %s", taskType)})
		return
	}

	id, err := tc.queue.Enqueue(c.Request.Context(), task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task_id": id,
		"type":    taskType,
		"message": "task enqueued",
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
