// internal/handlers/task.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillset/skillset-backend/internal/store"
	"github.com/skillset/skillset-backend/internal/utils"
)

type TaskHandler struct {
	store store.Store
}

func NewTaskHandler(st store.Store) *TaskHandler {
	return &TaskHandler{store: st}
}

// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.store.AllTasks()
	if err != nil {
		logrus.WithError(err).Error("Task listing failed")
		utils.InternalErrorResponse(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, tasks)
}
