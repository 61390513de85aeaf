package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/content/service"
)

type questionRequest struct {
	PaperType string `json:"paperType"`
	Content   string `json:"content"`
}

type questionUpdateRequest struct {
	PaperType *string `json:"paperType,omitempty"`
	Content   string  `json:"content"`
}

type flashcardRequest struct {
	Type  string `json:"type"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

type flashcardUpdateRequest struct {
	Type  *string `json:"type,omitempty"`
	Front string  `json:"front"`
	Back  string  `json:"back"`
}

type bulkRequest struct {
	PaperType string `json:"paperType"`
	Type      string `json:"type"`
	Lines     string `json:"lines"`
}

// RegisterContentRoutes mounts the question and flashcard API on r. The guard
// handlers (admin password, rate limiting) run before every mutating route.
func RegisterContentRoutes(r gin.IRouter, svc *service.Service, guard ...gin.HandlerFunc) {
	api := r.Group("/api")
	admin := api.Group("", guard...)

	api.GET("/questions", func(c *gin.Context) {
		list, err := svc.ListQuestions(c.Request.Context(), c.Query("paperType"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/questions/random", func(c *gin.Context) {
		q, err := svc.RandomQuestion(c.Request.Context(), c.Query("paperType"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	})

	admin.POST("/questions", func(c *gin.Context) {
		var req questionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q, err := svc.CreateQuestion(c.Request.Context(), req.PaperType, req.Content)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Question added successfully", "id": q.ID})
	})

	admin.POST("/questions/bulk", func(c *gin.Context) {
		var req bulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := svc.BulkCreateQuestions(c.Request.Context(), req.PaperType, req.Lines)
		if err != nil {
			writeBulkError(c, res, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Questions added successfully", "created": res.Created, "skipped": res.Skipped})
	})

	admin.PUT("/questions/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req questionUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.UpdateQuestion(c.Request.Context(), id, req.Content, req.PaperType); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully"})
	})

	admin.DELETE("/questions/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.DeleteQuestion(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
	})

	api.GET("/flashcards", func(c *gin.Context) {
		list, err := svc.ListFlashcards(c.Request.Context(), c.Query("type"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/flashcards/random", func(c *gin.Context) {
		f, err := svc.RandomFlashcard(c.Request.Context(), c.Query("type"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	})

	admin.POST("/flashcards", func(c *gin.Context) {
		var req flashcardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f, err := svc.CreateFlashcard(c.Request.Context(), req.Type, req.Front, req.Back)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Flashcard added successfully", "id": f.ID})
	})

	admin.POST("/flashcards/bulk", func(c *gin.Context) {
		var req bulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := svc.BulkCreateFlashcards(c.Request.Context(), req.Type, req.Lines)
		if err != nil {
			writeBulkError(c, res, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Flashcards added successfully", "created": res.Created, "skipped": res.Skipped})
	})

	admin.PUT("/flashcards/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req flashcardUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.UpdateFlashcard(c.Request.Context(), id, req.Front, req.Back, req.Type); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Flashcard updated successfully"})
	})

	admin.DELETE("/flashcards/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.DeleteFlashcard(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Flashcard deleted successfully"})
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// writeError maps service errors onto status codes. Backend failures were
// already logged by the service, so only a generic message goes out.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, content.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, content.ErrWritesDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Writes are disabled for the CSV store"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func writeBulkError(c *gin.Context, res service.BulkResult, err error) {
	if res.Created == 0 {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk add stopped early", "created": res.Created, "skipped": res.Skipped})
}
