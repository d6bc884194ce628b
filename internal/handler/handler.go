package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/domain"
	"github.com/vidhi-1412/Realestate/internal/service"
)

// UploadField is the multipart field carrying the file.
const UploadField = "file"

type Handler struct {
	service       service.ContentService
	log           *zap.Logger
	maxUploadSize int64
}

func NewHandler(service service.ContentService, maxUploadSize int64, log *zap.Logger) *Handler {
	return &Handler{
		service:       service,
		log:           log,
		maxUploadSize: maxUploadSize,
	}
}

// Register mounts the content API on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	r.GET("/projects", h.ListProjects)
	r.POST("/projects", h.AddProject)
	r.GET("/clients", h.ListClients)
	r.POST("/clients", h.AddClient)
	r.GET("/contact", h.ListContactSubmissions)
	r.POST("/contact", h.SubmitContact)
	r.GET("/newsletter", h.ListNewsletterSubscriptions)
	r.POST("/newsletter", h.Subscribe)

	r.POST("/upload", h.UploadImage)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) AddProject(c *gin.Context) {
	var in domain.ProjectInput
	if !h.bind(c, &in) {
		return
	}
	project, err := h.service.AddProject(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Failed to add project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
}

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.service.ListClients(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) AddClient(c *gin.Context) {
	var in domain.ClientInput
	if !h.bind(c, &in) {
		return
	}
	client, err := h.service.AddClient(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Failed to add client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "client": client})
}

func (h *Handler) ListContactSubmissions(c *gin.Context) {
	submissions, err := h.service.ListContactSubmissions(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch submissions")
		return
	}
	c.JSON(http.StatusOK, submissions)
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var in domain.ContactInput
	if !h.bind(c, &in) {
		return
	}
	submission, err := h.service.SubmitContact(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Failed to submit contact form")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

func (h *Handler) ListNewsletterSubscriptions(c *gin.Context) {
	subscriptions, err := h.service.ListNewsletterSubscriptions(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch subscriptions")
		return
	}
	c.JSON(http.StatusOK, subscriptions)
}

func (h *Handler) Subscribe(c *gin.Context) {
	var in domain.NewsletterInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.service.Subscribe(c.Request.Context(), in); err != nil {
		h.fail(c, err, "Failed to subscribe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) UploadImage(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		h.log.Warn("Failed to parse upload form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = form.RemoveAll() }()

	files := form.File[UploadField]
	switch len(files) {
	case 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	case 1:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exactly one file expected"})
		return
	}
	header := files[0]

	f, err := header.Open()
	if err != nil {
		h.log.Error("Failed to open file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Error("Failed to read file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	path, err := h.service.UploadImage(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.fail(c, err, "Upload failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Warn("Invalid request body",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// fail logs the cause and answers with a fixed message; store and upload
// details never reach the client.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrBadRequest) {
		status = http.StatusBadRequest
	}

	h.log.Error(msg,
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err))

	c.JSON(status, gin.H{"error": msg})
}
