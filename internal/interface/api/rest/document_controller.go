package rest

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"preservation-api/internal/application/ports"
	"preservation-api/internal/infrastructure/jwt"
	"preservation-api/internal/interface/api/rest/dto/document"
	"preservation-api/internal/interface/api/rest/middleware"
	"preservation-api/internal/interface/api/rest/validator"
)

// 10MB
const maxSize = int64(10 << 20)

type DocumentController struct {
	documentService ports.DocumentService
	logger          *zap.Logger
}

func NewDocumentController(
	r *gin.Engine,
	documentService ports.DocumentService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *DocumentController {
	dc := &DocumentController{
		documentService: documentService,
		logger:          logger,
	}

	g := r.Group("", middleware.AuthMiddleware(jwtService))
	g.POST(RouteDocuments, dc.CreateDocumentHandler)
	g.GET(RouteDocuments, dc.GetDocumentsHandler)
	g.GET(RouteDocumentsFilter, dc.FilterDocumentsHandler)
	g.GET(RouteDocument, dc.GetDocumentHandler)
	g.PATCH(RouteDocument, dc.UpdateDocumentHandler)
	g.DELETE(RouteDocument, dc.DeleteDocumentHandler)
	g.POST(RouteDocumentMetadata, dc.AttachMetadataHandler)
	g.GET(RouteDocumentDownload, dc.DownloadDocumentHandler)
	g.GET(RouteDocumentStatus, dc.DocumentStatusHandler)

	return dc
}

// CreateDocumentHandler accepts a multipart upload: the "file" part plus metadata fields.
func (dc *DocumentController) CreateDocumentHandler(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+(1<<20))

	var req document.Request
	if err := c.ShouldBind(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}
	if errs := validator.ValidateDocument(req); errs != nil {
		invalidBody(c, errs)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size <= 0 || fh.Size > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large or empty"})
		return
	}

	d, err := dc.documentService.CreateDocument(c.Request.Context(), owner, document.ToDomainMetadata(req), fh)
	if err != nil {
		writeDomainError(c, dc.logger, "CreateDocument()", err)
		return
	}

	c.JSON(http.StatusCreated, document.ToResponseDocument(*d))
}

func (dc *DocumentController) GetDocumentsHandler(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	docs, err := dc.documentService.FindDocuments(c.Request.Context(), owner)
	if err != nil {
		writeDomainError(c, dc.logger, "FindDocuments()", err)
		return
	}

	c.JSON(http.StatusOK, document.ResponseData{
		Data: document.ToResponseDocuments(docs),
	})
}

func (dc *DocumentController) FilterDocumentsHandler(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}

	var req document.FilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}
	f, errs := validator.ValidateFilter(owner, req)
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": errs})
		return
	}

	docs, err := dc.documentService.FilterDocuments(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, dc.logger, "FilterDocuments()", err)
		return
	}

	c.JSON(http.StatusOK, document.ResponseData{
		Data: document.ToResponseDocuments(docs),
	})
}

func (dc *DocumentController) GetDocumentHandler(c *gin.Context) {
	owner, id, ok := callerAndDocument(c)
	if !ok {
		return
	}

	details, err := dc.documentService.FindDocument(c.Request.Context(), id, owner)
	if err != nil {
		writeDomainError(c, dc.logger, "FindDocument()", err)
		return
	}

	c.JSON(http.StatusOK, document.ToResponseDetails(*details.Document, details.Remote))
}

func (dc *DocumentController) UpdateDocumentHandler(c *gin.Context) {
	owner, id, ok := callerAndDocument(c)
	if !ok {
		return
	}

	var req document.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}
	if errs := validator.ValidateDocumentUpdate(req); errs != nil {
		invalidBody(c, errs)
		return
	}

	d, err := dc.documentService.UpdateDocument(c.Request.Context(), id, owner, document.ToDomainPatch(req))
	if err != nil {
		writeDomainError(c, dc.logger, "UpdateDocument()", err)
		return
	}

	c.JSON(http.StatusOK, document.ToResponseDocument(*d))
}

func (dc *DocumentController) AttachMetadataHandler(c *gin.Context) {
	owner, id, ok := callerAndDocument(c)
	if !ok {
		return
	}

	var req document.MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}

	err := dc.documentService.AttachMetadata(c.Request.Context(), id, owner, document.ToDescriptiveMetadata(req))
	if err != nil {
		writeDomainError(c, dc.logger, "AttachMetadata()", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Metadados enviados com sucesso"})
}

func (dc *DocumentController) DownloadDocumentHandler(c *gin.Context) {
	owner, id, ok := callerAndDocument(c)
	if !ok {
		return
	}

	payload, d, err := dc.documentService.DownloadDocument(c.Request.Context(), id, owner)
	if err != nil {
		writeDomainError(c, dc.logger, "DownloadDocument()", err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": filepath.Base(d.FilePath),
	}))
	c.Data(http.StatusOK, "application/octet-stream", payload)
}

func (dc *DocumentController) DocumentStatusHandler(c *gin.Context) {
	owner, id, ok := callerAndDocument(c)
	if !ok {
		return
	}

	details, err := dc.documentService.DocumentStatus(c.Request.Context(), id, owner)
	if err != nil {
		writeDomainError(c, dc.logger, "DocumentStatus()", err)
		return
	}

	c.JSON(http.StatusOK, document.ToStatusResponse(*details.Document, details.Remote))
}

func (dc *DocumentController) DeleteDocumentHandler(c *gin.Context) {
	owner, id, ok := callerAndDocument(c)
	if !ok {
		return
	}

	if err := dc.documentService.DeleteDocument(c.Request.Context(), id, owner); err != nil {
		writeDomainError(c, dc.logger, "DeleteDocument()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func caller(c *gin.Context) (uuid.UUID, bool) {
	owner, ok := middleware.CallerUUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
	return owner, ok
}

func callerAndDocument(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := caller(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	ok, id := validator.IsUUID(c.Param("document_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "document_id must be a valid UUID"},
		)
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}
