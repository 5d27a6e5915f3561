package rest

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"preservation-api/internal/application/ports"
	"preservation-api/internal/infrastructure/jwt"
	"preservation-api/internal/interface/api/rest/dto/transfer"
	"preservation-api/internal/interface/api/rest/middleware"
)

// TransferController exposes the raw pipeline operations next to the document flow.
type TransferController struct {
	transferService ports.TransferService
	logger          *zap.Logger
}

func NewTransferController(
	r *gin.Engine,
	transferService ports.TransferService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *TransferController {
	tc := &TransferController{
		transferService: transferService,
		logger:          logger,
	}

	g := r.Group("", middleware.AuthMiddleware(jwtService))
	g.POST(RouteTransferUpload, tc.StartTransferHandler)
	g.POST(RouteTransferApprove, tc.ApproveTransferHandler)
	g.GET(RouteTransferUnapproved, tc.UnapprovedHandler)
	g.GET(RouteTransferCompleted, tc.CompletedHandler)
	g.GET(RouteTransferStatus, tc.TransferStatusHandler)
	g.POST(RouteTransferProcess, tc.ProcessHandler)
	g.GET(RouteTransferDownload, tc.DownloadHandler)
	g.DELETE(RouteTransferRemove, tc.RemoveHandler)

	return tc
}

func (tc *TransferController) StartTransferHandler(c *gin.Context) {
	var req transfer.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err.Error())
		return
	}

	id, err := tc.transferService.Start(c.Request.Context(), transfer.ToDomainRequest(req))
	if err != nil {
		writeDomainError(c, tc.logger, "Start()", err)
		return
	}

	c.JSON(http.StatusCreated, transfer.StartResponse{UUID: id})
}

func (tc *TransferController) ApproveTransferHandler(c *gin.Context) {
	out, err := tc.transferService.Approve(c.Request.Context(), c.Param("directory"), c.Query("type"))
	if err != nil {
		writeDomainError(c, tc.logger, "Approve()", err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (tc *TransferController) TransferStatusHandler(c *gin.Context) {
	st, err := tc.transferService.Status(c.Request.Context(), c.Param("transfer_id"))
	if err != nil {
		writeDomainError(c, tc.logger, "Status()", err)
		return
	}

	c.JSON(http.StatusOK, st)
}

// ProcessHandler accepts an optional body; the pipeline default config applies without one.
func (tc *TransferController) ProcessHandler(c *gin.Context) {
	var req transfer.ProcessRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, err.Error())
			return
		}
	}

	out, err := tc.transferService.Process(c.Request.Context(), c.Param("transfer_id"), req.ProcessingConfig)
	if err != nil {
		writeDomainError(c, tc.logger, "Process()", err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (tc *TransferController) DownloadHandler(c *gin.Context) {
	id := c.Param("transfer_id")

	payload, err := tc.transferService.Download(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, tc.logger, "Download()", err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": id}))
	c.Data(http.StatusOK, "application/octet-stream", payload)
}

func (tc *TransferController) RemoveHandler(c *gin.Context) {
	msg, err := tc.transferService.Remove(c.Request.Context(), c.Param("transfer_id"))
	if err != nil {
		writeDomainError(c, tc.logger, "Remove()", err)
		return
	}

	c.JSON(http.StatusOK, transfer.RemoveResponse{Message: msg})
}

func (tc *TransferController) UnapprovedHandler(c *gin.Context) {
	st, err := tc.transferService.ListUnapproved(c.Request.Context())
	if err != nil {
		writeDomainError(c, tc.logger, "ListUnapproved()", err)
		return
	}

	c.JSON(http.StatusOK, transfer.ListResponse{Status: st})
}

func (tc *TransferController) CompletedHandler(c *gin.Context) {
	st, err := tc.transferService.ListCompleted(c.Request.Context())
	if err != nil {
		writeDomainError(c, tc.logger, "ListCompleted()", err)
		return
	}

	c.JSON(http.StatusOK, transfer.ListResponse{Status: st})
}
