package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"preservation-api/internal/application/services"
	"preservation-api/internal/domain/document"
	"preservation-api/internal/domain/transfer"
)

// writeDomainError maps domain errors to a status code and a client-facing message.
// Unknown errors are logged and hidden behind a 500.
func writeDomainError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var creation *transfer.CreationError

	switch {
	case errors.As(err, &creation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Erro ao criar documento"})
		logger.Warn(op+" error", zap.Error(err))
	case errors.Is(err, transfer.ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de transferência inválido"})
	case errors.Is(err, transfer.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetros obrigatórios ausentes: nome ou caminhos"})
	case errors.Is(err, transfer.ErrTransferNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Transferência não encontrada"})
	case errors.Is(err, transfer.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Documento não encontrado"})
	case errors.Is(err, transfer.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recurso não encontrado"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
	case errors.Is(err, transfer.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": "Documento ainda não preservado"})
	case errors.Is(err, document.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Transição de status inválida"})
	case errors.Is(err, transfer.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "SIP não foi criado a tempo"})
		logger.Warn(op+" error", zap.Error(err))
	case errors.Is(err, transfer.ErrRemote):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erro ao comunicar com o Archivematica"})
		logger.Warn(op+" error", zap.Error(err))
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno"})
		logger.Error(op+" error", zap.Error(err))
	}
}

func invalidBody(c *gin.Context, details any) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": details,
	})
}
