package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth     = RouteApiV1 + "/auth"
	RouteLogin    = RouteAuth + "/login"
	RouteRegister = RouteAuth + "/register"

	RouteUsers = RouteApiV1 + "/users"
	RouteUser  = RouteUsers + "/:user_id"

	// documents
	RouteDocuments        = RouteApiV1 + "/documents"
	RouteDocumentsFilter  = RouteDocuments + "/filter"
	RouteDocument         = RouteDocuments + "/:document_id"
	RouteDocumentMetadata = RouteDocument + "/metadata"
	RouteDocumentDownload = RouteDocument + "/download"
	RouteDocumentStatus   = RouteDocument + "/status"

	// preservation pipeline
	RouteArchivematica      = RouteApiV1 + "/archivematica"
	RouteTransferUpload     = RouteArchivematica + "/upload"
	RouteTransferApprove    = RouteArchivematica + "/approve/:directory"
	RouteTransferStatus     = RouteArchivematica + "/status/:transfer_id"
	RouteTransferUnapproved = RouteArchivematica + "/status/unapproved"
	RouteTransferCompleted  = RouteArchivematica + "/status/completed"
	RouteTransferProcess    = RouteArchivematica + "/process/:transfer_id"
	RouteTransferDownload   = RouteArchivematica + "/download/:transfer_id"
	RouteTransferRemove     = RouteArchivematica + "/remove/:transfer_id"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
