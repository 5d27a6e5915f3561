package document

const (
	documentColumns = `uuid, owner_uuid, name, keyword, category, description, author, upload_date, file_path, status, archivematica_id, sip_uuid, updated_at`

	InsertDocument = `
		INSERT INTO documents (owner_uuid, name, keyword, category, description, author, upload_date, file_path, status, archivematica_id, sip_uuid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	SelectDocument = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE uuid = $1 AND owner_uuid = $2
	`
	SelectDocumentsByOwner = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_uuid = $1
		ORDER BY upload_date DESC
	`
	// filter conditions are appended by filterQuery
	SelectDocumentsFiltered = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_uuid = $1`
	UpdateDocumentMetadata = `
		UPDATE documents
		SET name = COALESCE($1, name),
		    keyword = COALESCE($2, keyword),
		    category = COALESCE($3, category),
		    description = COALESCE($4, description),
		    author = COALESCE($5, author),
		    updated_at = now()
		WHERE uuid = $6 AND owner_uuid = $7
		RETURNING ` + documentColumns
	// only a started document may settle
	UpdateDocumentStatus = `
		UPDATE documents
		SET status = $1,
		    updated_at = now()
		WHERE uuid = $2 AND status = 'INICIADA'
		RETURNING ` + documentColumns
	DeleteDocument = `DELETE FROM documents WHERE uuid = $1 AND owner_uuid = $2`
)
