package user

const (
	userColumns = `uuid, name, email, password_hash, role, created_at, updated_at, deleted_at`

	SelectUsers = `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at
		LIMIT 50 OFFSET ( ($1 - 1) * 50 )
	`
	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE uuid = $1 AND deleted_at IS NULL
	`
	SelectUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
	`
	InsertUser = `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	UpdateUserByUUID = `
		UPDATE users
		SET name = $1,
		    email = $2,
		    password_hash = COALESCE($3, password_hash),
		    role = COALESCE(NULLIF($4, ''), role),
		    updated_at = now()
		WHERE uuid = $5 AND deleted_at IS NULL
		RETURNING ` + userColumns
	SoftDeleteUserByUUID = `
		UPDATE users
		SET deleted_at = now()
		WHERE uuid = $1 AND deleted_at IS NULL
		RETURNING ` + userColumns
)
