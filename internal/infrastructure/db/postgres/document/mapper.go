package document

import (
	"fmt"

	domain "preservation-api/internal/domain/document"
)

func fromDBModel(model *Document) (*domain.Document, error) {
	st, err := domain.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", model.UUID, err)
	}

	return &domain.Document{
		UUID:            model.UUID,
		OwnerUUID:       model.OwnerUUID,
		Name:            model.Name,
		Keyword:         model.Keyword,
		Category:        model.Category,
		Description:     model.Description,
		Author:          model.Author,
		UploadDate:      model.UploadDate,
		FilePath:        model.FilePath,
		Status:          st,
		ArchivematicaID: model.ArchivematicaID,
		SIPUUID:         model.SIPUUID,

		UpdatedAt: model.UpdatedAt,
	}, nil
}

func fromDBModels(models *Documents) (domain.Documents, error) {
	ds := make(domain.Documents, len(*models))
	for idx, m := range *models {
		d, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		ds[idx] = d
	}

	return ds, nil
}
