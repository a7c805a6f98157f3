package v1

import (
	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/google/uuid"
)

// DTOToIssueModel преобразует DTO создания в доменную модель.
// reporter_id к этому моменту уже прошел валидацию.
func DTOToIssueModel(dto CreateIssueRequest) *models.Issue {
	issue := &models.Issue{
		Title:           dto.Title,
		Description:     dto.Description,
		Category:        dto.Category,
		SeverityLevel:   dto.SeverityLevel,
		LocationContext: dto.LocationContext,
		Latitude:        dto.Latitude,
		Longitude:       dto.Longitude,
		State:           dto.State,
		District:        dto.District,
		Block:           dto.Block,
	}
	if id, err := uuid.Parse(dto.ReporterID); err == nil {
		issue.ReporterID = &id
	}
	if dto.ImagePath != "" {
		path := dto.ImagePath
		issue.ImagePath = &path
	}
	return issue
}

// ModelToIssueResponse преобразует доменную модель в DTO для ответа
func ModelToIssueResponse(model *models.Issue) *IssueResponse {
	return &IssueResponse{
		ID:              model.ID,
		ReporterID:      model.ReporterID,
		Title:           model.Title,
		Description:     model.Description,
		Category:        model.Category,
		SeverityLevel:   model.SeverityLevel,
		LocationContext: model.LocationContext,
		Latitude:        model.Latitude,
		Longitude:       model.Longitude,
		State:           model.State,
		District:        model.District,
		Block:           model.Block,
		ImagePath:       model.ImagePath,
		Status:          string(model.Status),
		SeverityScore:   model.SeverityScore,
		CreatedAt:       model.CreatedAt,
		ResolvedAt:      model.ResolvedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// ModelsToIssueResponses преобразует слайс моделей в слайс DTO
func ModelsToIssueResponses(models []*models.Issue) []*IssueResponse {
	responses := make([]*IssueResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIssueResponse(model)
	}
	return responses
}
