package models

import "time"

// ImportRow is a staged copy of an output row, grouped by batch so a rerun
// can replace the whole batch.
type ImportRow struct {
	ID                    uint   `gorm:"primaryKey" json:"id"`
	BatchID               string `gorm:"index;not null" json:"batch_id"`
	Position              int    `gorm:"not null" json:"position"`
	OldRegistrationNumber string `json:"old_registration_number"`
	RegistrationNumber    string `gorm:"index" json:"registration_number"`
	Email                 string `gorm:"index" json:"email"`
	TitlePrefix           string `json:"title_prefix"`
	FirstName             string `json:"first_name"`
	MiddleName            string `json:"middle_name"`
	LastName              string `json:"last_name"`
	LastClass             string `json:"last_class"`
	YearOfLeaving         string `json:"year_of_leaving"`
	BatchYear             string `json:"batch_year"`
	Profession            string `json:"profession"`
	Company               string `json:"company"`
	Location              string `json:"location"`
	Bio                   string `json:"bio"`
	Role                  string `json:"role"`
	IsDeceased            bool   `json:"is_deceased"`
	DeceasedYear          string `json:"deceased_year"`
	Notes                 string `json:"notes"`
	CreatedAt             time.Time
}

func (ImportRow) TableName() string { return "alumni_import_rows" }

// NewImportRow copies the populated columns of r. Contact and link columns
// are always empty at this stage and are not stored.
func NewImportRow(batchID string, position int, r AlumniOutputRow) ImportRow {
	return ImportRow{
		BatchID:               batchID,
		Position:              position,
		OldRegistrationNumber: r.OldRegistrationNumber,
		RegistrationNumber:    r.RegistrationNumber,
		Email:                 r.Email,
		TitlePrefix:           r.TitlePrefix,
		FirstName:             r.FirstName,
		MiddleName:            r.MiddleName,
		LastName:              r.LastName,
		LastClass:             r.LastClass,
		YearOfLeaving:         r.YearOfLeaving,
		BatchYear:             r.BatchYear,
		Profession:            r.Profession,
		Company:               r.Company,
		Location:              r.Location,
		Bio:                   r.Bio,
		Role:                  r.Role,
		IsDeceased:            r.IsDeceased == "true",
		DeceasedYear:          r.DeceasedYear,
		Notes:                 r.Notes,
	}
}
