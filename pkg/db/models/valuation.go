package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
)

// Valuation is a field officer's asset report for a project. Category
// decides which of the asset-specific field groups is meaningful.
type Valuation struct {
	ID             uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID      uuid.UUID               `gorm:"column:project_id;type:uuid;not null;index"`
	FieldOfficerID uuid.UUID               `gorm:"column:field_officer_id;type:uuid;not null;index"`
	Category       enums.ValuationCategory `gorm:"type:text;not null"`
	Status         enums.ValuationStatus   `gorm:"type:text;not null;default:draft;index"`

	Description    string           `gorm:"type:text;not null;default:''"`
	EstimatedValue *decimal.Decimal `gorm:"column:estimated_value;type:numeric(15,2)"`
	Notes          string           `gorm:"type:text;not null;default:''"`

	LandArea      *decimal.Decimal `gorm:"column:land_area;type:numeric(10,2)"`
	LandType      string           `gorm:"column:land_type;type:text;not null;default:''"`
	LandLocation  string           `gorm:"column:land_location;type:text;not null;default:''"`
	LandLatitude  *decimal.Decimal `gorm:"column:land_latitude;type:numeric(9,6)"`
	LandLongitude *decimal.Decimal `gorm:"column:land_longitude;type:numeric(9,6)"`

	BuildingArea      *decimal.Decimal `gorm:"column:building_area;type:numeric(10,2)"`
	BuildingType      string           `gorm:"column:building_type;type:text;not null;default:''"`
	BuildingLocation  string           `gorm:"column:building_location;type:text;not null;default:''"`
	BuildingLatitude  *decimal.Decimal `gorm:"column:building_latitude;type:numeric(9,6)"`
	BuildingLongitude *decimal.Decimal `gorm:"column:building_longitude;type:numeric(9,6)"`
	NumberOfFloors    *int             `gorm:"column:number_of_floors"`
	YearBuilt         *int             `gorm:"column:year_built"`

	VehicleMake         string `gorm:"column:vehicle_make;type:text;not null;default:''"`
	VehicleModel        string `gorm:"column:vehicle_model;type:text;not null;default:''"`
	VehicleYear         *int   `gorm:"column:vehicle_year"`
	VehicleRegistration string `gorm:"column:vehicle_registration_number;type:text;not null;default:''"`
	VehicleMileage      *int   `gorm:"column:vehicle_mileage"`
	VehicleCondition    string `gorm:"column:vehicle_condition;type:text;not null;default:''"`

	OtherType           string `gorm:"column:other_type;type:text;not null;default:''"`
	OtherSpecifications string `gorm:"column:other_specifications;type:text;not null;default:''"`

	RejectionReason     string  `gorm:"column:rejection_reason;type:text;not null;default:''"`
	AccessorComments    string  `gorm:"column:accessor_comments;type:text;not null;default:''"`
	SubmittedReportPath *string `gorm:"column:submitted_report_path"`
	SVComments          string  `gorm:"column:senior_valuer_comments;type:text;not null;default:''"`
	FinalReportPath     *string `gorm:"column:final_report_path"`
	MDGMComments        string  `gorm:"column:md_gm_comments;type:text;not null;default:''"`

	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	SubmittedAt *time.Time `gorm:"column:submitted_at"`
}

// CanBeEdited reports whether the field officer may still modify the
// valuation. Submitted reports stay editable for editWindow after the
// submission timestamp; rejected reports are always editable.
func (v *Valuation) CanBeEdited(now time.Time, editWindow time.Duration) bool {
	switch v.Status {
	case enums.ValuationStatusDraft, enums.ValuationStatusRejected:
		return true
	case enums.ValuationStatusSubmitted:
		if v.SubmittedAt == nil {
			return false
		}
		return now.Sub(*v.SubmittedAt) <= editWindow
	default:
		return false
	}
}
