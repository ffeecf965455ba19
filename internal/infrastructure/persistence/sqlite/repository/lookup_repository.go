package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/infrastructure/persistence/sqlite/model"
	"talenttrack/internal/ports"
)

type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *LookupRepository) ListGrades(ctx context.Context) ([]talent.Grade, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Grade
	if err := db.Order("rank asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query grades")
	}

	grades := make([]talent.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, mapGrade(row))
	}
	return grades, nil
}

func (r *LookupRepository) FindGradeByValue(ctx context.Context, value string) (talent.Grade, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return talent.Grade{}, err
	}

	var row model.Grade
	if err := db.Where("value = ?", value).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return talent.Grade{}, errs.Wrapf(talent.ErrUnknownLookupValue, "grade %q", value)
		}
		return talent.Grade{}, errs.Wrap(err, "query grade")
	}
	return mapGrade(row), nil
}

func (r *LookupRepository) CreateGrade(ctx context.Context, grade talent.Grade) (talent.Grade, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return talent.Grade{}, err
	}

	row := model.Grade{Value: grade.Value, Rank: grade.Rank}
	if err := db.Create(&row).Error; err != nil {
		return talent.Grade{}, errs.Wrap(err, "insert grade")
	}
	return mapGrade(row), nil
}

func (r *LookupRepository) FindSchemeByName(ctx context.Context, name string) (ports.Scheme, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Scheme{}, err
	}

	var row model.Scheme
	if err := db.Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Scheme{}, errs.Wrapf(talent.ErrUnknownLookupValue, "scheme %q", name)
		}
		return ports.Scheme{}, errs.Wrap(err, "query scheme")
	}
	return ports.Scheme{ID: row.SchemeID, Name: row.Name}, nil
}

func (r *LookupRepository) GetScheme(ctx context.Context, id uint64) (ports.Scheme, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Scheme{}, err
	}

	var row model.Scheme
	if err := db.Where("scheme_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Scheme{}, errs.Wrapf(talent.ErrUnknownLookupValue, "scheme id %d", id)
		}
		return ports.Scheme{}, errs.Wrap(err, "query scheme")
	}
	return ports.Scheme{ID: row.SchemeID, Name: row.Name}, nil
}

func (r *LookupRepository) CreateScheme(ctx context.Context, scheme ports.Scheme) (ports.Scheme, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Scheme{}, err
	}

	row := model.Scheme{Name: scheme.Name}
	if err := db.Create(&row).Error; err != nil {
		return ports.Scheme{}, errs.Wrap(err, "insert scheme")
	}
	return ports.Scheme{ID: row.SchemeID, Name: row.Name}, nil
}

func (r *LookupRepository) FindChangeTypeByValue(ctx context.Context, value string) (ports.ChangeType, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ChangeType{}, err
	}

	var row model.PromotionType
	if err := db.Where("value = ?", value).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ChangeType{}, errs.Wrapf(talent.ErrUnknownChangeType, "change type %q", value)
		}
		return ports.ChangeType{}, errs.Wrap(err, "query change type")
	}
	return ports.ChangeType{ID: row.PromotionTypeID, Value: row.Value}, nil
}

func (r *LookupRepository) GetChangeType(ctx context.Context, id uint64) (ports.ChangeType, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ChangeType{}, err
	}

	var row model.PromotionType
	if err := db.Where("promotion_type_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ChangeType{}, errs.Wrapf(talent.ErrUnknownChangeType, "change type id %d", id)
		}
		return ports.ChangeType{}, errs.Wrap(err, "query change type")
	}
	return ports.ChangeType{ID: row.PromotionTypeID, Value: row.Value}, nil
}

func (r *LookupRepository) ListChangeTypes(ctx context.Context) ([]ports.ChangeType, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.PromotionType
	if err := db.Order("promotion_type_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query change types")
	}

	items := make([]ports.ChangeType, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ChangeType{ID: row.PromotionTypeID, Value: row.Value})
	}
	return items, nil
}

func (r *LookupRepository) CreateChangeType(ctx context.Context, value string) (ports.ChangeType, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ChangeType{}, err
	}

	row := model.PromotionType{Value: value}
	if err := db.Create(&row).Error; err != nil {
		return ports.ChangeType{}, errs.Wrap(err, "insert change type")
	}
	return ports.ChangeType{ID: row.PromotionTypeID, Value: row.Value}, nil
}

func (r *LookupRepository) FindOrganisationByName(ctx context.Context, name string) (ports.Organisation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Organisation{}, err
	}

	var row model.Organisation
	if err := db.Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Organisation{}, errs.Wrapf(talent.ErrUnknownLookupValue, "organisation %q", name)
		}
		return ports.Organisation{}, errs.Wrap(err, "query organisation")
	}
	return mapOrganisation(row), nil
}

func (r *LookupRepository) CreateOrganisation(ctx context.Context, org ports.Organisation) (ports.Organisation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Organisation{}, err
	}

	row := model.Organisation{
		Name:                 org.Name,
		ParentOrganisationID: org.ParentID,
		Department:           org.Department,
		ArmsLengthBody:       org.ArmsLengthBody,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Organisation{}, errs.Wrap(err, "insert organisation")
	}
	return mapOrganisation(row), nil
}

func (r *LookupRepository) SetOrganisationParent(ctx context.Context, orgID uint64, parentID uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Organisation{}).
		Where("organisation_id = ?", orgID).
		Update("parent_organisation_id", parentID)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update organisation parent")
	}
	if result.RowsAffected == 0 {
		return errs.Wrapf(talent.ErrUnknownLookupValue, "organisation id %d", orgID)
	}
	return nil
}

func (r *LookupRepository) ListOrganisations(ctx context.Context) ([]ports.Organisation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Organisation
	if err := db.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query organisations")
	}

	items := make([]ports.Organisation, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapOrganisation(row))
	}
	return items, nil
}

func (r *LookupRepository) FindLocationByValue(ctx context.Context, value string) (ports.Location, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Location{}, err
	}

	var row model.Location
	if err := db.Where("value = ?", value).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Location{}, errs.Wrapf(talent.ErrUnknownLookupValue, "location %q", value)
		}
		return ports.Location{}, errs.Wrap(err, "query location")
	}
	return ports.Location{ID: row.LocationID, Value: row.Value, Tag: row.LocationTag}, nil
}

func (r *LookupRepository) CreateLocation(ctx context.Context, loc ports.Location) (ports.Location, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Location{}, err
	}

	row := model.Location{Value: loc.Value, LocationTag: loc.Tag}
	if err := db.Create(&row).Error; err != nil {
		return ports.Location{}, errs.Wrap(err, "insert location")
	}
	return ports.Location{ID: row.LocationID, Value: row.Value, Tag: row.LocationTag}, nil
}

func (r *LookupRepository) ListLocations(ctx context.Context) ([]ports.Location, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Location
	if err := db.Order("location_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query locations")
	}

	items := make([]ports.Location, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Location{ID: row.LocationID, Value: row.Value, Tag: row.LocationTag})
	}
	return items, nil
}

func (r *LookupRepository) FindProfessionByValue(ctx context.Context, value string) (ports.LookupValue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.LookupValue{}, err
	}

	var row model.Profession
	if err := db.Where("value = ?", value).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LookupValue{}, errs.Wrapf(talent.ErrUnknownLookupValue, "profession %q", value)
		}
		return ports.LookupValue{}, errs.Wrap(err, "query profession")
	}
	return ports.LookupValue{ID: row.ProfessionID, Value: row.Value}, nil
}

func (r *LookupRepository) CreateProfession(ctx context.Context, value string) (ports.LookupValue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.LookupValue{}, err
	}

	row := model.Profession{Value: value}
	if err := db.Create(&row).Error; err != nil {
		return ports.LookupValue{}, errs.Wrap(err, "insert profession")
	}
	return ports.LookupValue{ID: row.ProfessionID, Value: row.Value}, nil
}

func (r *LookupRepository) ListProfessions(ctx context.Context) ([]ports.LookupValue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Profession
	if err := db.Order("profession_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query professions")
	}

	items := make([]ports.LookupValue, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.LookupValue{ID: row.ProfessionID, Value: row.Value})
	}
	return items, nil
}

func (r *LookupRepository) FindDimensionValue(ctx context.Context, dim ports.Dimension, value string) (ports.LookupValue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.LookupValue{}, err
	}

	table, idColumn, err := dimensionTable(dim)
	if err != nil {
		return ports.LookupValue{}, err
	}

	var row struct {
		ID    uint64
		Value string
	}
	err = db.Table(table).
		Select(idColumn+" as id, value").
		Where("value = ?", value).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LookupValue{}, errs.Wrapf(talent.ErrUnknownLookupValue, "%s %q", dim, value)
		}
		return ports.LookupValue{}, errs.Wrapf(err, "query %s", dim)
	}
	return ports.LookupValue{ID: row.ID, Value: row.Value}, nil
}

func (r *LookupRepository) ListDimensionValues(ctx context.Context, dim ports.Dimension) ([]ports.LookupValue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	table, idColumn, err := dimensionTable(dim)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID    uint64
		Value string
	}
	err = db.Table(table).
		Select(idColumn + " as id, value").
		Order(idColumn + " asc").
		Find(&rows).Error
	if err != nil {
		return nil, errs.Wrapf(err, "query %s values", dim)
	}

	items := make([]ports.LookupValue, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.LookupValue{ID: row.ID, Value: row.Value})
	}
	return items, nil
}

func (r *LookupRepository) CreateDimensionValue(ctx context.Context, dim ports.Dimension, create ports.DimensionValueCreate) (ports.LookupValue, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.LookupValue{}, err
	}

	var id uint64
	switch dim {
	case ports.DimensionEthnicity:
		row := model.Ethnicity{Value: create.Value, BAME: create.Flag}
		if err := db.Create(&row).Error; err != nil {
			return ports.LookupValue{}, errs.Wrap(err, "insert ethnicity")
		}
		id = row.EthnicityID
	case ports.DimensionGender:
		row := model.Gender{Value: create.Value}
		if err := db.Create(&row).Error; err != nil {
			return ports.LookupValue{}, errs.Wrap(err, "insert gender")
		}
		id = row.GenderID
	case ports.DimensionSexuality:
		row := model.Sexuality{Value: create.Value}
		if err := db.Create(&row).Error; err != nil {
			return ports.LookupValue{}, errs.Wrap(err, "insert sexuality")
		}
		id = row.SexualityID
	case ports.DimensionBelief:
		row := model.Belief{Value: create.Value}
		if err := db.Create(&row).Error; err != nil {
			return ports.LookupValue{}, errs.Wrap(err, "insert belief")
		}
		id = row.BeliefID
	case ports.DimensionWorkingPattern:
		row := model.WorkingPattern{Value: create.Value}
		if err := db.Create(&row).Error; err != nil {
			return ports.LookupValue{}, errs.Wrap(err, "insert working pattern")
		}
		id = row.WorkingPatternID
	case ports.DimensionAgeRange:
		row := model.AgeRange{Value: create.Value}
		if err := db.Create(&row).Error; err != nil {
			return ports.LookupValue{}, errs.Wrap(err, "insert age range")
		}
		id = row.AgeRangeID
	case ports.DimensionMainJobType:
		row := model.MainJobType{Value: create.Value, LowerSocioEconomicBackground: create.Flag}
		if err := db.Create(&row).Error; err != nil {
			return ports.LookupValue{}, errs.Wrap(err, "insert main job type")
		}
		id = row.MainJobTypeID
	default:
		return ports.LookupValue{}, fmt.Errorf("unknown dimension %q", dim)
	}

	return ports.LookupValue{ID: id, Value: create.Value}, nil
}

// dimensionTable maps a Dimension onto its table and primary-key column.
func dimensionTable(dim ports.Dimension) (string, string, error) {
	switch dim {
	case ports.DimensionEthnicity:
		return "ethnicities", "ethnicity_id", nil
	case ports.DimensionGender:
		return "genders", "gender_id", nil
	case ports.DimensionSexuality:
		return "sexualities", "sexuality_id", nil
	case ports.DimensionBelief:
		return "beliefs", "belief_id", nil
	case ports.DimensionWorkingPattern:
		return "working_patterns", "working_pattern_id", nil
	case ports.DimensionAgeRange:
		return "age_ranges", "age_range_id", nil
	case ports.DimensionMainJobType:
		return "main_job_types", "main_job_type_id", nil
	default:
		return "", "", fmt.Errorf("unknown dimension %q", dim)
	}
}

// candidateColumn maps a Dimension onto the candidate foreign-key column.
func candidateColumn(dim ports.Dimension) (string, error) {
	switch dim {
	case ports.DimensionEthnicity, ports.DimensionGender, ports.DimensionSexuality,
		ports.DimensionBelief, ports.DimensionWorkingPattern, ports.DimensionAgeRange,
		ports.DimensionMainJobType:
		return string(dim) + "_id", nil
	default:
		return "", fmt.Errorf("unknown dimension %q", dim)
	}
}

func mapGrade(row model.Grade) talent.Grade {
	return talent.Grade{ID: row.GradeID, Value: row.Value, Rank: row.Rank}
}

func mapOrganisation(row model.Organisation) ports.Organisation {
	return ports.Organisation{
		ID:             row.OrganisationID,
		Name:           row.Name,
		ParentID:       row.ParentOrganisationID,
		Department:     row.Department,
		ArmsLengthBody: row.ArmsLengthBody,
	}
}
